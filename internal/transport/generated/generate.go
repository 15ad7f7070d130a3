package generated

//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen --config=../../../api/oapi-codegen.yaml -o api.gen.go ../../../api/openapi.yaml
