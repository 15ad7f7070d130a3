package domain

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestError_IsSentinel(t *testing.T) {
	tests := []struct {
		kind     Kind
		sentinel error
	}{
		{KindInputNotFound, ErrInputNotFound},
		{KindSchemaUndetectable, ErrSchemaUndetectable},
		{KindSchemaUnresolvable, ErrSchemaUnresolvable},
		{KindValidationEmpty, ErrValidationEmpty},
		{KindDecodeFailure, ErrDecodeFailure},
		{KindEngine, ErrEngine},
		{KindStaging, ErrStaging},
	}
	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", NewError(tc.kind, nil))
			if !errors.Is(err, tc.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tc.sentinel)
			}
			if got := KindOf(err); got != tc.kind {
				t.Errorf("KindOf = %v, want %v", got, tc.kind)
			}
		})
	}
}

func TestError_UnwrapsCause(t *testing.T) {
	err := &Error{Kind: KindInputNotFound, Path: "/x.xml", Err: fs.ErrNotExist}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("expected cause to be reachable via errors.Is")
	}
	if !errors.Is(err, ErrInputNotFound) {
		t.Error("expected sentinel to be reachable via errors.Is")
	}
	if errors.Is(err, ErrSchemaUnresolvable) {
		t.Error("unexpected match with a different sentinel")
	}
}

func TestError_MessageNamesStageAndReference(t *testing.T) {
	err := &Error{Kind: KindSchemaUnresolvable, Stage: StageLocatingSchema, Ref: "fake-schema-2099-01-01.xsd"}
	msg := err.Error()
	if !strings.HasPrefix(msg, "locating_schema: ") {
		t.Errorf("message should start with stage, got %q", msg)
	}
	if !strings.Contains(msg, "fake-schema-2099-01-01.xsd") {
		t.Errorf("message should name the reference, got %q", msg)
	}
	if !strings.Contains(msg, "found in the bundled taxonomy archive") {
		t.Errorf("message should mention the archive, got %q", msg)
	}
}

func TestKindOf_Unknown(t *testing.T) {
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Errorf("KindOf(plain) = %v, want unknown", got)
	}
	if got := KindOf(nil); got != KindUnknown {
		t.Errorf("KindOf(nil) = %v, want unknown", got)
	}
}

func TestKind_String(t *testing.T) {
	if KindSchemaUndetectable.String() != "schema_undetectable" {
		t.Errorf("unexpected name %q", KindSchemaUndetectable.String())
	}
	if Kind(200).String() != "kind(200)" {
		t.Errorf("unexpected name %q", Kind(200).String())
	}
	if KindUnknown.Sentinel() != nil {
		t.Error("unknown kind must not have a sentinel")
	}
}
