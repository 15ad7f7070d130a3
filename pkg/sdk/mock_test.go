package nsexbrl

import (
	"context"

	"github.com/kailas-cloud/nsexbrl/internal/domain"
	extractuc "github.com/kailas-cloud/nsexbrl/internal/usecase/extract"
	healthuc "github.com/kailas-cloud/nsexbrl/internal/usecase/health"
)

// --- extractUseCase mock ---

type mockExtractUC struct {
	parseFileFn func(ctx context.Context, path string) (extractuc.Result, error)
	parseFn     func(ctx context.Context, doc domain.InstanceDocument) (extractuc.Result, error)
	locateFn    func(ctx context.Context, ref string) (extractuc.LocateResult, error)
}

func (m *mockExtractUC) ParseFile(ctx context.Context, path string) (extractuc.Result, error) {
	return m.parseFileFn(ctx, path)
}

func (m *mockExtractUC) Parse(ctx context.Context, doc domain.InstanceDocument) (extractuc.Result, error) {
	return m.parseFn(ctx, doc)
}

func (m *mockExtractUC) Locate(ctx context.Context, ref string) (extractuc.LocateResult, error) {
	return m.locateFn(ctx, ref)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }
