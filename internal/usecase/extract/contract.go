package extract

import (
	"context"
	"time"

	"github.com/kailas-cloud/nsexbrl/internal/domain"
	"github.com/kailas-cloud/nsexbrl/internal/staging"
)

// Locator finds schemas in the taxonomy archive.
type Locator interface {
	Locate(ctx context.Context, ref string) (string, error)
	Candidates(ctx context.Context, ref string) ([]string, error)
}

// Stager prepares a private instance copy pointing at the resolved schema.
type Stager interface {
	Stage(ctx context.Context, doc domain.InstanceDocument, schemaPath string) (*staging.Staged, error)
}

// FactExtractor runs the engine on a staged instance.
type FactExtractor interface {
	Extract(ctx context.Context, stagedPath string) (domain.FactSet, error)
}

// Cache stores FactSets of successful extractions.
type Cache interface {
	Get(ctx context.Context, content []byte, schemaPath string) (domain.FactSet, bool, error)
	Put(ctx context.Context, content []byte, schemaPath string, facts domain.FactSet) error
}

// Observer records pipeline metrics.
type Observer interface {
	ObserveStage(stage domain.Stage, d time.Duration)
	ObserveOutcome(err error, d time.Duration)
	ObserveCache(result string)
}
