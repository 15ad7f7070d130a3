package health

import (
	"context"

	"github.com/kailas-cloud/nsexbrl/internal/taxonomy"
)

// ArchiveStatter reports taxonomy archive statistics.
type ArchiveStatter interface {
	Stats(ctx context.Context) (taxonomy.Stats, error)
}

// CachePinger checks fact cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
