// Package staging prepares a private, self-contained copy of an instance document
// whose schemaRef points at the resolved archive schema through an absolute file URI.
//
// The archive itself is never written: the copy lives in an isolated temporary
// directory outside of it. Relative imports inside the schema and its linkbases
// keep resolving from the schema's real location because the schema is not moved.
package staging

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nsexbrl/internal/domain"
	"github.com/kailas-cloud/nsexbrl/internal/schemaref"
)

const dirPrefix = "nsexbrl-"

// Stager writes staged instance copies under a temporary root.
type Stager struct {
	tempRoot string
	logger   *zap.Logger
	active   prometheus.Gauge
}

// New creates a Stager. An empty tempRoot means os.TempDir().
func New(tempRoot string, logger *zap.Logger) *Stager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Stager{tempRoot: tempRoot, logger: logger}
}

// WithActiveGauge tracks the number of staged copies that have not been closed yet.
func (s *Stager) WithActiveGauge(g prometheus.Gauge) *Stager {
	s.active = g
	return s
}

// Staged is a staged instance copy. Close removes it; Close is safe to call more than once.
type Staged struct {
	dir    string
	path   string
	once   sync.Once
	err    error
	onDone func()
}

// Path returns the staged instance path handed to the engine.
func (st *Staged) Path() string { return st.path }

// Dir returns the private directory holding the copy.
func (st *Staged) Dir() string { return st.dir }

// Close removes the staging directory and everything in it.
func (st *Staged) Close() error {
	if st == nil {
		return nil
	}
	st.once.Do(func() {
		if err := os.RemoveAll(st.dir); err != nil {
			st.err = fmt.Errorf("remove staging dir %s: %w", st.dir, err)
		}
		if st.onDone != nil {
			st.onDone()
		}
	})
	return st.err
}

// FileURI returns the absolute file:// URI of a local path.
func FileURI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("absolute path of %s: %w", path, err)
	}
	p := filepath.ToSlash(abs)
	if p[0] != '/' {
		// Windows drive paths become file:///C:/...
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String(), nil
}

// Stage rewrites doc's schemaRef to the absolute URI of schemaPath and writes the
// result into a fresh directory named with a random UUID. On error nothing is left behind.
func (s *Stager) Stage(ctx context.Context, doc domain.InstanceDocument, schemaPath string) (*Staged, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewError(domain.KindStaging, err)
	}

	uri, err := FileURI(schemaPath)
	if err != nil {
		return nil, domain.NewError(domain.KindStaging, err)
	}

	content, err := schemaref.Rewrite(doc.Content, uri)
	if err != nil {
		switch {
		case errors.Is(err, schemaref.ErrInvalidUTF8):
			return nil, domain.NewError(domain.KindDecodeFailure, err)
		case errors.Is(err, schemaref.ErrNotFound):
			return nil, domain.NewError(domain.KindSchemaUndetectable, err)
		default:
			return nil, domain.NewError(domain.KindStaging, err)
		}
	}

	dir, err := os.MkdirTemp(s.tempRoot, dirPrefix+uuid.NewString()+"-")
	if err != nil {
		return nil, domain.NewError(domain.KindStaging, fmt.Errorf("create staging dir: %w", err))
	}

	st := &Staged{dir: dir, path: filepath.Join(dir, doc.Name())}
	if err := os.WriteFile(st.path, content, 0o600); err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			s.logger.Warn("Failed to remove partial staging dir", zap.String("dir", dir), zap.Error(rmErr))
		}
		return nil, domain.NewError(domain.KindStaging, fmt.Errorf("write staged instance: %w", err))
	}

	if s.active != nil {
		s.active.Inc()
		st.onDone = s.active.Dec
	}

	s.logger.Debug("Instance staged",
		zap.String("staged_path", st.path),
		zap.String("schema_uri", uri),
	)
	return st, nil
}
