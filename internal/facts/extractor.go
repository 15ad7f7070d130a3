// Package facts turns a staged instance into a FactSet by running the XBRL engine.
package facts

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nsexbrl/internal/domain"
	logpkg "github.com/kailas-cloud/nsexbrl/internal/logger"
	"github.com/kailas-cloud/nsexbrl/internal/xbrl"
)

// LabelLang is the language labels are looked up in.
const LabelLang = "en"

// Engine loads one instance. Every engine is closed after a single extraction.
type Engine interface {
	Load(ctx context.Context, path string) (*xbrl.Model, error)
	Close() error
}

// Loader creates a fresh engine per extraction.
type Loader interface {
	NewEngine() Engine
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func() Engine

// NewEngine implements Loader.
func (f LoaderFunc) NewEngine() Engine { return f() }

// OfflineLoader creates validating engines that resolve only through resolver.
// Engine output goes to logger at debug level.
func OfflineLoader(resolver xbrl.Resolver, logger *zap.Logger) Loader {
	return LoaderFunc(func() Engine {
		return xbrl.NewEngine(xbrl.Options{
			Validate: true,
			Resolver: resolver,
			Logger:   logger,
		})
	})
}

// Extractor converts loaded models into FactSets.
type Extractor struct {
	loader Loader
	logger *zap.Logger
}

// New creates an Extractor.
func New(loader Loader, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{loader: loader, logger: logger}
}

// Extract loads the staged instance and flattens its facts.
// A missing, unreadable or fact-less model is a Validation-empty error;
// only cancellation and engine lifecycle failures are Engine errors.
// The engine and model are released on every path.
func (x *Extractor) Extract(ctx context.Context, stagedPath string) (_ domain.FactSet, err error) {
	log := logpkg.FromContext(ctx, x.logger)
	engine := x.loader.NewEngine()
	defer func() {
		cerr := engine.Close()
		if cerr == nil {
			return
		}
		if err != nil {
			log.Warn("Failed to close engine", zap.Error(cerr))
			return
		}
		err = domain.NewError(domain.KindEngine, fmt.Errorf("close engine: %w", cerr))
	}()

	model, err := engine.Load(ctx, stagedPath)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, xbrl.ErrClosed):
		return domain.FactSet{}, domain.NewError(domain.KindEngine, err)
	case err != nil:
		// A staged copy the engine cannot read as an instance yields no facts.
		return domain.FactSet{}, domain.NewError(domain.KindValidationEmpty, fmt.Errorf("load %s: %w", stagedPath, err))
	}
	if model == nil {
		return domain.FactSet{}, domain.NewError(domain.KindValidationEmpty, errors.New("engine returned no model"))
	}
	defer model.Close()

	msgs := model.Errors()
	for _, v := range msgs {
		log.Warn("Validation message",
			zap.String("code", v.Code),
			zap.Stringer("severity", v.Severity),
			zap.String("message", v.Message),
		)
	}

	facts := model.Facts()
	if len(facts) == 0 {
		return domain.FactSet{}, domain.NewError(domain.KindValidationEmpty, emptyCause(msgs))
	}

	out := make([]domain.Fact, 0, len(facts))
	for _, f := range facts {
		out = append(out, domain.Fact{
			Label: LabelFor(f),
			QName: f.Name.String(),
			Value: f.Value(),
		})
	}
	log.Debug("Facts extracted", zap.Int("facts", len(out)), zap.Int("validation_messages", len(msgs)))
	return domain.NewFactSet(out), nil
}

// LabelFor returns the English standard label of the fact's concept, then the
// English verbose label, then the fact's QName.
func LabelFor(f *xbrl.Fact) string {
	if l := f.Concept.Label(xbrl.RoleLabel, LabelLang); l != "" {
		return l
	}
	if l := f.Concept.Label(xbrl.RoleVerboseLabel, LabelLang); l != "" {
		return l
	}
	return f.Name.String()
}

func emptyCause(msgs []xbrl.ValidationError) error {
	if len(msgs) == 0 {
		return errors.New("model contains no facts")
	}
	const limit = 3
	errs := make([]error, 0, limit+1)
	for i, v := range msgs {
		if i == limit {
			errs = append(errs, fmt.Errorf("and %d more", len(msgs)-limit))
			break
		}
		errs = append(errs, errors.New(v.String()))
	}
	return fmt.Errorf("model contains no facts: %w", errors.Join(errs...))
}
