package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nsexbrl/internal/domain"
	logpkg "github.com/kailas-cloud/nsexbrl/internal/logger"
	"github.com/kailas-cloud/nsexbrl/internal/metrics"
	"github.com/kailas-cloud/nsexbrl/internal/schemaref"
	"github.com/kailas-cloud/nsexbrl/internal/taxonomy"
)

// Result is a finished extraction.
type Result struct {
	SchemaRef  string
	SchemaPath string
	Facts      domain.FactSet
	Cached     bool
}

// LocateResult is the archive resolution of a schema reference.
type LocateResult struct {
	Ref        string
	Path       string
	Candidates []string
}

// Service runs the extraction pipeline:
// schemaRef scan -> archive lookup -> staging -> engine -> facts.
type Service struct {
	index     Locator
	stager    Stager
	extractor FactExtractor
	cache     Cache
	observer  Observer
	logger    *zap.Logger
}

// New creates an extraction service.
func New(index Locator, stager Stager, extractor FactExtractor, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		index:     index,
		stager:    stager,
		extractor: extractor,
		logger:    logger,
	}
}

// WithCache enables the fact cache. Nil disables it.
func (s *Service) WithCache(c Cache) *Service {
	s.cache = c
	return s
}

// WithObserver enables metrics.
func (s *Service) WithObserver(o Observer) *Service {
	s.observer = o
	return s
}

// ParseFile reads the instance at path and extracts its facts.
func (s *Service) ParseFile(ctx context.Context, path string) (Result, error) {
	content, err := readInstance(path)
	if err != nil {
		s.finish(ctx, domain.TraceFromContext(ctx), time.Now(), err)
		return Result{}, err
	}
	return s.Parse(ctx, domain.NewInstanceDocument(path, content))
}

func readInstance(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindInputNotFound, Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &domain.Error{Kind: domain.KindInputNotFound, Path: path, Err: errors.New("is a directory")}
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindInputNotFound, Path: path, Err: err}
	}
	return content, nil
}

// Parse extracts the facts of an already loaded instance.
// Every failure is a *domain.Error carrying the stage it happened in.
func (s *Service) Parse(ctx context.Context, doc domain.InstanceDocument) (Result, error) {
	start := time.Now()
	trace := domain.TraceFromContext(ctx)
	if trace == nil {
		ctx, trace = domain.NewContextWithTrace(ctx)
	}

	res, err := s.parse(ctx, trace, doc)
	s.finish(ctx, trace, start, err)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (s *Service) parse(ctx context.Context, trace *domain.Trace, doc domain.InstanceDocument) (Result, error) {
	trace.Enter(domain.StageScanningSchemaRef)
	ref, ok := schemaref.Extract(doc.Content)
	if !ok {
		return Result{}, &domain.Error{Kind: domain.KindSchemaUndetectable, Stage: domain.StageScanningSchemaRef, Path: doc.Path}
	}
	doc.SchemaRef = ref

	trace.Enter(domain.StageLocatingSchema)
	schemaPath, err := s.index.Locate(ctx, ref)
	if err != nil {
		// An unreadable archive is reported like a missing schema; the cause tells them apart.
		return Result{}, &domain.Error{Kind: domain.KindSchemaUnresolvable, Stage: domain.StageLocatingSchema, Ref: ref, Path: doc.Path, Err: err}
	}

	if facts, ok := s.cached(ctx, doc.Content, schemaPath); ok {
		trace.MarkCached()
		return Result{SchemaRef: ref, SchemaPath: schemaPath, Facts: facts, Cached: true}, nil
	}

	trace.Enter(domain.StageStaged)
	staged, err := s.stager.Stage(ctx, doc, schemaPath)
	if err != nil {
		return Result{}, tag(err, domain.StageStaged, ref, doc.Path)
	}
	defer func() {
		if cerr := staged.Close(); cerr != nil {
			logpkg.FromContext(ctx, s.logger).Warn("Failed to clean up staged instance",
				zap.String("dir", staged.Dir()),
				zap.Error(cerr),
			)
		}
	}()

	trace.Enter(domain.StageValidating)
	facts, err := s.extractor.Extract(ctx, staged.Path())
	if err != nil {
		return Result{}, tag(err, domain.StageValidating, ref, doc.Path)
	}

	s.store(ctx, doc.Content, schemaPath, facts)
	return Result{SchemaRef: ref, SchemaPath: schemaPath, Facts: facts}, nil
}

// Locate resolves a schema reference without extracting anything.
func (s *Service) Locate(ctx context.Context, ref string) (LocateResult, error) {
	candidates, err := s.index.Candidates(ctx, ref)
	if err != nil {
		return LocateResult{}, &domain.Error{Kind: domain.KindSchemaUnresolvable, Stage: domain.StageLocatingSchema, Ref: ref, Err: err}
	}
	if len(candidates) == 0 {
		return LocateResult{}, &domain.Error{
			Kind:  domain.KindSchemaUnresolvable,
			Stage: domain.StageLocatingSchema,
			Ref:   ref,
			Err:   fmt.Errorf("%w: %s", taxonomy.ErrNotFound, ref),
		}
	}
	return LocateResult{Ref: ref, Path: candidates[0], Candidates: candidates}, nil
}

func (s *Service) cached(ctx context.Context, content []byte, schemaPath string) (domain.FactSet, bool) {
	if s.cache == nil {
		return domain.FactSet{}, false
	}
	facts, ok, err := s.cache.Get(ctx, content, schemaPath)
	switch {
	case err != nil:
		s.observeCache(metrics.CacheError)
		logpkg.FromContext(ctx, s.logger).Warn("Fact cache lookup failed", zap.Error(err))
		return domain.FactSet{}, false
	case !ok:
		s.observeCache(metrics.CacheMiss)
		return domain.FactSet{}, false
	default:
		s.observeCache(metrics.CacheHit)
		return facts, true
	}
}

func (s *Service) store(ctx context.Context, content []byte, schemaPath string, facts domain.FactSet) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, content, schemaPath, facts); err != nil {
		logpkg.FromContext(ctx, s.logger).Warn("Fact cache store failed", zap.Error(err))
	}
}

func (s *Service) observeCache(result string) {
	if s.observer != nil {
		s.observer.ObserveCache(result)
	}
}

func (s *Service) finish(ctx context.Context, trace *domain.Trace, start time.Time, err error) {
	if err != nil {
		trace.Enter(domain.StageFailed)
	} else {
		trace.Enter(domain.StageExtracted)
	}

	if s.observer != nil {
		for _, st := range trace.Timings() {
			if st.Stage == domain.StageUnresolved {
				continue
			}
			s.observer.ObserveStage(st.Stage, st.Duration)
		}
		s.observer.ObserveOutcome(err, time.Since(start))
	}

	log := logpkg.FromContext(ctx, s.logger)
	if err != nil {
		log.Debug("Extraction failed",
			zap.Stringer("kind", domain.KindOf(err)),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	log.Debug("Extraction finished",
		zap.Bool("cached", trace.Cached()),
		zap.Duration("duration", time.Since(start)),
	)
}

// tag attaches the failing stage and the references to a pipeline error.
// Errors that are not *domain.Error are reported as engine failures.
func tag(err error, stage domain.Stage, ref, path string) error {
	var de *domain.Error
	if !errors.As(err, &de) {
		return &domain.Error{Kind: domain.KindEngine, Stage: stage, Ref: ref, Path: path, Err: err}
	}
	out := *de
	if out.Stage == domain.StageUnresolved {
		out.Stage = stage
	}
	if out.Ref == "" {
		out.Ref = ref
	}
	if out.Path == "" {
		out.Path = path
	}
	return &out
}
