package nsexbrl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nsexbrl/internal/db"
	dbRedis "github.com/kailas-cloud/nsexbrl/internal/db/redis"
	"github.com/kailas-cloud/nsexbrl/internal/domain"
	"github.com/kailas-cloud/nsexbrl/internal/facts"
	"github.com/kailas-cloud/nsexbrl/internal/repository/factcache"
	"github.com/kailas-cloud/nsexbrl/internal/staging"
	"github.com/kailas-cloud/nsexbrl/internal/taxonomy"
	extractuc "github.com/kailas-cloud/nsexbrl/internal/usecase/extract"
	healthuc "github.com/kailas-cloud/nsexbrl/internal/usecase/health"
	"github.com/kailas-cloud/nsexbrl/internal/xbrl"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheTTL         = 24 * time.Hour
)

// Internal interfaces, swapped out in tests.
type extractUseCase interface {
	ParseFile(ctx context.Context, path string) (extractuc.Result, error)
	Parse(ctx context.Context, doc domain.InstanceDocument) (extractuc.Result, error)
	Locate(ctx context.Context, ref string) (extractuc.LocateResult, error)
}

// Client is the nsexbrl SDK entry point. It is safe for concurrent use.
type Client struct {
	store      db.Store
	extractSvc extractUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New creates a Client over a local taxonomy archive.
// The provided context is used for the cache readiness check, if a cache is configured.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{cacheTTL: defaultCacheTTL}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.archiveRoot == "" {
		return nil, errors.New("nsexbrl: taxonomy archive required (use WithArchive)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var store db.Store
	if cfg.driver != "" {
		store, err = createStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("nsexbrl: cache not ready: %w", err)
		}
	}

	return wireClient(store, cfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("nsexbrl: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("nsexbrl: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	// The engine stays silent; the SDK reports through slog.
	nop := zap.NewNop()

	index := taxonomy.New(cfg.archiveRoot)
	stager := staging.New(cfg.tempDir, nop)
	extractor := facts.New(facts.OfflineLoader(xbrl.NewFileResolver(index), nop), nop)
	extractSvc := extractuc.New(index, stager, extractor, nop)

	if p := obs.pipeline(); p != nil {
		stager.WithActiveGauge(p.StagedActive)
		extractSvc.WithObserver(p)
	}

	// Pass nil interface (not typed nil pointer!) when the cache is disabled.
	var pinger healthuc.CachePinger
	if store != nil {
		// An unreadable archive fails every extraction anyway; an empty version still caches.
		stats, _ := index.Stats(context.Background())
		extractSvc.WithCache(factcache.New(store, cfg.cacheTTL, nop).WithVersion(stats.Version))
		pinger = store
	}

	return &Client{
		store:      store,
		extractSvc: extractSvc,
		healthSvc:  healthuc.New(index, pinger),
		obs:        obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// ParseFile extracts the facts of the instance document at path.
// The file is read once and never modified.
func (c *Client) ParseFile(ctx context.Context, path string) (res Result, err error) {
	start := time.Now()
	defer func() { c.obs.observeResult("parse_file", start, res, err) }()

	r, err := c.extractSvc.ParseFile(ctx, path)
	if err != nil {
		return Result{}, fmt.Errorf("parse file: %w", err)
	}
	return resultFromUC(r), nil
}

// Parse extracts the facts of an instance document already in memory.
// name is used for the staged copy and in errors; it may be empty.
func (c *Client) Parse(ctx context.Context, name string, content []byte) (res Result, err error) {
	start := time.Now()
	defer func() { c.obs.observeResult("parse", start, res, err) }()

	r, err := c.extractSvc.Parse(ctx, domain.NewInstanceDocument(name, content))
	if err != nil {
		return Result{}, fmt.Errorf("parse: %w", err)
	}
	return resultFromUC(r), nil
}

// Locate resolves a schema reference against the archive without extracting anything.
func (c *Client) Locate(ctx context.Context, ref string) (loc Location, err error) {
	start := time.Now()
	defer func() { c.obs.observe("locate", start, err, slog.Int("candidates", len(loc.Candidates))) }()

	r, err := c.extractSvc.Locate(ctx, ref)
	if err != nil {
		return Location{}, fmt.Errorf("locate: %w", err)
	}
	return Location{Ref: r.Ref, Path: r.Path, Candidates: r.Candidates}, nil
}

// ParseFile extracts the facts of the instance document at path against
// the taxonomy archive at archiveRoot and returns them keyed by label.
func ParseFile(ctx context.Context, archiveRoot, path string) (map[string]any, error) {
	c, err := New(ctx, WithArchive(archiveRoot))
	if err != nil {
		return nil, err
	}
	defer c.Close()

	res, err := c.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return res.Facts, nil
}

func resultFromUC(r extractuc.Result) Result {
	ordered := r.Facts.Facts()
	out := make([]Fact, len(ordered))
	for i, f := range ordered {
		out[i] = Fact{Label: f.Label, QName: f.QName, Value: f.Value}
	}
	return Result{
		SchemaRef:  r.SchemaRef,
		SchemaPath: r.SchemaPath,
		Facts:      r.Facts.Map(),
		Ordered:    out,
		Cached:     r.Cached,
	}
}
