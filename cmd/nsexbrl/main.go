package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nsexbrl/internal/config"
	"github.com/kailas-cloud/nsexbrl/internal/db"
	dbRedis "github.com/kailas-cloud/nsexbrl/internal/db/redis"
	"github.com/kailas-cloud/nsexbrl/internal/domain"
	"github.com/kailas-cloud/nsexbrl/internal/facts"
	logpkg "github.com/kailas-cloud/nsexbrl/internal/logger"
	"github.com/kailas-cloud/nsexbrl/internal/metrics"
	"github.com/kailas-cloud/nsexbrl/internal/repository/factcache"
	"github.com/kailas-cloud/nsexbrl/internal/staging"
	"github.com/kailas-cloud/nsexbrl/internal/taxonomy"
	chiTransport "github.com/kailas-cloud/nsexbrl/internal/transport/chi"
	gen "github.com/kailas-cloud/nsexbrl/internal/transport/generated"
	extractuc "github.com/kailas-cloud/nsexbrl/internal/usecase/extract"
	healthuc "github.com/kailas-cloud/nsexbrl/internal/usecase/health"
	"github.com/kailas-cloud/nsexbrl/internal/version"
	"github.com/kailas-cloud/nsexbrl/internal/xbrl"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting nsexbrl API server",
		zap.String("version", version.String()),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("archive_root", cfg.Taxonomy.ArchiveRoot),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	domain.KeyPrefix = cfg.Storage.KeyPrefix

	// Register extraction metrics explicitly (no init())
	metrics.Register()

	ctx := context.Background()

	index := taxonomy.New(cfg.Taxonomy.ArchiveRoot)
	stats, err := index.Stats(ctx)
	if err != nil {
		logger.Fatal("Taxonomy archive unreadable", zap.String("root", index.Root()), zap.Error(err))
	}
	logger.Info("Taxonomy archive indexed",
		zap.String("root", stats.Root),
		zap.Int("schemas", stats.Schemas),
		zap.Int("linkbases", stats.Linkbases),
		zap.String("version", stats.Version),
	)

	stager := staging.New(cfg.Taxonomy.TempDir, logger).WithActiveGauge(metrics.Default.StagedActive)
	// The engine logs its validation messages at debug level only.
	extractor := facts.New(facts.OfflineLoader(xbrl.NewFileResolver(index), logger.Named("xbrl")), logger)

	extractSvc := extractuc.New(index, stager, extractor, logger).WithObserver(metrics.Default)

	// Optional fact cache. Pass nil interface (not typed nil pointer!) when disabled.
	var cachePinger healthuc.CachePinger
	if cfg.Cache.Enabled() {
		store := mustCacheStore(ctx, cfg.Cache, logger)
		defer store.Close()
		extractSvc.WithCache(factcache.New(store, time.Duration(cfg.Cache.TTLSec)*time.Second, logger).
			WithVersion(stats.Version))
		cachePinger = store
	}

	healthSvc := healthuc.New(index, cachePinger)

	// Create chi server
	server := chiTransport.NewServer(extractSvc, healthSvc, logger).
		WithArchiveRoot(index.Root()).
		WithLocalPaths(cfg.Extract.AllowLocalPaths).
		WithMaxBodyBytes(cfg.Extract.MaxBodyBytes)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	gen.HandlerWithOptions(server, gen.ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, _ *http.Request, err error) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(gen.ErrorResponse{
				Code:    gen.ErrorResponseCodeBadRequest,
				Message: "invalid request",
			})
		},
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// mustCacheStore connects the fact cache store. Redis and Valkey share the RESP client.
func mustCacheStore(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) db.Store {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.String("driver", cfg.Driver), zap.Error(err))
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Cache store not ready", zap.Strings("addrs", cfg.Addrs), zap.Error(err))
	}
	logger.Info("Connected to cache store", zap.String("driver", cfg.Driver), zap.Strings("addrs", cfg.Addrs))
	return store
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(gen.ErrorResponse{
						Code:    gen.ErrorResponseCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
// The extraction trace rides in the request context so the log line carries the last stage.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)
			ctx, trace := domain.NewContextWithTrace(ctx)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			}
			if stage := trace.Current(); stage != domain.StageUnresolved {
				fields = append(fields,
					zap.Stringer("stage", stage),
					zap.Bool("cached", trace.Cached()),
				)
			}
			// Canonical log line, one per request
			reqLogger.Info("http_request", fields...)
		})
	}
}
