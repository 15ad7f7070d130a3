package nsexbrl

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/nsexbrl/internal/domain"
	"github.com/kailas-cloud/nsexbrl/internal/metrics"
)

const statusOK = "ok"

type sdkMetrics struct {
	operations *prometheus.CounterVec   // by operation and "ok" or error kind
	duration   *prometheus.HistogramVec // by operation
	facts      prometheus.Histogram
	pipeline   *metrics.Extraction
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nsexbrl",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "SDK calls by operation and outcome kind.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nsexbrl",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK call duration in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
		facts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nsexbrl",
			Subsystem: "sdk",
			Name:      "facts_returned",
			Help:      "Facts per successful extraction.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		pipeline: metrics.NewExtraction("nsexbrl"),
	}

	p := m.pipeline
	for _, register := range []func() error{
		func() error { return registerOrReuse(reg, &m.operations) },
		func() error { return registerOrReuse(reg, &m.duration) },
		func() error { return registerOrReuse(reg, &m.facts) },
		func() error { return registerOrReuse(reg, &p.Total) },
		func() error { return registerOrReuse(reg, &p.Duration) },
		func() error { return registerOrReuse(reg, &p.StageDuration) },
		func() error { return registerOrReuse(reg, &p.CacheTotal) },
		func() error { return registerOrReuse(reg, &p.StagedActive) },
	} {
		if err := register(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// registerOrReuse registers c, or swaps in the collector already registered
// under the same descriptor so that several clients can share a registry.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("nsexbrl: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("nsexbrl: metric already registered with incompatible type: %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer logs and measures SDK calls. A nil observer is valid and silent.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

// pipeline returns the extraction metric set, nil when metrics are disabled.
func (o *observer) pipeline() *metrics.Extraction {
	if o == nil || o.metrics == nil {
		return nil
	}
	return o.metrics.pipeline
}

// observe records one finished call. attrs are logged on success only.
func (o *observer) observe(op string, start time.Time, err error, attrs ...slog.Attr) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.metrics != nil {
		status := statusOK
		if err != nil {
			status = domain.KindOf(err).String()
		}
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	if err != nil {
		o.logger.Warn("nsexbrl operation failed",
			slog.String("op", op),
			slog.String("kind", domain.KindOf(err).String()),
			slog.Duration("duration", dur),
			slog.Any("error", err),
		)
		return
	}
	args := make([]any, 0, len(attrs)+2)
	args = append(args, slog.String("op", op), slog.Duration("duration", dur))
	for _, a := range attrs {
		args = append(args, a)
	}
	o.logger.Debug("nsexbrl operation completed", args...)
}

// observeResult records an extraction, including its fact count.
func (o *observer) observeResult(op string, start time.Time, res Result, err error) {
	if err == nil && o != nil && o.metrics != nil {
		o.metrics.facts.Observe(float64(len(res.Ordered)))
	}
	o.observe(op, start, err,
		slog.String("schema_ref", res.SchemaRef),
		slog.Int("facts", len(res.Ordered)),
		slog.Bool("cached", res.Cached),
	)
}
