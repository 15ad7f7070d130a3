package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/nsexbrl/internal/domain"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// OutcomeOK labels successful extractions.
const OutcomeOK = "ok"

// Extraction holds the pipeline metrics. The server uses Default; the SDK
// builds its own set so that it can register on a caller-provided registerer.
type Extraction struct {
	Total         *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
	StageDuration *prometheus.HistogramVec
	CacheTotal    *prometheus.CounterVec
	StagedActive  prometheus.Gauge
}

// NewExtraction creates unregistered extraction metrics under namespace.
func NewExtraction(namespace string) *Extraction {
	return &Extraction{
		Total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "extractions_total",
				Help:      "Total number of fact extractions by outcome",
			},
			[]string{"outcome"}, // "ok" or the failure kind
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "extraction_duration_seconds",
				Help:      "End-to-end extraction duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"outcome"},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "extraction_stage_duration_seconds",
				Help:      "Time spent in each extraction stage in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"stage"},
		),
		CacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fact_cache_total",
				Help:      "Fact cache hits and misses",
			},
			[]string{"result"},
		),
		StagedActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "staged_instances",
				Help:      "Staged instance copies not yet cleaned up",
			},
		),
	}
}

// Collectors returns every collector for registration.
func (m *Extraction) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.Total, m.Duration, m.StageDuration, m.CacheTotal, m.StagedActive}
}

// ObserveStage records the time spent in a stage.
func (m *Extraction) ObserveStage(stage domain.Stage, d time.Duration) {
	m.StageDuration.WithLabelValues(stage.String()).Observe(d.Seconds())
}

// ObserveOutcome records a finished extraction. err is nil on success.
func (m *Extraction) ObserveOutcome(err error, d time.Duration) {
	outcome := OutcomeOK
	if err != nil {
		outcome = domain.KindOf(err).String()
	}
	m.Total.WithLabelValues(outcome).Inc()
	m.Duration.WithLabelValues(outcome).Observe(d.Seconds())
}

// ObserveCache records a cache lookup result.
func (m *Extraction) ObserveCache(result string) {
	m.CacheTotal.WithLabelValues(result).Inc()
}

// Default is the server's extraction metric set.
var Default = NewExtraction("nsexbrl")

var registered bool

// Register registers Default and DefaultHTTP on the global registry. Must be called once from main.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(Default.Collectors()...)
	prometheus.MustRegister(DefaultHTTP.Collectors()...)
	registered = true
}
