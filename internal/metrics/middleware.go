package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTP holds the transport metrics.
type HTTP struct {
	Duration  *prometheus.HistogramVec
	Requests  *prometheus.CounterVec
	BodyBytes *prometheus.HistogramVec
	InFlight  prometheus.Gauge
}

// NewHTTP creates unregistered HTTP metrics under namespace.
func NewHTTP(namespace string) *HTTP {
	return &HTTP{
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "path", "status"},
		),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		// Filings range from a few KiB to tens of MiB.
		BodyBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_body_bytes",
				Help:      "Declared request body size in bytes",
				Buckets:   prometheus.ExponentialBuckets(1<<10, 4, 9),
			},
			[]string{"path"},
		),
		InFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Requests currently being served",
			},
		),
	}
}

// Collectors returns every collector for registration.
func (m *HTTP) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.Duration, m.Requests, m.BodyBytes, m.InFlight}
}

// Middleware records duration, count, body size and concurrency per chi route pattern.
func (m *HTTP) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.InFlight.Inc()
			defer m.InFlight.Dec()

			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			// The pattern is only complete after routing.
			path := routeLabel(chi.RouteContext(r.Context()))
			status := strconv.Itoa(ww.status)

			m.Duration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
			m.Requests.WithLabelValues(r.Method, path, status).Inc()
			if r.ContentLength > 0 {
				m.BodyBytes.WithLabelValues(path).Observe(float64(r.ContentLength))
			}
		})
	}
}

// DefaultHTTP is the server's transport metric set.
var DefaultHTTP = NewHTTP("nsexbrl")

// Middleware is DefaultHTTP.Middleware.
func Middleware() func(next http.Handler) http.Handler {
	return DefaultHTTP.Middleware()
}

// routeLabel keeps label cardinality bounded: unmatched requests share one label.
func routeLabel(rctx *chi.Context) string {
	if rctx == nil {
		return "unmatched"
	}
	if p := rctx.RoutePattern(); p != "" {
		return p
	}
	return "unmatched"
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b) //nolint:wrapcheck // delegating to underlying ResponseWriter
}
