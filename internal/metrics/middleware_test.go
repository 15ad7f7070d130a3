package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newRouter(m *HTTP) *chi.Mux {
	r := chi.NewRouter()
	r.Use(m.Middleware())
	return r
}

func TestMiddleware_RecordsRequestAndBodySize(t *testing.T) {
	m := NewHTTP("test")
	r := newRouter(m)
	r.Post("/api/v1/facts", func(w http.ResponseWriter, _ *http.Request) {
		if v := testutil.ToFloat64(m.InFlight); v != 1 {
			t.Errorf("in flight = %f during request, want 1", v)
		}
		_, _ = w.Write([]byte("{}"))
	})

	body := strings.Repeat("x", 4096)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/facts", strings.NewReader(body)))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if v := testutil.ToFloat64(m.Requests.WithLabelValues("POST", "/api/v1/facts", "200")); v != 1 {
		t.Errorf("requests = %f, want 1", v)
	}
	if n := testutil.CollectAndCount(m.BodyBytes); n != 1 {
		t.Errorf("body size series = %d, want 1", n)
	}
	if v := testutil.ToFloat64(m.InFlight); v != 0 {
		t.Errorf("in flight = %f after request, want 0", v)
	}
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := NewHTTP("test")
	r := newRouter(m)
	r.Get("/api/v1/taxonomy/schemas/{ref}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusFailedDependency)
	})

	for _, ref := range []string{"a.xsd", "b.xsd", "c.xsd"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/taxonomy/schemas/"+ref, http.NoBody))
	}

	if v := testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/api/v1/taxonomy/schemas/{ref}", "424")); v != 3 {
		t.Errorf("requests under pattern = %f, want 3", v)
	}
	if n := testutil.CollectAndCount(m.BodyBytes); n != 0 {
		t.Errorf("GET without body recorded %d size series", n)
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	m := NewHTTP("test")
	r := newRouter(m)
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/unprocessable", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.WriteHeader(http.StatusInternalServerError)
	})

	tests := []struct {
		path   string
		status string
	}{
		{"/ok", "200"},
		{"/unprocessable", "422"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path, http.NoBody))
			if v := testutil.ToFloat64(m.Requests.WithLabelValues("GET", tc.path, tc.status)); v != 1 {
				t.Errorf("requests{%s,%s} = %f, want 1", tc.path, tc.status, v)
			}
		})
	}
}

func TestRouteLabel(t *testing.T) {
	if got := routeLabel(nil); got != "unmatched" {
		t.Errorf("nil context = %q", got)
	}
	if got := routeLabel(chi.NewRouteContext()); got != "unmatched" {
		t.Errorf("empty pattern = %q", got)
	}
}
