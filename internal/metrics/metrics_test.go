package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, labels ...string) float64 {
	t.Helper()
	var m dto.Metric
	if err := HTTPRequestsTotal.WithLabelValues(labels...).Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/v1/settlements/{settlementID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := counterValue(t, "GET", "/api/v1/settlements/{settlementID}", "404")

	req := httptest.NewRequest("GET", "/api/v1/settlements/abc-123", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	after := counterValue(t, "GET", "/api/v1/settlements/{settlementID}", "404")
	if after-before != 1 {
		t.Errorf("expected one request under the route pattern, got %v", after-before)
	}
}

func TestStatusWriter_Hijack(t *testing.T) {
	sw := &statusWriter{ResponseWriter: httptest.NewRecorder(), status: 200}
	if _, _, err := sw.Hijack(); err == nil {
		t.Error("expected error for a writer that cannot hijack")
	}
}
