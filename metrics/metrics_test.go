package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/v1/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(HTTPRequestTotals.WithLabelValues("GET", "/v1/sessions/{id}", "404"))

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/sessions/"+id, nil))
	}

	after := testutil.ToFloat64(HTTPRequestTotals.WithLabelValues("GET", "/v1/sessions/{id}", "404"))
	if after-before != 3 {
		t.Errorf("Expected 3 requests under the route pattern, got %v", after-before)
	}
}

func TestMetricsMiddlewareUnmatched(t *testing.T) {
	handler := Metrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	before := testutil.ToFloat64(HTTPRequestTotals.WithLabelValues("GET", "unmatched", "200"))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	after := testutil.ToFloat64(HTTPRequestTotals.WithLabelValues("GET", "unmatched", "200"))

	if after-before != 1 {
		t.Errorf("Expected 1 unmatched request, got %v", after-before)
	}
	if v := testutil.ToFloat64(HTTPRequestInFlight); v != 0 {
		t.Errorf("Expected no requests in flight, got %v", v)
	}
}

func TestDomainMetricsRegistered(t *testing.T) {
	OrdersPlaced.Inc()
	PromoApplications.WithLabelValues("applied").Inc()
	InteractionWarnings.WithLabelValues("high").Inc()

	if n := testutil.CollectAndCount(PromoApplications); n < 1 {
		t.Errorf("Expected promo series, got %d", n)
	}
	if v := testutil.ToFloat64(OrdersPlaced); v < 1 {
		t.Errorf("Expected orders counter to move, got %v", v)
	}
}
