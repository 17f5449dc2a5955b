package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestLifecycle(t *testing.T) {
	lifecycle := NewLifecycle(prometheus.NewRegistry())

	lifecycle.ObserveTransition("MEASURED", "PAYMENT_PENDING")
	lifecycle.ObserveTransition("MEASURED", "PAYMENT_PENDING")
	lifecycle.ObservePayment("auto", "failed")

	assert.Equal(t, float64(2), testutil.ToFloat64(lifecycle.Transitions.WithLabelValues("MEASURED", "PAYMENT_PENDING")))
	assert.Equal(t, float64(1), testutil.ToFloat64(lifecycle.PaymentOutcomes.WithLabelValues("auto", "failed")))
}

func TestNilLifecycle(t *testing.T) {
	var lifecycle *Lifecycle

	assert.NotPanics(t, func() {
		lifecycle.ObserveTransition("REQUESTED", "ASSIGNED")
		lifecycle.ObservePayment("retry", "succeeded")
	})
}

func TestServerMetricsUsesRoutePattern(t *testing.T) {
	serverMetrics := NewServerMetrics(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(serverMetrics.Middleware)
	r.Get("/api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/api/orders/1", "/api/orders/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(serverMetrics.Requests.WithLabelValues("/api/orders/{id}", "404")))
}
