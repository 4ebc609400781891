package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "delivery_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route", "status"},
	)

	orderOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_order_operations_total",
			Help: "Basket and order operations by outcome",
		},
		[]string{"operation", "status"},
	)

	eventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_events_handled_total",
			Help: "Order events processed by the notifier",
		},
		[]string{"event_type", "status"},
	)
)

// Middleware records request count and latency per route pattern, so path
// parameters do not blow up label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		code := strconv.Itoa(status)
		httpRequestsTotal.WithLabelValues(r.Method, route, code).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route, code).Observe(time.Since(start).Seconds())
	})
}

// RecordOrderOperation counts one basket or order operation under status,
// e.g. "success", "rejected" or "error".
func RecordOrderOperation(operation, status string) {
	orderOperations.WithLabelValues(operation, status).Inc()
}

func RecordEvent(eventType, status string) {
	eventsHandled.WithLabelValues(eventType, status).Inc()
}

func Handler() http.Handler { return promhttp.Handler() }
