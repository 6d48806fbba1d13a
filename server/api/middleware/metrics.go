package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/compose-network/bmcp/metrics"
)

// HTTPMetrics holds request counters and latencies by route
type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewHTTPMetrics creates API metrics on reg
func NewHTTPMetrics(reg *metrics.ComponentRegistry) *HTTPMetrics {
	return &HTTPMetrics{
		RequestsTotal: reg.NewCounterVec(prometheus.CounterOpts{
			Name: "requests_total",
			Help: "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),

		RequestDuration: reg.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: metrics.DurationBuckets,
		}, []string{"route"}),
	}
}

// Metrics records every request on m. Install it with Router.Use so the
// matched route template is available for the route label.
func Metrics(m *HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rw, r)

			route := routeTemplate(r)
			m.RequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rw.status)).Inc()
			m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		})
	}
}
