// Package metrics exposes Prometheus instrumentation for the HTTP
// layer and the movement ledger.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MovementMetrics counts applied and rejected stock movements by type
type MovementMetrics struct {
	recorded *prometheus.CounterVec
	failed   *prometheus.CounterVec
}

// NewMovementMetrics registers the movement counters on the given registerer
func NewMovementMetrics(reg prometheus.Registerer) *MovementMetrics {
	m := &MovementMetrics{
		recorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_movements_recorded_total",
				Help: "Number of successfully recorded stock movements",
			},
			[]string{"movement_type"},
		),
		failed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_movements_failed_total",
				Help: "Number of rejected stock movements",
			},
			[]string{"movement_type"},
		),
	}
	reg.MustRegister(m.recorded, m.failed)
	return m
}

// MovementRecorded increments the success counter for a movement type
func (m *MovementMetrics) MovementRecorded(movementType string) {
	m.recorded.WithLabelValues(movementType).Inc()
}

// MovementFailed increments the failure counter for a movement type
func (m *MovementMetrics) MovementFailed(movementType string) {
	m.failed.WithLabelValues(movementType).Inc()
}

// HTTPMetrics instruments request counts and latencies per route
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the HTTP metrics on the given registerer
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency by method and route",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// Middleware returns a gin middleware that records request metrics.
// The route template is used as the label, not the raw path, so
// /inventory/items/:id stays one series per route.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		m.requests.WithLabelValues(method, route, status).Inc()
		m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler returns a gin handler serving the metrics endpoint
func Handler(gatherer prometheus.Gatherer) gin.HandlerFunc {
	h := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
