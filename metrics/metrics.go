// Package metrics provides Prometheus metrics for the application.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printflow_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "printflow_http_request_duration_seconds",
			Help:    "Time taken to serve HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Wizard metrics
	WizardTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printflow_wizard_transitions_total",
			Help: "Total number of configurator step changes",
		},
		[]string{"from", "to"},
	)

	WizardSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "printflow_wizard_sessions_active",
			Help: "Number of open configurator sessions",
		},
	)

	DesignsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printflow_designs_saved_total",
			Help: "Total number of saved designs",
		},
		[]string{"mode"},
	)

	DesignsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "printflow_designs_deleted_total",
			Help: "Total number of deleted designs",
		},
	)

	// Catalog metrics
	MaterialDetailFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printflow_material_detail_fetches_total",
			Help: "Total number of material classification lookups",
		},
		[]string{"status"},
	)

	MaterialDetailDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "printflow_material_detail_duration_seconds",
			Help:    "Time taken to load material classifications",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)
)

// RecordRequest records a served HTTP request.
func RecordRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordTransition records a configurator step change.
func RecordTransition(from, to string) {
	WizardTransitions.WithLabelValues(from, to).Inc()
}

// RecordMaterialDetail records a material classification lookup.
func RecordMaterialDetail(err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	MaterialDetailFetches.WithLabelValues(status).Inc()
	MaterialDetailDuration.Observe(duration.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for measuring duration
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
