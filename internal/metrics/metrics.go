package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "showtrack_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showtrack_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	// Metadata provider metrics
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "showtrack_upstream_request_duration_seconds",
			Help:    "Duration of metadata provider requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation", "status"},
	)

	// Importer metrics
	ShowImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showtrack_show_imports_total",
			Help: "Total number of show imports by outcome",
		},
		[]string{"outcome"}, // "imported", "not_found", "exists", "failed"
	)

	ShowImportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "showtrack_show_import_duration_seconds",
			Help:    "Duration of the full import pipeline in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// Auth metrics
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showtrack_login_attempts_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"}, // "success", "invalid_credentials", "error"
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "showtrack_active_sessions",
			Help: "Current number of live sessions",
		},
	)
)

// RecordAPIRequest records the latency and count of one API request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	APIRequestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
	APIRequestsTotal.WithLabelValues(method, route, code).Inc()
}

// RecordUpstreamRequest records one provider call. A status of 0 means the request never got a response.
func RecordUpstreamRequest(operation string, status int, duration time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	UpstreamRequestDuration.WithLabelValues(operation, code).Observe(duration.Seconds())
}

// RecordImport records the outcome and latency of one import.
func RecordImport(outcome string, duration time.Duration) {
	ShowImportsTotal.WithLabelValues(outcome).Inc()
	ShowImportDuration.Observe(duration.Seconds())
}

// RecordLogin records one login attempt.
func RecordLogin(result string) {
	LoginAttemptsTotal.WithLabelValues(result).Inc()
}

// SetActiveSessions reports the number of live sessions.
func SetActiveSessions(n int) {
	ActiveSessions.Set(float64(n))
}
