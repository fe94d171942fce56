package metrics

import (
	"strconv"
	"time"

	"mercator-hq/ganymede/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics tracks metrics for calls made to the JIRA REST API.
//
// Metrics:
//   - mercator_ganymede_upstream_attempts_total: attempt count by method, status class
//   - mercator_ganymede_upstream_retries_total: retry count by reason
//   - mercator_ganymede_upstream_backoff_seconds: histogram of retry delays
//
// Attempts are labelled by status class rather than exact status or path
// to keep metric cardinality bounded.
type UpstreamMetrics struct {
	attemptsTotal  *prometheus.CounterVec
	retriesTotal   *prometheus.CounterVec
	backoffSeconds prometheus.Histogram
}

// NewUpstreamMetrics creates and registers upstream metrics with the provided registry.
func NewUpstreamMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *UpstreamMetrics {
	um := &UpstreamMetrics{
		attemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_attempts_total",
				Help:      "Total number of HTTP attempts made against the JIRA API",
			},
			[]string{"method", "status_class"},
		),

		retriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_retries_total",
				Help:      "Total number of retried JIRA API attempts",
			},
			[]string{"reason"},
		),

		backoffSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_backoff_seconds",
				Help:      "Delay applied before retried JIRA API attempts",
				Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
		),
	}

	registry.MustRegister(
		um.attemptsTotal,
		um.retriesTotal,
		um.backoffSeconds,
	)

	return um
}

// RecordAttempt records a single upstream HTTP attempt. A status of 0
// indicates the attempt failed at the network level.
func (um *UpstreamMetrics) RecordAttempt(method string, status int) {
	um.attemptsTotal.WithLabelValues(method, statusClass(status)).Inc()
}

// RecordRetry records a retry with the delay that preceded it.
func (um *UpstreamMetrics) RecordRetry(reason string, delay time.Duration) {
	um.retriesTotal.WithLabelValues(reason).Inc()
	um.backoffSeconds.Observe(delay.Seconds())
}

// statusClass buckets HTTP statuses into "2xx", "4xx" and so on.
// 0 means the request never produced a response.
func statusClass(status int) string {
	if status <= 0 {
		return "network_error"
	}
	return strconv.Itoa(status/100) + "xx"
}
