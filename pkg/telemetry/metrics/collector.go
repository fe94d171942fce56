package metrics

import (
	"time"

	"mercator-hq/ganymede/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector is the main orchestrator for all Prometheus metrics in Ganymede.
// It manages metric registration and provides a unified recording interface
// for the HTTP layer and the JIRA client.
//
// Collector satisfies the jira.Observer interface through its
// UpstreamAttempt, UpstreamRetry and FieldCache methods.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	requestMetrics  *RequestMetrics
	upstreamMetrics *UpstreamMetrics
	cacheMetrics    *CacheMetrics
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh private registry is
// created and seeded with the standard Go runtime and process collectors.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "mercator"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "ganymede"
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		// Proxy latency is dominated by the JIRA round trip plus retries.
		cfg.RequestDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.requestMetrics = NewRequestMetrics(cfg, registry)
	c.upstreamMetrics = NewUpstreamMetrics(cfg, registry)
	c.cacheMetrics = NewCacheMetrics(cfg, registry)

	return c
}

// RecordRequest records metrics for a completed proxy request.
func (c *Collector) RecordRequest(route, method, status string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.requestMetrics.RecordRequest(route, method, status, duration)
}

// RequestStarted marks a proxy request as in flight.
func (c *Collector) RequestStarted() {
	if !c.config.Enabled {
		return
	}

	c.requestMetrics.RequestStarted()
}

// RequestFinished marks a proxy request as finished.
func (c *Collector) RequestFinished() {
	if !c.config.Enabled {
		return
	}

	c.requestMetrics.RequestFinished()
}

// UpstreamAttempt records one HTTP attempt against the JIRA API.
// The path is accepted for interface compatibility but not used as a
// label, to keep cardinality bounded.
func (c *Collector) UpstreamAttempt(method, path string, status int) {
	if !c.config.Enabled {
		return
	}

	c.upstreamMetrics.RecordAttempt(method, status)
}

// UpstreamRetry records a retried JIRA attempt and its backoff delay.
func (c *Collector) UpstreamRetry(reason string, delay time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.upstreamMetrics.RecordRetry(reason, delay)
}

// FieldCache records a field-mapping cache hit or miss.
func (c *Collector) FieldCache(hit bool) {
	if !c.config.Enabled {
		return
	}

	if hit {
		c.cacheMetrics.RecordHit()
	} else {
		c.cacheMetrics.RecordMiss()
	}
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
