// Package metrics provides Prometheus instrumentation for Ganymede.
//
// The Collector owns a private registry and three metric groups:
//
//   - Request metrics: counts and latency histograms for proxy endpoints
//   - Upstream metrics: JIRA attempt counts, retries, and backoff delays
//   - Cache metrics: field-mapping cache hits and misses
//
// The Collector implements the jira.Observer interface, so it can be
// attached directly to the JIRA client:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	client, err := jira.NewClient(jiraCfg, jira.WithObserver(collector))
//
// All recording methods are no-ops when metrics are disabled in config.
package metrics
