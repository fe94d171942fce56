// Package telemetry provides observability for Ganymede.
//
// # Components
//
//   - logging: structured logging via log/slog, configured from
//     TelemetryConfig, with context helpers for request correlation
//   - metrics: Prometheus metrics for service requests, upstream JIRA
//     attempts/retries and the field mapping cache
//
// # Usage
//
//	logging.Setup(&cfg.Telemetry.Logging)
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// The metrics collector implements jira.Observer, so it can be attached to
// the JIRA client directly:
//
//	client, err := jira.NewClient(jiraCfg, jira.WithObserver(collector))
package telemetry
