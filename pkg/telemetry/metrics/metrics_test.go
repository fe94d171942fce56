package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mercator-hq/ganymede/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:                true,
		Namespace:              "test",
		Subsystem:              "metrics",
		RequestDurationBuckets: []float64{0.1, 0.5, 1.0, 5.0},
	}
}

func TestNewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector == nil {
		t.Fatal("expected non-nil collector")
	}
	if collector.Registry() != registry {
		t.Error("collector registry not set correctly")
	}
}

func TestNewCollectorDefaults(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}

	collector := NewCollector(cfg, nil)

	if cfg.Namespace != "mercator" {
		t.Errorf("namespace = %q, want %q", cfg.Namespace, "mercator")
	}
	if cfg.Subsystem != "ganymede" {
		t.Errorf("subsystem = %q, want %q", cfg.Subsystem, "ganymede")
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		t.Error("expected default duration buckets")
	}
	if collector.Registry() == nil {
		t.Error("expected a registry to be created")
	}
}

func TestRecordRequest(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordRequest("/api/v1/jira/search", "GET", "200", 120*time.Millisecond)
	collector.RecordRequest("/api/v1/jira/search", "GET", "200", 80*time.Millisecond)
	collector.RecordRequest("/api/v1/jira/issues", "POST", "502", 500*time.Millisecond)

	count := testutil.ToFloat64(collector.requestMetrics.requestsTotal.WithLabelValues("/api/v1/jira/search", "GET", "200"))
	if count != 2 {
		t.Errorf("search request count = %v, want 2", count)
	}

	count = testutil.ToFloat64(collector.requestMetrics.requestsTotal.WithLabelValues("/api/v1/jira/issues", "POST", "502"))
	if count != 1 {
		t.Errorf("issues request count = %v, want 1", count)
	}
}

func TestUpstreamAttempt(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.UpstreamAttempt("GET", "/rest/api/3/search", 200)
	collector.UpstreamAttempt("GET", "/rest/api/3/search", 503)
	collector.UpstreamAttempt("GET", "/rest/api/3/search", 503)
	collector.UpstreamAttempt("POST", "/rest/api/3/issue", 0)

	count := testutil.ToFloat64(collector.upstreamMetrics.attemptsTotal.WithLabelValues("GET", "2xx"))
	if count != 1 {
		t.Errorf("2xx attempt count = %v, want 1", count)
	}

	count = testutil.ToFloat64(collector.upstreamMetrics.attemptsTotal.WithLabelValues("GET", "5xx"))
	if count != 2 {
		t.Errorf("5xx attempt count = %v, want 2", count)
	}

	count = testutil.ToFloat64(collector.upstreamMetrics.attemptsTotal.WithLabelValues("POST", "network_error"))
	if count != 1 {
		t.Errorf("network_error attempt count = %v, want 1", count)
	}
}

func TestUpstreamRetry(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.UpstreamRetry("rate_limited", 2*time.Second)
	collector.UpstreamRetry("server_error", 500*time.Millisecond)
	collector.UpstreamRetry("server_error", time.Second)

	count := testutil.ToFloat64(collector.upstreamMetrics.retriesTotal.WithLabelValues("server_error"))
	if count != 2 {
		t.Errorf("server_error retry count = %v, want 2", count)
	}

	count = testutil.ToFloat64(collector.upstreamMetrics.retriesTotal.WithLabelValues("rate_limited"))
	if count != 1 {
		t.Errorf("rate_limited retry count = %v, want 1", count)
	}
}

func TestFieldCache(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.FieldCache(true)
	collector.FieldCache(true)
	collector.FieldCache(false)

	hits := testutil.ToFloat64(collector.cacheMetrics.hitsTotal)
	if hits != 2 {
		t.Errorf("cache hits = %v, want 2", hits)
	}

	misses := testutil.ToFloat64(collector.cacheMetrics.missesTotal)
	if misses != 1 {
		t.Errorf("cache misses = %v, want 1", misses)
	}
}

func TestDisabledCollectorIsNoop(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.RecordRequest("/api/v1/jira/search", "GET", "200", time.Millisecond)
	collector.UpstreamAttempt("GET", "/rest/api/3/search", 200)
	collector.UpstreamRetry("server_error", time.Second)
	collector.FieldCache(true)

	count := testutil.ToFloat64(collector.requestMetrics.requestsTotal.WithLabelValues("/api/v1/jira/search", "GET", "200"))
	if count != 0 {
		t.Errorf("disabled collector recorded requests: %v", count)
	}
	hits := testutil.ToFloat64(collector.cacheMetrics.hitsTotal)
	if hits != 0 {
		t.Errorf("disabled collector recorded cache hits: %v", hits)
	}
}

func TestStatusClass(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{200, "2xx"},
		{201, "2xx"},
		{404, "4xx"},
		{429, "4xx"},
		{502, "5xx"},
		{0, "network_error"},
		{-1, "network_error"},
	}

	for _, tt := range tests {
		if got := statusClass(tt.status); got != tt.want {
			t.Errorf("statusClass(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.RecordRequest("/api/v1/jira/search", "GET", "200", 50*time.Millisecond)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("metrics endpoint returned %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "test_metrics_requests_total") {
		t.Errorf("metrics output missing request counter:\n%s", rec.Body.String())
	}
}
