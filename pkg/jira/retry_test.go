package jira

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// sleepRecorder captures backoff delays instead of sleeping.
type sleepRecorder struct {
	delays []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return nil
}

// newTestClient builds a client against the given test server with a
// recording sleeper and a small backoff base.
func newTestClient(t *testing.T, baseURL string) (*Client, *sleepRecorder) {
	t.Helper()

	client, err := NewClient(Config{
		BaseURL:     baseURL,
		Email:       "bot@example.com",
		APIToken:    "token",
		Timeout:     5 * time.Second,
		MaxAttempts: 3,
		BackoffBase: 500 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	rec := &sleepRecorder{}
	client.sleep = rec.sleep
	t.Cleanup(client.Close)
	return client, rec
}

func TestDo_SuccessWithoutSleeping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	client, rec := newTestClient(t, server.URL)

	resp, err := client.do(context.Background(), &RequestDescriptor{Method: "GET", Path: "/rest/api/3/myself"})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
	if len(rec.delays) != 0 {
		t.Errorf("expected no backoff sleeps on 2xx, got %v", rec.delays)
	}
}

func TestDo_RetriesServerErrorsThenSucceeds(t *testing.T) {
	attempts := int32(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, rec := newTestClient(t, server.URL)

	_, err := client.do(context.Background(), &RequestDescriptor{Method: "GET", Path: "/rest/api/3/search"})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}

	// Exponential delays: base * 2^0, base * 2^1.
	want := []time.Duration{500 * time.Millisecond, 1 * time.Second}
	if len(rec.delays) != len(want) {
		t.Fatalf("expected %d sleeps, got %d (%v)", len(want), len(rec.delays), rec.delays)
	}
	for i, d := range want {
		if rec.delays[i] != d {
			t.Errorf("sleep %d: expected %v, got %v", i, d, rec.delays[i])
		}
	}
}

func TestDo_ServerErrorsExhaustAttempts(t *testing.T) {
	attempts := int32(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"errorMessages": ["boom"]}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	_, err := client.do(context.Background(), &RequestDescriptor{Method: "GET", Path: "/rest/api/3/search"})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}

	var jiraErr *Error
	if !errors.As(err, &jiraErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if jiraErr.Kind != KindServer {
		t.Errorf("expected kind %q, got %q", KindServer, jiraErr.Kind)
	}
	if jiraErr.Details == "" {
		t.Error("expected error to carry the raw response body")
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", got)
	}
}

func TestDo_NoRetryOnClientErrors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantKind   ErrorKind
	}{
		{"400 bad request", http.StatusBadRequest, KindValidation},
		{"401 unauthorized", http.StatusUnauthorized, KindAuth},
		{"403 forbidden", http.StatusForbidden, KindAuth},
		{"404 not found", http.StatusNotFound, KindNotFound},
		{"422 normalized to validation", http.StatusUnprocessableEntity, KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := int32(0)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&attempts, 1)
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(`{"errorMessages": ["nope"]}`))
			}))
			defer server.Close()

			client, rec := newTestClient(t, server.URL)

			_, err := client.do(context.Background(), &RequestDescriptor{Method: "GET", Path: "/rest/api/3/search"})

			var jiraErr *Error
			if !errors.As(err, &jiraErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if jiraErr.Kind != tt.wantKind {
				t.Errorf("expected kind %q, got %q", tt.wantKind, jiraErr.Kind)
			}
			if got := atomic.LoadInt32(&attempts); got != 1 {
				t.Errorf("expected exactly 1 attempt, got %d", got)
			}
			if len(rec.delays) != 0 {
				t.Errorf("expected no sleeps, got %v", rec.delays)
			}
		})
	}
}

func TestDo_RateLimitHonorsRetryAfter(t *testing.T) {
	attempts := int32(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, rec := newTestClient(t, server.URL)

	_, err := client.do(context.Background(), &RequestDescriptor{Method: "GET", Path: "/rest/api/3/search"})
	if err != nil {
		t.Fatalf("expected success after rate limit retry, got %v", err)
	}
	if len(rec.delays) != 1 {
		t.Fatalf("expected 1 sleep, got %d", len(rec.delays))
	}
	// Retry-After overrides the backoff base.
	if rec.delays[0] != 2*time.Second {
		t.Errorf("expected 2s delay from Retry-After, got %v", rec.delays[0])
	}
}

func TestDo_RateLimitFallsBackToBackoff(t *testing.T) {
	attempts := int32(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.Header().Set("Retry-After", "not-a-number")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, rec := newTestClient(t, server.URL)

	_, err := client.do(context.Background(), &RequestDescriptor{Method: "GET", Path: "/rest/api/3/search"})

	var jiraErr *Error
	if !errors.As(err, &jiraErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if jiraErr.Kind != KindRateLimited {
		t.Errorf("expected kind %q, got %q", KindRateLimited, jiraErr.Kind)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
	want := []time.Duration{500 * time.Millisecond, 1 * time.Second}
	for i, d := range want {
		if rec.delays[i] != d {
			t.Errorf("sleep %d: expected exponential fallback %v, got %v", i, d, rec.delays[i])
		}
	}
}

func TestDo_NetworkFailureRetriesThenFails(t *testing.T) {
	// Point at a closed server to force connection failures.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client, rec := newTestClient(t, server.URL)

	_, err := client.do(context.Background(), &RequestDescriptor{Method: "GET", Path: "/rest/api/3/search"})

	var jiraErr *Error
	if !errors.As(err, &jiraErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if jiraErr.Kind != KindNetwork {
		t.Errorf("expected kind %q, got %q", KindNetwork, jiraErr.Kind)
	}
	if len(rec.delays) != 2 {
		t.Errorf("expected 2 backoff sleeps, got %d", len(rec.delays))
	}
}

func TestDo_ContextCancellationStopsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)
	client.sleep = sleepContext

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.do(ctx, &RequestDescriptor{Method: "GET", Path: "/rest/api/3/search"})
	if err == nil {
		t.Fatal("expected error with cancelled context")
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{"empty", "", 0},
		{"seconds", "5", 5 * time.Second},
		{"zero seconds", "0", 0},
		{"garbage", "soon", 0},
		{"negative", "-3", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseRetryAfter(tt.header); got != tt.want {
				t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.header, got, tt.want)
			}
		})
	}
}

func TestParseRetryAfter_HTTPDate(t *testing.T) {
	date := time.Now().Add(90 * time.Second).UTC().Format(http.TimeFormat)
	got := parseRetryAfter(date)
	if got < 80*time.Second || got > 90*time.Second {
		t.Errorf("expected roughly 90s from HTTP date, got %v", got)
	}
}
