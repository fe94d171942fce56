package jira

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// Observer receives telemetry callbacks from the client. Implementations
// must be safe for concurrent use. A nil observer disables all callbacks.
type Observer interface {
	// UpstreamAttempt is called after every transport attempt. status is 0
	// for connection-level failures.
	UpstreamAttempt(method, path string, status int)

	// UpstreamRetry is called before each backoff sleep with the retry
	// reason ("network", "rate_limited" or "server") and the delay applied.
	UpstreamRetry(reason string, delay time.Duration)

	// FieldCache is called on every field-map lookup with whether the
	// cached entry was still valid.
	FieldCache(hit bool)
}

// do executes the described request through the retry engine. Per call it
// makes at most cfg.MaxAttempts transport attempts, sleeping
// BackoffBase * 2^(n-1) between them, except for 429 responses where a
// parseable Retry-After header overrides the computed delay.
//
// Outcome classification:
//   - 2xx: returned immediately, no sleep.
//   - connection fault, 429, 5xx: retried while attempts remain, then
//     terminal with kind network, rate_limited or server respectively.
//   - any other 4xx: terminal on the first occurrence, no retry.
//
// Backoff sleeps respect context cancellation.
func (c *Client) do(ctx context.Context, desc *RequestDescriptor) (*RawResponse, error) {
	var lastErr *Error

	for attempt := 1; ; attempt++ {
		resp, err := c.transport.Execute(ctx, desc)
		if err != nil {
			c.observeAttempt(desc, 0)
			if ctx.Err() != nil {
				return nil, networkError(ctx.Err())
			}
			lastErr = networkError(err)
			if attempt >= c.cfg.MaxAttempts {
				return nil, lastErr
			}
			if err := c.backoff(ctx, "network", c.backoffDelay(attempt)); err != nil {
				return nil, networkError(err)
			}
			continue
		}

		c.observeAttempt(desc, resp.StatusCode)

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = statusError(resp.StatusCode, resp.Body)
			if attempt >= c.cfg.MaxAttempts {
				return nil, lastErr
			}
			delay := parseRetryAfter(headerValue(resp.Header, "Retry-After"))
			if delay <= 0 {
				delay = c.backoffDelay(attempt)
			}
			if err := c.backoff(ctx, "rate_limited", delay); err != nil {
				return nil, networkError(err)
			}

		case resp.StatusCode >= 500:
			lastErr = statusError(resp.StatusCode, resp.Body)
			if attempt >= c.cfg.MaxAttempts {
				return nil, lastErr
			}
			if err := c.backoff(ctx, "server", c.backoffDelay(attempt)); err != nil {
				return nil, networkError(err)
			}

		default:
			// Remaining 4xx statuses cannot change outcome on retry.
			return nil, statusError(resp.StatusCode, resp.Body)
		}
	}
}

// backoffDelay computes the exponential delay after the given attempt
// number: BackoffBase * 2^(attempt-1).
func (c *Client) backoffDelay(attempt int) time.Duration {
	return c.cfg.BackoffBase << (attempt - 1)
}

// backoff reports the retry and suspends the caller for delay, aborting
// early if the context is cancelled.
func (c *Client) backoff(ctx context.Context, reason string, delay time.Duration) error {
	if c.observer != nil {
		c.observer.UpstreamRetry(reason, delay)
	}
	slog.Debug("retrying JIRA request",
		"reason", reason,
		"backoff", delay,
	)
	return c.sleep(ctx, delay)
}

func (c *Client) observeAttempt(desc *RequestDescriptor, status int) {
	if c.observer != nil {
		c.observer.UpstreamAttempt(desc.Method, desc.Path, status)
	}
}

// sleepContext is the default sleeper. Tests substitute a recording fake.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func headerValue(header map[string][]string, key string) string {
	if vs := header[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// parseRetryAfter parses a Retry-After header value, supporting both
// delay-seconds and HTTP-date formats. It returns 0 when the value is absent
// or unparseable.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 0
}
