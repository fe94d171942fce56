package jira

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// CacheRefresher keeps the field mapping cache warm by refreshing it on a
// cron schedule, so interactive requests rarely pay the fetch latency after
// TTL expiry. It is optional; lazy refresh on access remains the source of
// truth.
type CacheRefresher struct {
	client   *Client
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewCacheRefresher creates a refresher for the given client. schedule uses
// standard cron syntax (e.g. "*/5 * * * *"); an empty schedule disables the
// refresher.
func NewCacheRefresher(client *Client, schedule string) *CacheRefresher {
	return &CacheRefresher{
		client:   client,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "jira.refresher"),
	}
}

// Start begins scheduled refreshing. It returns immediately; refreshes run
// on the cron goroutine until the context is cancelled or Stop is called.
func (r *CacheRefresher) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.schedule == "" {
		r.logger.Info("field cache refresh schedule not configured, skipping refresher")
		return nil
	}
	if r.running {
		return fmt.Errorf("refresher already running")
	}

	if _, err := cron.ParseStandard(r.schedule); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", r.schedule, err)
	}

	if _, err := r.cron.AddFunc(r.schedule, func() {
		r.runRefresh(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule field cache refresh: %w", err)
	}

	r.cron.Start()
	r.running = true
	r.logger.Info("field cache refresher started", "schedule", r.schedule)

	go func() {
		<-ctx.Done()
		r.Stop()
	}()

	return nil
}

// runRefresh executes one refresh cycle.
func (r *CacheRefresher) runRefresh(ctx context.Context) {
	if err := r.client.RefreshFieldMap(ctx); err != nil {
		r.logger.Error("scheduled field cache refresh failed", "error", err)
		return
	}
	r.logger.Debug("field cache refreshed")
}

// Stop halts scheduled refreshing and waits for an in-flight refresh to
// finish.
func (r *CacheRefresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	<-r.cron.Stop().Done()
	r.running = false
	r.logger.Info("field cache refresher stopped")
}
