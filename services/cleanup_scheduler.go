// File: services/cleanup_scheduler.go
package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"go-club-hub/logger"
	"go-club-hub/metrics"
)

// CleanupScheduler prunes idle sessions and stale rate-limit counters on a
// cron schedule, on top of the limiter's own probabilistic cleanup.
type CleanupScheduler struct {
	auth            *AuthService
	limiter         *RateLimiter
	schedule        string
	sessionLifetime int
	extra           []func(ctx context.Context)

	mu      sync.Mutex
	cron    *cron.Cron
	started bool
}

func NewCleanupScheduler(auth *AuthService, limiter *RateLimiter, schedule string, sessionLifetime int) *CleanupScheduler {
	return &CleanupScheduler{
		auth:            auth,
		limiter:         limiter,
		schedule:        schedule,
		sessionLifetime: sessionLifetime,
		cron:            cron.New(),
	}
}

// Also adds a task that runs at the end of every pass.
func (c *CleanupScheduler) Also(task func(ctx context.Context)) *CleanupScheduler {
	c.mu.Lock()
	c.extra = append(c.extra, task)
	c.mu.Unlock()
	return c
}

// RunOnce performs a single cleanup pass and reports what was removed.
func (c *CleanupScheduler) RunOnce(ctx context.Context) (sessions, counters int64) {
	n, err := c.auth.PruneSessions(ctx, c.sessionLifetime)
	if err != nil {
		logger.Warn.Printf("[CleanupScheduler] session prune failed: %v", err)
	} else if n > 0 {
		metrics.CleanupDeleted.WithLabelValues("sessions").Add(float64(n))
	}
	sessions = n

	counters = c.limiter.Cleanup(ctx)

	c.mu.Lock()
	extra := append([]func(context.Context){}, c.extra...)
	c.mu.Unlock()
	for _, task := range extra {
		task(ctx)
	}
	logger.Debug.Printf("[CleanupScheduler] pass done: sessions=%d rate_limits=%d", sessions, counters)
	return sessions, counters
}

// Start registers the job and starts the cron runner. Calling it twice is a no-op.
func (c *CleanupScheduler) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return nil
	}

	if _, err := c.cron.AddFunc(c.schedule, func() {
		c.RunOnce(context.Background())
	}); err != nil {
		return fmt.Errorf("failed to add cleanup job with schedule %q: %w", c.schedule, err)
	}
	c.cron.Start()
	c.started = true

	for _, entry := range c.cron.Entries() {
		logger.Info.Printf("[CleanupScheduler] started, next run at %s", entry.Next.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (c *CleanupScheduler) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return
	}
	<-c.cron.Stop().Done()
	c.started = false
}
