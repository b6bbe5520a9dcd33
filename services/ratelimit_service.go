// File: services/ratelimit_service.go
package services

import (
	"context"
	"crypto/md5" // #nosec G501 -- key shortening only, not a security boundary
	"encoding/hex"
	"math/rand"

	"go-club-hub/logger"
	"go-club-hub/metrics"
	"go-club-hub/store"
)

const (
	// DefaultRateLimitWindow is the fixed window length in seconds.
	DefaultRateLimitWindow = 3600

	maxRateKeyLength   = 250
	truncatedKeyLength = 218
)

// Per-action ceilings inside one window.
const (
	LimitRegisterIP     = 10
	LimitRegisterEmail  = 3
	LimitLoginIP        = 5
	LimitLoginEmail     = 5
	LimitChatSend       = 30
	LimitChatGetMessage = 50
)

// RateLimiter enforces fixed-window ceilings on sensitive actions. Counters
// live in the database so every application instance shares them.
type RateLimiter struct {
	store         *store.Store
	window        int
	failOpen      bool
	cleanupChance float64
	randFloat     func() float64
}

// RateLimiterOption customises a RateLimiter.
type RateLimiterOption func(*RateLimiter)

func WithWindow(seconds int) RateLimiterOption {
	return func(rl *RateLimiter) { rl.window = seconds }
}

// WithFailOpen decides what happens when the counter store is unreachable:
// true lets the request through, false rejects it.
func WithFailOpen(failOpen bool) RateLimiterOption {
	return func(rl *RateLimiter) { rl.failOpen = failOpen }
}

func WithCleanupProbability(p float64) RateLimiterOption {
	return func(rl *RateLimiter) { rl.cleanupChance = p }
}

// WithRandom replaces the cleanup dice; tests pass a constant.
func WithRandom(fn func() float64) RateLimiterOption {
	return func(rl *RateLimiter) { rl.randFloat = fn }
}

func NewRateLimiter(st *store.Store, opts ...RateLimiterOption) *RateLimiter {
	rl := &RateLimiter{
		store:         st,
		window:        DefaultRateLimitWindow,
		failOpen:      true,
		cleanupChance: 0.01,
		randFloat:     rand.Float64, // #nosec G404
	}
	for _, opt := range opts {
		opt(rl)
	}
	return rl
}

// RateLimitKey builds the counter key: "user:<subject>" when a subject is
// given, otherwise "ip:<ip>". Over-long keys keep a readable prefix and an
// md5 suffix so they stay unique and fit the column.
func RateLimitKey(subject, ip string) string {
	key := "ip:" + ip
	if subject != "" {
		key = "user:" + subject
	}
	if len(key) > maxRateKeyLength {
		sum := md5.Sum([]byte(key)) // #nosec G401
		key = key[:truncatedKeyLength] + ":" + hex.EncodeToString(sum[:])
	}
	return key
}

// Check records one attempt and rejects it when the window's count exceeds
// maxAttempts. An empty subject limits by client IP.
func (rl *RateLimiter) Check(ctx context.Context, action, subject, ip string, maxAttempts int) error {
	key := RateLimitKey(subject, ip)

	count, err := rl.store.HitRateLimit(ctx, action, key, ip, rl.window)
	if err != nil {
		metrics.RateLimitDecisions.WithLabelValues(action, "error").Inc()
		if rl.failOpen {
			logger.Error.Printf("[RateLimiter.Check] action=%s key=%s store error, failing open: %v", action, key, err)
			return nil
		}
		logger.Error.Printf("[RateLimiter.Check] action=%s key=%s store error, failing closed: %v", action, key, err)
		return &AppError{Kind: KindRateLimitExceeded, Message: ErrRateLimitExceeded.Message, Err: err}
	}

	if rl.randFloat() < rl.cleanupChance {
		rl.Cleanup(ctx)
	}

	if count > maxAttempts {
		metrics.RateLimitDecisions.WithLabelValues(action, "rejected").Inc()
		logger.Warn.Printf("[RateLimiter.Check] action=%s key=%s count=%d max=%d rejected", action, key, count, maxAttempts)
		return ErrRateLimitExceeded
	}

	metrics.RateLimitDecisions.WithLabelValues(action, "allowed").Inc()
	return nil
}

// Cleanup deletes counters whose window started more than two windows ago.
// Errors are logged; cleanup never affects the caller's decision.
func (rl *RateLimiter) Cleanup(ctx context.Context) int64 {
	n, err := rl.store.PruneRateLimits(ctx, 2*rl.window)
	if err != nil {
		logger.Warn.Printf("[RateLimiter.Cleanup] prune failed: %v", err)
		return 0
	}
	if n > 0 {
		metrics.CleanupDeleted.WithLabelValues("rate_limits").Add(float64(n))
		logger.Debug.Printf("[RateLimiter.Cleanup] removed %d stale counters", n)
	}
	return n
}
