// file: services/ratelimit_service_test.go
package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-club-hub/metrics"
)

func TestRateLimitKey(t *testing.T) {
	assert.Equal(t, "ip:10.1.1.1", RateLimitKey("", "10.1.1.1"))
	assert.Equal(t, "user:someone@example.com", RateLimitKey("someone@example.com", "10.1.1.1"))

	long := strings.Repeat("a", 300) + "@example.com"
	key := RateLimitKey(long, "10.1.1.1")
	assert.Len(t, key, 218+1+32)
	assert.True(t, strings.HasPrefix(key, "user:aaaa"))
	assert.NotEqual(t, key, RateLimitKey(long+"x", "10.1.1.1"), "truncated keys stay distinct")

	exact := strings.Repeat("b", 250-len("user:"))
	assert.Equal(t, "user:"+exact, RateLimitKey(exact, ""), "a 250 char key is kept as is")
}

// Given: a ceiling of 3
// When: the same key is checked 4 times, then again after the window
// Then: the 4th is rejected and the window reset admits the next attempt
func TestRateLimiter_BoundaryAndReset(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	rejected := metrics.RateLimitDecisions.WithLabelValues("test_boundary", "rejected")
	allowed := metrics.RateLimitDecisions.WithLabelValues("test_boundary", "allowed")
	rejectedBefore, allowedBefore := testutil.ToFloat64(rejected), testutil.ToFloat64(allowed)

	for i := 0; i < 3; i++ {
		assert.NoError(t, e.limiter.Check(ctx, "test_boundary", "u1", "10.2.0.1", 3))
	}
	err := e.limiter.Check(ctx, "test_boundary", "u1", "10.2.0.1", 3)
	assert.ErrorIs(t, err, ErrRateLimitExceeded)
	assert.Equal(t, "Rate limit exceeded. Please try again later.", MessageOf(err, ""))

	assert.NoError(t, e.limiter.Check(ctx, "test_boundary", "u2", "10.2.0.1", 3), "other subjects are independent")

	e.clock.Advance(time.Hour + time.Second)
	assert.NoError(t, e.limiter.Check(ctx, "test_boundary", "u1", "10.2.0.1", 3))

	assert.Equal(t, float64(1), testutil.ToFloat64(rejected)-rejectedBefore)
	assert.Equal(t, float64(5), testutil.ToFloat64(allowed)-allowedBefore)
}

func TestRateLimiter_FailOpen(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, e.store.Close())

	assert.NoError(t, e.limiter.Check(context.Background(), "test_fail_open", "u", "10.2.1.1", 1))
}

func TestRateLimiter_FailClosed(t *testing.T) {
	e := newTestEnv(t, WithFailOpen(false))
	require.NoError(t, e.store.Close())

	err := e.limiter.Check(context.Background(), "test_fail_closed", "u", "10.2.2.1", 1)
	assert.ErrorIs(t, err, ErrRateLimitExceeded)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Error(t, appErr.Err, "the storage cause is kept")
}

// Given: a counter whose window started more than two windows ago
// When: a check rolls the cleanup dice successfully
// Then: the stale row is pruned and the fresh one stays
func TestRateLimiter_ProbabilisticCleanup(t *testing.T) {
	e := newTestEnv(t, WithCleanupProbability(0.5))
	ctx := context.Background()

	require.NoError(t, e.limiter.Check(ctx, "test_cleanup", "old", "10.2.3.1", 10))
	e.clock.Advance(2*time.Hour + time.Minute)

	e.limiter.randFloat = func() float64 { return 0.1 }
	require.NoError(t, e.limiter.Check(ctx, "test_cleanup", "new", "10.2.3.1", 10))

	rows, err := e.store.CountRateLimitRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)
}

func TestRateLimiter_CleanupKeepsRecentWindows(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, e.limiter.Check(ctx, "test_cleanup_recent", "a", "10.2.4.1", 10))
	e.clock.Advance(90 * time.Minute)

	assert.Zero(t, e.limiter.Cleanup(ctx))
	rows, err := e.store.CountRateLimitRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)
}
