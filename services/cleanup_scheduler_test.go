// file: services/cleanup_scheduler_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupScheduler_RunOnce(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u := e.newUser(t, "idle")

	_, err := e.auth.StartSession(ctx, u.ID, "10.5.0.1", "go-test")
	require.NoError(t, err)
	require.NoError(t, e.limiter.Check(ctx, "test_scheduler", "", "10.5.0.1", 10))

	ran := 0
	sched := NewCleanupScheduler(e.auth, e.limiter, "@every 1h", 86400).
		Also(func(context.Context) { ran++ })

	sessions, counters := sched.RunOnce(ctx)
	assert.Zero(t, sessions)
	assert.Zero(t, counters)

	e.clock.Advance(25 * time.Hour)
	sessions, counters = sched.RunOnce(ctx)
	assert.EqualValues(t, 1, sessions)
	assert.EqualValues(t, 1, counters)
	assert.Equal(t, 2, ran)
}

func TestCleanupScheduler_StartStop(t *testing.T) {
	e := newTestEnv(t)

	bad := NewCleanupScheduler(e.auth, e.limiter, "every now and then", 86400)
	assert.Error(t, bad.Start())

	sched := NewCleanupScheduler(e.auth, e.limiter, "@every 1h", 86400)
	require.NoError(t, sched.Start())
	require.NoError(t, sched.Start(), "second start is a no-op")
	sched.Stop()
	sched.Stop()
}
