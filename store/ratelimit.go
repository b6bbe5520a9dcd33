// File: store/ratelimit.go
package store

import (
	"context"
	"fmt"
)

// HitRateLimit records one action against (action, key) and returns the
// count inside the current window. The reset-or-increment decision and the
// read-back happen in one statement, so concurrent callers never see a
// stale count. A window older than windowSeconds restarts at 1.
func (s *Store) HitRateLimit(ctx context.Context, action, key, ip string, windowSeconds int) (int, error) {
	now := s.now()
	cutoff := now - int64(windowSeconds)

	var count int
	err := s.queryRow(ctx, `
INSERT INTO rate_limits (action_type, rate_key, ip_address, action_count, window_start, last_action)
VALUES ($1, $2, $3, 1, $4, $4)
ON CONFLICT (action_type, rate_key) DO UPDATE SET
    action_count = CASE WHEN rate_limits.window_start < $5 THEN 1 ELSE rate_limits.action_count + 1 END,
    window_start = CASE WHEN rate_limits.window_start < $5 THEN $4 ELSE rate_limits.window_start END,
    ip_address = excluded.ip_address,
    last_action = $4
RETURNING action_count`,
		action, key, ip, now, cutoff).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("rate limit upsert: %w", err)
	}
	return count, nil
}

// PruneRateLimits deletes counters whose window started more than
// olderThanSeconds ago.
func (s *Store) PruneRateLimits(ctx context.Context, olderThanSeconds int) (int64, error) {
	res, err := s.exec(ctx, `DELETE FROM rate_limits WHERE window_start < $1`, s.now()-int64(olderThanSeconds))
	if err != nil {
		return 0, fmt.Errorf("prune rate limits: %w", err)
	}
	return res.RowsAffected()
}

// CountRateLimitRows is used by maintenance reporting and tests.
func (s *Store) CountRateLimitRows(ctx context.Context) (int, error) {
	var n int
	err := s.queryRow(ctx, `SELECT COUNT(*) FROM rate_limits`).Scan(&n)
	return n, err
}
