// File: store/stats.go
package store

import (
	"context"
	"fmt"

	"go-club-hub/models"
)

// PlatformStats aggregates the counters shown on the system-owner dashboard.
func (s *Store) PlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	var st models.PlatformStats
	err := s.queryRow(ctx, `
SELECT
    (SELECT COUNT(*) FROM users),
    (SELECT COUNT(*) FROM users WHERE is_active = $1),
    (SELECT COUNT(*) FROM clubs),
    (SELECT COUNT(*) FROM clubs WHERE is_active = $1),
    (SELECT COUNT(*) FROM club_creation_requests WHERE status = 'pending'),
    (SELECT COUNT(*) FROM club_members WHERE status = 'active')`, true).
		Scan(&st.TotalUsers, &st.ActiveUsers, &st.TotalClubs, &st.ActiveClubs, &st.PendingRequests, &st.TotalMembers)
	if err != nil {
		return nil, fmt.Errorf("platform stats: %w", err)
	}
	return &st, nil
}
