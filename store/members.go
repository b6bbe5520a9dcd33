// File: store/members.go
package store

import (
	"context"
	"fmt"

	"go-club-hub/models"
)

const membershipColumns = `m.id, m.club_id, m.user_id, m.role_id, COALESCE(r.role_name, ''),
    m.is_president, m.status, m.joined_at, m.last_activity`

func scanMembership(row rowScanner, extra ...any) (*models.Membership, error) {
	var (
		m                models.Membership
		joined, activity int64
	)
	dest := append([]any{&m.ID, &m.ClubID, &m.UserID, &m.RoleID, &m.RoleName,
		&m.IsPresident, &m.Status, &joined, &activity}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	m.JoinedAt = fromUnix(joined)
	m.LastActivity = fromUnix(activity)
	return &m, nil
}

// GetActiveMembership returns the user's active membership in the club.
func (s *Store) GetActiveMembership(ctx context.Context, userID, clubID int64) (*models.Membership, error) {
	m, err := scanMembership(s.queryRow(ctx, `
SELECT `+membershipColumns+`
FROM club_members m
JOIN clubs c ON c.id = m.club_id
LEFT JOIN club_roles r ON r.id = m.role_id
WHERE m.user_id = $1 AND m.club_id = $2 AND m.status = 'active' AND c.is_active = $3`, userID, clubID, true))
	return m, notFound(err)
}

// GetMembership returns the membership regardless of status.
func (s *Store) GetMembership(ctx context.Context, userID, clubID int64) (*models.Membership, error) {
	m, err := scanMembership(s.queryRow(ctx, `
SELECT `+membershipColumns+`
FROM club_members m
LEFT JOIN club_roles r ON r.id = m.role_id
WHERE m.user_id = $1 AND m.club_id = $2`, userID, clubID))
	return m, notFound(err)
}

// UpsertMembership creates an active membership or reactivates a removed one.
func (s *Store) UpsertMembership(ctx context.Context, m *models.Membership) error {
	now := s.now()
	err := s.queryRow(ctx, `
INSERT INTO club_members (club_id, user_id, role_id, is_president, status, joined_at, last_activity)
VALUES ($1, $2, $3, $4, 'active', $5, $5)
ON CONFLICT (club_id, user_id) DO UPDATE SET
    role_id = excluded.role_id,
    is_president = excluded.is_president,
    status = 'active',
    joined_at = excluded.joined_at,
    last_activity = excluded.last_activity
RETURNING id`, m.ClubID, m.UserID, m.RoleID, m.IsPresident, now).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("upsert membership: %w", err)
	}
	m.Status = models.MemberStatusActive
	m.JoinedAt = fromUnix(now)
	m.LastActivity = m.JoinedAt
	return nil
}

// UpdateMemberRole assigns roleID to an active member and clears the
// membership president flag.
func (s *Store) UpdateMemberRole(ctx context.Context, clubID, userID, roleID int64) error {
	return s.execAffected(ctx, `
UPDATE club_members SET role_id = $1, is_president = $2
WHERE club_id = $3 AND user_id = $4 AND status = 'active'`, roleID, false, clubID, userID)
}

func (s *Store) SetMemberStatus(ctx context.Context, clubID, userID int64, status string) error {
	return s.execAffected(ctx,
		`UPDATE club_members SET status = $1 WHERE club_id = $2 AND user_id = $3`, status, clubID, userID)
}

func (s *Store) TouchMembership(ctx context.Context, clubID, userID int64) error {
	return s.execAffected(ctx,
		`UPDATE club_members SET last_activity = $1 WHERE club_id = $2 AND user_id = $3`, s.now(), clubID, userID)
}

// ListMembers returns a club's active members, president first.
func (s *Store) ListMembers(ctx context.Context, clubID int64) ([]models.Member, error) {
	rows, err := s.query(ctx, `
SELECT `+membershipColumns+`, u.email, u.first_name, u.last_name
FROM club_members m
JOIN users u ON u.id = m.user_id
LEFT JOIN club_roles r ON r.id = m.role_id
WHERE m.club_id = $1 AND m.status = 'active'
ORDER BY m.is_president DESC, u.first_name, u.last_name, m.id`, clubID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var out []models.Member
	for rows.Next() {
		var mem models.Member
		m, err := scanMembership(rows, &mem.Email, &mem.FirstName, &mem.LastName)
		if err != nil {
			return nil, err
		}
		mem.Membership = *m
		out = append(out, mem)
	}
	return out, rows.Err()
}
