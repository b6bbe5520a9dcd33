// File: store/clubs.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"go-club-hub/models"
)

const clubColumns = `c.id, c.name, c.description, c.staff_advisor, c.access_code,
    c.current_president_id, c.created_from_request_id, c.is_active, c.created_at`

func scanClub(row rowScanner, extra ...any) (*models.Club, error) {
	var (
		c           models.Club
		president   sql.NullInt64
		fromRequest sql.NullInt64
		createdAt   int64
	)
	dest := append([]any{&c.ID, &c.Name, &c.Description, &c.StaffAdvisor, &c.AccessCode,
		&president, &fromRequest, &c.IsActive, &createdAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	c.CurrentPresidentID = fromNullID(president)
	c.CreatedFromRequestID = fromNullID(fromRequest)
	c.CreatedAt = fromUnix(createdAt)
	return &c, nil
}

// CreateClub inserts c and fills in its ID and CreatedAt.
func (s *Store) CreateClub(ctx context.Context, c *models.Club) error {
	now := s.now()
	err := s.queryRow(ctx, `
INSERT INTO clubs (name, description, staff_advisor, access_code, current_president_id, created_from_request_id, is_active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`,
		c.Name, c.Description, c.StaffAdvisor, c.AccessCode, c.CurrentPresidentID, c.CreatedFromRequestID, c.IsActive, now,
	).Scan(&c.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("create club: %w", err)
	}
	c.CreatedAt = fromUnix(now)
	return nil
}

func (s *Store) GetClub(ctx context.Context, id int64) (*models.Club, error) {
	c, err := scanClub(s.queryRow(ctx, `SELECT `+clubColumns+` FROM clubs c WHERE c.id = $1`, id))
	return c, notFound(err)
}

// GetClubByAccessCode only matches active clubs.
func (s *Store) GetClubByAccessCode(ctx context.Context, code string) (*models.Club, error) {
	c, err := scanClub(s.queryRow(ctx,
		`SELECT `+clubColumns+` FROM clubs c WHERE c.access_code = $1 AND c.is_active = $2`, code, true))
	return c, notFound(err)
}

func (s *Store) AccessCodeExists(ctx context.Context, code string) (bool, error) {
	var n int
	if err := s.queryRow(ctx, `SELECT COUNT(*) FROM clubs WHERE access_code = $1`, code).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListUserClubs returns the active clubs where userID holds an active membership.
func (s *Store) ListUserClubs(ctx context.Context, userID int64) ([]models.UserClub, error) {
	rows, err := s.query(ctx, `
SELECT c.id, c.name, c.description, c.access_code, m.role_id, r.role_name, m.is_president
FROM club_members m
JOIN clubs c ON c.id = m.club_id
JOIN club_roles r ON r.id = m.role_id
WHERE m.user_id = $1 AND m.status = 'active' AND c.is_active = $2
ORDER BY c.name, c.id`, userID, true)
	if err != nil {
		return nil, fmt.Errorf("list user clubs: %w", err)
	}
	defer rows.Close()

	var out []models.UserClub
	for rows.Next() {
		var uc models.UserClub
		if err := rows.Scan(&uc.ClubID, &uc.Name, &uc.Description, &uc.AccessCode,
			&uc.RoleID, &uc.RoleName, &uc.IsPresident); err != nil {
			return nil, err
		}
		out = append(out, uc)
	}
	return out, rows.Err()
}

// ListClubs returns every club with member counts for the system owner.
func (s *Store) ListClubs(ctx context.Context) ([]models.ClubSummary, error) {
	rows, err := s.query(ctx, `
SELECT `+clubColumns+`,
    (SELECT COUNT(*) FROM club_members m WHERE m.club_id = c.id AND m.status = 'active'),
    COALESCE(u.first_name || ' ' || u.last_name, '')
FROM clubs c
LEFT JOIN users u ON u.id = c.current_president_id
ORDER BY c.created_at DESC, c.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	defer rows.Close()

	var out []models.ClubSummary
	for rows.Next() {
		var cs models.ClubSummary
		c, err := scanClub(rows, &cs.MemberCount, &cs.PresidentName)
		if err != nil {
			return nil, err
		}
		cs.Club = *c
		out = append(out, cs)
	}
	return out, rows.Err()
}

func (s *Store) SetClubActive(ctx context.Context, id int64, active bool) error {
	return s.execAffected(ctx, `UPDATE clubs SET is_active = $1 WHERE id = $2`, active, id)
}
