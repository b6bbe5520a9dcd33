// File: store/requests.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"go-club-hub/models"
)

// ------------------- club creation requests -------------------

const clubRequestColumns = `q.id, q.requested_by, COALESCE(u.email, ''), COALESCE(u.first_name || ' ' || u.last_name, ''),
    q.club_name, q.description, q.staff_advisor, q.status, q.rejection_reason, q.created_at, q.reviewed_at`

func scanClubRequest(row rowScanner) (*models.ClubRequest, error) {
	var (
		r         models.ClubRequest
		createdAt int64
		reviewed  sql.NullInt64
	)
	if err := row.Scan(&r.ID, &r.RequestedBy, &r.RequesterEmail, &r.RequesterName,
		&r.ClubName, &r.Description, &r.StaffAdvisor, &r.Status, &r.RejectionReason, &createdAt, &reviewed); err != nil {
		return nil, err
	}
	r.CreatedAt = fromUnix(createdAt)
	r.ReviewedAt = fromNullUnix(reviewed)
	return &r, nil
}

func (s *Store) CreateClubRequest(ctx context.Context, r *models.ClubRequest) error {
	now := s.now()
	err := s.queryRow(ctx, `
INSERT INTO club_creation_requests (requested_by, club_name, description, staff_advisor, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`, r.RequestedBy, r.ClubName, r.Description, r.StaffAdvisor, models.RequestPending, now).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("create club request: %w", err)
	}
	r.Status = models.RequestPending
	r.CreatedAt = fromUnix(now)
	return nil
}

func (s *Store) GetClubRequest(ctx context.Context, id int64) (*models.ClubRequest, error) {
	r, err := scanClubRequest(s.queryRow(ctx, `
SELECT `+clubRequestColumns+`
FROM club_creation_requests q
LEFT JOIN users u ON u.id = q.requested_by
WHERE q.id = $1`, id))
	return r, notFound(err)
}

// ListClubRequests returns requests in the given status, oldest first.
func (s *Store) ListClubRequests(ctx context.Context, status string) ([]models.ClubRequest, error) {
	rows, err := s.query(ctx, `
SELECT `+clubRequestColumns+`
FROM club_creation_requests q
LEFT JOIN users u ON u.id = q.requested_by
WHERE q.status = $1
ORDER BY q.created_at, q.id`, status)
	if err != nil {
		return nil, fmt.Errorf("list club requests: %w", err)
	}
	defer rows.Close()

	var out []models.ClubRequest
	for rows.Next() {
		r, err := scanClubRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// ReviewClubRequest moves a pending request to status. A request that is no
// longer pending yields ErrNotFound, so a request is never reviewed twice.
func (s *Store) ReviewClubRequest(ctx context.Context, id int64, status, reason string, reviewerID int64) error {
	return s.execAffected(ctx, `
UPDATE club_creation_requests
SET status = $1, rejection_reason = $2, reviewed_at = $3, reviewed_by = $4
WHERE id = $5 AND status = 'pending'`, status, reason, s.now(), reviewerID, id)
}

func (s *Store) CountClubRequests(ctx context.Context, status string) (int, error) {
	var n int
	err := s.queryRow(ctx, `SELECT COUNT(*) FROM club_creation_requests WHERE status = $1`, status).Scan(&n)
	return n, err
}

// --------------------- club join requests ---------------------

const joinRequestColumns = `j.id, j.club_id, j.user_id, COALESCE(u.email, ''), COALESCE(u.first_name, ''),
    COALESCE(u.last_name, ''), j.status, j.created_at, j.reviewed_at`

func scanJoinRequest(row rowScanner) (*models.JoinRequest, error) {
	var (
		r         models.JoinRequest
		createdAt int64
		reviewed  sql.NullInt64
	)
	if err := row.Scan(&r.ID, &r.ClubID, &r.UserID, &r.Email, &r.FirstName, &r.LastName,
		&r.Status, &createdAt, &reviewed); err != nil {
		return nil, err
	}
	r.CreatedAt = fromUnix(createdAt)
	r.ReviewedAt = fromNullUnix(reviewed)
	return &r, nil
}

func (s *Store) CreateJoinRequest(ctx context.Context, r *models.JoinRequest) error {
	now := s.now()
	err := s.queryRow(ctx, `
INSERT INTO club_join_requests (club_id, user_id, status, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id`, r.ClubID, r.UserID, models.RequestPending, now).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("create join request: %w", err)
	}
	r.Status = models.RequestPending
	r.CreatedAt = fromUnix(now)
	return nil
}

func (s *Store) GetJoinRequest(ctx context.Context, id int64) (*models.JoinRequest, error) {
	r, err := scanJoinRequest(s.queryRow(ctx, `
SELECT `+joinRequestColumns+`
FROM club_join_requests j
LEFT JOIN users u ON u.id = j.user_id
WHERE j.id = $1`, id))
	return r, notFound(err)
}

func (s *Store) HasPendingJoinRequest(ctx context.Context, clubID, userID int64) (bool, error) {
	var n int
	err := s.queryRow(ctx, `
SELECT COUNT(*) FROM club_join_requests
WHERE club_id = $1 AND user_id = $2 AND status = 'pending'`, clubID, userID).Scan(&n)
	return n > 0, err
}

// ListJoinRequests returns a club's requests in the given status, oldest first.
func (s *Store) ListJoinRequests(ctx context.Context, clubID int64, status string) ([]models.JoinRequest, error) {
	rows, err := s.query(ctx, `
SELECT `+joinRequestColumns+`
FROM club_join_requests j
LEFT JOIN users u ON u.id = j.user_id
WHERE j.club_id = $1 AND j.status = $2
ORDER BY j.created_at, j.id`, clubID, status)
	if err != nil {
		return nil, fmt.Errorf("list join requests: %w", err)
	}
	defer rows.Close()

	var out []models.JoinRequest
	for rows.Next() {
		r, err := scanJoinRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// ReviewJoinRequest moves a pending join request to status.
func (s *Store) ReviewJoinRequest(ctx context.Context, id int64, status string, reviewerID int64) error {
	return s.execAffected(ctx, `
UPDATE club_join_requests
SET status = $1, reviewed_at = $2, reviewed_by = $3
WHERE id = $4 AND status = 'pending'`, status, s.now(), reviewerID, id)
}
