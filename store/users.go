// File: store/users.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"go-club-hub/models"
)

const userColumns = `u.id, u.email, u.password_hash, u.first_name, u.last_name,
    u.is_active, u.is_system_owner, u.email_verified, u.created_at, u.last_login`

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u         models.User
		createdAt int64
		lastLogin sql.NullInt64
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.IsActive, &u.IsSystemOwner, &u.EmailVerified, &createdAt, &lastLogin); err != nil {
		return nil, err
	}
	u.CreatedAt = fromUnix(createdAt)
	u.LastLogin = fromNullUnix(lastLogin)
	return &u, nil
}

// CreateUser inserts u and fills in its ID and CreatedAt.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	now := s.now()
	err := s.queryRow(ctx, `
INSERT INTO users (email, password_hash, first_name, last_name, is_active, is_system_owner, email_verified, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, u.IsActive, u.IsSystemOwner, u.EmailVerified, now,
	).Scan(&u.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	u.CreatedAt = fromUnix(now)
	return nil
}

// GetUserByEmail looks up a user by their (already normalised) email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.queryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE u.email = $1`, email))
	return u, notFound(err)
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(s.queryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id))
	return u, notFound(err)
}

func (s *Store) UpdateLastLogin(ctx context.Context, id int64) error {
	return s.execAffected(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, s.now(), id)
}

// SetUserActive flips the account's active flag. System owners are never matched.
func (s *Store) SetUserActive(ctx context.Context, id int64, active bool) error {
	return s.execAffected(ctx,
		`UPDATE users SET is_active = $1 WHERE id = $2 AND is_system_owner = $3`, active, id, false)
}

// ListUsers returns every user with the number of clubs they are active in.
func (s *Store) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	rows, err := s.query(ctx, `
SELECT `+userColumns+`,
    (SELECT COUNT(*) FROM club_members m WHERE m.user_id = u.id AND m.status = 'active')
FROM users u
ORDER BY u.created_at DESC, u.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []models.UserSummary
	for rows.Next() {
		var (
			us        models.UserSummary
			createdAt int64
			lastLogin sql.NullInt64
		)
		u := &us.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
			&u.IsActive, &u.IsSystemOwner, &u.EmailVerified, &createdAt, &lastLogin, &us.ClubCount); err != nil {
			return nil, err
		}
		u.CreatedAt = fromUnix(createdAt)
		u.LastLogin = fromNullUnix(lastLogin)
		out = append(out, us)
	}
	return out, rows.Err()
}
