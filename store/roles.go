// File: store/roles.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go-club-hub/models"
)

const roleColumns = `r.id, r.club_id, r.role_name, r.role_description, r.is_system_role, r.created_at`

func scanRole(row rowScanner, extra ...any) (*models.Role, error) {
	var (
		r         models.Role
		createdAt int64
	)
	dest := append([]any{&r.ID, &r.ClubID, &r.Name, &r.Description, &r.IsSystemRole, &createdAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	r.CreatedAt = fromUnix(createdAt)
	r.IsPresident = models.IsPresidentRoleName(r.Name)
	return &r, nil
}

// CreateRole inserts r and fills in its ID and CreatedAt.
func (s *Store) CreateRole(ctx context.Context, r *models.Role) error {
	now := s.now()
	err := s.queryRow(ctx, `
INSERT INTO club_roles (club_id, role_name, role_description, is_system_role, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`, r.ClubID, r.Name, r.Description, r.IsSystemRole, now).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("create role: %w", err)
	}
	r.CreatedAt = fromUnix(now)
	r.IsPresident = models.IsPresidentRoleName(r.Name)
	return nil
}

func (s *Store) GetRole(ctx context.Context, id int64) (*models.Role, error) {
	r, err := scanRole(s.queryRow(ctx, `SELECT `+roleColumns+` FROM club_roles r WHERE r.id = $1`, id))
	return r, notFound(err)
}

// GetClubRole returns the role only if it belongs to clubID.
func (s *Store) GetClubRole(ctx context.Context, clubID, roleID int64) (*models.Role, error) {
	r, err := scanRole(s.queryRow(ctx,
		`SELECT `+roleColumns+` FROM club_roles r WHERE r.id = $1 AND r.club_id = $2`, roleID, clubID))
	return r, notFound(err)
}

func (s *Store) GetClubRoleByName(ctx context.Context, clubID int64, name string) (*models.Role, error) {
	r, err := scanRole(s.queryRow(ctx, `
SELECT `+roleColumns+` FROM club_roles r
WHERE r.club_id = $1 AND r.role_name = $2
ORDER BY r.id LIMIT 1`, clubID, name))
	return r, notFound(err)
}

// ListRoles returns a club's roles with their active member counts.
func (s *Store) ListRoles(ctx context.Context, clubID int64) ([]models.Role, error) {
	rows, err := s.query(ctx, `
SELECT `+roleColumns+`,
    (SELECT COUNT(*) FROM club_members m WHERE m.role_id = r.id AND m.status = 'active')
FROM club_roles r
WHERE r.club_id = $1
ORDER BY r.is_system_role DESC, r.id`, clubID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var out []models.Role
	for rows.Next() {
		var count int
		r, err := scanRole(rows, &count)
		if err != nil {
			return nil, err
		}
		r.MemberCount = count
		out = append(out, *r)
	}
	return out, rows.Err()
}

// DeleteRole removes a role and its permission rows.
func (s *Store) DeleteRole(ctx context.Context, id int64) error {
	if _, err := s.exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, id); err != nil {
		return fmt.Errorf("delete role permissions: %w", err)
	}
	return s.execAffected(ctx, `DELETE FROM club_roles WHERE id = $1`, id)
}

// CountActiveRoleMembers counts active memberships holding the role.
func (s *Store) CountActiveRoleMembers(ctx context.Context, roleID int64) (int, error) {
	var n int
	err := s.queryRow(ctx,
		`SELECT COUNT(*) FROM club_members WHERE role_id = $1 AND status = 'active'`, roleID).Scan(&n)
	return n, err
}

// RoleHeldByPresident reports whether an active president-flagged membership uses the role.
func (s *Store) RoleHeldByPresident(ctx context.Context, roleID int64) (bool, error) {
	var n int
	err := s.queryRow(ctx, `
SELECT COUNT(*) FROM club_members
WHERE role_id = $1 AND status = 'active' AND is_president = $2`, roleID, true).Scan(&n)
	return n > 0, err
}

// ------------------------ permissions ------------------------

// SetPermission upserts one (role, key) value.
func (s *Store) SetPermission(ctx context.Context, roleID int64, key string, value bool) error {
	_, err := s.exec(ctx, `
INSERT INTO role_permissions (role_id, permission_key, permission_value)
VALUES ($1, $2, $3)
ON CONFLICT (role_id, permission_key) DO UPDATE SET permission_value = excluded.permission_value`,
		roleID, key, value)
	if err != nil {
		return fmt.Errorf("set permission: %w", err)
	}
	return nil
}

// GetPermission returns the stored value and whether a row exists at all.
func (s *Store) GetPermission(ctx context.Context, roleID int64, key string) (value bool, found bool, err error) {
	err = s.queryRow(ctx, `
SELECT permission_value FROM role_permissions
WHERE role_id = $1 AND permission_key = $2`, roleID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, false, nil
		}
		return false, false, fmt.Errorf("get permission: %w", err)
	}
	return value, true, nil
}

// ListPermissions returns every stored permission row of a role.
func (s *Store) ListPermissions(ctx context.Context, roleID int64) (map[string]bool, error) {
	rows, err := s.query(ctx,
		`SELECT permission_key, permission_value FROM role_permissions WHERE role_id = $1`, roleID)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var (
			key   string
			value bool
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		out[key] = value
	}
	return out, rows.Err()
}
