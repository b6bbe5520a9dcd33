// File: services/role_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"go-club-hub/logger"
	"go-club-hub/models"
	"go-club-hub/store"
)

const maxRoleNameLength = 100

// RoleService manages club roles and their permission values.
type RoleService struct {
	store *store.Store
	rbac  *RBAC
}

func NewRoleService(st *store.Store, rbac *RBAC) *RoleService {
	return &RoleService{store: st, rbac: rbac}
}

func withPresidentFlag(r *models.Role) {
	r.IsPresident = models.IsPresidentRoleName(r.Name)
}

// List returns the club's roles with member counts.
func (s *RoleService) List(ctx context.Context, userID, clubID int64) ([]models.Role, error) {
	if _, err := s.rbac.ResolveMembership(ctx, userID, clubID); err != nil {
		return nil, err
	}
	roles, err := s.store.ListRoles(ctx, clubID)
	if err != nil {
		return nil, Storage("Failed to load roles", err)
	}
	if roles == nil {
		roles = []models.Role{}
	}
	for i := range roles {
		withPresidentFlag(&roles[i])
	}
	return roles, nil
}

// Get returns one role with its stored permission values. Keys with no row
// are left out of the map so callers can tell unset from false.
func (s *RoleService) Get(ctx context.Context, userID, roleID int64) (*models.Role, error) {
	role, err := s.store.GetRole(ctx, roleID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound("Role not found")
	}
	if err != nil {
		return nil, Storage("Failed to load role", err)
	}
	if _, err := s.rbac.ResolveMembership(ctx, userID, role.ClubID); err != nil {
		if errors.Is(err, ErrNotMember) {
			return nil, PermissionDenied("You do not have access to this role")
		}
		return nil, err
	}

	perms, err := s.store.ListPermissions(ctx, roleID)
	if err != nil {
		return nil, Storage("Failed to load role", err)
	}
	role.Permissions = perms
	withPresidentFlag(role)
	return role, nil
}

// RoleInput is the payload for creating a custom role.
type RoleInput struct {
	Name        string `json:"role_name"`
	Description string `json:"description"`
}

// Create adds a non-system role with no permission rows.
func (s *RoleService) Create(ctx context.Context, userID, clubID int64, in RoleInput) (*models.Role, error) {
	if _, err := s.rbac.CanManageRoles(ctx, userID, clubID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, Validation("Role name is required")
	}
	if len(name) > maxRoleNameLength {
		return nil, Validation("Role name is too long")
	}

	role := &models.Role{
		ClubID:      clubID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
	}
	if err := s.store.CreateRole(ctx, role); err != nil {
		return nil, Storage("Failed to create role", err)
	}
	withPresidentFlag(role)
	role.Permissions = map[string]bool{}
	logger.Info.Printf("[RoleService.Create] user=%d club=%d created role=%d %q", userID, clubID, role.ID, name)
	return role, nil
}

// Delete removes a custom role. The checks and the delete share one
// transaction so a member cannot be assigned in between.
func (s *RoleService) Delete(ctx context.Context, userID, clubID, roleID int64) error {
	if _, err := s.rbac.CanManageRoles(ctx, userID, clubID); err != nil {
		return err
	}

	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		role, err := tx.GetClubRole(ctx, clubID, roleID)
		if errors.Is(err, store.ErrNotFound) {
			return Validation("Invalid role")
		}
		if err != nil {
			return err
		}
		if role.IsSystemRole {
			return Validation("Cannot delete system role")
		}

		held, err := tx.RoleHeldByPresident(ctx, roleID)
		if err != nil {
			return err
		}
		if held {
			return Validation("Cannot delete role assigned to club president")
		}

		count, err := tx.CountActiveRoleMembers(ctx, roleID)
		if err != nil {
			return err
		}
		if count > 0 {
			return Validation("Cannot delete role with active members. Reassign members first.")
		}
		return tx.DeleteRole(ctx, roleID)
	})

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if err != nil {
		return Storage("Failed to delete role", err)
	}
	logger.Info.Printf("[RoleService.Delete] user=%d club=%d deleted role=%d", userID, clubID, roleID)
	return nil
}

// SetPermission upserts a single permission value on a club role.
func (s *RoleService) SetPermission(ctx context.Context, userID, clubID, roleID int64, key string, value bool) error {
	if _, err := s.rbac.CanManageRoles(ctx, userID, clubID); err != nil {
		return err
	}
	if !models.IsPermissionKey(key) {
		return Validation("Invalid permission key")
	}

	if _, err := s.store.GetClubRole(ctx, clubID, roleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Validation("Invalid role")
		}
		return Storage("Failed to update permission", err)
	}

	if err := s.store.SetPermission(ctx, roleID, key, value); err != nil {
		return Storage("Failed to update permission", err)
	}
	logger.Info.Printf("[RoleService.SetPermission] user=%d club=%d role=%d %s=%t", userID, clubID, roleID, key, value)
	return nil
}

// SetPermissions applies several values at once.
func (s *RoleService) SetPermissions(ctx context.Context, userID, clubID, roleID int64, values map[string]bool) error {
	if len(values) == 0 {
		return Validation("No permissions provided")
	}
	for key := range values {
		if !models.IsPermissionKey(key) {
			return Validation("Invalid permission key")
		}
	}
	if _, err := s.rbac.CanManageRoles(ctx, userID, clubID); err != nil {
		return err
	}

	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := tx.GetClubRole(ctx, clubID, roleID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return Validation("Invalid role")
			}
			return err
		}
		for _, key := range models.PermissionKeys {
			if v, ok := values[key]; ok {
				if err := tx.SetPermission(ctx, roleID, key, v); err != nil {
					return err
				}
			}
		}
		return nil
	})

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if err != nil {
		return Storage("Failed to update permission", err)
	}
	logger.Info.Printf("[RoleService.SetPermissions] user=%d club=%d role=%d updated %d keys", userID, clubID, roleID, len(values))
	return nil
}
