// File: services/rbac_service.go
package services

import (
	"context"
	"errors"

	"go-club-hub/logger"
	"go-club-hub/metrics"
	"go-club-hub/models"
	"go-club-hub/store"
)

// RBAC answers club-scoped authorization questions. Every club operation
// goes through ResolveMembership or CheckPermission before touching data.
type RBAC struct {
	store *store.Store
}

func NewRBAC(st *store.Store) *RBAC {
	return &RBAC{store: st}
}

// ResolveMembership returns the user's active membership in the club or ErrNotMember.
func (r *RBAC) ResolveMembership(ctx context.Context, userID, clubID int64) (*models.Membership, error) {
	if userID == 0 || clubID == 0 {
		return nil, ErrNotMember
	}

	m, err := r.store.GetActiveMembership(ctx, userID, clubID)
	if errors.Is(err, store.ErrNotFound) {
		logger.Info.Printf("[RBAC.ResolveMembership] user=%d club=%d: no active membership", userID, clubID)
		return nil, ErrNotMember
	}
	if err != nil {
		return nil, Storage("Failed to verify club membership", err)
	}

	if m.IsPresident != models.IsPresidentRoleName(m.RoleName) {
		logger.Warn.Printf("[RBAC.ResolveMembership] president markers disagree: user=%d club=%d membership_flag=%t role=%q",
			userID, clubID, m.IsPresident, m.RoleName)
	}
	return m, nil
}

// CheckPermission resolves membership and then requires the role to hold
// key with value true. A missing permission row denies like an explicit false.
func (r *RBAC) CheckPermission(ctx context.Context, userID, clubID int64, key string) (*models.Membership, error) {
	m, err := r.ResolveMembership(ctx, userID, clubID)
	if err != nil {
		if errors.Is(err, ErrNotMember) {
			metrics.PermissionChecks.WithLabelValues(key, "not_member").Inc()
		}
		return nil, err
	}

	if !models.IsPermissionKey(key) {
		logger.Error.Printf("[RBAC.CheckPermission] unknown permission key %q requested", key)
		return nil, ErrPermissionDenied
	}

	value, found, err := r.store.GetPermission(ctx, m.RoleID, key)
	if err != nil {
		return nil, Storage("Failed to verify permissions", err)
	}

	switch {
	case !found:
		metrics.PermissionChecks.WithLabelValues(key, "unset").Inc()
		logger.Info.Printf("[RBAC.CheckPermission] deny user=%d club=%d role=%d key=%s: unset", userID, clubID, m.RoleID, key)
		return nil, ErrPermissionDenied
	case !value:
		metrics.PermissionChecks.WithLabelValues(key, "denied").Inc()
		logger.Info.Printf("[RBAC.CheckPermission] deny user=%d club=%d role=%d key=%s: explicitly false", userID, clubID, m.RoleID, key)
		return nil, ErrPermissionDenied
	}

	metrics.PermissionChecks.WithLabelValues(key, "granted").Inc()
	return m, nil
}

// HasPermission is CheckPermission for callers that only need a yes or no
// and want storage failures reported separately.
func (r *RBAC) HasPermission(ctx context.Context, userID, clubID int64, key string) (bool, error) {
	_, err := r.CheckPermission(ctx, userID, clubID, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, ErrNotMember):
		return false, nil
	default:
		return false, err
	}
}

// CanManageRoles gates role administration. It passes for the membership
// president, for a vice-president style role name, or for a role holding
// manage_roles.
func (r *RBAC) CanManageRoles(ctx context.Context, userID, clubID int64) (*models.Membership, error) {
	m, err := r.ResolveMembership(ctx, userID, clubID)
	if err != nil {
		return nil, err
	}
	if m.IsPresident || models.IsVicePresidentRoleName(m.RoleName) {
		return m, nil
	}

	value, found, err := r.store.GetPermission(ctx, m.RoleID, models.PermManageRoles)
	if err != nil {
		return nil, Storage("Failed to verify permissions", err)
	}
	if found && value {
		return m, nil
	}

	logger.Info.Printf("[RBAC.CanManageRoles] deny user=%d club=%d role=%q", userID, clubID, m.RoleName)
	return nil, PermissionDenied("Only club presidents and vice presidents can manage roles")
}
