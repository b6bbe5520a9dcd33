// File: services/member_service.go
package services

import (
	"context"
	"errors"

	"go-club-hub/logger"
	"go-club-hub/models"
	"go-club-hub/store"
)

// MemberService lists and administers club memberships.
type MemberService struct {
	store *store.Store
	rbac  *RBAC
}

func NewMemberService(st *store.Store, rbac *RBAC) *MemberService {
	return &MemberService{store: st, rbac: rbac}
}

// List returns the club's active members. Any active member may call it.
func (s *MemberService) List(ctx context.Context, userID, clubID int64) ([]models.Member, error) {
	if _, err := s.rbac.ResolveMembership(ctx, userID, clubID); err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx, clubID)
	if err != nil {
		return nil, Storage("Failed to load members", err)
	}
	if members == nil {
		members = []models.Member{}
	}
	return members, nil
}

// UpdateRole moves an active member to another role of the same club.
// President roles cannot be granted here and the membership president flag
// is always cleared.
func (s *MemberService) UpdateRole(ctx context.Context, actorID, clubID, targetUserID, roleID int64) error {
	if _, err := s.rbac.CheckPermission(ctx, actorID, clubID, models.PermEditMemberRoles); err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			return PermissionDenied("You do not have permission to edit member roles")
		}
		return err
	}

	if _, err := s.store.GetActiveMembership(ctx, targetUserID, clubID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Validation("User is not a member of this club")
		}
		return Storage("Failed to update role", err)
	}

	role, err := s.store.GetClubRole(ctx, clubID, roleID)
	if errors.Is(err, store.ErrNotFound) {
		return Validation("Invalid role")
	}
	if err != nil {
		return Storage("Failed to update role", err)
	}
	if models.IsPresidentRoleName(role.Name) {
		return Validation("Cannot assign president role through this method")
	}

	if err := s.store.UpdateMemberRole(ctx, clubID, targetUserID, roleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Validation("User is not a member of this club")
		}
		return Storage("Failed to update role", err)
	}
	logger.Info.Printf("[MemberService.UpdateRole] actor=%d club=%d target=%d role=%d(%s)",
		actorID, clubID, targetUserID, roleID, role.Name)
	return nil
}

// Remove marks a member removed. Self-removal is checked before president
// protection so a president removing themselves sees the self-removal error.
func (s *MemberService) Remove(ctx context.Context, actorID, clubID, targetUserID int64) error {
	if _, err := s.rbac.CheckPermission(ctx, actorID, clubID, models.PermManageMembers); err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			return PermissionDenied("You do not have permission to remove members")
		}
		return err
	}

	if targetUserID == actorID {
		return Validation("You cannot remove yourself from the club")
	}

	target, err := s.store.GetActiveMembership(ctx, targetUserID, clubID)
	if errors.Is(err, store.ErrNotFound) {
		return Validation("User is not a member of this club")
	}
	if err != nil {
		return Storage("Failed to remove member", err)
	}
	if target.IsPresident {
		return PermissionDenied("Cannot remove the club president")
	}

	if err := s.store.SetMemberStatus(ctx, clubID, targetUserID, models.MemberStatusRemoved); err != nil {
		return Storage("Failed to remove member", err)
	}
	logger.Info.Printf("[MemberService.Remove] actor=%d removed user=%d from club=%d", actorID, targetUserID, clubID)
	return nil
}
