// File: services/admin_service.go
package services

import (
	"context"
	"errors"

	"go-club-hub/logger"
	"go-club-hub/models"
	"go-club-hub/store"
)

// AdminService backs the system-owner dashboard. Callers must have checked
// the system-owner flag already.
type AdminService struct {
	store *store.Store
}

func NewAdminService(st *store.Store) *AdminService {
	return &AdminService{store: st}
}

func (s *AdminService) Stats(ctx context.Context) (*models.PlatformStats, error) {
	stats, err := s.store.PlatformStats(ctx)
	if err != nil {
		return nil, Storage("Error fetching statistics", err)
	}
	return stats, nil
}

func (s *AdminService) Clubs(ctx context.Context) ([]models.ClubSummary, error) {
	clubs, err := s.store.ListClubs(ctx)
	if err != nil {
		return nil, Storage("Error fetching clubs", err)
	}
	if clubs == nil {
		clubs = []models.ClubSummary{}
	}
	return clubs, nil
}

func (s *AdminService) Users(ctx context.Context) ([]models.UserSummary, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, Storage("Error fetching users", err)
	}
	if users == nil {
		users = []models.UserSummary{}
	}
	return users, nil
}

// DeactivateUser disables the account and drops all of its sessions so the
// user is signed out everywhere.
func (s *AdminService) DeactivateUser(ctx context.Context, actorID, userID int64) error {
	if userID == 0 {
		return Validation("User ID required")
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return NotFound("User not found")
	}
	if err != nil {
		return Storage("Error deactivating user", err)
	}
	if user.IsSystemOwner {
		return PermissionDenied("Cannot deactivate system owner")
	}

	if err := s.store.SetUserActive(ctx, userID, false); err != nil {
		return Storage("Error deactivating user", err)
	}
	dropped, err := s.store.DeleteUserSessions(ctx, userID)
	if err != nil {
		logger.Warn.Printf("[AdminService.DeactivateUser] dropping sessions for user=%d: %v", userID, err)
	}
	logger.Info.Printf("[AdminService.DeactivateUser] actor=%d deactivated user=%d (%d sessions dropped)", actorID, userID, dropped)
	return nil
}

func (s *AdminService) ActivateUser(ctx context.Context, actorID, userID int64) error {
	if userID == 0 {
		return Validation("User ID required")
	}
	err := s.store.SetUserActive(ctx, userID, true)
	if errors.Is(err, store.ErrNotFound) {
		return NotFound("User not found")
	}
	if err != nil {
		return Storage("Error activating user", err)
	}
	logger.Info.Printf("[AdminService.ActivateUser] actor=%d activated user=%d", actorID, userID)
	return nil
}

// DeactivateClub hides a club from access-code lookup and member listings.
// Rows are kept.
func (s *AdminService) DeactivateClub(ctx context.Context, actorID, clubID int64) error {
	if clubID == 0 {
		return Validation("Club ID required")
	}
	err := s.store.SetClubActive(ctx, clubID, false)
	if errors.Is(err, store.ErrNotFound) {
		return NotFound("Club not found")
	}
	if err != nil {
		return Storage("Error deleting club", err)
	}
	logger.Info.Printf("[AdminService.DeactivateClub] actor=%d deactivated club=%d", actorID, clubID)
	return nil
}
