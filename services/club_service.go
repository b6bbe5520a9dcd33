// File: services/club_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"unicode"

	"go-club-hub/logger"
	"go-club-hub/models"
	"go-club-hub/store"
)

const (
	maxClubNameLength      = 200
	maxAccessCodeAttempts  = 20
	generalRoomName        = "General"
	generalRoomDescription = "Main chat room for all members"
)

var systemRoleDescriptions = map[string]string{
	models.RolePresident:     "Club president with full permissions",
	models.RoleVicePresident: "Assists president and manages operations",
	models.RoleMember:        "Regular club member",
}

// ClubService covers club lifecycle: creation requests, approval, joining
// by access code and switching the active club.
type ClubService struct {
	store         *store.Store
	rbac          *RBAC
	notifications *NotificationService
	intn          func(n int) int
}

func NewClubService(st *store.Store, rbac *RBAC, notifications *NotificationService) *ClubService {
	return &ClubService{store: st, rbac: rbac, notifications: notifications, intn: rand.Intn} // #nosec G404
}

// MyClubs lists the clubs where the user is an active member.
func (s *ClubService) MyClubs(ctx context.Context, userID int64) ([]models.UserClub, error) {
	clubs, err := s.store.ListUserClubs(ctx, userID)
	if err != nil {
		return nil, Storage("Failed to load clubs", err)
	}
	if clubs == nil {
		clubs = []models.UserClub{}
	}
	return clubs, nil
}

// SwitchClub verifies membership before the caller stores clubID as active.
func (s *ClubService) SwitchClub(ctx context.Context, userID, clubID int64) (*models.Membership, error) {
	m, err := s.rbac.ResolveMembership(ctx, userID, clubID)
	if err != nil {
		return nil, err
	}
	if err := s.store.TouchMembership(ctx, clubID, userID); err != nil {
		logger.Warn.Printf("[ClubService.SwitchClub] touch membership user=%d club=%d: %v", userID, clubID, err)
	}
	return m, nil
}

// GetClub returns a club the user is an active member of.
func (s *ClubService) GetClub(ctx context.Context, userID, clubID int64) (*models.Club, error) {
	if _, err := s.rbac.ResolveMembership(ctx, userID, clubID); err != nil {
		return nil, err
	}
	club, err := s.store.GetClub(ctx, clubID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound("Club not found")
	}
	if err != nil {
		return nil, Storage("Failed to load club", err)
	}
	return club, nil
}

// ------------------- club creation requests -------------------

// ClubRequestInput is the payload of a club creation request.
type ClubRequestInput struct {
	ClubName     string `json:"club_name"`
	Description  string `json:"description"`
	StaffAdvisor string `json:"staff_advisor"`
}

func (s *ClubService) SubmitClubRequest(ctx context.Context, userID int64, in ClubRequestInput) (*models.ClubRequest, error) {
	name := strings.TrimSpace(in.ClubName)
	if name == "" {
		return nil, Validation("Club name is required")
	}
	if len(name) > maxClubNameLength {
		return nil, Validation("Club name is too long")
	}

	req := &models.ClubRequest{
		RequestedBy:  userID,
		ClubName:     name,
		Description:  strings.TrimSpace(in.Description),
		StaffAdvisor: strings.TrimSpace(in.StaffAdvisor),
	}
	if err := s.store.CreateClubRequest(ctx, req); err != nil {
		return nil, Storage("Failed to submit club request", err)
	}
	logger.Info.Printf("[ClubService.SubmitClubRequest] user=%d requested club %q (request=%d)", userID, name, req.ID)
	return req, nil
}

// ApproveClubRequest creates the club with its system roles, permission
// matrices, president membership and general chat room in one transaction.
func (s *ClubService) ApproveClubRequest(ctx context.Context, reviewerID, requestID int64) (*models.Club, error) {
	req, err := s.store.GetClubRequest(ctx, requestID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && req.Status != models.RequestPending) {
		return nil, NotFound("Request not found or already processed")
	}
	if err != nil {
		return nil, Storage("Error approving club request", err)
	}

	var club *models.Club
	err = s.store.WithTx(ctx, func(tx *store.Store) error {
		code, err := s.generateAccessCode(ctx, tx, req.ClubName)
		if err != nil {
			return err
		}

		presidentID := req.RequestedBy
		fromRequest := req.ID
		club = &models.Club{
			Name:                 req.ClubName,
			Description:          req.Description,
			StaffAdvisor:         req.StaffAdvisor,
			AccessCode:           code,
			CurrentPresidentID:   &presidentID,
			CreatedFromRequestID: &fromRequest,
			IsActive:             true,
		}
		if err := tx.CreateClub(ctx, club); err != nil {
			return err
		}

		roleIDs := make(map[string]int64, 3)
		for _, name := range []string{models.RolePresident, models.RoleVicePresident, models.RoleMember} {
			role := &models.Role{
				ClubID:       club.ID,
				Name:         name,
				Description:  systemRoleDescriptions[name],
				IsSystemRole: true,
			}
			if err := tx.CreateRole(ctx, role); err != nil {
				return err
			}
			for _, key := range models.PermissionKeys {
				if err := tx.SetPermission(ctx, role.ID, key, models.DefaultPermissions(name)[key]); err != nil {
					return err
				}
			}
			roleIDs[name] = role.ID
		}

		if err := tx.UpsertMembership(ctx, &models.Membership{
			ClubID:      club.ID,
			UserID:      req.RequestedBy,
			RoleID:      roleIDs[models.RolePresident],
			IsPresident: true,
		}); err != nil {
			return err
		}

		room := &models.ChatRoom{
			ClubID:      club.ID,
			Name:        generalRoomName,
			Description: generalRoomDescription,
			CreatedBy:   req.RequestedBy,
			IsGeneral:   true,
			IsActive:    true,
		}
		if err := tx.CreateChatRoom(ctx, room); err != nil {
			return err
		}
		if err := tx.TouchRoomMember(ctx, room.ID, req.RequestedBy); err != nil {
			return err
		}

		if err := tx.ReviewClubRequest(ctx, req.ID, models.RequestApproved, "", reviewerID); err != nil {
			return err
		}

		return tx.CreateNotification(ctx, &models.Notification{
			UserID:  req.RequestedBy,
			Title:   "Club Approved!",
			Message: fmt.Sprintf("Your club %q has been approved! Access code: %s", req.ClubName, code),
			Type:    models.NotificationSuccess,
		})
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound("Request not found or already processed")
	}
	if err != nil {
		logger.Error.Printf("[ClubService.ApproveClubRequest] request=%d: %v", requestID, err)
		return nil, Storage("Error approving club request", err)
	}

	logger.Info.Printf("[ClubService.ApproveClubRequest] request=%d approved as club=%d code=%s", requestID, club.ID, club.AccessCode)
	return club, nil
}

// RejectClubRequest marks a pending request rejected and tells the requester.
func (s *ClubService) RejectClubRequest(ctx context.Context, reviewerID, requestID int64, reason string) error {
	req, err := s.store.GetClubRequest(ctx, requestID)
	if errors.Is(err, store.ErrNotFound) {
		return NotFound("Request not found or already processed")
	}
	if err != nil {
		return Storage("Error rejecting request", err)
	}

	err = s.store.ReviewClubRequest(ctx, requestID, models.RequestRejected, strings.TrimSpace(reason), reviewerID)
	if errors.Is(err, store.ErrNotFound) {
		return NotFound("Request not found or already processed")
	}
	if err != nil {
		return Storage("Error rejecting request", err)
	}

	s.notifications.Notify(ctx, req.RequestedBy, "Club Request Declined",
		"Your club creation request has been declined.", models.NotificationWarning, "")
	return nil
}

// PendingClubRequests lists requests awaiting review.
func (s *ClubService) PendingClubRequests(ctx context.Context) ([]models.ClubRequest, error) {
	list, err := s.store.ListClubRequests(ctx, models.RequestPending)
	if err != nil {
		return nil, Storage("Failed to load requests", err)
	}
	if list == nil {
		list = []models.ClubRequest{}
	}
	return list, nil
}

// accessCodePrefix takes the first three letters of the name, upper-cased
// and padded with X.
func accessCodePrefix(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
			if b.Len() == 3 {
				break
			}
		}
	}
	prefix := b.String()
	for len(prefix) < 3 {
		prefix += "X"
	}
	return prefix
}

func (s *ClubService) generateAccessCode(ctx context.Context, st *store.Store, name string) (string, error) {
	prefix := accessCodePrefix(name)
	for i := 0; i < maxAccessCodeAttempts; i++ {
		code := fmt.Sprintf("%s%d", prefix, 100+s.intn(900))
		exists, err := st.AccessCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("no free access code for prefix %s after %d attempts", prefix, maxAccessCodeAttempts)
}

// --------------------- joining by access code ---------------------

// RequestJoin files a join request for the club owning accessCode.
func (s *ClubService) RequestJoin(ctx context.Context, userID int64, accessCode string) (*models.JoinRequest, *models.Club, error) {
	code := strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, accessCode))
	if code == "" {
		return nil, nil, Validation("Access code is required")
	}

	club, err := s.store.GetClubByAccessCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, NotFound("Invalid access code")
	}
	if err != nil {
		return nil, nil, Storage("Failed to submit join request", err)
	}

	if _, err := s.store.GetActiveMembership(ctx, userID, club.ID); err == nil {
		return nil, nil, Conflict("You are already a member of this club")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, nil, Storage("Failed to submit join request", err)
	}

	pending, err := s.store.HasPendingJoinRequest(ctx, club.ID, userID)
	if err != nil {
		return nil, nil, Storage("Failed to submit join request", err)
	}
	if pending {
		return nil, nil, Conflict("You already have a pending request for this club")
	}

	req := &models.JoinRequest{ClubID: club.ID, UserID: userID}
	if err := s.store.CreateJoinRequest(ctx, req); err != nil {
		return nil, nil, Storage("Failed to submit join request", err)
	}

	if club.CurrentPresidentID != nil {
		s.notifications.Notify(ctx, *club.CurrentPresidentID, "New Join Request",
			fmt.Sprintf("A new member has asked to join %s.", club.Name), models.NotificationInfo, "")
	}
	logger.Info.Printf("[ClubService.RequestJoin] user=%d requested to join club=%d", userID, club.ID)
	return req, club, nil
}

// ListJoinRequests requires manage_members in the club.
func (s *ClubService) ListJoinRequests(ctx context.Context, userID, clubID int64) ([]models.JoinRequest, error) {
	if _, err := s.rbac.CheckPermission(ctx, userID, clubID, models.PermManageMembers); err != nil {
		return nil, err
	}
	list, err := s.store.ListJoinRequests(ctx, clubID, models.RequestPending)
	if err != nil {
		return nil, Storage("Failed to load join requests", err)
	}
	if list == nil {
		list = []models.JoinRequest{}
	}
	return list, nil
}

func (s *ClubService) loadReviewableJoinRequest(ctx context.Context, reviewerID, requestID int64) (*models.JoinRequest, error) {
	req, err := s.store.GetJoinRequest(ctx, requestID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound("Request not found or already processed")
	}
	if err != nil {
		return nil, Storage("Failed to load join request", err)
	}
	if _, err := s.rbac.CheckPermission(ctx, reviewerID, req.ClubID, models.PermManageMembers); err != nil {
		return nil, err
	}
	if req.Status != models.RequestPending {
		return nil, NotFound("Request not found or already processed")
	}
	return req, nil
}

// ApproveJoinRequest admits the user with the club's Member role and adds
// them to the general room, all in one transaction.
func (s *ClubService) ApproveJoinRequest(ctx context.Context, reviewerID, requestID int64) error {
	req, err := s.loadReviewableJoinRequest(ctx, reviewerID, requestID)
	if err != nil {
		return err
	}

	var clubName string
	err = s.store.WithTx(ctx, func(tx *store.Store) error {
		club, err := tx.GetClub(ctx, req.ClubID)
		if err != nil {
			return err
		}
		clubName = club.Name

		role, err := tx.GetClubRoleByName(ctx, req.ClubID, models.RoleMember)
		if err != nil {
			return fmt.Errorf("member role: %w", err)
		}
		if err := tx.ReviewJoinRequest(ctx, req.ID, models.RequestApproved, reviewerID); err != nil {
			return err
		}
		if err := tx.UpsertMembership(ctx, &models.Membership{
			ClubID: req.ClubID,
			UserID: req.UserID,
			RoleID: role.ID,
		}); err != nil {
			return err
		}

		room, err := tx.GetGeneralRoom(ctx, req.ClubID)
		if err == nil {
			if err := tx.TouchRoomMember(ctx, room.ID, req.UserID); err != nil {
				return err
			}
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return NotFound("Request not found or already processed")
	}
	if err != nil {
		logger.Error.Printf("[ClubService.ApproveJoinRequest] request=%d: %v", requestID, err)
		return Storage("Failed to approve join request", err)
	}

	s.notifications.Notify(ctx, req.UserID, "Join Request Approved",
		fmt.Sprintf("You are now a member of %s.", clubName), models.NotificationSuccess, "")
	logger.Info.Printf("[ClubService.ApproveJoinRequest] user=%d joined club=%d (approved by %d)", req.UserID, req.ClubID, reviewerID)
	return nil
}

func (s *ClubService) RejectJoinRequest(ctx context.Context, reviewerID, requestID int64) error {
	req, err := s.loadReviewableJoinRequest(ctx, reviewerID, requestID)
	if err != nil {
		return err
	}
	err = s.store.ReviewJoinRequest(ctx, req.ID, models.RequestRejected, reviewerID)
	if errors.Is(err, store.ErrNotFound) {
		return NotFound("Request not found or already processed")
	}
	if err != nil {
		return Storage("Failed to reject join request", err)
	}
	s.notifications.Notify(ctx, req.UserID, "Join Request Declined",
		"Your request to join the club has been declined.", models.NotificationWarning, "")
	return nil
}
