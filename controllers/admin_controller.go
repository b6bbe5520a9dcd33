// File: controllers/admin_controller.go
package controllers

import (
	"github.com/gin-gonic/gin"

	"go-club-hub/middleware"
	"go-club-hub/services"
)

// ---------------- System Owner Controller ----------------

// AdminController serves the /api/super-owner endpoints. The route group is
// already gated by middleware.SystemOwnerRequired.
type AdminController struct {
	Admin *services.AdminService
	Clubs *services.ClubService
}

func NewAdminController(admin *services.AdminService, clubs *services.ClubService) *AdminController {
	return &AdminController{Admin: admin, Clubs: clubs}
}

type adminRequest struct {
	RequestID int64  `json:"request_id"`
	UserID    int64  `json:"user_id"`
	ClubID    int64  `json:"club_id"`
	Reason    string `json:"reason"`
}

// ---------------- platform overview ----------------

func (ac *AdminController) Stats(c *gin.Context) {
	stats, err := ac.Admin.Stats(c.Request.Context())
	if err != nil {
		fail(c, err, "Error fetching statistics")
		return
	}
	ok(c, stats, "")
}

func (ac *AdminController) ListClubs(c *gin.Context) {
	clubs, err := ac.Admin.Clubs(c.Request.Context())
	if err != nil {
		fail(c, err, "Error fetching clubs")
		return
	}
	ok(c, clubs, "")
}

func (ac *AdminController) ListUsers(c *gin.Context) {
	users, err := ac.Admin.Users(c.Request.Context())
	if err != nil {
		fail(c, err, "Error fetching users")
		return
	}
	ok(c, users, "")
}

func (ac *AdminController) PendingRequests(c *gin.Context) {
	reqs, err := ac.Clubs.PendingClubRequests(c.Request.Context())
	if err != nil {
		fail(c, err, "Error fetching requests")
		return
	}
	ok(c, reqs, "")
}

// ---------------- club requests ----------------

func (ac *AdminController) ApproveClub(c *gin.Context) {
	var in adminRequest
	if !bind(c, &in) {
		return
	}
	if in.RequestID == 0 {
		failMsg(c, "Request ID required")
		return
	}
	club, err := ac.Clubs.ApproveClubRequest(c.Request.Context(), middleware.Current(c).UserID, in.RequestID)
	if err != nil {
		fail(c, err, "Error approving club request")
		return
	}
	ok(c, gin.H{"club_id": club.ID, "access_code": club.AccessCode}, "Club created successfully")
}

func (ac *AdminController) RejectClub(c *gin.Context) {
	var in adminRequest
	if !bind(c, &in) {
		return
	}
	if in.RequestID == 0 {
		failMsg(c, "Request ID required")
		return
	}
	if err := ac.Clubs.RejectClubRequest(c.Request.Context(), middleware.Current(c).UserID, in.RequestID, in.Reason); err != nil {
		fail(c, err, "Error rejecting request")
		return
	}
	ok(c, nil, "Request rejected")
}

// ---------------- accounts and clubs ----------------

func (ac *AdminController) DeactivateUser(c *gin.Context) {
	var in adminRequest
	if !bind(c, &in) {
		return
	}
	if err := ac.Admin.DeactivateUser(c.Request.Context(), middleware.Current(c).UserID, in.UserID); err != nil {
		fail(c, err, "Error deactivating user")
		return
	}
	ok(c, nil, "User deactivated")
}

func (ac *AdminController) ActivateUser(c *gin.Context) {
	var in adminRequest
	if !bind(c, &in) {
		return
	}
	if err := ac.Admin.ActivateUser(c.Request.Context(), middleware.Current(c).UserID, in.UserID); err != nil {
		fail(c, err, "Error activating user")
		return
	}
	ok(c, nil, "User activated")
}

// DeleteClub deactivates a club. Its rows are kept.
func (ac *AdminController) DeleteClub(c *gin.Context) {
	var in adminRequest
	if !bind(c, &in) {
		return
	}
	if err := ac.Admin.DeactivateClub(c.Request.Context(), middleware.Current(c).UserID, in.ClubID); err != nil {
		fail(c, err, "Error deleting club")
		return
	}
	ok(c, nil, "Club deactivated")
}
