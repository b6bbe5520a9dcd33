// File: controllers/member_controller.go
package controllers

import (
	"github.com/gin-gonic/gin"

	"go-club-hub/middleware"
	"go-club-hub/models"
	"go-club-hub/services"
)

type MemberController struct {
	Members *services.MemberService
}

func NewMemberController(m *services.MemberService) *MemberController {
	return &MemberController{Members: m}
}

type memberRequest struct {
	ClubID int64 `json:"club_id"`
	UserID int64 `json:"user_id"`
	RoleID int64 `json:"role_id"`
}

func (mc *MemberController) List(c *gin.Context) {
	clubID, found := requireClub(c, 0)
	if !found {
		return
	}
	members, err := mc.Members.List(c.Request.Context(), middleware.Current(c).UserID, clubID)
	if err != nil {
		fail(c, err, "Error fetching members")
		return
	}
	if members == nil {
		members = []models.Member{}
	}
	ok(c, members, "")
}

// UpdateRole moves a member to another role of the same club.
func (mc *MemberController) UpdateRole(c *gin.Context) {
	var in memberRequest
	if !bind(c, &in) {
		return
	}
	cid := clubID(c, in.ClubID)
	if cid == 0 || in.UserID == 0 || in.RoleID == 0 {
		failMsg(c, "Club ID, user ID and role ID are required")
		return
	}
	if err := mc.Members.UpdateRole(c.Request.Context(), middleware.Current(c).UserID, cid, in.UserID, in.RoleID); err != nil {
		fail(c, err, "Error updating role")
		return
	}
	ok(c, nil, "Role updated successfully")
}

func (mc *MemberController) Remove(c *gin.Context) {
	var in memberRequest
	if !bind(c, &in) {
		return
	}
	cid := clubID(c, in.ClubID)
	if cid == 0 || in.UserID == 0 {
		failMsg(c, "Club ID and user ID are required")
		return
	}
	if err := mc.Members.Remove(c.Request.Context(), middleware.Current(c).UserID, cid, in.UserID); err != nil {
		fail(c, err, "Error removing member")
		return
	}
	ok(c, nil, "Member removed successfully")
}
