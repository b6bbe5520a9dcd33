// File: controllers/role_controller.go
package controllers

import (
	"github.com/gin-gonic/gin"

	"go-club-hub/middleware"
	"go-club-hub/services"
)

// RoleController manages custom roles and their permission matrices.
type RoleController struct {
	Roles *services.RoleService
}

func NewRoleController(r *services.RoleService) *RoleController {
	return &RoleController{Roles: r}
}

type roleRequest struct {
	ClubID int64 `json:"club_id"`
	services.RoleInput
}

// permissionsRequest accepts either a whole map or a single key/value pair.
type permissionsRequest struct {
	ClubID        int64           `json:"club_id"`
	Permissions   map[string]bool `json:"permissions"`
	PermissionKey string          `json:"permission_key"`
	Value         *bool           `json:"value"`
}

func (rc *RoleController) List(c *gin.Context) {
	clubID, found := requireClub(c, 0)
	if !found {
		return
	}
	roles, err := rc.Roles.List(c.Request.Context(), middleware.Current(c).UserID, clubID)
	if err != nil {
		fail(c, err, "Error fetching roles")
		return
	}
	ok(c, roles, "")
}

func (rc *RoleController) Get(c *gin.Context) {
	roleID := parseID(c.Param("role_id"))
	if roleID == 0 {
		failMsg(c, "Role ID is required")
		return
	}
	role, err := rc.Roles.Get(c.Request.Context(), middleware.Current(c).UserID, roleID)
	if err != nil {
		fail(c, err, "Error fetching role")
		return
	}
	ok(c, role, "")
}

func (rc *RoleController) Create(c *gin.Context) {
	var in roleRequest
	if !bind(c, &in) {
		return
	}
	clubID, found := requireClub(c, in.ClubID)
	if !found {
		return
	}
	role, err := rc.Roles.Create(c.Request.Context(), middleware.Current(c).UserID, clubID, in.RoleInput)
	if err != nil {
		fail(c, err, "Error creating role")
		return
	}
	ok(c, role, "Role created successfully")
}

func (rc *RoleController) Delete(c *gin.Context) {
	clubID, found := requireClub(c, 0)
	if !found {
		return
	}
	roleID := parseID(c.Param("role_id"))
	if roleID == 0 {
		failMsg(c, "Role ID is required")
		return
	}
	if err := rc.Roles.Delete(c.Request.Context(), middleware.Current(c).UserID, clubID, roleID); err != nil {
		fail(c, err, "Error deleting role")
		return
	}
	ok(c, nil, "Role deleted successfully")
}

// SetPermissions upserts permission values for a role.
func (rc *RoleController) SetPermissions(c *gin.Context) {
	var in permissionsRequest
	if !bind(c, &in) {
		return
	}
	clubID, found := requireClub(c, in.ClubID)
	if !found {
		return
	}
	roleID := parseID(c.Param("role_id"))
	if roleID == 0 {
		failMsg(c, "Role ID is required")
		return
	}

	userID := middleware.Current(c).UserID
	var err error
	if in.PermissionKey != "" && in.Value != nil {
		err = rc.Roles.SetPermission(c.Request.Context(), userID, clubID, roleID, in.PermissionKey, *in.Value)
	} else {
		err = rc.Roles.SetPermissions(c.Request.Context(), userID, clubID, roleID, in.Permissions)
	}
	if err != nil {
		fail(c, err, "Error updating permissions")
		return
	}
	ok(c, nil, "Permissions updated successfully")
}
