// File: models/role.go
package models

import (
	"strings"
	"time"
)

// ------------------------ role model -----------------------

// Role is a named permission bundle scoped to one club.
type Role struct {
	ID           int64           `json:"id"`
	ClubID       int64           `json:"club_id"`
	Name         string          `json:"role_name"`
	Description  string          `json:"role_description"`
	IsSystemRole bool            `json:"is_system_role"`
	IsPresident  bool            `json:"is_president"`
	MemberCount  int             `json:"member_count"`
	Permissions  map[string]bool `json:"permissions,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// System role names created for every approved club.
const (
	RolePresident     = "President"
	RoleVicePresident = "Vice President"
	RoleMember        = "Member"
)

// IsPresidentRoleName is the role-level president heuristic: the name
// mentions "president" and does not mention "vice".
func IsPresidentRoleName(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "president") && !strings.Contains(n, "vice")
}

// IsVicePresidentRoleName matches "Vice President" style names and the "VP" shorthand.
func IsVicePresidentRoleName(name string) bool {
	n := strings.ToLower(name)
	if strings.Contains(n, "vice") {
		return true
	}
	for _, f := range strings.Fields(n) {
		if f == "vp" {
			return true
		}
	}
	return false
}
