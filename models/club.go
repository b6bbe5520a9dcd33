// File: models/club.go
package models

import "time"

// ------------------------ club model -----------------------

type Club struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	StaffAdvisor         string    `json:"staff_advisor"`
	AccessCode           string    `json:"access_code"`
	CurrentPresidentID   *int64    `json:"current_president_id,omitempty"`
	CreatedFromRequestID *int64    `json:"created_from_request_id,omitempty"`
	IsActive             bool      `json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
}

// ClubSummary is a club as seen by the system owner, with its member count.
type ClubSummary struct {
	Club
	MemberCount   int    `json:"member_count"`
	PresidentName string `json:"president_name,omitempty"`
}

// UserClub is one entry of a user's "my clubs" listing.
type UserClub struct {
	ClubID      int64  `json:"club_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	AccessCode  string `json:"access_code"`
	RoleID      int64  `json:"role_id"`
	RoleName    string `json:"role_name"`
	IsPresident bool   `json:"is_president"`
}

// ---------------------- membership model -------------------

const (
	MemberStatusActive  = "active"
	MemberStatusRemoved = "removed"
)

// Membership links a user to a club under one role. IsPresident is the
// membership-level president marker; it is independent of the role name.
type Membership struct {
	ID           int64     `json:"id"`
	ClubID       int64     `json:"club_id"`
	UserID       int64     `json:"user_id"`
	RoleID       int64     `json:"role_id"`
	RoleName     string    `json:"role_name"`
	IsPresident  bool      `json:"is_president"`
	Status       string    `json:"status"`
	JoinedAt     time.Time `json:"joined_at"`
	LastActivity time.Time `json:"last_activity"`
}

// Member is a membership joined with the user's public profile.
type Member struct {
	Membership
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ------------------ platform statistics --------------------

type PlatformStats struct {
	TotalUsers      int `json:"total_users"`
	ActiveUsers     int `json:"active_users"`
	TotalClubs      int `json:"total_clubs"`
	ActiveClubs     int `json:"active_clubs"`
	PendingRequests int `json:"pending_requests"`
	TotalMembers    int `json:"total_members"`
}
