// File: models/request.go
package models

import "time"

const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// ClubRequest asks the system owner to create a new club.
type ClubRequest struct {
	ID              int64      `json:"id"`
	RequestedBy     int64      `json:"requested_by"`
	RequesterEmail  string     `json:"requester_email,omitempty"`
	RequesterName   string     `json:"requester_name,omitempty"`
	ClubName        string     `json:"club_name"`
	Description     string     `json:"description"`
	StaffAdvisor    string     `json:"staff_advisor"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
}

// JoinRequest asks a club to accept a user who supplied its access code.
type JoinRequest struct {
	ID         int64      `json:"id"`
	ClubID     int64      `json:"club_id"`
	UserID     int64      `json:"user_id"`
	Email      string     `json:"email,omitempty"`
	FirstName  string     `json:"first_name,omitempty"`
	LastName   string     `json:"last_name,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
}
