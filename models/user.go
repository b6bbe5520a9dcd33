// Package models defines data structures used across the application.
// File: models/user.go
package models

import "time"

// ----------------------- user model -----------------------

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID            int64      `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	IsActive      bool       `json:"is_active"`
	IsSystemOwner bool       `json:"is_system_owner"`
	EmailVerified bool       `json:"email_verified"`
	CreatedAt     time.Time  `json:"created_at"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserSummary is the shape returned by the system-owner user listing.
type UserSummary struct {
	User
	ClubCount int `json:"club_count"`
}

// Session is the server-side record backing a logged-in cookie session.
type Session struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"user_id"`
	IPAddress    string    `json:"ip_address"`
	UserAgent    string    `json:"user_agent"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}
