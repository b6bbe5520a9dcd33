// File: models/content.go
package models

import "time"

// ---------------------- announcements ----------------------

type Announcement struct {
	ID         int64     `json:"id"`
	ClubID     int64     `json:"club_id"`
	UserID     int64     `json:"user_id"`
	AuthorName string    `json:"author_name"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Priority   string    `json:"priority"`
	IsPinned   bool      `json:"is_pinned"`
	CreatedAt  time.Time `json:"created_at"`
}

// --------------------------- chat --------------------------

type ChatRoom struct {
	ID          int64     `json:"id"`
	ClubID      int64     `json:"club_id"`
	Name        string    `json:"room_name"`
	Description string    `json:"description"`
	CreatedBy   int64     `json:"created_by"`
	IsGeneral   bool      `json:"is_general"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type ChatMessage struct {
	ID        int64     `json:"id"`
	RoomID    int64     `json:"room_id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ----------------------- notifications ---------------------

type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Link      string    `json:"link,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
)
