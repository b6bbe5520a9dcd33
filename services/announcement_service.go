// File: services/announcement_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"go-club-hub/logger"
	"go-club-hub/models"
	"go-club-hub/store"
)

const (
	defaultAnnouncementLimit = 50
	maxAnnouncementLimit     = 200
	defaultPriority          = "normal"
)

var validPriorities = map[string]bool{"low": true, "normal": true, "high": true, "urgent": true}

// AnnouncementService is the club notice board.
type AnnouncementService struct {
	store *store.Store
	rbac  *RBAC
}

func NewAnnouncementService(st *store.Store, rbac *RBAC) *AnnouncementService {
	return &AnnouncementService{store: st, rbac: rbac}
}

// AnnouncementInput carries create and update payloads. Nil fields are left
// unchanged on update.
type AnnouncementInput struct {
	ID       int64   `json:"id"`
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Priority *string `json:"priority"`
	IsPinned *bool   `json:"is_pinned"`
}

func normalizePriority(p *string) (string, error) {
	if p == nil || strings.TrimSpace(*p) == "" {
		return defaultPriority, nil
	}
	v := strings.ToLower(strings.TrimSpace(*p))
	if !validPriorities[v] {
		return "", Validation("Invalid priority")
	}
	return v, nil
}

func (s *AnnouncementService) List(ctx context.Context, userID, clubID int64, limit int) ([]models.Announcement, error) {
	if _, err := s.rbac.ResolveMembership(ctx, userID, clubID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultAnnouncementLimit
	}
	if limit > maxAnnouncementLimit {
		limit = maxAnnouncementLimit
	}
	list, err := s.store.ListAnnouncements(ctx, clubID, limit)
	if err != nil {
		return nil, Storage("Failed to load announcements", err)
	}
	if list == nil {
		list = []models.Announcement{}
	}
	return list, nil
}

func (s *AnnouncementService) Create(ctx context.Context, userID, clubID int64, in AnnouncementInput) (*models.Announcement, error) {
	if _, err := s.rbac.CheckPermission(ctx, userID, clubID, models.PermCreateAnnouncements); err != nil {
		return nil, err
	}

	var title, content string
	if in.Title != nil {
		title = stripControl(*in.Title)
	}
	if in.Content != nil {
		content = strings.TrimSpace(*in.Content)
	}
	if title == "" || content == "" {
		return nil, Validation("Title and content are required")
	}
	priority, err := normalizePriority(in.Priority)
	if err != nil {
		return nil, err
	}

	a := &models.Announcement{
		ClubID:   clubID,
		UserID:   userID,
		Title:    title,
		Content:  content,
		Priority: priority,
		IsPinned: in.IsPinned != nil && *in.IsPinned,
	}
	if err := s.store.CreateAnnouncement(ctx, a); err != nil {
		return nil, Storage("Failed to create announcement", err)
	}
	logger.Info.Printf("[AnnouncementService.Create] user=%d club=%d announcement=%d", userID, clubID, a.ID)
	return a, nil
}

func (s *AnnouncementService) Update(ctx context.Context, userID, clubID int64, in AnnouncementInput) (*models.Announcement, error) {
	if _, err := s.rbac.CheckPermission(ctx, userID, clubID, models.PermEditAnnouncements); err != nil {
		return nil, err
	}
	if in.ID == 0 {
		return nil, Validation("Announcement ID required")
	}
	if in.Title == nil && in.Content == nil && in.Priority == nil && in.IsPinned == nil {
		return nil, Validation("No updates provided")
	}

	a, err := s.store.GetAnnouncement(ctx, clubID, in.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound("Announcement not found")
	}
	if err != nil {
		return nil, Storage("Failed to update announcement", err)
	}

	if in.Title != nil {
		if a.Title = stripControl(*in.Title); a.Title == "" {
			return nil, Validation("Title and content are required")
		}
	}
	if in.Content != nil {
		if a.Content = strings.TrimSpace(*in.Content); a.Content == "" {
			return nil, Validation("Title and content are required")
		}
	}
	if in.Priority != nil {
		if a.Priority, err = normalizePriority(in.Priority); err != nil {
			return nil, err
		}
	}
	if in.IsPinned != nil {
		a.IsPinned = *in.IsPinned
	}

	if err := s.store.UpdateAnnouncement(ctx, a); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFound("Announcement not found")
		}
		return nil, Storage("Failed to update announcement", err)
	}
	return a, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, userID, clubID, id int64) error {
	if _, err := s.rbac.CheckPermission(ctx, userID, clubID, models.PermDeleteAnnouncements); err != nil {
		return err
	}
	if id == 0 {
		return Validation("Announcement ID required")
	}
	err := s.store.DeleteAnnouncement(ctx, clubID, id)
	if errors.Is(err, store.ErrNotFound) {
		return NotFound("Announcement not found")
	}
	if err != nil {
		return Storage("Failed to delete announcement", err)
	}
	logger.Info.Printf("[AnnouncementService.Delete] user=%d club=%d announcement=%d", userID, clubID, id)
	return nil
}
