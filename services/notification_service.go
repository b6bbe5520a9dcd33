// File: services/notification_service.go
package services

import (
	"context"
	"errors"

	"go-club-hub/logger"
	"go-club-hub/models"
	"go-club-hub/store"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

// NotificationService manages a user's own notification inbox.
type NotificationService struct {
	store *store.Store
}

func NewNotificationService(st *store.Store) *NotificationService {
	return &NotificationService{store: st}
}

// Notify creates a notification on a best-effort basis: failures are logged
// and never fail the caller's operation.
func (n *NotificationService) Notify(ctx context.Context, userID int64, title, message, typ, link string) {
	notifyWith(ctx, n.store, userID, title, message, typ, link)
}

func notifyWith(ctx context.Context, st *store.Store, userID int64, title, message, typ, link string) {
	err := st.CreateNotification(ctx, &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    typ,
		Link:    link,
	})
	if err != nil {
		logger.Warn.Printf("[Notify] user=%d title=%q: %v", userID, title, err)
	}
}

func (n *NotificationService) List(ctx context.Context, userID int64, limit int, unreadOnly bool) ([]models.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}
	list, err := n.store.ListNotifications(ctx, userID, limit, unreadOnly)
	if err != nil {
		return nil, Storage("Failed to load notifications", err)
	}
	if list == nil {
		list = []models.Notification{}
	}
	return list, nil
}

func (n *NotificationService) MarkRead(ctx context.Context, userID, id int64) error {
	err := n.store.MarkNotificationRead(ctx, userID, id)
	if errors.Is(err, store.ErrNotFound) {
		return NotFound("Notification not found")
	}
	if err != nil {
		return Storage("Failed to update notification", err)
	}
	return nil
}

func (n *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	count, err := n.store.MarkAllNotificationsRead(ctx, userID)
	if err != nil {
		return 0, Storage("Failed to update notifications", err)
	}
	return count, nil
}

func (n *NotificationService) Delete(ctx context.Context, userID, id int64) error {
	err := n.store.DeleteNotification(ctx, userID, id)
	if errors.Is(err, store.ErrNotFound) {
		return NotFound("Notification not found")
	}
	if err != nil {
		return Storage("Failed to delete notification", err)
	}
	return nil
}

func (n *NotificationService) UnreadCount(ctx context.Context, userID int64) (int, error) {
	count, err := n.store.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return 0, Storage("Failed to count notifications", err)
	}
	return count, nil
}
