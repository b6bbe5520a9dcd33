// File: store/notifications.go
package store

import (
	"context"
	"fmt"

	"go-club-hub/models"
)

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	now := s.now()
	if n.Type == "" {
		n.Type = models.NotificationInfo
	}
	err := s.queryRow(ctx, `
INSERT INTO notifications (user_id, title, message, type, link, is_read, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`, n.UserID, n.Title, n.Message, n.Type, n.Link, false, now).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	n.CreatedAt = fromUnix(now)
	return nil
}

// ListNotifications returns the user's newest notifications.
func (s *Store) ListNotifications(ctx context.Context, userID int64, limit int, unreadOnly bool) ([]models.Notification, error) {
	q := `
SELECT id, user_id, title, message, type, link, is_read, created_at
FROM notifications
WHERE user_id = $1`
	args := []any{userID, limit}
	if unreadOnly {
		q += ` AND is_read = $3`
		args = append(args, false)
	}
	q += `
ORDER BY created_at DESC, id DESC
LIMIT $2`

	rows, err := s.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var (
			n         models.Notification
			createdAt int64
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Link, &n.IsRead, &createdAt); err != nil {
			return nil, err
		}
		n.CreatedAt = fromUnix(createdAt)
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead only touches rows owned by userID.
func (s *Store) MarkNotificationRead(ctx context.Context, userID, id int64) error {
	return s.execAffected(ctx,
		`UPDATE notifications SET is_read = $1 WHERE id = $2 AND user_id = $3`, true, id, userID)
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	res, err := s.exec(ctx,
		`UPDATE notifications SET is_read = $1 WHERE user_id = $2 AND is_read = $3`, true, userID, false)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) DeleteNotification(ctx context.Context, userID, id int64) error {
	return s.execAffected(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
}

func (s *Store) CountUnreadNotifications(ctx context.Context, userID int64) (int, error) {
	var n int
	err := s.queryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = $2`, userID, false).Scan(&n)
	return n, err
}
