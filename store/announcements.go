// File: store/announcements.go
package store

import (
	"context"
	"fmt"

	"go-club-hub/models"
)

const announcementColumns = `a.id, a.club_id, a.user_id, COALESCE(u.first_name || ' ' || u.last_name, ''),
    a.title, a.content, a.priority, a.is_pinned, a.created_at`

func scanAnnouncement(row rowScanner) (*models.Announcement, error) {
	var (
		a         models.Announcement
		createdAt int64
	)
	if err := row.Scan(&a.ID, &a.ClubID, &a.UserID, &a.AuthorName,
		&a.Title, &a.Content, &a.Priority, &a.IsPinned, &createdAt); err != nil {
		return nil, err
	}
	a.CreatedAt = fromUnix(createdAt)
	return &a, nil
}

// ListAnnouncements returns pinned announcements first, newest first.
func (s *Store) ListAnnouncements(ctx context.Context, clubID int64, limit int) ([]models.Announcement, error) {
	rows, err := s.query(ctx, `
SELECT `+announcementColumns+`
FROM announcements a
LEFT JOIN users u ON u.id = a.user_id
WHERE a.club_id = $1
ORDER BY a.is_pinned DESC, a.created_at DESC, a.id DESC
LIMIT $2`, clubID, limit)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	defer rows.Close()

	var out []models.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// GetAnnouncement returns the announcement only if it belongs to clubID.
func (s *Store) GetAnnouncement(ctx context.Context, clubID, id int64) (*models.Announcement, error) {
	a, err := scanAnnouncement(s.queryRow(ctx, `
SELECT `+announcementColumns+`
FROM announcements a
LEFT JOIN users u ON u.id = a.user_id
WHERE a.id = $1 AND a.club_id = $2`, id, clubID))
	return a, notFound(err)
}

func (s *Store) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	now := s.now()
	err := s.queryRow(ctx, `
INSERT INTO announcements (club_id, user_id, title, content, priority, is_pinned, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
RETURNING id`, a.ClubID, a.UserID, a.Title, a.Content, a.Priority, a.IsPinned, now).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	a.CreatedAt = fromUnix(now)
	return nil
}

func (s *Store) UpdateAnnouncement(ctx context.Context, a *models.Announcement) error {
	return s.execAffected(ctx, `
UPDATE announcements SET title = $1, content = $2, priority = $3, is_pinned = $4, updated_at = $5
WHERE id = $6 AND club_id = $7`, a.Title, a.Content, a.Priority, a.IsPinned, s.now(), a.ID, a.ClubID)
}

func (s *Store) DeleteAnnouncement(ctx context.Context, clubID, id int64) error {
	return s.execAffected(ctx, `DELETE FROM announcements WHERE id = $1 AND club_id = $2`, id, clubID)
}
