// File: store/chat.go
package store

import (
	"context"
	"fmt"

	"go-club-hub/models"
)

const chatRoomColumns = `cr.id, cr.club_id, cr.room_name, cr.description, cr.created_by, cr.is_general, cr.is_active, cr.created_at`

func scanChatRoom(row rowScanner) (*models.ChatRoom, error) {
	var (
		r         models.ChatRoom
		createdAt int64
	)
	if err := row.Scan(&r.ID, &r.ClubID, &r.Name, &r.Description, &r.CreatedBy,
		&r.IsGeneral, &r.IsActive, &createdAt); err != nil {
		return nil, err
	}
	r.CreatedAt = fromUnix(createdAt)
	return &r, nil
}

func (s *Store) CreateChatRoom(ctx context.Context, r *models.ChatRoom) error {
	now := s.now()
	err := s.queryRow(ctx, `
INSERT INTO chat_rooms (club_id, room_name, description, created_by, is_general, is_active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`, r.ClubID, r.Name, r.Description, r.CreatedBy, r.IsGeneral, r.IsActive, now).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("create chat room: %w", err)
	}
	r.CreatedAt = fromUnix(now)
	return nil
}

// GetChatRoom returns an active room of the given club.
func (s *Store) GetChatRoom(ctx context.Context, clubID, roomID int64) (*models.ChatRoom, error) {
	r, err := scanChatRoom(s.queryRow(ctx, `
SELECT `+chatRoomColumns+` FROM chat_rooms cr
WHERE cr.id = $1 AND cr.club_id = $2 AND cr.is_active = $3`, roomID, clubID, true))
	return r, notFound(err)
}

// GetGeneralRoom returns the club's default room.
func (s *Store) GetGeneralRoom(ctx context.Context, clubID int64) (*models.ChatRoom, error) {
	r, err := scanChatRoom(s.queryRow(ctx, `
SELECT `+chatRoomColumns+` FROM chat_rooms cr
WHERE cr.club_id = $1 AND cr.is_general = $2 AND cr.is_active = $2
ORDER BY cr.id LIMIT 1`, clubID, true))
	return r, notFound(err)
}

// ListChatRooms returns the club's active rooms, general room first.
func (s *Store) ListChatRooms(ctx context.Context, clubID int64) ([]models.ChatRoom, error) {
	rows, err := s.query(ctx, `
SELECT `+chatRoomColumns+` FROM chat_rooms cr
WHERE cr.club_id = $1 AND cr.is_active = $2
ORDER BY cr.is_general DESC, cr.room_name, cr.id`, clubID, true)
	if err != nil {
		return nil, fmt.Errorf("list chat rooms: %w", err)
	}
	defer rows.Close()

	var out []models.ChatRoom
	for rows.Next() {
		r, err := scanChatRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// TouchRoomMember adds the user to the room or refreshes last_seen.
func (s *Store) TouchRoomMember(ctx context.Context, roomID, userID int64) error {
	_, err := s.exec(ctx, `
INSERT INTO chat_room_members (room_id, user_id, joined_at, last_seen)
VALUES ($1, $2, $3, $3)
ON CONFLICT (room_id, user_id) DO UPDATE SET last_seen = excluded.last_seen`, roomID, userID, s.now())
	if err != nil {
		return fmt.Errorf("touch room member: %w", err)
	}
	return nil
}

func (s *Store) CreateChatMessage(ctx context.Context, m *models.ChatMessage) error {
	now := s.now()
	err := s.queryRow(ctx, `
INSERT INTO chat_messages (room_id, user_id, message, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id`, m.RoomID, m.UserID, m.Message, now).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("create chat message: %w", err)
	}
	m.CreatedAt = fromUnix(now)
	return nil
}

// ListChatMessages returns up to limit of the newest messages with an id
// greater than sinceID, in chronological order.
func (s *Store) ListChatMessages(ctx context.Context, roomID, sinceID int64, limit int) ([]models.ChatMessage, error) {
	rows, err := s.query(ctx, `
SELECT cm.id, cm.room_id, cm.user_id, COALESCE(u.first_name || ' ' || u.last_name, ''), cm.message, cm.created_at
FROM chat_messages cm
LEFT JOIN users u ON u.id = cm.user_id
WHERE cm.room_id = $1 AND cm.id > $2
ORDER BY cm.id DESC
LIMIT $3`, roomID, sinceID, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	var out []models.ChatMessage
	for rows.Next() {
		var (
			m         models.ChatMessage
			createdAt int64
		)
		if err := rows.Scan(&m.ID, &m.RoomID, &m.UserID, &m.Username, &m.Message, &createdAt); err != nil {
			return nil, err
		}
		m.CreatedAt = fromUnix(createdAt)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
