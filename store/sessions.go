// File: store/sessions.go
package store

import (
	"context"
	"fmt"

	"go-club-hub/models"
)

// CreateSession stores a session row, replacing any row with the same id.
func (s *Store) CreateSession(ctx context.Context, sess *models.Session) error {
	now := s.now()
	_, err := s.exec(ctx, `
INSERT INTO sessions (id, user_id, ip_address, user_agent, created_at, last_activity)
VALUES ($1, $2, $3, $4, $5, $5)
ON CONFLICT (id) DO UPDATE SET
    user_id = excluded.user_id,
    ip_address = excluded.ip_address,
    user_agent = excluded.user_agent,
    created_at = excluded.created_at,
    last_activity = excluded.last_activity`,
		sess.ID, sess.UserID, sess.IPAddress, sess.UserAgent, now)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	sess.CreatedAt = fromUnix(now)
	sess.LastActivity = sess.CreatedAt
	return nil
}

func (s *Store) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	var created, lastSeen int64
	err := s.queryRow(ctx, `
SELECT id, user_id, ip_address, user_agent, created_at, last_activity
FROM sessions WHERE id = $1`, id).
		Scan(&sess.ID, &sess.UserID, &sess.IPAddress, &sess.UserAgent, &created, &lastSeen)
	if err != nil {
		return nil, notFound(err)
	}
	sess.CreatedAt = fromUnix(created)
	sess.LastActivity = fromUnix(lastSeen)
	return &sess, nil
}

// TouchSession bumps last_activity for a session owned by userID.
// It returns ErrNotFound when the row has been deleted or pruned.
func (s *Store) TouchSession(ctx context.Context, id string, userID int64) error {
	return s.execAffected(ctx,
		`UPDATE sessions SET last_activity = $1 WHERE id = $2 AND user_id = $3`, s.now(), id, userID)
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteUserSessions logs a user out everywhere.
func (s *Store) DeleteUserSessions(ctx context.Context, userID int64) (int64, error) {
	res, err := s.exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}
	return res.RowsAffected()
}

// PruneSessions deletes sessions idle for longer than maxIdleSeconds.
func (s *Store) PruneSessions(ctx context.Context, maxIdleSeconds int) (int64, error) {
	res, err := s.exec(ctx, `DELETE FROM sessions WHERE last_activity < $1`, s.now()-int64(maxIdleSeconds))
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	return res.RowsAffected()
}
