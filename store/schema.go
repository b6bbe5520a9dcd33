// File: store/schema.go
package store

import (
	"context"
	"fmt"
	"strings"
)

// Timestamps are unix seconds so both dialects compare them numerically.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id {{id}},
    email VARCHAR(255) NOT NULL UNIQUE,
    password_hash VARCHAR(255) NOT NULL,
    first_name VARCHAR(100) NOT NULL,
    last_name VARCHAR(100) NOT NULL DEFAULT '',
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    is_system_owner BOOLEAN NOT NULL DEFAULT FALSE,
    email_verified BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL,
    last_login BIGINT
);

CREATE TABLE IF NOT EXISTS clubs (
    id {{id}},
    name VARCHAR(200) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    staff_advisor VARCHAR(200) NOT NULL DEFAULT '',
    access_code VARCHAR(16) NOT NULL UNIQUE,
    current_president_id BIGINT,
    created_from_request_id BIGINT,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS club_roles (
    id {{id}},
    club_id BIGINT NOT NULL REFERENCES clubs(id),
    role_name VARCHAR(100) NOT NULL,
    role_description TEXT NOT NULL DEFAULT '',
    is_system_role BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_club_roles_club ON club_roles (club_id);

CREATE TABLE IF NOT EXISTS role_permissions (
    role_id BIGINT NOT NULL,
    permission_key VARCHAR(64) NOT NULL,
    permission_value BOOLEAN NOT NULL DEFAULT FALSE,
    PRIMARY KEY (role_id, permission_key)
);

CREATE TABLE IF NOT EXISTS club_members (
    id {{id}},
    club_id BIGINT NOT NULL REFERENCES clubs(id),
    user_id BIGINT NOT NULL REFERENCES users(id),
    role_id BIGINT NOT NULL,
    is_president BOOLEAN NOT NULL DEFAULT FALSE,
    status VARCHAR(20) NOT NULL DEFAULT 'active',
    joined_at BIGINT NOT NULL,
    last_activity BIGINT NOT NULL,
    UNIQUE (club_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_club_members_user ON club_members (user_id, status);
CREATE INDEX IF NOT EXISTS idx_club_members_role ON club_members (role_id, status);

CREATE TABLE IF NOT EXISTS sessions (
    id VARCHAR(128) PRIMARY KEY,
    user_id BIGINT NOT NULL,
    ip_address VARCHAR(64) NOT NULL DEFAULT '',
    user_agent TEXT NOT NULL DEFAULT '',
    created_at BIGINT NOT NULL,
    last_activity BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_activity ON sessions (last_activity);

CREATE TABLE IF NOT EXISTS rate_limits (
    id {{id}},
    action_type VARCHAR(64) NOT NULL,
    rate_key VARCHAR(255) NOT NULL,
    ip_address VARCHAR(64) NOT NULL DEFAULT '',
    action_count INTEGER NOT NULL DEFAULT 1,
    window_start BIGINT NOT NULL,
    last_action BIGINT NOT NULL,
    UNIQUE (action_type, rate_key)
);

CREATE INDEX IF NOT EXISTS idx_rate_limits_window ON rate_limits (window_start);

CREATE TABLE IF NOT EXISTS announcements (
    id {{id}},
    club_id BIGINT NOT NULL REFERENCES clubs(id),
    user_id BIGINT NOT NULL,
    title VARCHAR(255) NOT NULL,
    content TEXT NOT NULL,
    priority VARCHAR(20) NOT NULL DEFAULT 'normal',
    is_pinned BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_announcements_club ON announcements (club_id, created_at);

CREATE TABLE IF NOT EXISTS chat_rooms (
    id {{id}},
    club_id BIGINT NOT NULL REFERENCES clubs(id),
    room_name VARCHAR(100) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_by BIGINT NOT NULL,
    is_general BOOLEAN NOT NULL DEFAULT FALSE,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS chat_room_members (
    room_id BIGINT NOT NULL,
    user_id BIGINT NOT NULL,
    joined_at BIGINT NOT NULL,
    last_seen BIGINT NOT NULL,
    PRIMARY KEY (room_id, user_id)
);

CREATE TABLE IF NOT EXISTS chat_messages (
    id {{id}},
    room_id BIGINT NOT NULL,
    user_id BIGINT NOT NULL,
    message TEXT NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chat_messages_room ON chat_messages (room_id, id);

CREATE TABLE IF NOT EXISTS notifications (
    id {{id}},
    user_id BIGINT NOT NULL,
    title VARCHAR(255) NOT NULL,
    message TEXT NOT NULL,
    type VARCHAR(20) NOT NULL DEFAULT 'info',
    link VARCHAR(255) NOT NULL DEFAULT '',
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id, is_read);

CREATE TABLE IF NOT EXISTS club_creation_requests (
    id {{id}},
    requested_by BIGINT NOT NULL REFERENCES users(id),
    club_name VARCHAR(200) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    staff_advisor VARCHAR(200) NOT NULL DEFAULT '',
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    rejection_reason TEXT NOT NULL DEFAULT '',
    created_at BIGINT NOT NULL,
    reviewed_at BIGINT,
    reviewed_by BIGINT
);

CREATE TABLE IF NOT EXISTS club_join_requests (
    id {{id}},
    club_id BIGINT NOT NULL REFERENCES clubs(id),
    user_id BIGINT NOT NULL REFERENCES users(id),
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    created_at BIGINT NOT NULL,
    reviewed_at BIGINT,
    reviewed_by BIGINT
);

CREATE INDEX IF NOT EXISTS idx_join_requests_club ON club_join_requests (club_id, status);
`

// Migrate creates any missing tables and indexes. Statements are executed
// one at a time because not every driver accepts a multi-statement Exec.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(s.dialect.Schema(), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
