// File: services/chat_service.go
package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"go-club-hub/logger"
	"go-club-hub/metrics"
	"go-club-hub/models"
	"go-club-hub/store"
)

const (
	defaultChatLimit = 50
	maxChatLimit     = 100
	maxChatMessage   = 2000
)

// ChatPublisher pushes stored messages to live subscribers.
type ChatPublisher interface {
	PublishChatMessage(ctx context.Context, clubID int64, msg models.ChatMessage)
}

type nopPublisher struct{}

func (nopPublisher) PublishChatMessage(context.Context, int64, models.ChatMessage) {}

// ChatService stores club chat messages and relays them to the live feed.
type ChatService struct {
	store     *store.Store
	rbac      *RBAC
	limiter   *RateLimiter
	publisher ChatPublisher
}

func NewChatService(st *store.Store, rbac *RBAC, limiter *RateLimiter) *ChatService {
	return &ChatService{store: st, rbac: rbac, limiter: limiter, publisher: nopPublisher{}}
}

// SetPublisher wires the live feed. A nil publisher disables it.
func (s *ChatService) SetPublisher(p ChatPublisher) {
	if p == nil {
		p = nopPublisher{}
	}
	s.publisher = p
}

func (s *ChatService) Rooms(ctx context.Context, userID, clubID int64) ([]models.ChatRoom, error) {
	if _, err := s.rbac.ResolveMembership(ctx, userID, clubID); err != nil {
		return nil, err
	}
	rooms, err := s.store.ListChatRooms(ctx, clubID)
	if err != nil {
		return nil, Storage("Error fetching rooms", err)
	}
	if rooms == nil {
		rooms = []models.ChatRoom{}
	}
	return rooms, nil
}

// AuthorizeRoom returns the room when the user is an active member of the
// room's club.
func (s *ChatService) AuthorizeRoom(ctx context.Context, userID, clubID, roomID int64) (*models.ChatRoom, error) {
	if _, err := s.rbac.ResolveMembership(ctx, userID, clubID); err != nil {
		return nil, err
	}
	if roomID == 0 {
		return nil, Validation("Room ID required")
	}
	room, err := s.store.GetChatRoom(ctx, clubID, roomID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound("Chat room not found")
	}
	if err != nil {
		return nil, Storage("Error fetching room", err)
	}
	return room, nil
}

// Messages returns messages newer than sinceID in chronological order.
func (s *ChatService) Messages(ctx context.Context, userID, clubID, roomID, sinceID int64, limit int, ip string) ([]models.ChatMessage, error) {
	if _, err := s.AuthorizeRoom(ctx, userID, clubID, roomID); err != nil {
		return nil, err
	}
	if err := s.limiter.Check(ctx, "chat_get_messages", strconv.FormatInt(userID, 10), ip, LimitChatGetMessage); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultChatLimit
	}
	if limit > maxChatLimit {
		limit = maxChatLimit
	}
	msgs, err := s.store.ListChatMessages(ctx, roomID, sinceID, limit)
	if err != nil {
		return nil, Storage("Error fetching messages", err)
	}
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	return msgs, nil
}

// Send stores a message, refreshes the sender's last_seen and publishes it.
func (s *ChatService) Send(ctx context.Context, user *models.User, clubID, roomID int64, text, ip string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if roomID == 0 || text == "" {
		return nil, Validation("Room ID and message required")
	}
	if utf8.RuneCountInString(text) > maxChatMessage {
		return nil, Validation("Message is too long")
	}
	if _, err := s.AuthorizeRoom(ctx, user.ID, clubID, roomID); err != nil {
		return nil, err
	}
	if err := s.limiter.Check(ctx, "chat_send_message", strconv.FormatInt(user.ID, 10), ip, LimitChatSend); err != nil {
		return nil, err
	}

	msg := &models.ChatMessage{
		RoomID:   roomID,
		UserID:   user.ID,
		Username: user.FullName(),
		Message:  text,
	}
	if err := s.store.CreateChatMessage(ctx, msg); err != nil {
		return nil, Storage("Error sending message", err)
	}
	if err := s.store.TouchRoomMember(ctx, roomID, user.ID); err != nil {
		logger.Warn.Printf("[ChatService.Send] last_seen update failed room=%d user=%d: %v", roomID, user.ID, err)
	}

	metrics.ChatMessagesTotal.Inc()
	s.publisher.PublishChatMessage(ctx, clubID, *msg)
	return msg, nil
}
