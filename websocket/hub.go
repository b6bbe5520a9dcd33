// Package websocket provides the live chat feed: a per-room hub of WebSocket
// connections, optionally fanned out across instances through Redis.
// file: websocket/hub.go
package websocket

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"go-club-hub/logger"
	"go-club-hub/metrics"
	"go-club-hub/models"
)

// Event is what travels between instances and down to browsers.
type Event struct {
	Action  string             `json:"action"`
	ClubID  int64              `json:"club_id"`
	RoomID  int64              `json:"room_id"`
	Message models.ChatMessage `json:"message"`
}

const actionChatMessage = "chatMessage"

// Bridge carries events to every instance, this one included.
type Bridge interface {
	Publish(ctx context.Context, ev Event) error
}

// Hub tracks open connections per chat room. It implements
// services.ChatPublisher.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[int64]map[*Connection]struct{}
	bridge Bridge
	sink   metrics.Sink
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[int64]map[*Connection]struct{}),
		sink:  metrics.NopSink{},
	}
}

// SetBridge routes published messages through b. Without a bridge messages
// are delivered locally only.
func (h *Hub) SetBridge(b Bridge) {
	h.mu.Lock()
	h.bridge = b
	h.mu.Unlock()
}

// SetSink reports connection counts to an external metrics sink.
func (h *Hub) SetSink(s metrics.Sink) {
	h.mu.Lock()
	h.sink = s
	h.mu.Unlock()
}

func (h *Hub) register(c *Connection) {
	h.mu.Lock()
	conns, ok := h.rooms[c.roomID]
	if !ok {
		conns = make(map[*Connection]struct{})
		h.rooms[c.roomID] = conns
	}
	conns[c] = struct{}{}
	n := len(conns)
	sink := h.sink
	h.mu.Unlock()

	metrics.ChatConnections.Inc()
	sink.Put("ChatConnections", float64(n), "Count", map[string]string{"RoomID": strconv.FormatInt(c.roomID, 10)})
	logger.Debug.Printf("[Hub] conn=%s joined room=%d (%d open)", c.id, c.roomID, n)
}

func (h *Hub) unregister(c *Connection) {
	h.mu.Lock()
	conns, ok := h.rooms[c.roomID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := conns[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(conns, c)
	close(c.send)
	n := len(conns)
	if n == 0 {
		delete(h.rooms, c.roomID)
	}
	sink := h.sink
	h.mu.Unlock()

	metrics.ChatConnections.Dec()
	sink.Put("ChatConnections", float64(n), "Count", map[string]string{"RoomID": strconv.FormatInt(c.roomID, 10)})
	logger.Debug.Printf("[Hub] conn=%s left room=%d (%d open)", c.id, c.roomID, n)
}

// RoomSize returns the number of open connections in a room.
func (h *Hub) RoomSize(roomID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// PublishChatMessage fans a stored message out to the room's subscribers.
func (h *Hub) PublishChatMessage(ctx context.Context, clubID int64, msg models.ChatMessage) {
	ev := Event{Action: actionChatMessage, ClubID: clubID, RoomID: msg.RoomID, Message: msg}

	h.mu.RLock()
	bridge := h.bridge
	h.mu.RUnlock()

	if bridge != nil {
		err := bridge.Publish(ctx, ev)
		if err == nil {
			return
		}
		logger.Warn.Printf("[Hub] bridge publish failed, delivering locally: %v", err)
	}
	h.Deliver(ev)
}

// Deliver writes ev to every local connection in its room. Slow consumers
// whose buffers are full miss the message rather than block the sender.
func (h *Hub) Deliver(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Error.Printf("[Hub] marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[ev.RoomID] {
		if c.clubID != ev.ClubID {
			continue
		}
		select {
		case c.send <- payload:
		default:
			logger.Warn.Printf("[Hub] dropping message for conn=%s (buffer full)", c.id)
		}
	}
}
