// file: websocket/connection.go
package websocket

import (
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"go-club-hub/logger"
)

// WSConn is the subset of *websocket.Conn the pumps use.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	ReadMessage() (int, []byte, error)
	Close() error
	RemoteAddr() net.Addr
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
}

// Connection is one browser subscribed to one chat room.
type Connection struct {
	id     string
	conn   WSConn
	send   chan []byte
	hub    *Hub
	userID int64
	clubID int64
	roomID int64
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

func newConnection(hub *Hub, conn WSConn, userID, clubID, roomID int64) *Connection {
	return &Connection{
		id:     uuid.NewString(),
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		hub:    hub,
		userID: userID,
		clubID: clubID,
		roomID: roomID,
	}
}

// readPump only watches for the close; the feed is one-way and messages are
// sent through POST /api/chat/send so they pass CSRF and rate limiting.
func (c *Connection) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn.Printf("[readPump] conn=%s read error from %v: %v", c.id, c.conn.RemoteAddr(), err)
			}
			return
		}
	}
}

// writePump drains the send channel and keeps the connection alive with pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				logger.Debug.Printf("[writePump] send channel closed for conn=%s", c.id)
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn.Printf("[writePump] error writing to %v: %v", c.conn.RemoteAddr(), err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Warn.Printf("[writePump] ping error for %v: %v", c.conn.RemoteAddr(), err)
				return
			}
		}
	}
}
