// file: websocket/handler.go
package websocket

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"go-club-hub/logger"
	"go-club-hub/middleware"
	"go-club-hub/models"
	"go-club-hub/services"
)

// RoomAuthorizer checks that a user may read a room. *services.ChatService
// satisfies it.
type RoomAuthorizer interface {
	AuthorizeRoom(ctx context.Context, userID, clubID, roomID int64) (*models.ChatRoom, error)
}

// Handler upgrades authenticated requests to a chat feed.
type Handler struct {
	Hub      *Hub
	Rooms    RoomAuthorizer
	upgrader websocket.Upgrader
}

// NewHandler accepts upgrades from pages served by applicationURL or the
// request's own host.
func NewHandler(hub *Hub, rooms RoomAuthorizer, applicationURL string) *Handler {
	allowed := ""
	if u, err := url.Parse(applicationURL); err == nil {
		allowed = u.Host
	}
	return &Handler{
		Hub:   hub,
		Rooms: rooms,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				return u.Host == r.Host || (allowed != "" && u.Host == allowed)
			},
		},
	}
}

func queryID(c *gin.Context, key string) int64 {
	id, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// ServeChat handles GET /api/chat/ws?club_id=&room_id=. It runs behind
// APIAuthRequired; membership and room ownership are checked before the
// upgrade so refusals use the JSON envelope.
func (h *Handler) ServeChat(c *gin.Context) {
	rc := middleware.Current(c)
	clubID := queryID(c, "club_id")
	if clubID == 0 {
		clubID = rc.ActiveClubID
	}
	roomID := queryID(c, "room_id")

	if _, err := h.Rooms.AuthorizeRoom(c.Request.Context(), rc.UserID, clubID, roomID); err != nil {
		logger.Info.Printf("[ServeChat] user=%d refused club=%d room=%d: %v", rc.UserID, clubID, roomID, err)
		middleware.Respond(c, false, nil, services.MessageOf(err, "Error opening chat"))
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error.Printf("[ServeChat] upgrade error: %v", err)
		return
	}

	conn := newConnection(h.Hub, ws, rc.UserID, clubID, roomID)
	h.Hub.register(conn)
	logger.Info.Printf("[ServeChat] user=%d subscribed to room=%d conn=%s", rc.UserID, roomID, conn.id)

	go conn.writePump()
	go conn.readPump()
}
