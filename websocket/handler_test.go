// file: websocket/handler_test.go
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-club-hub/middleware"
	"go-club-hub/models"
	"go-club-hub/services"
)

// fakeRooms lets user 1 into room 100 of club 10 and nothing else.
type fakeRooms struct{}

func (fakeRooms) AuthorizeRoom(_ context.Context, userID, clubID, roomID int64) (*models.ChatRoom, error) {
	if userID != 1 || clubID != 10 {
		return nil, services.ErrNotMember
	}
	if roomID != 100 {
		return nil, services.NotFound("Chat room not found")
	}
	return &models.ChatRoom{ID: roomID, ClubID: clubID}, nil
}

func setupChatServer(t *testing.T, hub *Hub, userID int64) (*httptest.Server, string) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions("testsession", cookie.NewStore([]byte("test-secret"))))
	router.GET("/_seed", func(c *gin.Context) {
		s := sessions.Default(c)
		middleware.StartUserSession(s, userID, false, "sid", 10)
		require.NoError(t, s.Save())
		c.Status(http.StatusNoContent)
	})
	router.GET("/api/chat/ws", NewHandler(hub, fakeRooms{}, "http://localhost:8080").ServeChat)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/_seed")
	require.NoError(t, err)
	defer resp.Body.Close()
	for _, c := range resp.Cookies() {
		if c.Name == "testsession" {
			return srv, c.Name + "=" + c.Value
		}
	}
	t.Fatal("no session cookie")
	return nil, ""
}

func TestServeChat_StreamsRoomMessages(t *testing.T) {
	hub := NewHub()
	srv, cookieHeader := setupChatServer(t, hub, 1)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/chat/ws?room_id=100"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Cookie": {cookieHeader}})
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, func() bool { return hub.RoomSize(100) == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.PublishChatMessage(context.Background(), 10, models.ChatMessage{ID: 7, RoomID: 100, Message: "live"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev Event
	require.NoError(t, json.Unmarshal(payload, &ev))
	assert.Equal(t, "live", ev.Message.Message)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.RoomSize(100) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServeChat_RefusesBeforeUpgrade(t *testing.T) {
	hub := NewHub()
	srv, cookieHeader := setupChatServer(t, hub, 2)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/chat/ws?room_id=100", nil)
	require.NoError(t, err)
	req.Header.Set("Cookie", cookieHeader)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env middleware.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.False(t, env.Success)
	assert.Equal(t, "You are not an active member of this club", env.Message)
	assert.Zero(t, hub.RoomSize(100))
}

func TestCheckOrigin(t *testing.T) {
	h := NewHandler(NewHub(), fakeRooms{}, "https://clubs.example.com")
	check := h.upgrader.CheckOrigin

	req := httptest.NewRequest(http.MethodGet, "http://internal:8080/api/chat/ws", nil)
	assert.True(t, check(req), "no origin header")

	req.Header.Set("Origin", "https://clubs.example.com")
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://internal:8080")
	assert.True(t, check(req), "same host")

	req.Header.Set("Origin", "https://evil.example.net")
	assert.False(t, check(req))
}
