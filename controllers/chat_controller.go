// File: controllers/chat_controller.go
package controllers

import (
	"github.com/gin-gonic/gin"

	"go-club-hub/middleware"
	"go-club-hub/services"
)

// ChatController serves the polling chat API. The live feed lives in the
// websocket package.
type ChatController struct {
	Chat *services.ChatService
	Auth *services.AuthService
}

func NewChatController(chat *services.ChatService, auth *services.AuthService) *ChatController {
	return &ChatController{Chat: chat, Auth: auth}
}

type sendRequest struct {
	ClubID  int64  `json:"club_id"`
	RoomID  int64  `json:"room_id"`
	Message string `json:"message"`
}

func (cc *ChatController) Rooms(c *gin.Context) {
	clubID, found := requireClub(c, 0)
	if !found {
		return
	}
	rooms, err := cc.Chat.Rooms(c.Request.Context(), middleware.Current(c).UserID, clubID)
	if err != nil {
		fail(c, err, "Error fetching rooms")
		return
	}
	ok(c, rooms, "")
}

// Messages returns messages newer than ?since= (an id) in ascending order.
func (cc *ChatController) Messages(c *gin.Context) {
	clubID, found := requireClub(c, 0)
	if !found {
		return
	}
	msgs, err := cc.Chat.Messages(c.Request.Context(), middleware.Current(c).UserID, clubID,
		parseID(c.Query("room_id")), parseID(c.Query("since")), queryInt(c, "limit"), c.ClientIP())
	if err != nil {
		fail(c, err, "Error fetching messages")
		return
	}
	ok(c, msgs, "")
}

func (cc *ChatController) Send(c *gin.Context) {
	var in sendRequest
	if !bind(c, &in) {
		return
	}
	clubID, found := requireClub(c, in.ClubID)
	if !found {
		return
	}
	user, err := cc.Auth.CurrentUser(c.Request.Context(), middleware.Current(c).UserID)
	if err != nil {
		fail(c, err, "Error sending message")
		return
	}
	msg, err := cc.Chat.Send(c.Request.Context(), user, clubID, in.RoomID, in.Message, c.ClientIP())
	if err != nil {
		fail(c, err, "Error sending message")
		return
	}
	ok(c, gin.H{"message_id": msg.ID}, "Message sent")
}
