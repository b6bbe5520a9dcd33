// File: controllers/notification_controller.go
package controllers

import (
	"github.com/gin-gonic/gin"

	"go-club-hub/middleware"
	"go-club-hub/services"
)

type NotificationController struct {
	Notifications *services.NotificationService
}

func NewNotificationController(n *services.NotificationService) *NotificationController {
	return &NotificationController{Notifications: n}
}

type notificationRef struct {
	NotificationID int64 `json:"notification_id"`
}

func (nc *NotificationController) List(c *gin.Context) {
	list, err := nc.Notifications.List(c.Request.Context(), middleware.Current(c).UserID,
		queryInt(c, "limit"), c.Query("unread_only") == "true")
	if err != nil {
		fail(c, err, "Error fetching notifications")
		return
	}
	ok(c, list, "")
}

func (nc *NotificationController) UnreadCount(c *gin.Context) {
	count, err := nc.Notifications.UnreadCount(c.Request.Context(), middleware.Current(c).UserID)
	if err != nil {
		fail(c, err, "Error fetching unread count")
		return
	}
	ok(c, gin.H{"count": count}, "")
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	var in notificationRef
	if !bind(c, &in) {
		return
	}
	if in.NotificationID == 0 {
		failMsg(c, "Notification ID required")
		return
	}
	if err := nc.Notifications.MarkRead(c.Request.Context(), middleware.Current(c).UserID, in.NotificationID); err != nil {
		fail(c, err, "Error marking notification as read")
		return
	}
	ok(c, nil, "Notification marked as read")
}

func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	count, err := nc.Notifications.MarkAllRead(c.Request.Context(), middleware.Current(c).UserID)
	if err != nil {
		fail(c, err, "Error marking notifications as read")
		return
	}
	ok(c, gin.H{"count": count}, "All notifications marked as read")
}

// Delete removes one notification, identified by the path or ?notification_id=.
func (nc *NotificationController) Delete(c *gin.Context) {
	id := parseID(c.Param("id"))
	if id == 0 {
		id = parseID(c.Query("notification_id"))
	}
	if id == 0 {
		failMsg(c, "Notification ID required")
		return
	}
	if err := nc.Notifications.Delete(c.Request.Context(), middleware.Current(c).UserID, id); err != nil {
		fail(c, err, "Error deleting notification")
		return
	}
	ok(c, nil, "Notification deleted")
}
