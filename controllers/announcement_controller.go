// File: controllers/announcement_controller.go
package controllers

import (
	"github.com/gin-gonic/gin"

	"go-club-hub/middleware"
	"go-club-hub/models"
	"go-club-hub/services"
)

type AnnouncementController struct {
	Announcements *services.AnnouncementService
}

func NewAnnouncementController(a *services.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{Announcements: a}
}

type announcementRequest struct {
	ClubID int64 `json:"club_id"`
	services.AnnouncementInput
}

func (ac *AnnouncementController) List(c *gin.Context) {
	clubID, found := requireClub(c, 0)
	if !found {
		return
	}
	list, err := ac.Announcements.List(c.Request.Context(), middleware.Current(c).UserID, clubID, queryInt(c, "limit"))
	if err != nil {
		fail(c, err, "Error processing request")
		return
	}
	if list == nil {
		list = []models.Announcement{}
	}
	ok(c, list, "")
}

func (ac *AnnouncementController) Create(c *gin.Context) {
	var in announcementRequest
	if !bind(c, &in) {
		return
	}
	clubID, found := requireClub(c, in.ClubID)
	if !found {
		return
	}
	a, err := ac.Announcements.Create(c.Request.Context(), middleware.Current(c).UserID, clubID, in.AnnouncementInput)
	if err != nil {
		fail(c, err, "Error processing request")
		return
	}
	ok(c, gin.H{"id": a.ID}, "Announcement created")
}

func (ac *AnnouncementController) Update(c *gin.Context) {
	var in announcementRequest
	if !bind(c, &in) {
		return
	}
	clubID, found := requireClub(c, in.ClubID)
	if !found {
		return
	}
	a, err := ac.Announcements.Update(c.Request.Context(), middleware.Current(c).UserID, clubID, in.AnnouncementInput)
	if err != nil {
		fail(c, err, "Error processing request")
		return
	}
	ok(c, a, "Announcement updated")
}

// Delete accepts the id in the body or as ?id=.
func (ac *AnnouncementController) Delete(c *gin.Context) {
	var in announcementRequest
	if !bind(c, &in) {
		return
	}
	clubID, found := requireClub(c, in.ClubID)
	if !found {
		return
	}
	id := in.ID
	if id == 0 {
		id = parseID(c.Query("id"))
	}
	if err := ac.Announcements.Delete(c.Request.Context(), middleware.Current(c).UserID, clubID, id); err != nil {
		fail(c, err, "Error processing request")
		return
	}
	ok(c, nil, "Announcement deleted")
}
