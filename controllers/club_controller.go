// File: controllers/club_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-club-hub/logger"
	"go-club-hub/middleware"
	"go-club-hub/models"
	"go-club-hub/services"
)

// ---------------- Club Controller ----------------

// ClubController covers club switching, creation requests, joining by access
// code and the join QR code.
type ClubController struct {
	Clubs          *services.ClubService
	ApplicationURL string
	Encode         services.QRCodeEncoder
}

func NewClubController(clubs *services.ClubService, applicationURL string) *ClubController {
	return &ClubController{Clubs: clubs, ApplicationURL: applicationURL}
}

type clubRef struct {
	ClubID int64 `json:"club_id"`
}

type requestRef struct {
	RequestID int64 `json:"request_id"`
}

// Switch makes another club the active one for this session.
func (cc *ClubController) Switch(c *gin.Context) {
	var in clubRef
	if !bind(c, &in) {
		return
	}
	if in.ClubID == 0 {
		failMsg(c, "Club ID required")
		return
	}

	if _, err := cc.Clubs.SwitchClub(c.Request.Context(), middleware.Current(c).UserID, in.ClubID); err != nil {
		fail(c, err, "Error switching club")
		return
	}
	middleware.SetActiveClub(c, in.ClubID)
	ok(c, gin.H{"club_id": in.ClubID}, "Club switched successfully")
}

// SubmitRequest files a club creation request for the system owner.
func (cc *ClubController) SubmitRequest(c *gin.Context) {
	var in services.ClubRequestInput
	if !bind(c, &in) {
		return
	}
	req, err := cc.Clubs.SubmitClubRequest(c.Request.Context(), middleware.Current(c).UserID, in)
	if err != nil {
		fail(c, err, "Error submitting club request")
		return
	}
	ok(c, gin.H{"request_id": req.ID}, "Club request submitted")
}

// Join asks to join the club behind an access code.
func (cc *ClubController) Join(c *gin.Context) {
	var in struct {
		AccessCode string `json:"access_code"`
	}
	if !bind(c, &in) {
		return
	}
	req, club, err := cc.Clubs.RequestJoin(c.Request.Context(), middleware.Current(c).UserID, in.AccessCode)
	if err != nil {
		fail(c, err, "Error submitting join request")
		return
	}
	ok(c, gin.H{"request_id": req.ID, "club_id": club.ID, "club_name": club.Name}, "Join request submitted")
}

// JoinRequests lists a club's pending join requests.
func (cc *ClubController) JoinRequests(c *gin.Context) {
	clubID, found := requireClub(c, 0)
	if !found {
		return
	}
	reqs, err := cc.Clubs.ListJoinRequests(c.Request.Context(), middleware.Current(c).UserID, clubID)
	if err != nil {
		fail(c, err, "Error fetching join requests")
		return
	}
	if reqs == nil {
		reqs = []models.JoinRequest{}
	}
	ok(c, reqs, "")
}

// ApproveJoin accepts a pending join request.
func (cc *ClubController) ApproveJoin(c *gin.Context) {
	var in requestRef
	if !bind(c, &in) {
		return
	}
	if in.RequestID == 0 {
		failMsg(c, "Request ID required")
		return
	}
	if err := cc.Clubs.ApproveJoinRequest(c.Request.Context(), middleware.Current(c).UserID, in.RequestID); err != nil {
		fail(c, err, "Error approving join request")
		return
	}
	ok(c, nil, "Join request approved")
}

// RejectJoin declines a pending join request.
func (cc *ClubController) RejectJoin(c *gin.Context) {
	var in requestRef
	if !bind(c, &in) {
		return
	}
	if in.RequestID == 0 {
		failMsg(c, "Request ID required")
		return
	}
	if err := cc.Clubs.RejectJoinRequest(c.Request.Context(), middleware.Current(c).UserID, in.RequestID); err != nil {
		fail(c, err, "Error rejecting join request")
		return
	}
	ok(c, nil, "Join request rejected")
}

// QRCode renders the club's join link as a PNG. Errors come back as the JSON
// envelope so API clients see the usual shape.
func (cc *ClubController) QRCode(c *gin.Context) {
	clubID, found := requireClub(c, 0)
	if !found {
		return
	}
	club, err := cc.Clubs.GetClub(c.Request.Context(), middleware.Current(c).UserID, clubID)
	if err != nil {
		fail(c, err, "Error generating QR code")
		return
	}

	size := queryInt(c, "size")
	if size == 0 {
		size = services.DefaultQRCodeSize
	}
	png, err := services.GenerateJoinQRCode(cc.ApplicationURL, club.AccessCode, size, cc.Encode)
	if err != nil {
		logger.Warn.Printf("[ClubController.QRCode] club=%d: %v", clubID, err)
		failMsg(c, "Error generating QR code")
		return
	}

	c.Header("Content-Disposition", "inline; filename=\"club-qrcode.png\"")
	c.Data(http.StatusOK, "image/png", png)
}
