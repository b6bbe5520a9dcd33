// Package controllers file: controllers/page_controller.go
package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"go-club-hub/logger"
	"go-club-hub/middleware"
	"go-club-hub/models"
	"go-club-hub/services"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PageController renders the HTML shell pages. Data on the pages is loaded by
// the browser through the JSON API.
type PageController struct {
	Auth           *services.AuthService
	Clubs          *services.ClubService
	RBAC           *services.RBAC
	DB             Pinger
	ApplicationURL string
}

func NewPageController(auth *services.AuthService, clubs *services.ClubService, rbac *services.RBAC, db Pinger, applicationURL string) *PageController {
	return &PageController{Auth: auth, Clubs: clubs, RBAC: rbac, DB: db, ApplicationURL: applicationURL}
}

// Health answers the load balancer probe.
func (pc *PageController) Health(c *gin.Context) {
	if pc.DB != nil {
		if err := pc.DB.Ping(c.Request.Context()); err != nil {
			logger.Error.Printf("Health: database ping failed: %v", err)
			c.String(http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	c.String(http.StatusOK, "OK")
}

func (pc *PageController) csrf(c *gin.Context) string {
	session := sessions.Default(c)
	token := middleware.Token(session)
	if err := session.Save(); err != nil {
		logger.Error.Printf("[PageController] failed to save session: %v", err)
	}
	return token
}

// ShowLoginPage renders the login form; logged-in visitors go home.
func (pc *PageController) ShowLoginPage(c *gin.Context) {
	if middleware.Current(c).Authenticated() {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{"CSRFToken": pc.csrf(c)})
}

func (pc *PageController) ShowRegisterPage(c *gin.Context) {
	if middleware.Current(c).Authenticated() {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "register.html", gin.H{"CSRFToken": pc.csrf(c)})
}

// Index sends the system owner to the dashboard and users without clubs to
// /no-clubs; everyone else gets the club hub for their active club.
func (pc *PageController) Index(c *gin.Context) {
	rc := middleware.Current(c)
	if rc.IsSystemOwner {
		c.Redirect(http.StatusFound, "/super-owner")
		return
	}

	clubs, err := pc.Clubs.MyClubs(c.Request.Context(), rc.UserID)
	if err != nil {
		logger.Error.Printf("Index: loading clubs for user=%d: %v", rc.UserID, err)
		c.String(http.StatusInternalServerError, "Error loading clubs")
		return
	}
	if len(clubs) == 0 {
		c.Redirect(http.StatusFound, "/no-clubs")
		return
	}

	active := clubs[0]
	for _, club := range clubs {
		if club.ClubID == rc.ActiveClubID {
			active = club
			break
		}
	}
	if active.ClubID != rc.ActiveClubID {
		middleware.SetActiveClub(c, active.ClubID)
	}

	user, err := pc.Auth.CurrentUser(c.Request.Context(), rc.UserID)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	canManageRoles := false
	if _, err := pc.RBAC.CanManageRoles(c.Request.Context(), rc.UserID, active.ClubID); err == nil {
		canManageRoles = true
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"User":           user,
		"Clubs":          clubs,
		"ActiveClub":     active,
		"CanManageRoles": canManageRoles,
		"CSRFToken":      pc.csrf(c),
	})
}

// NoClubs is the landing page for accounts without an active membership.
func (pc *PageController) NoClubs(c *gin.Context) {
	rc := middleware.Current(c)
	clubs, err := pc.Clubs.MyClubs(c.Request.Context(), rc.UserID)
	if err == nil && len(clubs) > 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	user, err := pc.Auth.CurrentUser(c.Request.Context(), rc.UserID)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	c.HTML(http.StatusOK, "no_clubs.html", gin.H{"User": user, "CSRFToken": pc.csrf(c)})
}

// ManageRoles renders the permission matrix editor for the active club.
func (pc *PageController) ManageRoles(c *gin.Context) {
	rc := middleware.Current(c)
	if rc.ActiveClubID == 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	if _, err := pc.RBAC.CanManageRoles(c.Request.Context(), rc.UserID, rc.ActiveClubID); err != nil {
		logger.Warn.Printf("ManageRoles: user=%d club=%d denied: %v", rc.UserID, rc.ActiveClubID, err)
		c.Redirect(http.StatusFound, "/")
		return
	}
	club, err := pc.Clubs.GetClub(c.Request.Context(), rc.UserID, rc.ActiveClubID)
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "manage_roles.html", gin.H{
		"Club":           club,
		"PermissionKeys": models.PermissionKeys,
		"CSRFToken":      pc.csrf(c),
	})
}

// SuperOwner renders the system owner dashboard.
func (pc *PageController) SuperOwner(c *gin.Context) {
	c.HTML(http.StatusOK, "super_owner.html", gin.H{"CSRFToken": pc.csrf(c)})
}

// Join is the landing page behind a club QR code.
func (pc *PageController) Join(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Query("code")))
	c.HTML(http.StatusOK, "join.html", gin.H{
		"AccessCode": code,
		"CSRFToken":  pc.csrf(c),
	})
}
