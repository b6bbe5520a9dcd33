// File: controllers/auth_controller.go
package controllers

import (
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"go-club-hub/logger"
	"go-club-hub/middleware"
	"go-club-hub/models"
	"go-club-hub/services"
)

// AuthController handles registration, login, logout and the session probes.
type AuthController struct {
	Auth  *services.AuthService
	Clubs *services.ClubService
}

func NewAuthController(auth *services.AuthService, clubs *services.ClubService) *AuthController {
	return &AuthController{Auth: auth, Clubs: clubs}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func userPayload(u *models.User) gin.H {
	return gin.H{
		"user_id":         u.ID,
		"email":           u.Email,
		"first_name":      u.FirstName,
		"last_name":       u.LastName,
		"is_system_owner": u.IsSystemOwner,
	}
}

// beginSession replaces whatever the cookie held with a fresh server-side
// session for u. The previous session row, if any, is deleted.
func (ac *AuthController) beginSession(c *gin.Context, u *models.User) error {
	ctx := c.Request.Context()
	session := sessions.Default(c)

	if old := middleware.FromSession(session); old.SessionID != "" {
		if err := ac.Auth.EndSession(ctx, old.SessionID); err != nil {
			logger.Warn.Printf("[AuthController] failed to drop previous session: %v", err)
		}
	}

	sid, err := ac.Auth.StartSession(ctx, u.ID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		return err
	}

	var active int64
	if clubs, err := ac.Clubs.MyClubs(ctx, u.ID); err == nil && len(clubs) > 0 {
		active = clubs[0].ClubID
	}
	middleware.StartUserSession(session, u.ID, u.IsSystemOwner, sid, active)
	return nil
}

// Register creates an account and logs it in.
func (ac *AuthController) Register(c *gin.Context) {
	var in services.RegisterInput
	if !bind(c, &in) {
		return
	}

	user, err := ac.Auth.Register(c.Request.Context(), in, c.ClientIP())
	if err != nil {
		fail(c, err, "Registration failed")
		return
	}
	if err := ac.beginSession(c, user); err != nil {
		fail(c, err, "Registration failed")
		return
	}
	ok(c, userPayload(user), "Registration successful")
}

// Login verifies credentials and regenerates the session.
func (ac *AuthController) Login(c *gin.Context) {
	var in loginRequest
	if !bind(c, &in) {
		return
	}

	user, err := ac.Auth.Login(c.Request.Context(), in.Email, in.Password, c.ClientIP())
	if err != nil {
		fail(c, err, "Login failed")
		return
	}
	if err := ac.beginSession(c, user); err != nil {
		fail(c, err, "Login failed")
		return
	}
	ok(c, userPayload(user), "Login successful")
}

// Logout ends the session. Without an active login it simply succeeds; with
// one, the CSRF token must match.
func (ac *AuthController) Logout(c *gin.Context) {
	session := sessions.Default(c)
	rc := middleware.FromSession(session)

	if rc.Authenticated() {
		// a cookie whose session row is gone is treated as already logged out
		err := ac.Auth.ValidateSession(c.Request.Context(), rc.SessionID, rc.UserID)
		if errors.Is(err, services.ErrAuthenticationRequired) {
			logger.Debug.Printf("[AuthController.Logout] stale session for user=%d", rc.UserID)
			session.Clear()
			ok(c, nil, "Logged out successfully")
			return
		}
		if err != nil {
			fail(c, err, "Logout failed")
			return
		}
		if !middleware.Verify(session, c.GetHeader(middleware.CSRFHeader)) {
			failMsg(c, services.ErrCSRFInvalid.Message)
			return
		}
		if err := ac.Auth.EndSession(c.Request.Context(), rc.SessionID); err != nil {
			fail(c, err, "Logout failed")
			return
		}
		logger.Info.Printf("[AuthController.Logout] user=%d logged out", rc.UserID)
	}

	session.Clear()
	ok(c, nil, "Logged out successfully")
}

// Check reports the logged-in user. The auth middleware has already bumped
// the session's activity.
func (ac *AuthController) Check(c *gin.Context) {
	rc := middleware.Current(c)
	user, err := ac.Auth.CurrentUser(c.Request.Context(), rc.UserID)
	if err != nil {
		fail(c, err, "Not logged in")
		return
	}
	data := userPayload(user)
	data["active_club_id"] = rc.ActiveClubID
	ok(c, data, "")
}

// MyClubs lists the caller's active memberships.
func (ac *AuthController) MyClubs(c *gin.Context) {
	clubs, err := ac.Clubs.MyClubs(c.Request.Context(), middleware.Current(c).UserID)
	if err != nil {
		fail(c, err, "Error fetching clubs")
		return
	}
	if clubs == nil {
		clubs = []models.UserClub{}
	}
	ok(c, clubs, "")
}
