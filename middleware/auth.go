// File: middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"go-club-hub/logger"
	"go-club-hub/services"
)

// -------------- authentication middleware --------------

// SessionValidator confirms a session row still exists. *services.AuthService
// satisfies it.
type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionID string, userID int64) error
}

// authenticate resolves the request identity. A session whose row has been
// pruned or deleted is cleared and treated as anonymous.
func authenticate(c *gin.Context, auth SessionValidator) (RequestContext, error) {
	session := sessions.Default(c)
	rc := FromSession(session)
	if !rc.Authenticated() {
		return rc, services.ErrAuthenticationRequired
	}
	if err := auth.ValidateSession(c.Request.Context(), rc.SessionID, rc.UserID); err != nil {
		if errors.Is(err, services.ErrAuthenticationRequired) {
			logger.Info.Printf("[authenticate] session for user=%d is gone, clearing cookie", rc.UserID)
			session.Clear()
		}
		return RequestContext{}, err
	}
	setCurrent(c, rc)
	return rc, nil
}

// APIAuthRequired guards JSON endpoints. Unauthenticated requests get the
// failure envelope.
//
// Usage:
//
//	api.Use(middleware.APIAuthRequired(authService))
func APIAuthRequired(auth SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := authenticate(c, auth); err != nil {
			if !errors.Is(err, services.ErrAuthenticationRequired) {
				logger.Error.Printf("[APIAuthRequired] session check failed: %v", err)
			}
			Reject(c, services.ErrAuthenticationRequired.Message)
			return
		}
		c.Next()
	}
}

// AuthRequired guards HTML pages and redirects anonymous visitors to /login.
func AuthRequired(auth SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := authenticate(c, auth); err != nil {
			logger.Debug.Printf("[AuthRequired] redirecting %s to /login", c.Request.URL.Path)
			if saveErr := sessions.Default(c).Save(); saveErr != nil {
				logger.Error.Printf("[AuthRequired] failed to save session: %v", saveErr)
			}
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
