// File: middleware/envelope.go
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"go-club-hub/logger"
)

// Envelope is the shape of every JSON API response.
type Envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Message   string      `json:"message"`
	CSRFToken string      `json:"csrf_token"`
}

// Respond writes the envelope with HTTP 200. The current CSRF token is
// attached (and created if missing) and the session is saved.
func Respond(c *gin.Context, success bool, data interface{}, message string) {
	RespondStatus(c, http.StatusOK, success, data, message)
}

// RespondStatus is Respond with an explicit status code, for transport-level
// rejections such as throttling.
func RespondStatus(c *gin.Context, status int, success bool, data interface{}, message string) {
	session := sessions.Default(c)
	token := Token(session)
	if err := session.Save(); err != nil {
		logger.Error.Printf("[Respond] failed to save session: %v", err)
	}
	c.JSON(status, Envelope{
		Success:   success,
		Data:      data,
		Message:   message,
		CSRFToken: token,
	})
}

// Reject writes a failure envelope and stops the handler chain.
func Reject(c *gin.Context, message string) {
	Respond(c, false, nil, message)
	c.Abort()
}
