// File: middleware/csrf.go
package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"go-club-hub/logger"
	"go-club-hub/metrics"
	"go-club-hub/services"
)

// CSRFHeader carries the token on mutating API requests.
const CSRFHeader = "X-CSRF-Token"

func newCSRFToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("csrf: crypto/rand failed: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// Token returns the session's CSRF token, creating one on first use. The
// caller is responsible for saving the session.
func Token(session sessions.Session) string {
	if token, ok := session.Get(SessionCSRFToken).(string); ok && token != "" {
		return token
	}
	token := newCSRFToken()
	session.Set(SessionCSRFToken, token)
	return token
}

// Verify compares token against the session's token in constant time. A
// session without a token never verifies.
func Verify(session sessions.Session, token string) bool {
	expected, ok := session.Get(SessionCSRFToken).(string)
	if !ok || expected == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(token)) == 1
}

// IsMutation reports whether the method changes state.
func IsMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// RequireCSRF rejects mutating requests whose X-CSRF-Token header does not
// match the session token. It runs before any handler touches data.
func RequireCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsMutation(c.Request.Method) {
			c.Next()
			return
		}
		if !Verify(sessions.Default(c), c.GetHeader(CSRFHeader)) {
			metrics.CSRFRejections.Inc()
			logger.Warn.Printf("[RequireCSRF] rejected %s %s from %s", c.Request.Method, c.FullPath(), c.ClientIP())
			Reject(c, services.ErrCSRFInvalid.Message)
			return
		}
		c.Next()
	}
}
