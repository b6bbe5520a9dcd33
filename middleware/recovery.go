// File: middleware/recovery.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-club-hub/logger"
)

// Recovery converts panics into a failure envelope with HTTP 500.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error.Printf("[Recovery] panic on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		if c.Writer.Written() {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		RespondStatus(c, http.StatusInternalServerError, false, nil, "Internal server error")
		c.Abort()
	})
}
