// File: middleware/system_owner.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-club-hub/logger"
)

const systemOwnerDenied = "Access denied - System owner only"

// SystemOwnerRequired restricts a group to the platform operator. It must run
// after APIAuthRequired or AuthRequired.
func SystemOwnerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		rc := Current(c)
		if !rc.IsSystemOwner {
			logger.Warn.Printf("[SystemOwnerRequired] user=%d denied %s", rc.UserID, c.Request.URL.Path)
			Reject(c, systemOwnerDenied)
			return
		}
		c.Next()
	}
}

// SystemOwnerPage is the page variant; non-owners are sent home.
func SystemOwnerPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Current(c).IsSystemOwner {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
