// Package controllers holds the HTTP handlers for the JSON API and the pages.
// File: controllers/response.go
package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"go-club-hub/logger"
	"go-club-hub/middleware"
	"go-club-hub/services"
)

// ok writes a success envelope.
func ok(c *gin.Context, data interface{}, message string) {
	middleware.Respond(c, true, data, message)
}

// fail writes a failure envelope for err. Errors without a client-safe
// message are logged and replaced with fallback; storage failures are logged
// with their cause.
func fail(c *gin.Context, err error, fallback string) {
	switch services.KindOf(err) {
	case "", services.KindStorageError:
		logger.Error.Printf("[%s %s] %v", c.Request.Method, c.FullPath(), err)
	}
	middleware.Respond(c, false, nil, services.MessageOf(err, fallback))
}

// failMsg writes a failure envelope with a literal message.
func failMsg(c *gin.Context, message string) {
	middleware.Respond(c, false, nil, message)
}

// bind decodes the JSON body into v. An empty body leaves v zeroed.
func bind(c *gin.Context, v interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(v); err != nil {
		logger.Debug.Printf("[bind] invalid body on %s: %v", c.FullPath(), err)
		failMsg(c, "Invalid request body")
		return false
	}
	return true
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

// clubID picks the club a request targets: an explicit id from the body, the
// route or the query string, falling back to the session's active club.
func clubID(c *gin.Context, fromBody int64) int64 {
	if fromBody != 0 {
		return fromBody
	}
	if id := parseID(c.Param("club_id")); id != 0 {
		return id
	}
	if id := parseID(c.Query("club_id")); id != 0 {
		return id
	}
	return middleware.Current(c).ActiveClubID
}

// requireClub resolves the club id or writes "Club ID required".
func requireClub(c *gin.Context, fromBody int64) (int64, bool) {
	id := clubID(c, fromBody)
	if id == 0 {
		failMsg(c, "Club ID required")
		return 0, false
	}
	return id, true
}
