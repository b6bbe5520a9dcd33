// file: controllers/admin_controller_test.go
package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-club-hub/services"
)

func TestSuperOwner_Gate(t *testing.T) {
	app := newTestApp(t)
	c := app.newClient(t)
	c.register("mallory")

	env := c.api(http.MethodGet, "/api/super-owner/stats", nil)
	assert.False(t, env.Success)
	assert.Equal(t, "Access denied - System owner only", env.Message)

	env = c.api(http.MethodPost, "/api/super-owner/approve-club", gin.H{"request_id": 1})
	assert.Equal(t, "Access denied - System owner only", env.Message)

	env = app.newClient(t).api(http.MethodGet, "/api/super-owner/stats", nil)
	assert.Equal(t, services.ErrAuthenticationRequired.Message, env.Message)
}

func TestSuperOwner_Overview(t *testing.T) {
	f := newClubFixture(t)
	f.member.must(http.MethodPost, "/api/clubs/requests", gin.H{"club_name": "Go Club"})

	stats := dataMap(t, f.owner.must(http.MethodGet, "/api/super-owner/stats", nil))
	assert.EqualValues(t, 3, stats["total_users"])
	assert.EqualValues(t, 1, stats["total_clubs"])
	assert.EqualValues(t, 1, stats["pending_requests"])
	assert.EqualValues(t, 2, stats["total_members"])

	clubs := dataList(t, f.owner.must(http.MethodGet, "/api/super-owner/clubs", nil))
	require.Len(t, clubs, 1)
	assert.EqualValues(t, 2, clubs[0].(map[string]interface{})["member_count"])

	users := dataList(t, f.owner.must(http.MethodGet, "/api/super-owner/users", nil))
	assert.Len(t, users, 3)

	pending := dataList(t, f.owner.must(http.MethodGet, "/api/super-owner/pending-requests", nil))
	require.Len(t, pending, 1)
	reqID := idOf(pending[0].(map[string]interface{})["id"])

	env := f.owner.must(http.MethodPost, "/api/super-owner/reject-club", gin.H{"request_id": reqID, "reason": "Duplicate"})
	assert.Equal(t, "Request rejected", env.Message)
	env = f.owner.api(http.MethodPost, "/api/super-owner/approve-club", gin.H{"request_id": reqID})
	assert.False(t, env.Success)
	assert.Equal(t, "Request not found or already processed", env.Message)
}

// Given: an active member with a live session
// When: the system owner deactivates the account
// Then: the session stops working and login is refused until reactivation
func TestSuperOwner_DeactivateUser(t *testing.T) {
	f := newClubFixture(t)

	env := f.owner.must(http.MethodPost, "/api/super-owner/deactivate-user", gin.H{"user_id": f.memberID})
	assert.Equal(t, "User deactivated", env.Message)

	env = f.member.api(http.MethodGet, "/api/auth/check", nil)
	assert.False(t, env.Success)
	assert.Equal(t, services.ErrAuthenticationRequired.Message, env.Message)

	env = f.member.login("member@example.com", testPassword)
	assert.Equal(t, "Account is deactivated", env.Message)

	f.owner.must(http.MethodPost, "/api/super-owner/activate-user", gin.H{"user_id": f.memberID})
	env = f.member.api(http.MethodPost, "/api/auth/login", gin.H{"email": "member@example.com", "password": testPassword})
	assert.True(t, env.Success, env.Message)
}

func TestSuperOwner_DeleteClub(t *testing.T) {
	f := newClubFixture(t)

	env := f.owner.must(http.MethodPost, "/api/super-owner/delete-club", gin.H{"club_id": f.clubID})
	assert.Equal(t, "Club deactivated", env.Message)

	assert.Empty(t, dataList(t, f.member.must(http.MethodGet, "/api/auth/my-clubs", nil)))
	env = f.owner.api(http.MethodPost, "/api/super-owner/delete-club", gin.H{"club_id": f.clubID + 50})
	assert.Equal(t, "Club not found", env.Message)
}
