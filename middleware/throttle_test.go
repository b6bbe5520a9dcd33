// file: middleware/throttle_test.go
package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestThrottle_PerIPBurst(t *testing.T) {
	th := NewThrottle(1, 2)
	now := time.Unix(1_750_000_000, 0)
	th.now = func() time.Time { return now }

	assert.True(t, th.Allow("10.0.0.1"))
	assert.True(t, th.Allow("10.0.0.1"))
	assert.False(t, th.Allow("10.0.0.1"))
	assert.True(t, th.Allow("10.0.0.2"), "buckets are per client")

	now = now.Add(time.Second)
	assert.True(t, th.Allow("10.0.0.1"), "one token refilled")
}

func TestThrottle_Sweep(t *testing.T) {
	th := NewThrottle(1, 1)
	now := time.Unix(1_750_000_000, 0)
	th.now = func() time.Time { return now }

	th.Allow("10.0.0.1")
	now = now.Add(5 * time.Minute)
	th.Allow("10.0.0.2")
	now = now.Add(6 * time.Minute)

	assert.Equal(t, 1, th.Sweep())
	assert.Len(t, th.visitors, 1)
}

func TestThrottle_Middleware(t *testing.T) {
	router := setupTestRouter()
	th := NewThrottle(0.001, 1)
	router.GET("/api/ping", th.Middleware(), func(c *gin.Context) { Respond(c, true, nil, "pong") })
	cl := newClient(t, router)

	assert.Equal(t, http.StatusOK, cl.do(http.MethodGet, "/api/ping", nil, nil).Code)
	w := cl.do(http.MethodGet, "/api/ping", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "Rate limit exceeded. Please try again later.", env.Message)
}

func TestRecovery_WritesEnvelope(t *testing.T) {
	router := setupTestRouter()
	router.Use(Recovery())
	router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := newClient(t, router).do(http.MethodGet, "/boom", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "Internal server error", env.Message)
}
