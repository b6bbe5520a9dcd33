// File: middleware/throttle.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"go-club-hub/logger"
	"go-club-hub/services"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Throttle is an in-memory per-IP token bucket placed in front of the API.
// It absorbs request floods before they reach the database-backed limiter.
type Throttle struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

// NewThrottle allows perSecond requests per client IP with the given burst.
func NewThrottle(perSecond float64, burst int) *Throttle {
	return &Throttle{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		idle:     10 * time.Minute,
		now:      time.Now,
	}
}

// Allow consumes one token for ip.
func (t *Throttle) Allow(ip string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	v, ok := t.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Sweep forgets clients idle longer than the idle window and returns how many
// were dropped.
func (t *Throttle) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-t.idle)
	dropped := 0
	for ip, v := range t.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(t.visitors, ip)
			dropped++
		}
	}
	return dropped
}

// Middleware answers 429 with the failure envelope once a client's bucket is
// empty.
func (t *Throttle) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !t.Allow(c.ClientIP()) {
			logger.Warn.Printf("[Throttle] %s exceeded burst on %s", c.ClientIP(), c.Request.URL.Path)
			RespondStatus(c, http.StatusTooManyRequests, false, nil, services.ErrRateLimitExceeded.Message)
			c.Abort()
			return
		}
		c.Next()
	}
}
