package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometeylabs/lander/internal/pkg/response"
	"golang.org/x/time/rate"
)

const throttleIdleTTL = 30 * time.Minute

type throttleEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginThrottle is an in-process token bucket per client IP for credential endpoints.
type LoginThrottle struct {
	mu       sync.Mutex
	entries  map[string]*throttleEntry
	r        rate.Limit
	b        int
	lastScan time.Time
	now      func() time.Time
}

// NewLoginThrottle allows burst attempts, refilled at one token per interval.
func NewLoginThrottle(interval time.Duration, burst int) *LoginThrottle {
	return &LoginThrottle{
		entries: make(map[string]*throttleEntry),
		r:       rate.Every(interval),
		b:       burst,
		now:     time.Now,
	}
}

func (t *LoginThrottle) reserve(ip string) (bool, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if now.Sub(t.lastScan) > throttleIdleTTL {
		for key, entry := range t.entries {
			if now.Sub(entry.lastSeen) > throttleIdleTTL {
				delete(t.entries, key)
			}
		}
		t.lastScan = now
	}

	entry, ok := t.entries[ip]
	if !ok {
		entry = &throttleEntry{limiter: rate.NewLimiter(t.r, t.b)}
		t.entries[ip] = entry
	}
	entry.lastSeen = now

	if entry.limiter.AllowN(now, 1) {
		return true, 0
	}
	r := entry.limiter.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	return false, delay
}

// Middleware returns the gin handler.
func (t *LoginThrottle) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ok, retryAfter := t.reserve(c.ClientIP()); !ok {
			response.TooManyRequests(c, retryAfter)
			return
		}
		c.Next()
	}
}
