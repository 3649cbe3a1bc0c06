package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/prometeylabs/lander/internal/pkg/ratelimit"
	"github.com/prometeylabs/lander/internal/pkg/response"
)

// KeyFunc names the endpoint class a request is counted under.
type KeyFunc func(c *gin.Context) string

// StaticKey counts every request of a route under one name.
func StaticKey(name string) KeyFunc {
	return func(*gin.Context) string { return name }
}

// ParamKey counts per value of a path parameter, e.g. landing_view:<slug>.
func ParamKey(prefix, param string) KeyFunc {
	return func(c *gin.Context) string { return prefix + ":" + c.Param(param) }
}

// LimitedFunc is notified when a client is turned away.
type LimitedFunc func(ip, path string)

// RateLimit applies a fixed-window limit per client IP. spec is "<count>/<period>".
func RateLimit(limiter *ratelimit.Limiter, spec string, key KeyFunc, onLimited LimitedFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		decision := limiter.Allow(c.Request.Context(), ip, key(c), spec)
		if decision.Allowed {
			c.Next()
			return
		}

		if onLimited != nil {
			go onLimited(ip, c.Request.URL.Path)
		}
		response.TooManyRequests(c, decision.RetryAfter)
	}
}
