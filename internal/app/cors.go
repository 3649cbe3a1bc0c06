package app

import (
	"net/url"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometeylabs/lander/internal/config"
	"github.com/prometeylabs/lander/internal/middleware"
)

// corsMiddleware allows the configured origins. Development mode, or an empty list, allows any origin.
func corsMiddleware(cfg *config.AppConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization",
			middleware.CSRFHeaderName, "X-Idempotence-Key"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsConfig.AllowOriginFunc = func(origin string) bool {
			return originAllowed(patterns, origin)
		}
	} else {
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	}
	return cors.New(corsConfig)
}

func originAllowed(patterns []string, origin string) bool {
	host := originHost(origin)
	for _, pattern := range patterns {
		if matchOrigin(strings.TrimSpace(pattern), host) {
			return true
		}
	}
	return false
}

// originHost returns the "host[:port]" part of an origin.
func originHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return u.Host
}

// matchOrigin supports exact hosts, "*.example.com" and "localhost:*".
func matchOrigin(pattern, host string) bool {
	if u, err := url.Parse(pattern); err == nil && u.Host != "" {
		pattern = u.Host
	}
	switch {
	case pattern == host:
		return true
	case strings.HasPrefix(pattern, "*."):
		return strings.HasSuffix(host, pattern[1:])
	case strings.HasSuffix(pattern, ":*"):
		return strings.HasPrefix(host, pattern[:len(pattern)-1])
	}
	return false
}
