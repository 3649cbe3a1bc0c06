package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometeylabs/lander/internal/models"
	"github.com/prometeylabs/lander/internal/pkg/jwt"
	"github.com/prometeylabs/lander/internal/pkg/response"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyStaff  = "staff_user"
	TokenCookieName  = "lander_token"
)

// StaffResolver loads the account a token was issued to. It returns (nil, nil) for unknown ids.
type StaffResolver interface {
	ResolveStaff(ctx context.Context, userID string) (*models.StaffUser, error)
}

// Auth returns a middleware that requires a valid token for an existing account.
func Auth(tokens *jwt.Manager, users StaffResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !attachUser(c, tokens, users) {
			response.Unauthorized(c)
			return
		}
		c.Next()
	}
}

// StaffOnly is Auth plus a 403 for accounts without the staff flag.
func StaffOnly(tokens *jwt.Manager, users StaffResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !attachUser(c, tokens, users) {
			response.Unauthorized(c)
			return
		}
		if !CurrentStaff(c).IsStaff {
			response.Forbidden(c)
			return
		}
		c.Next()
	}
}

func attachUser(c *gin.Context, tokens *jwt.Manager, users StaffResolver) bool {
	raw := extractToken(c)
	if raw == "" {
		return false
	}
	claims, err := tokens.Parse(raw)
	if err != nil {
		return false
	}
	user, err := users.ResolveStaff(c.Request.Context(), claims.UserID)
	if err != nil || user == nil {
		return false
	}
	c.Set(ContextKeyUserID, user.ID)
	c.Set(ContextKeyStaff, user)
	return true
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// CurrentStaff returns the account attached by Auth.
func CurrentStaff(c *gin.Context) *models.StaffUser {
	v, _ := c.Get(ContextKeyStaff)
	user, _ := v.(*models.StaffUser)
	return user
}

// IsAuthenticated returns true if the request has a valid auth token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != ""
}

func extractToken(c *gin.Context) string {
	if auth := NormalizeToken(c.GetHeader("Authorization")); auth != "" {
		return auth
	}
	if cookie, err := c.Cookie(TokenCookieName); err == nil {
		if token := NormalizeToken(cookie); token != "" {
			return token
		}
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
