package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometeylabs/lander/internal/pkg/response"
)

const (
	CSRFCookieName = "csrftoken"
	CSRFHeaderName = "X-CSRFToken"
	CSRFFormField  = "csrfmiddlewaretoken"

	csrfTokenBytes   = 32
	csrfCookieMaxAge = 365 * 24 * 60 * 60
)

// CSRFOptions controls the token cookie.
type CSRFOptions struct {
	Secure bool
}

// EnsureCSRFCookie returns the request's token, issuing a new cookie when it has none.
func EnsureCSRFCookie(c *gin.Context, opts CSRFOptions) string {
	if token, err := c.Cookie(CSRFCookieName); err == nil && validCSRFToken(token) {
		return token
	}

	buf := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	token := hex.EncodeToString(buf)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CSRFCookieName, token, csrfCookieMaxAge, "/", "", opts.Secure, false)
	return token
}

// CSRF enforces the double-submit check on unsafe methods: the csrftoken cookie must match the
// X-CSRFToken header or the csrfmiddlewaretoken form field.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		cookie, err := c.Cookie(CSRFCookieName)
		if err != nil || !validCSRFToken(cookie) {
			response.ForbiddenMsg(c, "CSRF cookie not set")
			return
		}

		submitted := c.GetHeader(CSRFHeaderName)
		if submitted == "" {
			submitted = c.PostForm(CSRFFormField)
		}
		if subtle.ConstantTimeCompare([]byte(cookie), []byte(submitted)) != 1 {
			response.ForbiddenMsg(c, "CSRF token missing or incorrect")
			return
		}
		c.Next()
	}
}

func validCSRFToken(token string) bool {
	if len(token) != csrfTokenBytes*2 {
		return false
	}
	_, err := hex.DecodeString(token)
	return err == nil
}
