package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometeylabs/lander/internal/pkg/kvstore"
	"github.com/prometeylabs/lander/internal/pkg/response"
)

const (
	idempotenceHeader = "X-Idempotence-Key"
	idempotencePrefix = "lander:idempotence:"
	IdempotenceTTL    = 60 * time.Second
	// MaxIdempotenceBody bounds how much of a request body is read for fingerprinting.
	MaxIdempotenceBody = 1 << 20

	idempotencePending = "0"
	idempotenceDone    = "1"
)

// Idempotence rejects a repeated POST (same key header, or same body from the same client) while
// the first one is in flight or within IdempotenceTTL after it succeeded.
func Idempotence(store kvstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key, err := resolveIdempotenceKey(c)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.Error(c, http.StatusRequestEntityTooLarge, "Request body is too large.")
				return
			}
			c.Next()
			return
		}
		if key == "" {
			c.Next()
			return
		}

		storeKey := idempotencePrefix + key
		ctx := context.WithoutCancel(c.Request.Context())

		claimed, err := store.SetNX(ctx, storeKey, idempotencePending, IdempotenceTTL)
		if err != nil {
			c.Next()
			return
		}
		if !claimed {
			msg := "This request was already submitted. Please wait a minute before sending it again."
			if value, _, found, _ := store.Get(ctx, storeKey); found && value == idempotencePending {
				msg = "This request is already being processed."
			}
			response.Conflict(c, msg)
			return
		}

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			_ = store.Set(ctx, storeKey, idempotenceDone, remainingTTL(ctx, store, storeKey))
		} else {
			_ = store.Del(ctx, storeKey)
		}
	}
}

func resolveIdempotenceKey(c *gin.Context) (string, error) {
	if hdr := c.GetHeader(idempotenceHeader); hdr != "" {
		return hashKey(c.Request.URL.Path + "|" + hdr), nil
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxIdempotenceBody))
	if err != nil {
		return "", err
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

	if len(body) == 0 {
		return "", nil
	}
	return hashKey(c.Request.Method + "|" + c.Request.URL.String() + "|" + string(body) + "|" + c.Request.UserAgent() + "|" + c.ClientIP()), nil
}

// remainingTTL keeps the claim's window. A claim that already lapsed while the handler ran gets a
// fresh one so the marker never outlives IdempotenceTTL by more than that.
func remainingTTL(ctx context.Context, store kvstore.Store, key string) time.Duration {
	_, ttl, found, err := store.Get(ctx, key)
	if err != nil || !found || ttl <= 0 {
		return IdempotenceTTL
	}
	return ttl
}

func hashKey(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}
