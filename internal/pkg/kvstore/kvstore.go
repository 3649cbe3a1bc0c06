// Package kvstore is the small key-value-with-TTL contract shared by the rate limiter and the
// idempotence guard, with a redis implementation and an in-process one.
package kvstore

import (
	"context"
	"time"
)

// Store is a string key-value store with per-key expiry. A ttl of 0 means no expiry.
type Store interface {
	// Get returns the value and its remaining lifetime (0 when the key never expires).
	Get(ctx context.Context, key string) (value string, ttl time.Duration, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// SetNX stores value only when key is absent and reports whether it did.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	// Incr adds one to an integer value. When the key is absent it is created as 1 expiring
	// after ttl, so a counter never outlives its window.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Del(ctx context.Context, keys ...string) error
}
