// Package ratelimit implements a fixed-window request counter keyed by endpoint and client IP.
//
// Each key's window opens at its first request and lasts one period; windows are not aligned
// to wall-clock boundaries. Misconfigured specs and store failures let the request through.
package ratelimit

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometeylabs/lander/internal/pkg/kvstore"
	"go.uber.org/zap"
)

const defaultPrefix = "lander:ratelimit:"

var ErrMalformedSpec = errors.New("ratelimit: malformed limit spec")

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

var allowed = Decision{Allowed: true}

// Limiter counts requests in a shared kvstore.Store.
type Limiter struct {
	store  kvstore.Store
	log    *zap.Logger
	prefix string
}

func New(store kvstore.Store, log *zap.Logger) *Limiter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Limiter{store: store, log: log, prefix: defaultPrefix}
}

// Key is the counter key for endpointKey and clientIP.
func (l *Limiter) Key(endpointKey, clientIP string) string {
	return l.prefix + endpointKey + ":" + clientIP
}

// Allow parses limitSpec and applies it. A malformed spec fails open.
func (l *Limiter) Allow(ctx context.Context, clientIP, endpointKey, limitSpec string) Decision {
	spec, err := ParseSpec(limitSpec)
	if err != nil {
		l.log.Warn("rate limit spec rejected, allowing request",
			zap.String("endpoint", endpointKey),
			zap.String("spec", limitSpec),
			zap.Error(err),
		)
		return allowed
	}
	return l.AllowSpec(ctx, clientIP, endpointKey, spec)
}

// AllowSpec applies an already parsed spec.
func (l *Limiter) AllowSpec(ctx context.Context, clientIP, endpointKey string, spec Spec) Decision {
	key := l.Key(endpointKey, clientIP)

	value, ttl, found, err := l.store.Get(ctx, key)
	if err != nil {
		l.storeFailure(key, err)
		return allowed
	}

	if !found {
		created, err := l.store.SetNX(ctx, key, "1", spec.Period)
		if err != nil {
			l.storeFailure(key, err)
			return allowed
		}
		if created {
			return allowed
		}
		// Another request opened the window between Get and SetNX.
		value, ttl, found, err = l.store.Get(ctx, key)
		if err != nil || !found {
			return allowed
		}
	}

	if ttl <= 0 {
		// Window counters always expire; one without a lifetime lost it and starts over.
		if err := l.store.Set(ctx, key, "1", spec.Period); err != nil {
			l.storeFailure(key, err)
		}
		return allowed
	}

	if count := parseCount(value); count >= spec.Limit {
		return Decision{Allowed: false, RetryAfter: ttl}
	}

	if _, err := l.store.Incr(ctx, key, spec.Period); err != nil {
		l.storeFailure(key, err)
	}
	return allowed
}

// Reset drops the counter for endpointKey and clientIP.
func (l *Limiter) Reset(ctx context.Context, clientIP, endpointKey string) error {
	return l.store.Del(ctx, l.Key(endpointKey, clientIP))
}

func (l *Limiter) storeFailure(key string, err error) {
	l.log.Warn("rate limit store unavailable, allowing request", zap.String("key", key), zap.Error(err))
}

func parseCount(value string) int64 {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
