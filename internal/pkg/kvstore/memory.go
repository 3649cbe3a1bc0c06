package kvstore

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

const defaultCleanupInterval = time.Minute

// MemoryStore keeps keys in process memory. Counters are not shared between replicas.
type MemoryStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewMemory() *MemoryStore {
	return &MemoryStore{cache: cache.New(cache.NoExpiration, defaultCleanupInterval)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, time.Duration, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ttl, found := s.get(key)
	return value, ttl, found, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Set(key, value, expiration(ttl))
	return nil
}

func (s *MemoryStore) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cache.Add(key, value, expiration(ttl)); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, remaining, found := s.get(key)
	if !found {
		s.cache.Set(key, "1", expiration(ttl))
		return 1, nil
	}
	n, err := strconv.ParseInt(current, 10, 64)
	if err != nil {
		return 0, ErrNotInteger
	}
	n++
	s.cache.Set(key, strconv.FormatInt(n, 10), expiration(remaining))
	return n, nil
}

func (s *MemoryStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		s.cache.Delete(key)
	}
	return nil
}

// get must be called with mu held.
func (s *MemoryStore) get(key string) (string, time.Duration, bool) {
	raw, expiresAt, found := s.cache.GetWithExpiration(key)
	if !found {
		return "", 0, false
	}
	value, _ := raw.(string)
	if expiresAt.IsZero() {
		return value, 0, true
	}
	remaining := time.Until(expiresAt)
	if remaining <= 0 {
		return "", 0, false
	}
	return value, remaining, true
}

func expiration(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return cache.NoExpiration
	}
	return ttl
}
