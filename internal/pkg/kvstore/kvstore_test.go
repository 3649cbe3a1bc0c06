package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedis(rdb), mr
}

func stores(t *testing.T) map[string]Store {
	redisStore, _ := newRedisStore(t)
	return map[string]Store{
		"redis":  redisStore,
		"memory": NewMemory(),
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, _, found, err := store.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, found)

			ok, err := store.SetNX(ctx, "k", "1", time.Minute)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = store.SetNX(ctx, "k", "9", time.Minute)
			require.NoError(t, err)
			assert.False(t, ok)

			n, err := store.Incr(ctx, "k", time.Hour)
			require.NoError(t, err)
			assert.Equal(t, int64(2), n)

			value, ttl, found, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "2", value)
			assert.Greater(t, ttl, time.Duration(0))
			assert.LessOrEqual(t, ttl, time.Minute)

			require.NoError(t, store.Set(ctx, "k", "done", 30*time.Second))
			value, ttl, _, err = store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "done", value)
			assert.Greater(t, ttl, time.Duration(0))
			assert.LessOrEqual(t, ttl, 30*time.Second)

			n, err = store.Incr(ctx, "fresh", time.Minute)
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)
			_, ttl, _, err = store.Get(ctx, "fresh")
			require.NoError(t, err)
			assert.Greater(t, ttl, time.Duration(0))
			assert.LessOrEqual(t, ttl, time.Minute)

			require.NoError(t, store.Set(ctx, "forever", "x", 0))
			_, ttl, found, err = store.Get(ctx, "forever")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, time.Duration(0), ttl)

			require.NoError(t, store.Del(ctx, "k", "fresh", "forever"))
			_, _, found, err = store.Get(ctx, "k")
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	ok, err := store.SetNX(ctx, "win", "1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(61 * time.Second)

	_, _, found, err := store.Get(ctx, "win")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	ok, err := store.SetNX(ctx, "win", "1", 30*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(60 * time.Millisecond)

	_, _, found, err := store.Get(ctx, "win")
	require.NoError(t, err)
	assert.False(t, found)

	ok, err = store.SetNX(ctx, "win", "1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStoreIncrRejectsText(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	require.NoError(t, store.Set(ctx, "k", "abc", 0))

	_, err := store.Incr(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, ErrNotInteger)
}

func TestIncrArmsExpiryOnRecreatedKey(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	ok, err := store.SetNX(ctx, "win", "1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	mr.FastForward(61 * time.Second)

	n, err := store.Incr(ctx, "win", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	mr.FastForward(61 * time.Second)
	_, _, found, err := store.Get(ctx, "win")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryIncrArmsExpiryOnMissingKey(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	n, err := store.Incr(ctx, "win", 30*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	n, err = store.Incr(ctx, "win", time.Hour)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
	_, ttl, _, err := store.Get(ctx, "win")
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, 30*time.Millisecond, "later increments keep the first window")

	time.Sleep(60 * time.Millisecond)
	_, _, found, err := store.Get(ctx, "win")
	require.NoError(t, err)
	assert.False(t, found)
}
