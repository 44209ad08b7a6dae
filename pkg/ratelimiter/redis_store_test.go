package ratelimiter_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/salesdesk/pkg/ratelimiter"
)

// newTestRedisStore connects to the Redis named by TEST_REDIS_URL, or
// skips. Run against a disposable instance: the store is cleared.
func newTestRedisStore(t *testing.T, opts ...ratelimiter.RedisStoreOption) *ratelimiter.RedisStore {
	t.Helper()

	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set, skipping redis store tests")
	}

	opt, err := redis.ParseURL(url)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Ping(context.Background()).Err())

	prefix := "ratelimit-test:" + t.Name() + ":"
	store := ratelimiter.NewRedisStore(client, append([]ratelimiter.RedisStoreOption{ratelimiter.WithKeyPrefix(prefix)}, opts...)...)
	t.Cleanup(func() { _ = store.Clear(context.Background()) })

	return store
}

func TestRedisStore_Take(t *testing.T) {
	ctx := context.Background()
	cfg := ratelimiter.Config{Limit: 3, Window: time.Minute}

	store := newTestRedisStore(t)

	for i := 1; i <= cfg.Limit; i++ {
		st, err := store.Take(ctx, "k", cfg)
		require.NoError(t, err)
		assert.True(t, st.Allowed)
		assert.Equal(t, i, st.Count)
	}

	st, err := store.Take(ctx, "k", cfg)
	require.NoError(t, err)
	assert.False(t, st.Allowed)
	assert.Equal(t, cfg.Limit, st.Count)

	// A different key is untouched.
	st, err = store.Take(ctx, "other", cfg)
	require.NoError(t, err)
	assert.True(t, st.Allowed)
}

func TestRedisStore_WindowExpiry(t *testing.T) {
	ctx := context.Background()
	cfg := ratelimiter.Config{Limit: 2, Window: 100 * time.Millisecond}

	store := newTestRedisStore(t)

	for range cfg.Limit + 1 {
		_, err := store.Take(ctx, "k", cfg)
		require.NoError(t, err)
	}

	time.Sleep(cfg.Window + 20*time.Millisecond)

	st, err := store.Take(ctx, "k", cfg)
	require.NoError(t, err)
	assert.True(t, st.Allowed)
	assert.Equal(t, 1, st.Count)
}

func TestRedisStore_ResetClearSize(t *testing.T) {
	ctx := context.Background()
	cfg := ratelimiter.Config{Limit: 5, Window: time.Minute}

	store := newTestRedisStore(t, ratelimiter.WithScanBatchSize(2))

	for _, key := range []string{"a", "b", "c"} {
		_, err := store.Take(ctx, key, cfg)
		require.NoError(t, err)
	}

	size, err := store.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, size)

	require.NoError(t, store.Reset(ctx, "a"))
	require.NoError(t, store.Reset(ctx, "missing"))

	size, err = store.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, size)

	require.NoError(t, store.Clear(ctx))

	size, err = store.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, size)
}
