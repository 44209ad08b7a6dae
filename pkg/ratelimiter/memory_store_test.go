package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/salesdesk/pkg/ratelimiter"
)

func TestMemoryStore_Take(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := ratelimiter.Config{Limit: 3, Window: time.Minute}

	t.Run("opens window on first take", func(t *testing.T) {
		clock := newFakeClock()
		store := ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreClock(clock.Now))

		st, err := store.Take(ctx, "new-key", cfg)
		require.NoError(t, err)
		assert.True(t, st.Allowed)
		assert.Equal(t, 1, st.Count)
		assert.Equal(t, clock.Now().Add(cfg.Window), st.ResetAt)
	})

	t.Run("increments inside open window", func(t *testing.T) {
		clock := newFakeClock()
		store := ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreClock(clock.Now))

		for i := 1; i <= cfg.Limit; i++ {
			st, err := store.Take(ctx, "k", cfg)
			require.NoError(t, err)
			assert.True(t, st.Allowed)
			assert.Equal(t, i, st.Count)
		}
	})

	t.Run("denies without incrementing once full", func(t *testing.T) {
		clock := newFakeClock()
		store := ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreClock(clock.Now))

		for range cfg.Limit {
			_, err := store.Take(ctx, "k", cfg)
			require.NoError(t, err)
		}

		for range 5 {
			st, err := store.Take(ctx, "k", cfg)
			require.NoError(t, err)
			assert.False(t, st.Allowed)
			assert.Equal(t, cfg.Limit, st.Count)
		}
	})

	t.Run("resetAt stays anchored to window start", func(t *testing.T) {
		clock := newFakeClock()
		store := ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreClock(clock.Now))

		first, err := store.Take(ctx, "k", cfg)
		require.NoError(t, err)

		clock.Advance(10 * time.Second)
		second, err := store.Take(ctx, "k", cfg)
		require.NoError(t, err)
		assert.Equal(t, first.ResetAt, second.ResetAt)
	})

	t.Run("expired window starts over and discards overage", func(t *testing.T) {
		clock := newFakeClock()
		store := ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreClock(clock.Now))

		for range cfg.Limit + 2 {
			_, err := store.Take(ctx, "k", cfg)
			require.NoError(t, err)
		}

		clock.Advance(cfg.Window)

		st, err := store.Take(ctx, "k", cfg)
		require.NoError(t, err)
		assert.True(t, st.Allowed)
		assert.Equal(t, 1, st.Count)
		assert.Equal(t, clock.Now().Add(cfg.Window), st.ResetAt)
	})

	t.Run("keys are independent", func(t *testing.T) {
		clock := newFakeClock()
		store := ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreClock(clock.Now))

		for range cfg.Limit {
			_, err := store.Take(ctx, "k1", cfg)
			require.NoError(t, err)
		}

		st, err := store.Take(ctx, "k2", cfg)
		require.NoError(t, err)
		assert.True(t, st.Allowed)
		assert.Equal(t, 1, st.Count)
	})

	t.Run("empty string is a valid distinct key", func(t *testing.T) {
		clock := newFakeClock()
		store := ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreClock(clock.Now))

		st, err := store.Take(ctx, "", cfg)
		require.NoError(t, err)
		assert.True(t, st.Allowed)

		size, err := store.Size(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, size)
	})
}

func TestMemoryStore_Reset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := ratelimiter.Config{Limit: 2, Window: time.Minute}

	clock := newFakeClock()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreClock(clock.Now))

	for range cfg.Limit {
		_, err := store.Take(ctx, "k", cfg)
		require.NoError(t, err)
	}

	require.NoError(t, store.Reset(ctx, "k"))

	st, err := store.Take(ctx, "k", cfg)
	require.NoError(t, err)
	assert.True(t, st.Allowed)
	assert.Equal(t, 1, st.Count)

	// Resetting an absent key is not an error.
	assert.NoError(t, store.Reset(ctx, "never-seen"))
}

func TestMemoryStore_Clear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := ratelimiter.Config{Limit: 2, Window: time.Minute}

	clock := newFakeClock()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreClock(clock.Now))

	for _, key := range []string{"a", "b", "c"} {
		_, err := store.Take(ctx, key, cfg)
		require.NoError(t, err)
	}

	size, err := store.Size(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, size)

	require.NoError(t, store.Clear(ctx))

	size, err = store.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, size)
}

func TestMemoryStore_Cleanup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := ratelimiter.Config{Limit: 5, Window: time.Minute}

	clock := newFakeClock()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreClock(clock.Now))

	_, err := store.Take(ctx, "old", cfg)
	require.NoError(t, err)

	clock.Advance(cfg.Window + time.Second)

	_, err = store.Take(ctx, "fresh", cfg)
	require.NoError(t, err)

	removed, err := store.Cleanup(ctx, cfg.Window)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	size, err := store.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	// The surviving entry still counts: the open window is untouched.
	st, err := store.Take(ctx, "fresh", cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Count)
}

func TestMemoryStore_Stats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := ratelimiter.Config{Limit: 5, Window: time.Minute}

	clock := newFakeClock()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreClock(clock.Now))

	for _, key := range []string{"a", "b"} {
		_, err := store.Take(ctx, key, cfg)
		require.NoError(t, err)
	}
	require.NoError(t, store.Reset(ctx, "a"))

	stats := store.Stats()
	assert.Equal(t, int64(2), stats.EntriesCreated)
	assert.Equal(t, int64(1), stats.EntriesRemoved)
	assert.Equal(t, 1, stats.ActiveEntries)
}
