package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisKeyPrefix = "ratelimit:"
	defaultScanBatchSize  = 1000
)

// fixedWindowScript applies one fixed-window take atomically. The caller
// supplies its own clock in milliseconds so all instances agree on
// window anchors regardless of Redis server time.
//
// KEYS[1] entry key, ARGV[1] limit, ARGV[2] window ms, ARGV[3] now ms.
// Reply: {allowed, count, windowStart}.
var fixedWindowScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local data = redis.call("HMGET", key, "count", "ws")
local count = tonumber(data[1])
local ws = tonumber(data[2])

if count == nil or (now - ws) >= window then
  redis.call("HSET", key, "count", 1, "ws", now)
  redis.call("PEXPIRE", key, window)
  return {1, 1, now}
end

if count >= limit then
  return {0, count, ws}
end

count = count + 1
redis.call("HSET", key, "count", count)
return {1, count, ws}
`)

// RedisStore implements Store on Redis, sharing window counters across
// process instances. This is the extension point for deployments where
// per-process counting (limit x instance count) is not acceptable.
//
// Expired entries are evicted by Redis TTLs, so Cleanup is a no-op.
type RedisStore struct {
	client    redis.UniversalClient
	prefix    string
	scanBatch int64
	now       func() time.Time
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix namespaces the store's keys. Give each logical limiter
// its own prefix so limiters never share key space.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(rs *RedisStore) {
		if prefix != "" {
			rs.prefix = prefix
		}
	}
}

// WithScanBatchSize sets the SCAN page size used by Clear and Size.
func WithScanBatchSize(n int) RedisStoreOption {
	return func(rs *RedisStore) {
		if n > 0 {
			rs.scanBatch = int64(n)
		}
	}
}

// WithRedisStoreClock overrides the time source passed to the window
// script.
func WithRedisStoreClock(now func() time.Time) RedisStoreOption {
	return func(rs *RedisStore) {
		if now != nil {
			rs.now = now
		}
	}
}

// NewRedisStore creates a store over an existing Redis client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	rs := &RedisStore{
		client:    client,
		prefix:    defaultRedisKeyPrefix,
		scanBatch: defaultScanBatchSize,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(rs)
	}

	return rs
}

func (rs *RedisStore) Take(ctx context.Context, key string, cfg Config) (State, error) {
	vals, err := fixedWindowScript.Run(ctx, rs.client,
		[]string{rs.prefix + key},
		cfg.Limit, cfg.Window.Milliseconds(), rs.now().UnixMilli(),
	).Int64Slice()
	if err != nil {
		return State{}, fmt.Errorf("redis window take: %w", err)
	}
	if len(vals) != 3 {
		return State{}, fmt.Errorf("redis window take: unexpected reply of length %d", len(vals))
	}

	return State{
		Allowed: vals[0] == 1,
		Count:   int(vals[1]),
		ResetAt: time.UnixMilli(vals[2]).Add(cfg.Window),
	}, nil
}

func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, rs.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis window reset: %w", err)
	}
	return nil
}

func (rs *RedisStore) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := rs.client.Scan(ctx, cursor, rs.prefix+"*", rs.scanBatch).Result()
		if err != nil {
			return fmt.Errorf("redis window clear: %w", err)
		}
		if len(keys) > 0 {
			if err := rs.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis window clear: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Cleanup is a no-op: Redis evicts expired entries via PEXPIRE.
func (rs *RedisStore) Cleanup(ctx context.Context, window time.Duration) (int, error) {
	return 0, nil
}

func (rs *RedisStore) Size(ctx context.Context) (int, error) {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := rs.client.Scan(ctx, cursor, rs.prefix+"*", rs.scanBatch).Result()
		if err != nil {
			return 0, fmt.Errorf("redis window size: %w", err)
		}
		total += len(keys)
		cursor = next
		if cursor == 0 {
			return total, nil
		}
	}
}
