package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisIdempotencyPrefix = "idempotency:"
	redisPendingMarker     = "pending"
)

// RedisIdempotencyStore shares idempotency results between server instances.
// A reservation is a SET NX of a pending marker; a second request arriving
// while the first holds the key gets ErrIdempotencyInFlight.
type RedisIdempotencyStore struct {
	rdb     *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

// NewRedisIdempotencyStore creates a Redis-backed idempotency store. lockTTL
// bounds how long a crashed request can hold a key.
func NewRedisIdempotencyStore(rdb *redis.Client, ttl, lockTTL time.Duration) *RedisIdempotencyStore {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	if lockTTL == 0 {
		lockTTL = time.Minute
	}
	return &RedisIdempotencyStore{rdb: rdb, ttl: ttl, lockTTL: lockTTL}
}

// Reserve claims key or returns the recorded response
func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string) (*CachedResponse, bool, error) {
	k := redisIdempotencyPrefix + key

	ok, err := s.rdb.SetNX(ctx, k, redisPendingMarker, s.lockTTL).Result()
	if err != nil {
		return nil, false, fmt.Errorf("reserve idempotency key: %w", err)
	}
	if ok {
		return nil, true, nil
	}

	raw, err := s.rdb.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		// Released between SETNX and GET; the caller may retry.
		return nil, false, ErrIdempotencyInFlight
	}
	if err != nil {
		return nil, false, fmt.Errorf("read idempotency key: %w", err)
	}
	if string(raw) == redisPendingMarker {
		return nil, false, ErrIdempotencyInFlight
	}

	var resp CachedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, fmt.Errorf("decode idempotent response: %w", err)
	}
	return &resp, false, nil
}

// Complete records resp for the configured TTL
func (s *RedisIdempotencyStore) Complete(ctx context.Context, key string, resp *CachedResponse) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode idempotent response: %w", err)
	}
	if err := s.rdb.Set(ctx, redisIdempotencyPrefix+key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("store idempotent response: %w", err)
	}
	return nil
}

// Release drops a pending reservation. A completed response is left alone.
func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	k := redisIdempotencyPrefix + key
	raw, err := s.rdb.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read idempotency key: %w", err)
	}
	if raw != redisPendingMarker {
		return nil
	}
	return s.rdb.Del(ctx, k).Err()
}

// Ping verifies the Redis connection
func (s *RedisIdempotencyStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
