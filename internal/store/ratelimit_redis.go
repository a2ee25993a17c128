package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitRedisStore is a Redis implementation of ratelimit.Store.
// Counter atomicity comes from INCR; the window TTL is set only on the
// first hit (ExpireNX) so the window boundary stays fixed.
type RateLimitRedisStore struct {
	client *redis.Client
	prefix string
}

// NewRateLimitRedisStore creates a new Redis-backed rate limit store.
func NewRateLimitRedisStore(client *redis.Client) *RateLimitRedisStore {
	return &RateLimitRedisStore{
		client: client,
		prefix: "ratelimit:",
	}
}

func (s *RateLimitRedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	k := s.prefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	pttl := pipe.PTTL(ctx, k)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, err
	}

	ttl := pttl.Val()
	if ttl < 0 {
		ttl = window
	}

	return incr.Val(), time.Now().Add(ttl), nil
}

func (s *RateLimitRedisStore) Lockout(ctx context.Context, key string) (time.Time, error) {
	v, err := s.client.Get(ctx, s.lockKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, nil
		}

		return time.Time{}, err
	}

	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, err
	}

	return time.UnixMilli(ms), nil
}

func (s *RateLimitRedisStore) SetLockout(ctx context.Context, key string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return s.client.Del(ctx, s.lockKey(key)).Err()
	}

	return s.client.Set(ctx, s.lockKey(key), strconv.FormatInt(until.UnixMilli(), 10), ttl).Err()
}

func (s *RateLimitRedisStore) lockKey(key string) string {
	return s.prefix + "lock:" + key
}
