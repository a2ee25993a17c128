//go:build integration

package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/hayattan/media-gateway/internal/auth"
	"github.com/hayattan/media-gateway/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func TestRateLimitRedisStoreIntegration(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr: getRedisAddr(),
	})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	s := store.NewRateLimitRedisStore(client)

	t.Run("increments within a fixed window", func(t *testing.T) {
		key := "api:198.51.100.7"

		count1, reset1, err := s.Incr(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count1)

		count2, reset2, err := s.Incr(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count2)

		// Repeated hits must not push the window boundary forward.
		assert.WithinDuration(t, reset1, reset2, time.Second)

		// Cleanup
		client.Del(ctx, "ratelimit:"+key)
	})

	t.Run("counter expires with the window", func(t *testing.T) {
		key := "api:198.51.100.8"

		_, _, err := s.Incr(ctx, key, 100*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(150 * time.Millisecond)

		count, _, err := s.Incr(ctx, key, 100*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "a fresh window should start at one")

		// Cleanup
		client.Del(ctx, "ratelimit:"+key)
	})

	t.Run("lockout round trip", func(t *testing.T) {
		key := "login:198.51.100.9"
		until := time.Now().Add(time.Hour).Truncate(time.Millisecond)

		require.NoError(t, s.SetLockout(ctx, key, until))

		got, err := s.Lockout(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, until.UnixMilli(), got.UnixMilli())

		// Cleanup
		client.Del(ctx, "ratelimit:lock:"+key)
	})

	t.Run("missing lockout resolves to zero time", func(t *testing.T) {
		got, err := s.Lockout(ctx, "login:198.51.100.10")

		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})
}

func TestSessionRedisStoreIntegration(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr: getRedisAddr(),
	})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	s := store.NewSessionRedisStore(client)

	t.Run("save and get session", func(t *testing.T) {
		session := &auth.Session{
			Token:     "integration-token",
			UserID:    "u-1",
			Email:     "editor@hayattan.net",
			Role:      auth.RoleAuthor,
			ExpiresAt: time.Now().Add(time.Hour),
		}

		require.NoError(t, s.Save(ctx, session, time.Hour))

		got, err := s.Get(ctx, "integration-token")
		require.NoError(t, err)
		assert.Equal(t, "u-1", got.UserID)
		assert.Equal(t, auth.RoleAuthor, got.Role)

		// Cleanup
		client.Del(ctx, "session:integration-token")
	})

	t.Run("get missing session returns ErrNoSession", func(t *testing.T) {
		got, err := s.Get(ctx, "no-such-token")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, auth.ErrNoSession)
	})

	t.Run("delete removes the session", func(t *testing.T) {
		session := &auth.Session{
			Token:     "delete-me",
			UserID:    "u-2",
			ExpiresAt: time.Now().Add(time.Hour),
		}

		require.NoError(t, s.Save(ctx, session, time.Hour))
		require.NoError(t, s.Delete(ctx, "delete-me"))

		_, err := s.Get(ctx, "delete-me")
		assert.ErrorIs(t, err, auth.ErrNoSession)
	})
}
