package ratelimit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hayattan/media-gateway/internal/ratelimit"
	"github.com/hayattan/media-gateway/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errStoreDown = errors.New("store down")

// failingStore is a test double whose every operation fails.
type failingStore struct{}

func (f *failingStore) Incr(_ context.Context, _ string, _ time.Duration) (int64, time.Time, error) {
	return 0, time.Time{}, errStoreDown
}

func (f *failingStore) Lockout(_ context.Context, _ string) (time.Time, error) {
	return time.Time{}, errStoreDown
}

func (f *failingStore) SetLockout(_ context.Context, _ string, _ time.Time) error {
	return errStoreDown
}

func testPolicy() ratelimit.Policy {
	return ratelimit.Policy{
		ratelimit.ClassLogin: {Limit: 3, Window: time.Minute, Lockout: time.Hour},
		ratelimit.ClassAdmin: {Limit: 5, Window: time.Minute},
		ratelimit.ClassAPI:   {Limit: 4, Window: time.Minute},
	}
}

func newTestLimiter(s ratelimit.Store) *ratelimit.FixedWindowLimiter {
	return ratelimit.NewFixedWindowLimiter(s, testPolicy(), ratelimit.FailOpen, zap.NewNop())
}

func TestFixedWindowLimiter(t *testing.T) {
	t.Run("allows requests under limit with decreasing remaining", func(t *testing.T) {
		limiter := newTestLimiter(store.NewRateLimitMemoryStore())

		for n := int64(1); n <= 4; n++ {
			d := limiter.Check(context.Background(), "1.2.3.4", ratelimit.ClassAPI)

			assert.True(t, d.Allowed)
			assert.Equal(t, int64(4), d.Limit)
			assert.Equal(t, 4-n, d.Remaining)
			assert.False(t, d.Blocked)
		}
	})

	t.Run("denies request over limit", func(t *testing.T) {
		limiter := newTestLimiter(store.NewRateLimitMemoryStore())

		for i := 0; i < 4; i++ {
			d := limiter.Check(context.Background(), "1.2.3.4", ratelimit.ClassAPI)
			assert.True(t, d.Allowed)
		}

		d := limiter.Check(context.Background(), "1.2.3.4", ratelimit.ClassAPI)

		assert.False(t, d.Allowed)
		assert.Zero(t, d.Remaining)
		assert.False(t, d.Blocked, "api class never hard-blocks")
		assert.Positive(t, d.Reset)
	})

	t.Run("tracks identifiers independently", func(t *testing.T) {
		limiter := newTestLimiter(store.NewRateLimitMemoryStore())

		for i := 0; i < 5; i++ {
			limiter.Check(context.Background(), "1.2.3.4", ratelimit.ClassAPI)
		}

		d := limiter.Check(context.Background(), "5.6.7.8", ratelimit.ClassAPI)

		assert.True(t, d.Allowed, "other identifiers should not be affected")
	})

	t.Run("tracks classes independently", func(t *testing.T) {
		limiter := newTestLimiter(store.NewRateLimitMemoryStore())

		for i := 0; i < 5; i++ {
			limiter.Check(context.Background(), "1.2.3.4", ratelimit.ClassAPI)
		}

		d := limiter.Check(context.Background(), "1.2.3.4", ratelimit.ClassAdmin)

		assert.True(t, d.Allowed, "admin class has its own counter")
	})

	t.Run("allows again after window expires", func(t *testing.T) {
		policy := ratelimit.Policy{
			ratelimit.ClassAPI: {Limit: 2, Window: 50 * time.Millisecond},
		}
		limiter := ratelimit.NewFixedWindowLimiter(
			store.NewRateLimitMemoryStore(), policy, ratelimit.FailOpen, zap.NewNop())

		for i := 0; i < 2; i++ {
			limiter.Check(context.Background(), "1.2.3.4", ratelimit.ClassAPI)
		}

		d := limiter.Check(context.Background(), "1.2.3.4", ratelimit.ClassAPI)
		assert.False(t, d.Allowed)

		time.Sleep(60 * time.Millisecond)

		d = limiter.Check(context.Background(), "1.2.3.4", ratelimit.ClassAPI)

		assert.True(t, d.Allowed, "new window should start after expiry")
		assert.Equal(t, int64(1), d.Limit-d.Remaining, "count should reset to 1")
	})

	t.Run("unknown class falls back to api policy", func(t *testing.T) {
		limiter := newTestLimiter(store.NewRateLimitMemoryStore())

		d := limiter.Check(context.Background(), "1.2.3.4", ratelimit.Class("bogus"))

		assert.True(t, d.Allowed)
		assert.Equal(t, int64(4), d.Limit)
	})
}

func TestFixedWindowLimiterLockout(t *testing.T) {
	t.Run("login class blocks hard after exceeding limit", func(t *testing.T) {
		limiter := newTestLimiter(store.NewRateLimitMemoryStore())

		for i := 0; i < 3; i++ {
			d := limiter.Check(context.Background(), "1.2.3.4", ratelimit.ClassLogin)
			assert.True(t, d.Allowed)
		}

		d := limiter.Check(context.Background(), "1.2.3.4", ratelimit.ClassLogin)

		assert.False(t, d.Allowed)
		assert.True(t, d.Blocked, "exceeding the login limit should set a lockout")
	})

	t.Run("lockout outlives window expiry", func(t *testing.T) {
		policy := ratelimit.Policy{
			ratelimit.ClassLogin: {Limit: 1, Window: 20 * time.Millisecond, Lockout: time.Hour},
		}
		limiter := ratelimit.NewFixedWindowLimiter(
			store.NewRateLimitMemoryStore(), policy, ratelimit.FailOpen, zap.NewNop())

		limiter.Check(context.Background(), "1.2.3.4", ratelimit.ClassLogin)
		d := limiter.Check(context.Background(), "1.2.3.4", ratelimit.ClassLogin)
		require.True(t, d.Blocked)

		time.Sleep(30 * time.Millisecond)

		d = limiter.Check(context.Background(), "1.2.3.4", ratelimit.ClassLogin)

		assert.False(t, d.Allowed, "lockout must hold past the window")
		assert.True(t, d.Blocked)
	})

	t.Run("lockout does not leak to other identifiers", func(t *testing.T) {
		limiter := newTestLimiter(store.NewRateLimitMemoryStore())

		for i := 0; i < 4; i++ {
			limiter.Check(context.Background(), "1.2.3.4", ratelimit.ClassLogin)
		}

		d := limiter.Check(context.Background(), "5.6.7.8", ratelimit.ClassLogin)

		assert.True(t, d.Allowed)
	})
}

func TestFixedWindowLimiterThreshold(t *testing.T) {
	// Concurrent checks at the limit boundary must never both be admitted.
	t.Run("no double admission at the boundary", func(t *testing.T) {
		limiter := newTestLimiter(store.NewRateLimitMemoryStore())

		for i := 0; i < 3; i++ {
			limiter.Check(context.Background(), "1.2.3.4", ratelimit.ClassAPI)
		}

		results := make(chan bool, 2)

		for i := 0; i < 2; i++ {
			go func() {
				d := limiter.Check(context.Background(), "1.2.3.4", ratelimit.ClassAPI)
				results <- d.Allowed
			}()
		}

		admitted := 0

		for i := 0; i < 2; i++ {
			if <-results {
				admitted++
			}
		}

		assert.Equal(t, 1, admitted, "exactly one of the two boundary requests may pass")
	})
}

func TestFixedWindowLimiterStoreFailure(t *testing.T) {
	t.Run("fail-open admits the request", func(t *testing.T) {
		limiter := ratelimit.NewFixedWindowLimiter(
			&failingStore{}, testPolicy(), ratelimit.FailOpen, zap.NewNop())

		d := limiter.Check(context.Background(), "1.2.3.4", ratelimit.ClassAPI)

		assert.True(t, d.Allowed)
		assert.False(t, d.Blocked)
	})

	t.Run("fail-closed rejects the request", func(t *testing.T) {
		limiter := ratelimit.NewFixedWindowLimiter(
			&failingStore{}, testPolicy(), ratelimit.FailClosed, zap.NewNop())

		d := limiter.Check(context.Background(), "1.2.3.4", ratelimit.ClassAPI)

		assert.False(t, d.Allowed)
		assert.Zero(t, d.Remaining)
	})
}
