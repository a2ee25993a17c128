package ratelimit

import (
	"context"
	"time"
)

// Store defines the interface for rate limit counter storage.
type Store interface {
	// Incr atomically increments the fixed-window counter for key,
	// starting a new window when none is active. It returns the count
	// including this request and the time the current window ends.
	Incr(ctx context.Context, key string, window time.Duration) (count int64, reset time.Time, err error)

	// Lockout returns the time an active lockout on key expires, or the
	// zero time when no lockout is set.
	Lockout(ctx context.Context, key string) (time.Time, error)

	// SetLockout blocks key until the given time, independent of any
	// counter window.
	SetLockout(ctx context.Context, key string, until time.Time) error
}
