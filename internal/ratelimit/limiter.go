package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Decision is the outcome of a rate limit check. It is always produced,
// even when the counter store is unavailable.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool
	// Limit is the maximum request count for the class.
	Limit int64
	// Remaining is the number of requests left in the current window.
	Remaining int64
	// Reset is the epoch-millisecond time the window (or lockout) ends.
	Reset int64
	// Blocked reports a hard lockout rather than plain window exhaustion.
	Blocked bool
}

// FailurePolicy controls the decision when the counter store errors.
type FailurePolicy int

const (
	// FailOpen admits requests when the counter store is unavailable.
	// This silently disables brute-force protection during an outage.
	FailOpen FailurePolicy = iota
	// FailClosed rejects requests when the counter store is unavailable.
	FailClosed
)

func (p FailurePolicy) String() string {
	if p == FailClosed {
		return "fail-closed"
	}

	return "fail-open"
}

// Limiter decides whether a request identified by (identifier, class)
// may proceed.
type Limiter interface {
	Check(ctx context.Context, identifier string, class Class) Decision
}

// FixedWindowLimiter implements rate limiting using fixed-window counting
// keyed by (identifier, class).
type FixedWindowLimiter struct {
	store     Store
	policy    Policy
	onFailure FailurePolicy
	logger    *zap.Logger
}

// NewFixedWindowLimiter creates a new fixed-window rate limiter.
func NewFixedWindowLimiter(store Store, policy Policy, onFailure FailurePolicy, logger *zap.Logger) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		store:     store,
		policy:    policy,
		onFailure: onFailure,
		logger:    logger,
	}
}

// Check runs the admission decision for one request. Counter-store
// failures never surface as errors; they resolve through the configured
// failure policy and are logged.
func (l *FixedWindowLimiter) Check(ctx context.Context, identifier string, class Class) Decision {
	cfg, ok := l.policy[class]
	if !ok {
		cfg = l.policy[ClassAPI]
	}

	key := buildKey(identifier, class)

	if cfg.Lockout > 0 {
		until, err := l.store.Lockout(ctx, key)
		if err != nil {
			return l.storeFailure(cfg, class, err)
		}

		if !until.IsZero() && time.Now().Before(until) {
			return Decision{
				Allowed: false,
				Limit:   cfg.Limit,
				Reset:   until.UnixMilli(),
				Blocked: true,
			}
		}
	}

	count, reset, err := l.store.Incr(ctx, key, cfg.Window)
	if err != nil {
		return l.storeFailure(cfg, class, err)
	}

	if count > cfg.Limit {
		decision := Decision{
			Allowed: false,
			Limit:   cfg.Limit,
			Reset:   reset.UnixMilli(),
		}

		if cfg.Lockout > 0 {
			decision.Blocked = true
			until := time.Now().Add(cfg.Lockout)

			if err := l.store.SetLockout(ctx, key, until); err != nil {
				l.logger.Error("failed to set lockout",
					zap.String("class", string(class)),
					zap.Error(err),
				)
			} else {
				decision.Reset = until.UnixMilli()
			}
		}

		return decision
	}

	return Decision{
		Allowed:   true,
		Limit:     cfg.Limit,
		Remaining: cfg.Limit - count,
		Reset:     reset.UnixMilli(),
	}
}

// storeFailure resolves a counter-store error through the failure policy.
func (l *FixedWindowLimiter) storeFailure(cfg ClassConfig, class Class, err error) Decision {
	l.logger.Error("rate limit store unavailable",
		zap.String("class", string(class)),
		zap.String("policy", l.onFailure.String()),
		zap.Error(err),
	)

	reset := time.Now().Add(cfg.Window).UnixMilli()

	if l.onFailure == FailClosed {
		return Decision{Limit: cfg.Limit, Reset: reset}
	}

	return Decision{Allowed: true, Limit: cfg.Limit, Remaining: cfg.Limit - 1, Reset: reset}
}

// buildKey creates the counter key for the identifier and class combination.
func buildKey(identifier string, class Class) string {
	return fmt.Sprintf("%s:%s", class, identifier)
}
