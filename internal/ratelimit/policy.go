package ratelimit

import "time"

// ClassConfig holds the limit parameters for a single class.
type ClassConfig struct {
	// Limit is the maximum number of requests admitted per window.
	Limit int64
	// Window is the fixed window duration.
	Window time.Duration
	// Lockout, when non-zero, blocks an identifier for this duration
	// after it exceeds the limit, outliving natural window expiry.
	Lockout time.Duration
}

// Policy maps each limit class to its configuration.
type Policy map[Class]ClassConfig

// DefaultPolicy returns the production limit policy. Login is strict
// because it gates credential guessing; admin and api protect against
// scripted abuse rather than brute force.
func DefaultPolicy() Policy {
	return Policy{
		ClassLogin: {Limit: 5, Window: 15 * time.Minute, Lockout: time.Hour},
		ClassAdmin: {Limit: 120, Window: time.Minute},
		ClassAPI:   {Limit: 60, Window: time.Minute},
	}
}
