package store

import (
	"context"
	"sync"
	"time"
)

// RateLimitMemoryStore is an in-memory implementation of ratelimit.Store.
type RateLimitMemoryStore struct {
	mu       sync.Mutex
	windows  map[string]*fixedWindow
	lockouts map[string]time.Time
}

type fixedWindow struct {
	count int64
	start time.Time
}

// NewRateLimitMemoryStore creates a new in-memory rate limit store.
func NewRateLimitMemoryStore() *RateLimitMemoryStore {
	return &RateLimitMemoryStore{
		windows:  make(map[string]*fixedWindow),
		lockouts: make(map[string]time.Time),
	}
}

// Incr increments the counter for key, starting a fresh window when the
// previous one has expired. The mutex makes increment-and-read atomic,
// so two concurrent requests at the threshold cannot both be admitted.
func (s *RateLimitMemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	w, ok := s.windows[key]
	if !ok || now.Sub(w.start) >= window {
		w = &fixedWindow{start: now}
		s.windows[key] = w
	}

	w.count++

	return w.count, w.start.Add(window), nil
}

func (s *RateLimitMemoryStore) Lockout(_ context.Context, key string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.lockouts[key]
	if !ok {
		return time.Time{}, nil
	}

	if time.Now().After(until) {
		delete(s.lockouts, key)

		return time.Time{}, nil
	}

	return until, nil
}

func (s *RateLimitMemoryStore) SetLockout(_ context.Context, key string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if until.Before(time.Now()) {
		delete(s.lockouts, key)

		return nil
	}

	s.lockouts[key] = until

	return nil
}
