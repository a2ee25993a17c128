package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hayattan/media-gateway/internal/auth"
	"github.com/redis/go-redis/v9"
)

// SessionRedisStore is a Redis implementation of auth.SessionStore.
// Sessions live under "session:{token}" with a TTL matching their expiry.
type SessionRedisStore struct {
	client *redis.Client
	prefix string
}

// NewSessionRedisStore creates a new Redis-backed session store.
func NewSessionRedisStore(client *redis.Client) *SessionRedisStore {
	return &SessionRedisStore{
		client: client,
		prefix: "session:",
	}
}

func (s *SessionRedisStore) Get(ctx context.Context, token string) (*auth.Session, error) {
	payload, err := s.client.Get(ctx, s.prefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, auth.ErrNoSession
		}

		return nil, err
	}

	var session auth.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, err
	}

	return &session, nil
}

func (s *SessionRedisStore) Save(ctx context.Context, session *auth.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, s.prefix+session.Token, payload, ttl).Err()
}

func (s *SessionRedisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.prefix+token).Err()
}
