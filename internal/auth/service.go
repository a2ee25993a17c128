package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service issues and resolves sessions.
type Service struct {
	sessions   SessionStore
	users      UserDirectory
	sessionTTL time.Duration
}

// NewService creates an auth service.
func NewService(sessions SessionStore, users UserDirectory, sessionTTL time.Duration) *Service {
	return &Service{
		sessions:   sessions,
		users:      users,
		sessionTTL: sessionTTL,
	}
}

// Login verifies credentials and mints a new session token.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.Verify(ctx, email, password)
	if err != nil {
		return nil, err
	}

	session := &Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}

	if err := s.sessions.Save(ctx, session, s.sessionTTL); err != nil {
		return nil, err
	}

	return session, nil
}

// Resolve maps a token to its session. Expired sessions resolve to
// ErrNoSession; the store TTL normally reaps them first.
func (s *Service) Resolve(ctx context.Context, token string) (*Session, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)

		return nil, ErrNoSession
	}

	session.Token = token

	return session, nil
}

// Logout discards the session for token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// SessionTTL returns the configured session lifetime.
func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}
