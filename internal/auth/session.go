// Package auth resolves session tokens to editorial roles and issues
// sessions for the admin login flow.
package auth

import (
	"context"
	"errors"
	"time"
)

// Role is an editorial role carried by a session.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleAuthor Role = "AUTHOR"
	RoleEditor Role = "EDITOR"
	RoleUser   Role = "USER"
)

var (
	// ErrNoSession is returned when a token resolves to nothing.
	ErrNoSession = errors.New("session not found")
	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Session is an authenticated editor session.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// User is an account resolved from the user directory.
type User struct {
	ID    string
	Email string
	Role  Role
}

// SessionStore persists sessions by token.
type SessionStore interface {
	Get(ctx context.Context, token string) (*Session, error)
	Save(ctx context.Context, session *Session, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

// UserDirectory verifies account credentials.
type UserDirectory interface {
	// Verify returns the account for email when password matches,
	// ErrInvalidCredentials otherwise.
	Verify(ctx context.Context, email, password string) (*User, error)
}

type sessionKey struct{}

// ContextWithSession adds a resolved session to the context.
func ContextWithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext extracts the session from the context, nil when absent.
func SessionFromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionKey{}).(*Session); ok {
		return s
	}

	return nil
}

// MetadataKey is the key used to store auth config in operation metadata.
const MetadataKey = "auth"

// SessionCookie is the cookie carrying the editor session token.
const SessionCookie = "hayattan_session"

// EndpointConfig defines per-endpoint authorization requirements,
// attached to Huma operations via the Metadata field.
type EndpointConfig struct {
	// Roles lists the roles admitted to the endpoint. Empty means the
	// endpoint is public.
	Roles []Role
}

// Permits reports whether role satisfies the endpoint requirement.
func (c EndpointConfig) Permits(role Role) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}

	return false
}
