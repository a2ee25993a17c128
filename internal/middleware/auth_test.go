package middleware_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hayattan/media-gateway/internal/auth"
	"github.com/hayattan/media-gateway/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSessionResolver struct {
	session *auth.Session
	err     error
	token   string
}

func (m *mockSessionResolver) Resolve(_ context.Context, token string) (*auth.Session, error) {
	m.token = token

	if m.err != nil {
		return nil, m.err
	}

	return m.session, nil
}

func editorOperation() *huma.Operation {
	return &huma.Operation{
		Path: "/api/r2/upload",
		Metadata: map[string]any{
			auth.MetadataKey: auth.EndpointConfig{Roles: []auth.Role{auth.RoleAdmin, auth.RoleAuthor}},
		},
	}
}

func authorSession() *auth.Session {
	return &auth.Session{
		Token:     "tok-1",
		UserID:    "u-1",
		Email:     "yazar@hayattan.net",
		Role:      auth.RoleAuthor,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestSessionAuth(t *testing.T) {
	t.Run("passes through public endpoints without a token", func(t *testing.T) {
		api := newTestAPI()
		resolver := &mockSessionResolver{}
		mw := middleware.SessionAuth(api, resolver, zap.NewNop())

		ctx := newMockHumaContext()
		ctx.operation = &huma.Operation{Path: "/health"}

		nextCalled := false

		mw(ctx, func(_ huma.Context) {
			nextCalled = true
		})

		assert.True(t, nextCalled)
		assert.Empty(t, resolver.token, "resolver should not be consulted")
	})

	t.Run("rejects missing token before the body is read", func(t *testing.T) {
		api := newTestAPI()
		resolver := &mockSessionResolver{}
		mw := middleware.SessionAuth(api, resolver, zap.NewNop())

		ctx := newMockHumaContext()
		ctx.operation = editorOperation()

		nextCalled := false

		mw(ctx, func(_ huma.Context) {
			nextCalled = true
		})

		assert.False(t, nextCalled)
		assert.Equal(t, 401, ctx.statusCode)
		assert.Contains(t, string(ctx.written), "authentication required")
	})

	t.Run("admits bearer token and attaches session to context", func(t *testing.T) {
		api := newTestAPI()
		resolver := &mockSessionResolver{session: authorSession()}
		mw := middleware.SessionAuth(api, resolver, zap.NewNop())

		ctx := newMockHumaContext()
		ctx.operation = editorOperation()
		ctx.headers["Authorization"] = "Bearer tok-1"

		var attached *auth.Session

		mw(ctx, func(c huma.Context) {
			attached = auth.SessionFromContext(c.Context())
		})

		assert.Equal(t, "tok-1", resolver.token)
		require.NotNil(t, attached)
		assert.Equal(t, "u-1", attached.UserID)
	})

	t.Run("reads token from the session cookie", func(t *testing.T) {
		api := newTestAPI()
		resolver := &mockSessionResolver{session: authorSession()}
		mw := middleware.SessionAuth(api, resolver, zap.NewNop())

		ctx := newMockHumaContext()
		ctx.operation = editorOperation()
		ctx.headers["Cookie"] = auth.SessionCookie + "=tok-1"

		nextCalled := false

		mw(ctx, func(_ huma.Context) {
			nextCalled = true
		})

		assert.True(t, nextCalled)
		assert.Equal(t, "tok-1", resolver.token)
	})

	t.Run("rejects expired sessions", func(t *testing.T) {
		api := newTestAPI()
		resolver := &mockSessionResolver{err: auth.ErrNoSession}
		mw := middleware.SessionAuth(api, resolver, zap.NewNop())

		ctx := newMockHumaContext()
		ctx.operation = editorOperation()
		ctx.headers["Authorization"] = "Bearer stale"

		nextCalled := false

		mw(ctx, func(_ huma.Context) {
			nextCalled = true
		})

		assert.False(t, nextCalled)
		assert.Equal(t, 401, ctx.statusCode)
		assert.Contains(t, string(ctx.written), "invalid or expired session")
	})

	t.Run("returns 500 when the session store fails", func(t *testing.T) {
		api := newTestAPI()
		resolver := &mockSessionResolver{err: errors.New("redis down")}
		mw := middleware.SessionAuth(api, resolver, zap.NewNop())

		ctx := newMockHumaContext()
		ctx.operation = editorOperation()
		ctx.headers["Authorization"] = "Bearer tok-1"

		mw(ctx, func(_ huma.Context) {})

		assert.Equal(t, 500, ctx.statusCode)
	})

	t.Run("rejects sessions without a permitted role", func(t *testing.T) {
		api := newTestAPI()

		session := authorSession()
		session.Role = auth.RoleUser
		resolver := &mockSessionResolver{session: session}
		mw := middleware.SessionAuth(api, resolver, zap.NewNop())

		ctx := newMockHumaContext()
		ctx.operation = editorOperation()
		ctx.headers["Authorization"] = "Bearer tok-1"

		nextCalled := false

		mw(ctx, func(_ huma.Context) {
			nextCalled = true
		})

		assert.False(t, nextCalled)
		assert.Equal(t, 401, ctx.statusCode)
		assert.Contains(t, string(ctx.written), "insufficient role")
	})
}
