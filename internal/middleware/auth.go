package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hayattan/media-gateway/internal/auth"
	"go.uber.org/zap"
)

// SessionResolver maps a session token to a session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*auth.Session, error)
}

// SessionAuth returns a Huma middleware that gates endpoints by role.
// Role requirements come from operation metadata under auth.MetadataKey;
// endpoints without one are public. The check runs before Huma parses
// any request body, so unauthorized uploads are rejected without
// touching the multipart payload.
func SessionAuth(
	api huma.API,
	resolver SessionResolver,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		cfg := auth.GetEndpointConfig(ctx)
		if cfg == nil || len(cfg.Roles) == 0 {
			next(ctx)

			return
		}

		token := sessionToken(ctx)
		if token == "" {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "authentication required")

			return
		}

		session, err := resolver.Resolve(ctx.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrNoSession) {
				_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid or expired session")

				return
			}

			logger.Error("session lookup failed", zap.Error(err))
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

			return
		}

		if !cfg.Permits(session.Role) {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "insufficient role")

			return
		}

		ctx = huma.WithContext(ctx, auth.ContextWithSession(ctx.Context(), session))

		next(ctx)
	}
}

// sessionToken reads the token from the Authorization header or the
// session cookie.
func sessionToken(ctx huma.Context) string {
	if header := ctx.Header("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}

	if cookie, err := huma.ReadCookie(ctx, auth.SessionCookie); err == nil && cookie != nil {
		return cookie.Value
	}

	return ""
}
