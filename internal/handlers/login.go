package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hayattan/media-gateway/internal/auth"
	"go.uber.org/zap"
)

// LoginHandler handles the admin login flow. The rate limiter's login
// class fronts this endpoint; it is the brute-force target.
type LoginHandler struct {
	auth   *auth.Service
	logger *zap.Logger
}

// NewLoginHandler creates a new login handler.
func NewLoginHandler(authService *auth.Service, logger *zap.Logger) *LoginHandler {
	return &LoginHandler{
		auth:   authService,
		logger: logger,
	}
}

// Login verifies credentials and sets the session cookie.
func (h *LoginHandler) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	session, err := h.auth.Login(ctx, req.Body.Email, req.Body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, huma.Error401Unauthorized("invalid email or password")
		}

		h.logger.Error("login failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("internal server error")
	}

	cookie := &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(h.auth.SessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}

	resp := &LoginResponse{}
	resp.Headers.SetCookie = cookie.String()
	resp.Body.Success = true
	resp.Body.Role = string(session.Role)

	return resp, nil
}
