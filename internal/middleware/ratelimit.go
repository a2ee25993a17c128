package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hayattan/media-gateway/internal/audit"
	"github.com/hayattan/media-gateway/internal/messaging"
	"github.com/hayattan/media-gateway/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimiter returns a Huma middleware that enforces class-based
// fixed-window limits keyed by client IP. Denials respond 429 with
// Retry-After and publish an audit event without delaying the response.
//
// Per-endpoint configuration is read from operation metadata under
// ratelimit.MetadataKey, which lets endpoints override the class or opt
// out entirely (health checks).
func RateLimiter(
	api huma.API,
	limiter ratelimit.Limiter,
	resolver ratelimit.ClassResolver,
	publishExceeded messaging.Publish[audit.RateLimitExceededEvent],
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if cfg := ratelimit.GetEndpointConfig(ctx); cfg != nil && cfg.Disabled {
			next(ctx)

			return
		}

		identifier := clientIP(ctx)
		class := resolver.Resolve(ctx)

		decision := limiter.Check(ctx.Context(), identifier, class)

		ctx.SetHeader("X-RateLimit-Limit", strconv.FormatInt(decision.Limit, 10))
		ctx.SetHeader("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))
		ctx.SetHeader("X-RateLimit-Reset", strconv.FormatInt(decision.Reset, 10))

		if decision.Allowed {
			next(ctx)

			return
		}

		ctx.SetHeader("Retry-After", strconv.FormatInt(retryAfterSeconds(decision.Reset), 10))

		path := getOperationPath(ctx)

		logger.Warn("rate limit exceeded",
			zap.String("path", path),
			zap.String("method", ctx.Method()),
			zap.String("class", string(class)),
			zap.Int64("limit", decision.Limit),
			zap.Bool("blocked", decision.Blocked),
			zap.String("client_ip", identifier),
		)

		event := &audit.RateLimitExceededEvent{
			Identifier: identifier,
			Class:      string(class),
			Path:       path,
			Method:     ctx.Method(),
			Limit:      decision.Limit,
			Blocked:    decision.Blocked,
			UserAgent:  ctx.Header("User-Agent"),
			OccurredAt: time.Now(),
		}

		// Audit publishing must never delay or fail the response.
		go func() {
			if err := publishExceeded(event); err != nil {
				logger.Warn("failed to publish rate limit event", zap.Error(err))
			}
		}()

		msg := "rate limit exceeded"
		if decision.Blocked {
			msg = "too many attempts, temporarily locked out"
		}

		_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, msg)
	}
}

// retryAfterSeconds converts an epoch-millisecond reset into whole
// seconds from now, rounded up and never below one.
func retryAfterSeconds(reset int64) int64 {
	ms := reset - time.Now().UnixMilli()
	if ms <= 0 {
		return 1
	}

	return (ms + 999) / 1000
}

// getOperationPath extracts the route template from the operation, if available.
func getOperationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ctx.URL().Path
}
