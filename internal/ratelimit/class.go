package ratelimit

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// Class categorizes a request for rate limiting purposes.
// Each class carries its own count threshold and window duration.
type Class string

const (
	// ClassLogin guards credential submission. The strictest class, and
	// the only one that escalates to a hard lockout.
	ClassLogin Class = "login"
	// ClassAdmin applies to the authenticated dashboard surface.
	ClassAdmin Class = "admin"
	// ClassAPI applies to the general API surface.
	ClassAPI Class = "api"
)

// MetadataKey is the key used to store rate limit config in operation metadata.
const MetadataKey = "rateLimit"

// EndpointConfig defines per-endpoint rate limit configuration.
// This can be attached to Huma operations via the Metadata field.
type EndpointConfig struct {
	// Class overrides path-based class detection for this endpoint.
	Class Class

	// Disabled skips rate limiting entirely for this endpoint.
	Disabled bool
}

// ClassResolver determines which limit class applies to a given request.
type ClassResolver interface {
	Resolve(ctx huma.Context) Class
}

// PathClassResolver resolves classes from the request path: the login
// route maps to the login class, the rest of /admin to admin, and
// everything else to api.
type PathClassResolver struct {
	loginPath string
}

// NewPathClassResolver creates a path-based class resolver.
func NewPathClassResolver(loginPath string) *PathClassResolver {
	return &PathClassResolver{loginPath: loginPath}
}

// Resolve returns the limit class for the request, honoring operation
// metadata before falling back to path prefixes.
func (r *PathClassResolver) Resolve(ctx huma.Context) Class {
	if cfg := GetEndpointConfig(ctx); cfg != nil && cfg.Class != "" {
		return cfg.Class
	}

	path := ctx.URL().Path
	if op := ctx.Operation(); op != nil && op.Path != "" {
		path = op.Path
	}

	switch {
	case path == r.loginPath:
		return ClassLogin
	case strings.HasPrefix(path, "/admin/"):
		return ClassAdmin
	default:
		return ClassAPI
	}
}

// GetEndpointConfig extracts the EndpointConfig from operation metadata, if present.
func GetEndpointConfig(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}
