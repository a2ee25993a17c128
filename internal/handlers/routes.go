package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hayattan/media-gateway/internal/auth"
	"github.com/hayattan/media-gateway/internal/ratelimit"
)

// editorRoles are the roles allowed to touch the upload endpoints.
var editorRoles = []auth.Role{auth.RoleAdmin, auth.RoleAuthor}

// RegisterRoutes registers the gateway's routes with per-endpoint rate
// limit classes and role requirements in operation metadata.
func RegisterRoutes(api huma.API, uploads *UploadHandler, login *LoginHandler, health *HealthHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "upload-media",
		Method:      http.MethodPost,
		Path:        "/api/r2/upload",
		Summary:     "Upload media through the server",
		Description: "Validates and stores a media file in the bucket, returning its public URL.",
		Tags:        []string{"Media"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Class: ratelimit.ClassAPI},
			auth.MetadataKey:      auth.EndpointConfig{Roles: editorRoles},
		},
	}, uploads.Upload)

	huma.Register(api, huma.Operation{
		OperationID: "presign-upload",
		Method:      http.MethodPost,
		Path:        "/api/r2/presign",
		Summary:     "Presign a direct upload",
		Description: "Returns a 60-second signed PUT URL for uploading directly to the bucket.",
		Tags:        []string{"Media"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Class: ratelimit.ClassAPI},
			auth.MetadataKey:      auth.EndpointConfig{Roles: editorRoles},
		},
	}, uploads.Presign)

	huma.Register(api, huma.Operation{
		OperationID: "presign-large-upload",
		Method:      http.MethodPost,
		Path:        "/api/r2/presign-large",
		Summary:     "Presign a large direct upload",
		Description: "Returns a 300-second signed PUT URL for large files, up to 100 MiB.",
		Tags:        []string{"Media"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Class: ratelimit.ClassAPI},
			auth.MetadataKey:      auth.EndpointConfig{Roles: editorRoles},
		},
	}, uploads.PresignLarge)

	huma.Register(api, huma.Operation{
		OperationID: "verify-upload",
		Method:      http.MethodPost,
		Path:        "/api/upload/verify",
		Summary:     "Verify a direct upload landed",
		Description: "Probes object metadata to confirm a presigned client-side upload succeeded.",
		Tags:        []string{"Media"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Class: ratelimit.ClassAPI},
			auth.MetadataKey:      auth.EndpointConfig{Roles: editorRoles},
		},
	}, uploads.Verify)

	huma.Register(api, huma.Operation{
		OperationID: "admin-login",
		Method:      http.MethodPost,
		Path:        "/admin/giris",
		Summary:     "Editor login",
		Description: "Authenticates an editorial account and sets the session cookie.",
		Tags:        []string{"Auth"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Class: ratelimit.ClassLogin},
		},
	}, login.Login)

	huma.Register(api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, health.Check)
}
