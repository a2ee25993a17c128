package audit

import "context"

// Store defines the interface for persisting audit events.
type Store interface {
	SaveRateLimitExceeded(ctx context.Context, event *RateLimitExceededEvent) error
	SaveUpload(ctx context.Context, event *UploadEvent) error
}
