// Package audit defines the gateway's audit events: rate limit denials
// and upload activity. Events are published best-effort from the request
// path and persisted out-of-band by the consumer binary.
package audit

import "time"

const (
	TopicRateLimitExceeded = "audit.rate_limit_exceeded"
	TopicUpload            = "audit.upload"
)

// RateLimitExceededEvent is emitted when a request is denied admission.
type RateLimitExceededEvent struct {
	Identifier string    `json:"identifier"`
	Class      string    `json:"class"`
	Path       string    `json:"path"`
	Method     string    `json:"method"`
	Limit      int64     `json:"limit"`
	Blocked    bool      `json:"blocked"`
	UserAgent  string    `json:"userAgent,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Upload actions.
const (
	ActionUploaded  = "uploaded"
	ActionPresigned = "presigned"
	ActionVerified  = "verified"
)

// UploadEvent is emitted for upload gate activity.
type UploadEvent struct {
	Action      string    `json:"action"`
	Key         string    `json:"key"`
	FileName    string    `json:"fileName,omitempty"`
	ContentType string    `json:"contentType,omitempty"`
	Size        int64     `json:"size,omitempty"`
	UserID      string    `json:"userId,omitempty"`
	ClientIP    string    `json:"clientIp,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}
