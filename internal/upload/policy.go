package upload

import "fmt"

// MaxUploadSize is the inclusive size ceiling for any upload, 100 MiB.
const MaxUploadSize = 100 << 20

// allowedContentTypes is the media allow-list shared by the proxy and
// presign paths. Editorial content only carries images, MP4 video, and
// MPEG/WAV audio.
var allowedContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/avif": {},
	"image/gif":  {},
	"video/mp4":  {},
	"audio/mpeg": {},
	"audio/wav":  {},
}

// ValidationError describes a rejected upload with a human-readable reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validate applies the shared type and size policy. The same rules run
// for proxy and presigned uploads so the two paths cannot drift.
func Validate(contentType string, size int64) error {
	if _, ok := allowedContentTypes[contentType]; !ok {
		return &ValidationError{
			Reason: fmt.Sprintf("unsupported content type %q", contentType),
		}
	}

	if size > MaxUploadSize {
		return &ValidationError{
			Reason: fmt.Sprintf("file too large: %d bytes exceeds the %d byte limit", size, MaxUploadSize),
		}
	}

	return nil
}
