package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hayattan/media-gateway/internal/audit"
	"github.com/hayattan/media-gateway/internal/auth"
	"github.com/hayattan/media-gateway/internal/messaging"
	"github.com/hayattan/media-gateway/internal/upload"
	"go.uber.org/zap"
)

// UploadHandler exposes the upload gate over HTTP.
type UploadHandler struct {
	gate          *upload.Gate
	publishUpload messaging.Publish[audit.UploadEvent]
	logger        *zap.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(
	gate *upload.Gate,
	publishUpload messaging.Publish[audit.UploadEvent],
	logger *zap.Logger,
) *UploadHandler {
	return &UploadHandler{
		gate:          gate,
		publishUpload: publishUpload,
		logger:        logger,
	}
}

// Upload handles the proxy path: the file passes through the server.
func (h *UploadHandler) Upload(ctx context.Context, req *UploadMediaRequest) (*UploadMediaResponse, error) {
	form := req.RawBody.Data()
	if !form.File.IsSet {
		return nil, huma.Error400BadRequest("missing file field")
	}

	stored, err := h.gate.Upload(ctx, upload.Request{
		FileName:    form.File.Filename,
		ContentType: form.File.ContentType,
		Size:        form.File.Size,
		Body:        form.File,
	})
	if err != nil {
		return nil, mapUploadError(err)
	}

	h.audit(ctx, &audit.UploadEvent{
		Action:      audit.ActionUploaded,
		Key:         stored.Key,
		FileName:    form.File.Filename,
		ContentType: form.File.ContentType,
		Size:        form.File.Size,
	})

	resp := &UploadMediaResponse{}
	resp.Body.Success = true
	resp.Body.URL = stored.URL
	resp.Body.Key = stored.Key

	return resp, nil
}

// Presign handles the standard direct-upload flow (60 second URLs).
func (h *UploadHandler) Presign(ctx context.Context, req *PresignRequest) (*PresignResponse, error) {
	return h.presign(ctx, upload.Request{
		FileName:    req.Body.Filename,
		ContentType: req.Body.ContentType,
		Size:        req.Body.Size,
	}, upload.VariantStandard)
}

// PresignLarge handles the large-file flow (300 second URLs).
func (h *UploadHandler) PresignLarge(ctx context.Context, req *PresignLargeRequest) (*PresignResponse, error) {
	return h.presign(ctx, upload.Request{
		FileName:    req.Body.FileName,
		ContentType: req.Body.FileType,
		Size:        req.Body.FileSize,
	}, upload.VariantLarge)
}

func (h *UploadHandler) presign(ctx context.Context, req upload.Request, variant upload.Variant) (*PresignResponse, error) {
	presigned, err := h.gate.Presign(ctx, req, variant)
	if err != nil {
		return nil, mapUploadError(err)
	}

	h.audit(ctx, &audit.UploadEvent{
		Action:      audit.ActionPresigned,
		Key:         presigned.Key,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Size:        req.Size,
	})

	resp := &PresignResponse{}
	resp.Body.Key = presigned.Key
	resp.Body.UploadURL = presigned.UploadURL
	resp.Body.PublicURL = presigned.PublicURL

	return resp, nil
}

// Verify confirms whether a presigned client-side upload actually
// landed in the store. Failures are reported in the body, never raised.
func (h *UploadHandler) Verify(ctx context.Context, req *VerifyRequest) (*VerifyResponse, error) {
	v := h.gate.Verify(ctx, req.Body.Key)

	resp := &VerifyResponse{}
	resp.Body.Verified = v.Verified

	if v.Verified {
		resp.Body.Size = &v.Size
		resp.Body.ContentType = v.ContentType
		resp.Body.ETag = v.ETag

		if !v.LastModified.IsZero() {
			lastModified := v.LastModified
			resp.Body.LastModified = &lastModified
		}

		h.audit(ctx, &audit.UploadEvent{
			Action: audit.ActionVerified,
			Key:    req.Body.Key,
			Size:   v.Size,
		})
	} else {
		resp.Body.Error = v.Err
	}

	return resp, nil
}

// audit publishes an upload event enriched with session and request
// metadata. Publish failures are logged and swallowed.
func (h *UploadHandler) audit(ctx context.Context, event *audit.UploadEvent) {
	if session := auth.SessionFromContext(ctx); session != nil {
		event.UserID = session.UserID
	}

	event.ClientIP = RequestMetaFromContext(ctx).ClientIP
	event.OccurredAt = time.Now()

	if err := h.publishUpload(event); err != nil {
		h.logger.Error("failed to publish upload event",
			zap.String("action", event.Action),
			zap.String("key", event.Key),
			zap.Error(err),
		)
	}
}

// mapUploadError translates gate errors into HTTP status errors:
// validation is 400, missing configuration and store failures are 500
// with the cause preserved for operator diagnosis.
func mapUploadError(err error) error {
	var verr *upload.ValidationError

	switch {
	case errors.As(err, &verr):
		return huma.Error400BadRequest(verr.Reason)
	case errors.Is(err, upload.ErrPublicURLUnset):
		return huma.Error500InternalServerError("public base url is not configured")
	default:
		return huma.Error500InternalServerError("object store failure", err)
	}
}
