package audit

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/hayattan/media-gateway/internal/messaging"
	"go.uber.org/zap"
)

// NewRateLimitConsumer consumes rate limit denial events into the store.
func NewRateLimitConsumer(subscriber message.Subscriber, store Store, logger *zap.Logger) *messaging.Consumer[RateLimitExceededEvent] {
	return messaging.NewConsumer(subscriber, TopicRateLimitExceeded,
		func(ctx context.Context, event *RateLimitExceededEvent) error {
			return store.SaveRateLimitExceeded(ctx, event)
		}, logger)
}

// NewUploadConsumer consumes upload activity events into the store.
func NewUploadConsumer(subscriber message.Subscriber, store Store, logger *zap.Logger) *messaging.Consumer[UploadEvent] {
	return messaging.NewConsumer(subscriber, TopicUpload,
		func(ctx context.Context, event *UploadEvent) error {
			return store.SaveUpload(ctx, event)
		}, logger)
}
