package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/capitalize-ai/assistant-chat/internal/model"
	"github.com/capitalize-ai/assistant-chat/pkg/logger"
	"github.com/capitalize-ai/assistant-chat/pkg/metrics"
)

// EventPublisher receives thread lifecycle events.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *model.ThreadEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

// PublishEvent implements EventPublisher.
func (NopPublisher) PublishEvent(context.Context, *model.ThreadEvent) error { return nil }

// publishEvent fills in identity fields and publishes. Failures are logged
// and counted, never returned: events are advisory.
func publishEvent(ctx context.Context, pub EventPublisher, log *logger.Logger, event *model.ThreadEvent) {
	if pub == nil {
		return
	}
	event.ID = uuid.Must(uuid.NewV7()).String()
	event.CreatedAt = time.Now().UTC()

	if err := pub.PublishEvent(ctx, event); err != nil {
		metrics.EventsPublishFailures.WithLabelValues(string(event.Type)).Inc()
		log.Warn("failed to publish thread event",
			zap.String("thread_id", event.ThreadID),
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
	}
}
