package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pubsublib "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/kylethumm90/solar-review-hub-sub000/pkg/logger"
)

// ModerationEventType identifies the moderation decisions broadcast downstream.
type ModerationEventType string

const (
	EventReviewApproved ModerationEventType = "review.approved"
	EventReviewRejected ModerationEventType = "review.rejected"
	EventClaimApproved  ModerationEventType = "claim.approved"
	EventClaimRejected  ModerationEventType = "claim.rejected"
	EventClaimRevoked   ModerationEventType = "claim.revoked"
)

// ModerationEvent is the envelope published for every moderation decision.
type ModerationEvent struct {
	Type       ModerationEventType `json:"type"`
	EntityID   uuid.UUID           `json:"entity_id"`
	CompanyID  uuid.UUID           `json:"company_id"`
	ActorID    uuid.UUID           `json:"actor_id"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// EventPublisher is the write surface moderation services depend on.
type EventPublisher interface {
	PublishModeration(ctx context.Context, event ModerationEvent) error
}

type topicPublisher interface {
	Publish(ctx context.Context, msg *pubsublib.Message) *pubsublib.PublishResult
}

// Events publishes moderation events to the configured topic.
// Publish failures are logged and swallowed so moderation writes never
// roll back on broker outages.
type Events struct {
	publisher topicPublisher
	logg      *logger.Logger
}

// NewEvents wires a publisher handle into the events helper.
func NewEvents(publisher topicPublisher, logg *logger.Logger) *Events {
	return &Events{publisher: publisher, logg: logg}
}

// PublishModeration serializes and publishes the event.
func (e *Events) PublishModeration(ctx context.Context, event ModerationEvent) error {
	if e == nil || e.publisher == nil {
		return nil
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal moderation event: %w", err)
	}

	result := e.publisher.Publish(ctx, &pubsublib.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_type": string(event.Type),
		},
	})
	if _, err := result.Get(ctx); err != nil {
		if e.logg != nil {
			e.logg.Error(ctx, "moderation event publish failed", err)
		}
		return nil
	}
	return nil
}

// NopEvents satisfies EventPublisher when Pub/Sub is disabled.
type NopEvents struct{}

// PublishModeration drops the event.
func (NopEvents) PublishModeration(context.Context, ModerationEvent) error {
	return nil
}
