package events

import (
	"context"
	"time"

	"video-saas-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Publisher emits domain events. Publishing is best effort: failures are logged
// and never returned to the caller.
type Publisher interface {
	PublishVideoCreated(ctx context.Context, videoId, userId uuid.UUID, link string)
	PublishVideoConverted(ctx context.Context, videoId, userId uuid.UUID, conVideoId string)
	PublishUsageCharged(ctx context.Context, subscriptionId uuid.UUID, action, outcome, reference string)
	PublishCancelRequested(ctx context.Context, subscriptionId, userId uuid.UUID, providerSubscriptionId *string, cancelAt time.Time)
}

// BusPublisher implements Publisher on top of a Bus (NATS in production).
type BusPublisher struct {
	bus    Bus
	logger logger.ILogger
}

// NewBusPublisher creates a publisher. A nil bus turns every call into a no-op.
func NewBusPublisher(bus Bus, logger logger.ILogger) *BusPublisher {
	return &BusPublisher{
		bus:    bus,
		logger: logger,
	}
}

func (p *BusPublisher) PublishVideoCreated(ctx context.Context, videoId, userId uuid.UUID, link string) {
	p.publish(ctx, TypeVideoCreated, map[string]interface{}{
		"video_id":    videoId.String(),
		"user_id":     userId.String(),
		"link":        link,
		"entity_type": "video",
		"entity_id":   videoId.String(),
	})
}

func (p *BusPublisher) PublishVideoConverted(ctx context.Context, videoId, userId uuid.UUID, conVideoId string) {
	p.publish(ctx, TypeVideoConverted, map[string]interface{}{
		"video_id":     videoId.String(),
		"user_id":      userId.String(),
		"con_video_id": conVideoId,
		"entity_type":  "video",
		"entity_id":    videoId.String(),
	})
}

func (p *BusPublisher) PublishUsageCharged(ctx context.Context, subscriptionId uuid.UUID, action, outcome, reference string) {
	p.publish(ctx, TypeUsageCharged, map[string]interface{}{
		"subscription_id": subscriptionId.String(),
		"action":          action,
		"outcome":         outcome,
		"reference":       reference,
		"entity_type":     "subscription",
		"entity_id":       subscriptionId.String(),
	})
}

func (p *BusPublisher) PublishCancelRequested(ctx context.Context, subscriptionId, userId uuid.UUID, providerSubscriptionId *string, cancelAt time.Time) {
	data := map[string]interface{}{
		"subscription_id": subscriptionId.String(),
		"user_id":         userId.String(),
		"cancel_at":       cancelAt.Format(time.RFC3339),
		"entity_type":     "subscription",
		"entity_id":       subscriptionId.String(),
	}
	if providerSubscriptionId != nil {
		data["provider_subscription_id"] = *providerSubscriptionId
	}
	p.publish(ctx, TypeSubscriptionCancelRequested, data)
}

func (p *BusPublisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p == nil || p.bus == nil {
		return
	}

	now := time.Now()
	data["occurred_at"] = now.Format(time.RFC3339)
	evt := BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: now,
	}

	if err := p.bus.Publish(ctx, evt); err != nil {
		p.logger.Error("EVENTS", "Failed to publish "+eventType+" event", map[string]interface{}{"error": err.Error()})
	}
}
