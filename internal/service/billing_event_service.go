package service

import (
	"context"
	"errors"
	"time"

	"video-saas-be/internal/entity"
	"video-saas-be/internal/pkg/logger"
	"video-saas-be/pkg/events"
	pktNats "video-saas-be/pkg/nats"

	"github.com/google/uuid"
)

const billingModule = "BILLING_EVENTS"

// EventSubscriber is the JetStream side of pkg/nats.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject string, durableName string, handler pktNats.EventHandler) error
}

// BillingEventService applies billing lifecycle events emitted by the payment
// provider worker.
type BillingEventService interface {
	Start(ctx context.Context) error
	HandleEvent(ctx context.Context, event events.Event) error
}

type billingEventService struct {
	subscriber    EventSubscriber
	subscriptions SubscriptionService
	logger        logger.ILogger
}

func NewBillingEventService(subscriber EventSubscriber, subscriptions SubscriptionService, logger logger.ILogger) BillingEventService {
	return &billingEventService{
		subscriber:    subscriber,
		subscriptions: subscriptions,
		logger:        logger,
	}
}

func (s *billingEventService) Start(ctx context.Context) error {
	subjects := map[string]string{
		events.TypeBillingPeriodStarted:    "metering-billing-period",
		events.TypeSubscriptionDeactivated: "metering-subscription-deactivated",
	}
	for eventType, durable := range subjects {
		if err := s.subscriber.Subscribe(ctx, pktNats.Subject(eventType), durable, s.HandleEvent); err != nil {
			return err
		}
	}
	s.logger.Info(billingModule, "Billing event consumer started", nil)
	return nil
}

// HandleEvent returns an error only when redelivery may succeed.
func (s *billingEventService) HandleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	raw, _ := payload["subscription_id"].(string)
	subscriptionId, err := uuid.Parse(raw)
	if err != nil {
		s.logger.Error(billingModule, "Dropping billing event without a valid subscription id", map[string]interface{}{
			"event": event.EventType(),
			"value": raw,
		})
		return nil
	}

	switch event.EventType() {
	case events.TypeBillingPeriodStarted:
		start := event.Timestamp()
		if v, ok := payload["period_start"].(string); ok {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				start = t
			}
		}
		_, err = s.subscriptions.OpenUsagePeriod(ctx, subscriptionId, start)
	case events.TypeSubscriptionDeactivated:
		err = s.subscriptions.DeactivateSubscription(ctx, subscriptionId)
	default:
		s.logger.Warn(billingModule, "Ignoring unexpected event", map[string]interface{}{
			"event": event.EventType(),
		})
		return nil
	}

	if errors.Is(err, entity.ErrNotFound) {
		s.logger.Warn(billingModule, "Billing event for unknown subscription", map[string]interface{}{
			"event":           event.EventType(),
			"subscription_id": subscriptionId.String(),
		})
		return nil
	}
	if err != nil {
		s.logger.Error(billingModule, "Failed to apply billing event", map[string]interface{}{
			"event":           event.EventType(),
			"subscription_id": subscriptionId.String(),
			"error":           err.Error(),
		})
		return err
	}
	return nil
}
