package events

import (
	"context"
	"time"
)

// Event types emitted or consumed by the service.
const (
	TypeVideoCreated                = "VIDEO_CREATED"
	TypeVideoConverted              = "VIDEO_CONVERTED"
	TypeUsageCharged                = "USAGE_CHARGED"
	TypeSubscriptionCancelRequested = "SUBSCRIPTION_CANCEL_REQUESTED"

	// Produced by the payment provider worker.
	TypeBillingPeriodStarted    = "BILLING_PERIOD_STARTED"
	TypeSubscriptionDeactivated = "SUBSCRIPTION_DEACTIVATED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "VIDEO_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Bus is the transport events are published on.
type Bus interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// String returns Data[key] when it holds a string.
func (e BaseEvent) String(key string) string {
	if v, ok := e.Data[key].(string); ok {
		return v
	}
	return ""
}
