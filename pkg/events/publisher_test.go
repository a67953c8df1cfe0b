package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"video-saas-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBus struct {
	events []Event
	err    error
}

func (b *recordingBus) Publish(ctx context.Context, event Event) error {
	b.events = append(b.events, event)
	return b.err
}

func TestBusPublisher_CancelRequested(t *testing.T) {
	bus := &recordingBus{}
	p := NewBusPublisher(bus, logger.NewNopLogger())

	subId, userId := uuid.New(), uuid.New()
	provider := "sub_123"
	cancelAt := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	p.PublishCancelRequested(context.Background(), subId, userId, &provider, cancelAt)

	require.Len(t, bus.events, 1)
	evt := bus.events[0].(BaseEvent)
	assert.Equal(t, TypeSubscriptionCancelRequested, evt.EventType())
	assert.Equal(t, subId.String(), evt.String("subscription_id"))
	assert.Equal(t, "sub_123", evt.String("provider_subscription_id"))
	assert.Equal(t, "2026-11-01T00:00:00Z", evt.String("cancel_at"))
}

func TestBusPublisher_SwallowsErrors(t *testing.T) {
	bus := &recordingBus{err: errors.New("nats down")}
	p := NewBusPublisher(bus, logger.NewNopLogger())

	assert.NotPanics(t, func() {
		p.PublishVideoCreated(context.Background(), uuid.New(), uuid.New(), "https://x")
	})
	assert.Len(t, bus.events, 1)
}

func TestBusPublisher_NilBus(t *testing.T) {
	p := NewBusPublisher(nil, logger.NewNopLogger())
	assert.NotPanics(t, func() {
		p.PublishUsageCharged(context.Background(), uuid.New(), "upload", "charged", "ref")
	})

	var nilPublisher *BusPublisher
	assert.NotPanics(t, func() {
		nilPublisher.PublishVideoConverted(context.Background(), uuid.New(), uuid.New(), "c1")
	})
}
