package service

import (
	"context"
	"testing"
	"time"

	"video-saas-be/internal/dto"
	"video-saas-be/internal/entity"
	"video-saas-be/internal/pkg/logger"
	"video-saas-be/pkg/events"
	pktNats "video-saas-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSubscriptionService struct {
	mock.Mock
}

func (m *mockSubscriptionService) GetCurrentSubscription(ctx context.Context, userId uuid.UUID) (*dto.UsageStatusResponse, error) {
	panic("not used")
}

func (m *mockSubscriptionService) CancelSubscription(ctx context.Context, userId uuid.UUID) (*dto.CancelSubscriptionResponse, error) {
	panic("not used")
}

func (m *mockSubscriptionService) OpenUsagePeriod(ctx context.Context, subscriptionId uuid.UUID, start time.Time) (*entity.SubscriptionUsage, error) {
	args := m.Called(ctx, subscriptionId, start)
	if u, ok := args.Get(0).(*entity.SubscriptionUsage); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSubscriptionService) DeactivateSubscription(ctx context.Context, subscriptionId uuid.UUID) error {
	return m.Called(ctx, subscriptionId).Error(0)
}

type mockSubscriber struct {
	mock.Mock
}

func (m *mockSubscriber) Subscribe(ctx context.Context, subject string, durableName string, handler pktNats.EventHandler) error {
	return m.Called(ctx, subject, durableName, mock.Anything).Error(0)
}

func billingEvent(eventType string, data map[string]interface{}) events.BaseEvent {
	return events.BaseEvent{Type: eventType, Data: data, OccurredAt: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)}
}

func TestBillingEvents_PeriodStarted(t *testing.T) {
	subs := new(mockSubscriptionService)
	svc := NewBillingEventService(new(mockSubscriber), subs, logger.NewNopLogger())
	subId := uuid.New()
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	subs.On("OpenUsagePeriod", mock.Anything, subId, start).Return(&entity.SubscriptionUsage{}, nil).Once()

	err := svc.HandleEvent(context.Background(), billingEvent(events.TypeBillingPeriodStarted, map[string]interface{}{
		"subscription_id": subId.String(),
		"period_start":    "2026-07-01T00:00:00Z",
	}))
	require.NoError(t, err)
	subs.AssertExpectations(t)
}

func TestBillingEvents_Deactivated(t *testing.T) {
	subs := new(mockSubscriptionService)
	svc := NewBillingEventService(new(mockSubscriber), subs, logger.NewNopLogger())
	subId := uuid.New()

	subs.On("DeactivateSubscription", mock.Anything, subId).Return(nil).Once()

	err := svc.HandleEvent(context.Background(), billingEvent(events.TypeSubscriptionDeactivated, map[string]interface{}{
		"subscription_id": subId.String(),
	}))
	require.NoError(t, err)
	subs.AssertExpectations(t)
}

func TestBillingEvents_ErrorsDecideRedelivery(t *testing.T) {
	subId := uuid.New()
	event := billingEvent(events.TypeSubscriptionDeactivated, map[string]interface{}{"subscription_id": subId.String()})

	t.Run("unknown subscription is acknowledged", func(t *testing.T) {
		subs := new(mockSubscriptionService)
		svc := NewBillingEventService(new(mockSubscriber), subs, logger.NewNopLogger())
		subs.On("DeactivateSubscription", mock.Anything, subId).Return(entity.ErrNotFound)

		assert.NoError(t, svc.HandleEvent(context.Background(), event))
	})

	t.Run("store outage is redelivered", func(t *testing.T) {
		subs := new(mockSubscriptionService)
		svc := NewBillingEventService(new(mockSubscriber), subs, logger.NewNopLogger())
		subs.On("DeactivateSubscription", mock.Anything, subId).Return(entity.ErrStoreUnavailable)

		assert.ErrorIs(t, svc.HandleEvent(context.Background(), event), entity.ErrStoreUnavailable)
	})

	t.Run("malformed id is dropped", func(t *testing.T) {
		subs := new(mockSubscriptionService)
		svc := NewBillingEventService(new(mockSubscriber), subs, logger.NewNopLogger())

		err := svc.HandleEvent(context.Background(), billingEvent(events.TypeBillingPeriodStarted, map[string]interface{}{
			"subscription_id": "nope",
		}))
		assert.NoError(t, err)
		subs.AssertNotCalled(t, "OpenUsagePeriod", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBillingEvents_StartSubscribesBothSubjects(t *testing.T) {
	sub := new(mockSubscriber)
	sub.On("Subscribe", mock.Anything, "events.BILLING_PERIOD_STARTED", "metering-billing-period", mock.Anything).Return(nil).Once()
	sub.On("Subscribe", mock.Anything, "events.SUBSCRIPTION_DEACTIVATED", "metering-subscription-deactivated", mock.Anything).Return(nil).Once()

	svc := NewBillingEventService(sub, new(mockSubscriptionService), logger.NewNopLogger())
	require.NoError(t, svc.Start(context.Background()))
	sub.AssertExpectations(t)
}
