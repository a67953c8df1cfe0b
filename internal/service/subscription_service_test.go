package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"video-saas-be/internal/entity"
	"video-saas-be/internal/pkg/logger"
	"video-saas-be/internal/repository/mocks"
	"video-saas-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBus) published() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]events.Event(nil), b.events...)
}

type subscriptionFixture struct {
	subs *mocks.SubscriptionRepository
	bus  *recordingBus
	svc  SubscriptionService
	now  time.Time
}

func newSubscriptionFixture() *subscriptionFixture {
	factory := new(mocks.RepositoryFactory)
	uow := new(mocks.UnitOfWork)
	f := &subscriptionFixture{
		subs: new(mocks.SubscriptionRepository),
		bus:  &recordingBus{},
		now:  time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC),
	}
	factory.On("NewUnitOfWork", mock.Anything).Return(uow)
	uow.On("SubscriptionRepository").Return(f.subs)

	svc := NewSubscriptionService(factory, new(mockMetering), events.NewBusPublisher(f.bus, logger.NewNopLogger()),
		logger.NewNopLogger(), StoreCallOptions{Timeout: time.Second, InitialInterval: time.Millisecond})
	svc.(*subscriptionService).now = func() time.Time { return f.now }
	f.svc = svc
	return f
}

func TestCancelSubscription_SchedulesEndOfPeriod(t *testing.T) {
	f := newSubscriptionFixture()
	provider := "sub_live_123"
	sub := newActiveSubscription(uuid.New(), newPackage(10, 10))
	sub.ProviderSubscriptionId = &provider
	usage := newUsage(sub, 3, 1)
	usage.CreatedAt = time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC)

	f.subs.On("FindOneSubscription", mock.Anything, mock.Anything).Return(sub, nil)
	f.subs.On("FindOneUsage", mock.Anything, mock.Anything).Return(usage, nil)
	expected := time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC)
	f.subs.On("ScheduleCancel", mock.Anything, sub.Id, mock.MatchedBy(func(at time.Time) bool {
		return at.Equal(expected)
	}), f.now).Return(true, nil).Once()

	resp, err := f.svc.CancelSubscription(context.Background(), sub.UserId)
	require.NoError(t, err)

	assert.Equal(t, sub.Id, resp.SubscriptionId)
	assert.True(t, resp.CancelAt.Equal(expected))
	assert.True(t, sub.IsCurrent(f.now), "access is kept until the period ends")
	f.subs.AssertExpectations(t)

	published := f.bus.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypeSubscriptionCancelRequested, published[0].EventType())
	assert.Equal(t, provider, published[0].Payload()["provider_subscription_id"])
}

func TestCancelSubscription_Twice(t *testing.T) {
	f := newSubscriptionFixture()
	sub := newActiveSubscription(uuid.New(), newPackage(10, 10))
	cancelAt := f.now.Add(24 * time.Hour)
	sub.CancelAt = &cancelAt
	f.subs.On("FindOneSubscription", mock.Anything, mock.Anything).Return(sub, nil)

	_, err := f.svc.CancelSubscription(context.Background(), sub.UserId)
	assert.ErrorIs(t, err, entity.ErrAlreadyCanceled)
	f.subs.AssertNotCalled(t, "ScheduleCancel", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.bus.published())
}

func TestCancelSubscription_LosesRace(t *testing.T) {
	t.Run("deactivated in between", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := newActiveSubscription(uuid.New(), newPackage(10, 10))
		deactivated := *sub
		deactivated.Status = false

		f.subs.On("FindOneSubscription", mock.Anything, mock.Anything).Return(sub, nil).Once()
		f.subs.On("FindOneSubscription", mock.Anything, mock.Anything).Return(&deactivated, nil).Once()
		f.subs.On("FindOneUsage", mock.Anything, mock.Anything).Return(newUsage(sub, 0, 0), nil)
		f.subs.On("ScheduleCancel", mock.Anything, sub.Id, mock.Anything, mock.Anything).Return(false, nil).Once()

		_, err := f.svc.CancelSubscription(context.Background(), sub.UserId)
		assert.ErrorIs(t, err, entity.ErrNoActiveSubscription)
		assert.Empty(t, f.bus.published())
		f.subs.AssertExpectations(t)
	})

	t.Run("canceled in between", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := newActiveSubscription(uuid.New(), newPackage(10, 10))
		canceled := *sub
		cancelAt := f.now.Add(time.Hour)
		canceled.CancelAt = &cancelAt

		f.subs.On("FindOneSubscription", mock.Anything, mock.Anything).Return(sub, nil).Once()
		f.subs.On("FindOneSubscription", mock.Anything, mock.Anything).Return(&canceled, nil).Once()
		f.subs.On("FindOneUsage", mock.Anything, mock.Anything).Return(newUsage(sub, 0, 0), nil)
		f.subs.On("ScheduleCancel", mock.Anything, sub.Id, mock.Anything, mock.Anything).Return(false, nil).Once()

		_, err := f.svc.CancelSubscription(context.Background(), sub.UserId)
		assert.ErrorIs(t, err, entity.ErrAlreadyCanceled)
		assert.Empty(t, f.bus.published())
	})
}

func TestCancelSubscription_NoSubscription(t *testing.T) {
	f := newSubscriptionFixture()
	f.subs.On("FindOneSubscription", mock.Anything, mock.Anything).Return(nil, nil)

	_, err := f.svc.CancelSubscription(context.Background(), uuid.New())
	assert.ErrorIs(t, err, entity.ErrNoActiveSubscription)
}

func TestCancelSubscription_StalePeriodEndsNow(t *testing.T) {
	f := newSubscriptionFixture()
	sub := newActiveSubscription(uuid.New(), newPackage(10, 10))
	usage := newUsage(sub, 0, 0)
	usage.CreatedAt = f.now.AddDate(0, -3, 0)

	f.subs.On("FindOneSubscription", mock.Anything, mock.Anything).Return(sub, nil)
	f.subs.On("FindOneUsage", mock.Anything, mock.Anything).Return(usage, nil)
	f.subs.On("ScheduleCancel", mock.Anything, sub.Id, f.now, f.now).Return(true, nil)

	resp, err := f.svc.CancelSubscription(context.Background(), sub.UserId)
	require.NoError(t, err)
	assert.True(t, resp.CancelAt.Equal(f.now))
}

func TestOpenUsagePeriod(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("creates a zeroed row", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := newActiveSubscription(uuid.New(), newPackage(10, 10))
		previous := newUsage(sub, 9, 9)
		previous.CreatedAt = start.AddDate(0, -1, 0)

		f.subs.On("FindOneSubscription", mock.Anything, mock.Anything).Return(sub, nil)
		f.subs.On("FindOneUsage", mock.Anything, mock.Anything).Return(previous, nil)
		f.subs.On("CreateUsage", mock.Anything, mock.MatchedBy(func(u *entity.SubscriptionUsage) bool {
			return u.SubscriptionId == sub.Id && u.UploadCount == 0 && u.ClipCount == 0 && u.CreatedAt.Equal(start)
		})).Return(true, nil).Once()

		usage, err := f.svc.OpenUsagePeriod(context.Background(), sub.Id, start)
		require.NoError(t, err)
		assert.NotEqual(t, previous.Id, usage.Id)
		f.subs.AssertExpectations(t)
	})

	t.Run("replay returns the open period", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := newActiveSubscription(uuid.New(), newPackage(10, 10))
		current := newUsage(sub, 1, 0)
		current.CreatedAt = start

		f.subs.On("FindOneSubscription", mock.Anything, mock.Anything).Return(sub, nil)
		f.subs.On("FindOneUsage", mock.Anything, mock.Anything).Return(current, nil)

		usage, err := f.svc.OpenUsagePeriod(context.Background(), sub.Id, start)
		require.NoError(t, err)
		assert.Equal(t, current.Id, usage.Id)
		f.subs.AssertNotCalled(t, "CreateUsage", mock.Anything, mock.Anything)
	})

	t.Run("concurrent delivery returns the row that won", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := newActiveSubscription(uuid.New(), newPackage(10, 10))
		previous := newUsage(sub, 9, 9)
		previous.CreatedAt = start.AddDate(0, -1, 0)
		winner := newUsage(sub, 0, 0)
		winner.CreatedAt = start

		f.subs.On("FindOneSubscription", mock.Anything, mock.Anything).Return(sub, nil)
		f.subs.On("FindOneUsage", mock.Anything, mock.Anything).Return(previous, nil).Once()
		f.subs.On("CreateUsage", mock.Anything, mock.Anything).Return(false, nil).Once()
		f.subs.On("FindOneUsage", mock.Anything, mock.Anything).Return(winner, nil).Once()

		usage, err := f.svc.OpenUsagePeriod(context.Background(), sub.Id, start)
		require.NoError(t, err)
		assert.Equal(t, winner.Id, usage.Id)
		f.subs.AssertExpectations(t)
	})

	t.Run("unknown subscription", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.subs.On("FindOneSubscription", mock.Anything, mock.Anything).Return(nil, nil)

		_, err := f.svc.OpenUsagePeriod(context.Background(), uuid.New(), start)
		assert.ErrorIs(t, err, entity.ErrNotFound)
	})
}

func TestDeactivateSubscription(t *testing.T) {
	t.Run("flips status", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := newActiveSubscription(uuid.New(), newPackage(10, 10))
		f.subs.On("FindOneSubscription", mock.Anything, mock.Anything).Return(sub, nil)
		f.subs.On("Deactivate", mock.Anything, sub.Id, f.now).Return(true, nil).Once()

		require.NoError(t, f.svc.DeactivateSubscription(context.Background(), sub.Id))
		f.subs.AssertExpectations(t)
	})

	t.Run("already inactive", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := newActiveSubscription(uuid.New(), newPackage(10, 10))
		sub.Status = false
		f.subs.On("FindOneSubscription", mock.Anything, mock.Anything).Return(sub, nil)

		require.NoError(t, f.svc.DeactivateSubscription(context.Background(), sub.Id))
		f.subs.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deactivated concurrently", func(t *testing.T) {
		f := newSubscriptionFixture()
		sub := newActiveSubscription(uuid.New(), newPackage(10, 10))
		f.subs.On("FindOneSubscription", mock.Anything, mock.Anything).Return(sub, nil)
		f.subs.On("Deactivate", mock.Anything, sub.Id, f.now).Return(false, nil).Once()

		require.NoError(t, f.svc.DeactivateSubscription(context.Background(), sub.Id))
		f.subs.AssertExpectations(t)
	})
}
