package service

import (
	"context"
	"testing"
	"time"

	"video-saas-be/internal/entity"
	"video-saas-be/internal/pkg/logger"
	"video-saas-be/internal/repository/mocks"
	"video-saas-be/internal/repository/specification"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type retryFixture struct {
	pubSub  *gochannel.GoChannel
	charges *mocks.UsageChargeRepository
	charger *mockMetering
	svc     ChargeRetryService
	now     time.Time
}

func newRetryFixture(t *testing.T) *retryFixture {
	factory := new(mocks.RepositoryFactory)
	uow := new(mocks.UnitOfWork)
	f := &retryFixture{
		pubSub:  gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{}),
		charges: new(mocks.UsageChargeRepository),
		charger: new(mockMetering),
		now:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	t.Cleanup(func() { _ = f.pubSub.Close() })

	factory.On("NewUnitOfWork", mock.Anything).Return(uow)
	uow.On("UsageChargeRepository").Return(f.charges)

	f.svc = NewChargeRetryService(f.pubSub, factory, f.charger, nil, logger.NewNopLogger(), ChargeRetryOptions{
		Topic:         "test.charges",
		GracePeriod:   time.Minute,
		MaxTries:      3,
		RetryInterval: time.Millisecond,
		Store:         StoreCallOptions{Timeout: time.Second, InitialInterval: time.Millisecond},
		Now:           func() time.Time { return f.now },
	})
	return f
}

func TestChargeRetry_EnqueueIsSettledByConsumer(t *testing.T) {
	f := newRetryFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := entity.ConsumptionRequest{
		UserId:    uuid.New(),
		Action:    entity.ActionUpload,
		Reference: "video:1:job-1",
	}

	f.charges.On("CreateIfAbsent", mock.Anything, mock.MatchedBy(func(c *entity.UsageCharge) bool {
		return c.Reference == req.Reference && c.Status == entity.ChargeStatusPending
	})).Return(nil).Once()

	settled := make(chan struct{})
	f.charger.On("Charge", mock.Anything, req).Return(entity.ConsumptionOutcome(""), entity.ErrStoreUnavailable).Once()
	f.charger.On("Charge", mock.Anything, req).Return(entity.OutcomeCharged, nil).Once().
		Run(func(args mock.Arguments) { close(settled) })

	require.NoError(t, f.svc.Consume(ctx))
	require.NoError(t, f.svc.Enqueue(ctx, req))

	select {
	case <-settled:
	case <-time.After(2 * time.Second):
		t.Fatal("charge was not retried")
	}
	f.charger.AssertNumberOfCalls(t, "Charge", 2)
	f.charges.AssertExpectations(t)
}

func TestChargeRetry_EnqueueRequiresReference(t *testing.T) {
	f := newRetryFixture(t)

	err := f.svc.Enqueue(context.Background(), entity.ConsumptionRequest{UserId: uuid.New(), Action: entity.ActionClip})
	assert.ErrorIs(t, err, entity.ErrInvalidRequest)
	f.charges.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
}

func TestChargeRetry_EnqueuePublishesWhenLedgerWriteFails(t *testing.T) {
	f := newRetryFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := f.pubSub.Subscribe(ctx, "test.charges")
	require.NoError(t, err)

	f.charges.On("CreateIfAbsent", mock.Anything, mock.Anything).Return(entity.ErrStoreUnavailable)
	require.NoError(t, f.svc.Enqueue(ctx, entity.ConsumptionRequest{
		UserId:    uuid.New(),
		Action:    entity.ActionUpload,
		Reference: "ref-2",
	}))

	select {
	case msg := <-messages:
		assert.Contains(t, string(msg.Payload), `"reference":"ref-2"`)
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("no message published")
	}
}

func TestChargeRetry_SweepPending(t *testing.T) {
	f := newRetryFixture(t)
	subId := uuid.New()
	rows := []*entity.UsageCharge{
		{Reference: "ref-a", UserId: uuid.New(), SubscriptionId: &subId, Action: entity.ActionUpload, Status: entity.ChargeStatusPending},
		{Reference: "ref-b", UserId: uuid.New(), Action: entity.ActionClip, Status: entity.ChargeStatusPending},
	}

	f.charges.On("FindAll", mock.Anything, mock.MatchedBy(func(specs []specification.Specification) bool {
		if len(specs) != 2 {
			return false
		}
		status, ok := specs[0].(specification.ByChargeStatus)
		before, ok2 := specs[1].(specification.UpdatedBefore)
		return ok && ok2 && status.Status == "pending" && before.Time.Equal(f.now.Add(-time.Minute))
	})).Return(rows, nil)
	f.charger.On("Charge", mock.Anything, mock.MatchedBy(func(r entity.ConsumptionRequest) bool {
		return r.Reference == "ref-a" && r.SubscriptionId != nil && *r.SubscriptionId == subId
	})).Return(entity.OutcomeCharged, nil)
	f.charger.On("Charge", mock.Anything, mock.MatchedBy(func(r entity.ConsumptionRequest) bool {
		return r.Reference == "ref-b"
	})).Return(entity.ConsumptionOutcome(""), entity.ErrPersistence)

	settled, err := f.svc.SweepPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, settled)
	f.charger.AssertNumberOfCalls(t, "Charge", 2)
}

func TestChargeRetry_RunRejectsBadSchedule(t *testing.T) {
	factory := new(mocks.RepositoryFactory)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	svc := NewChargeRetryService(pubSub, factory, new(mockMetering), nil, logger.NewNopLogger(), ChargeRetryOptions{
		Schedule: "not a schedule",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	assert.Error(t, svc.Run(ctx))
}
