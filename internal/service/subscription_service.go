package service

import (
	"context"
	"errors"
	"time"

	"video-saas-be/internal/dto"
	"video-saas-be/internal/entity"
	"video-saas-be/internal/pkg/logger"
	"video-saas-be/internal/repository/specification"
	"video-saas-be/internal/repository/unitofwork"
	"video-saas-be/pkg/events"

	"github.com/google/uuid"
)

const subscriptionModule = "SUBSCRIPTION"

type SubscriptionService interface {
	GetCurrentSubscription(ctx context.Context, userId uuid.UUID) (*dto.UsageStatusResponse, error)
	// CancelSubscription schedules the end of the subscription at the end of the
	// current billing period. Access is kept until then.
	CancelSubscription(ctx context.Context, userId uuid.UUID) (*dto.CancelSubscriptionResponse, error)
	// OpenUsagePeriod starts a zeroed usage row. Replays for the same period return the existing row.
	OpenUsagePeriod(ctx context.Context, subscriptionId uuid.UUID, start time.Time) (*entity.SubscriptionUsage, error)
	DeactivateSubscription(ctx context.Context, subscriptionId uuid.UUID) error
}

type subscriptionService struct {
	uowFactory unitofwork.RepositoryFactory
	metering   MeteringService
	publisher  events.Publisher
	logger     logger.ILogger
	store      StoreCallOptions
	now        func() time.Time
}

func NewSubscriptionService(
	uowFactory unitofwork.RepositoryFactory,
	metering MeteringService,
	publisher events.Publisher,
	logger logger.ILogger,
	store StoreCallOptions,
) SubscriptionService {
	return &subscriptionService{
		uowFactory: uowFactory,
		metering:   metering,
		publisher:  publisher,
		logger:     logger,
		store:      store.withDefaults(),
		now:        time.Now,
	}
}

func (s *subscriptionService) GetCurrentSubscription(ctx context.Context, userId uuid.UUID) (*dto.UsageStatusResponse, error) {
	return s.metering.GetUsageStatus(ctx, userId)
}

func (s *subscriptionService) CancelSubscription(ctx context.Context, userId uuid.UUID) (*dto.CancelSubscriptionResponse, error) {
	now := s.now()
	sub, err := readWithRetry(ctx, s.store, "find_current_subscription", func(ctx context.Context) (*entity.Subscription, error) {
		return s.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().FindOneSubscription(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.CurrentSubscription{Now: now},
			specification.Newest{},
		)
	})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, entity.ErrNoActiveSubscription
	}
	if sub.CancelAt != nil {
		return nil, entity.ErrAlreadyCanceled
	}

	pkg := sub.Package
	if pkg == nil {
		pkg, err = readWithRetry(ctx, s.store, "find_package", func(ctx context.Context) (*entity.SubscriptionPackage, error) {
			return s.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().FindOnePackage(ctx,
				specification.ByID{ID: sub.SubscriptionPackageId})
		})
		if err != nil {
			return nil, err
		}
		if pkg == nil {
			return nil, entity.ErrPackageNotFound
		}
	}

	usage, err := s.latestUsage(ctx, sub.Id)
	if err != nil {
		return nil, err
	}
	periodStart := sub.CreatedAt
	if usage != nil {
		periodStart = usage.CreatedAt
	}

	cancelAt := pkg.PeriodEnd(periodStart)
	if cancelAt.Before(now) {
		// The period was never rolled over; end access right away.
		cancelAt = now
	}

	var scheduled bool
	err = writeOnce(ctx, s.store, "cancel_subscription", func(ctx context.Context) error {
		var err error
		scheduled, err = s.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().ScheduleCancel(ctx, sub.Id, cancelAt, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !scheduled {
		return nil, s.cancelConflict(ctx, sub.Id)
	}

	s.logger.Info(subscriptionModule, "Subscription cancellation scheduled", map[string]interface{}{
		"subscription_id": sub.Id.String(),
		"user_id":         userId.String(),
		"cancel_at":       cancelAt.Format(time.RFC3339),
	})
	if s.publisher != nil {
		s.publisher.PublishCancelRequested(ctx, sub.Id, userId, sub.ProviderSubscriptionId, cancelAt)
	}

	return &dto.CancelSubscriptionResponse{
		SubscriptionId: sub.Id,
		CancelAt:       cancelAt,
	}, nil
}

func (s *subscriptionService) OpenUsagePeriod(ctx context.Context, subscriptionId uuid.UUID, start time.Time) (*entity.SubscriptionUsage, error) {
	if start.IsZero() {
		start = s.now()
	}
	if _, err := s.findSubscription(ctx, subscriptionId); err != nil {
		return nil, err
	}

	latest, err := s.latestUsage(ctx, subscriptionId)
	if err != nil {
		return nil, err
	}
	if latest != nil && !latest.CreatedAt.Before(start) {
		return latest, nil
	}

	usage := &entity.SubscriptionUsage{
		Id:             uuid.New(),
		SubscriptionId: subscriptionId,
		CreatedAt:      start,
		UpdatedAt:      start,
	}
	var created bool
	err = writeOnce(ctx, s.store, "create_usage", func(ctx context.Context) error {
		var err error
		created, err = s.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().CreateUsage(ctx, usage)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !created {
		// A concurrent delivery opened the same period first.
		existing, err := s.latestUsage(ctx, subscriptionId)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, entity.ErrNoUsageRecord
		}
		return existing, nil
	}

	s.logger.Info(subscriptionModule, "Usage period opened", map[string]interface{}{
		"subscription_id": subscriptionId.String(),
		"usage_id":        usage.Id.String(),
		"period_start":    start.Format(time.RFC3339),
	})
	return usage, nil
}

func (s *subscriptionService) DeactivateSubscription(ctx context.Context, subscriptionId uuid.UUID) error {
	sub, err := s.findSubscription(ctx, subscriptionId)
	if err != nil {
		return err
	}
	if !sub.Status {
		return nil
	}

	var deactivated bool
	err = writeOnce(ctx, s.store, "deactivate_subscription", func(ctx context.Context) error {
		var err error
		deactivated, err = s.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().Deactivate(ctx, subscriptionId, s.now())
		return err
	})
	if err != nil {
		return err
	}
	if !deactivated {
		return nil
	}

	s.logger.Info(subscriptionModule, "Subscription deactivated", map[string]interface{}{
		"subscription_id": subscriptionId.String(),
		"user_id":         sub.UserId.String(),
	})
	return nil
}

// cancelConflict explains why a conditional cancel matched no row.
func (s *subscriptionService) cancelConflict(ctx context.Context, subscriptionId uuid.UUID) error {
	sub, err := s.findSubscription(ctx, subscriptionId)
	if errors.Is(err, entity.ErrNotFound) {
		return entity.ErrNoActiveSubscription
	}
	if err != nil {
		return err
	}
	if sub.Status && sub.CancelAt != nil {
		return entity.ErrAlreadyCanceled
	}
	return entity.ErrNoActiveSubscription
}

func (s *subscriptionService) findSubscription(ctx context.Context, subscriptionId uuid.UUID) (*entity.Subscription, error) {
	sub, err := readWithRetry(ctx, s.store, "find_subscription", func(ctx context.Context) (*entity.Subscription, error) {
		return s.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().FindOneSubscription(ctx,
			specification.ByID{ID: subscriptionId})
	})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, entity.ErrNotFound
	}
	return sub, nil
}

func (s *subscriptionService) latestUsage(ctx context.Context, subscriptionId uuid.UUID) (*entity.SubscriptionUsage, error) {
	return readWithRetry(ctx, s.store, "find_usage", func(ctx context.Context) (*entity.SubscriptionUsage, error) {
		return s.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().FindOneUsage(ctx,
			specification.BySubscriptionID{SubscriptionID: subscriptionId},
			specification.Newest{},
		)
	})
}
