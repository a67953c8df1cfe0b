package contract

import (
	"context"
	"time"

	"video-saas-be/internal/entity"
	"video-saas-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SubscriptionRepository interface {
	// Packages
	CreatePackage(ctx context.Context, pkg *entity.SubscriptionPackage) error
	FindOnePackage(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionPackage, error)
	FindAllPackages(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionPackage, error)

	// Subscriptions
	CreateSubscription(ctx context.Context, subscription *entity.Subscription) error
	FindOneSubscription(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error)
	// ScheduleCancel sets cancel_at only on an active subscription that has none yet.
	// It reports whether a row was changed.
	ScheduleCancel(ctx context.Context, subscriptionId uuid.UUID, cancelAt, now time.Time) (bool, error)
	// Deactivate clears status on an active subscription. It reports whether a row was changed.
	Deactivate(ctx context.Context, subscriptionId uuid.UUID, now time.Time) (bool, error)

	// Usage periods
	// CreateUsage inserts the row unless one already exists for the same
	// subscription and period start. It reports whether the row was inserted.
	CreateUsage(ctx context.Context, usage *entity.SubscriptionUsage) (bool, error)
	FindOneUsage(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionUsage, error)

	// IncrementUsage advances the counter for action by one only while it is below
	// limit (negative limit = unlimited). It reports whether a row was changed.
	IncrementUsage(ctx context.Context, usageId uuid.UUID, action entity.MeteredAction, limit int) (bool, error)
}
