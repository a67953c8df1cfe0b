package specification

import (
	"time"

	"video-saas-be/internal/repository/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CurrentSubscription keeps active rows whose cancellation date has not passed yet.
type CurrentSubscription struct {
	Now time.Time
}

func (s CurrentSubscription) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", true).
		Where("cancel_at IS NULL OR cancel_at > ?", s.Now)
}

type BySubscriptionID struct {
	SubscriptionID uuid.UUID
}

func (s BySubscriptionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("subscriptions_id = ?", s.SubscriptionID)
}

// Newest puts the most recently created row first.
type Newest struct{}

func (s Newest) Apply(db *gorm.DB) *gorm.DB {
	return scope.OrderByCreatedDesc(db)
}

// Oldest is the stable listing order used for user-facing collections.
type Oldest struct{}

func (s Oldest) Apply(db *gorm.DB) *gorm.DB {
	return scope.OrderByCreatedAsc(db)
}
