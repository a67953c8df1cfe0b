package unitofwork

import (
	"context"

	"video-saas-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SubscriptionRepository() contract.SubscriptionRepository
	VideoRepository() contract.VideoRepository
	UsageChargeRepository() contract.UsageChargeRepository
}
