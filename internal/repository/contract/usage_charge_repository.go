package contract

import (
	"context"

	"video-saas-be/internal/entity"
	"video-saas-be/internal/repository/specification"
)

type UsageChargeRepository interface {
	// Claim inserts a pending row for charge.Reference, or takes over an existing
	// pending one. It returns false when the reference was already settled.
	Claim(ctx context.Context, charge *entity.UsageCharge) (bool, error)
	Settle(ctx context.Context, reference string, status entity.ChargeStatus, lastError string) error
	// CreateIfAbsent stores charge unless the reference already exists.
	CreateIfAbsent(ctx context.Context, charge *entity.UsageCharge) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UsageCharge, error)
}
