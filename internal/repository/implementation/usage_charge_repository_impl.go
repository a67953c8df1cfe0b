package implementation

import (
	"context"
	"time"

	"video-saas-be/internal/entity"
	"video-saas-be/internal/mapper"
	"video-saas-be/internal/model"
	"video-saas-be/internal/repository/contract"
	"video-saas-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UsageChargeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UsageChargeMapper
}

func NewUsageChargeRepository(db *gorm.DB) contract.UsageChargeRepository {
	return &UsageChargeRepositoryImpl{
		db:     db,
		mapper: mapper.NewUsageChargeMapper(),
	}
}

func (r *UsageChargeRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UsageChargeRepositoryImpl) Claim(ctx context.Context, charge *entity.UsageCharge) (bool, error) {
	m := r.mapper.ToModel(charge)
	m.Status = string(entity.ChargeStatusPending)
	m.Attempts = 1

	inserted := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "reference"}}, DoNothing: true}).
		Create(m)
	if inserted.Error != nil {
		return false, translateError(inserted.Error)
	}
	if inserted.RowsAffected == 1 {
		*charge = *r.mapper.ToEntity(m)
		return true, nil
	}

	// Row exists. Only a pending one can be taken over; the row lock taken by
	// this UPDATE serialises concurrent claimers of the same reference.
	reclaimed := r.db.WithContext(ctx).Model(&model.UsageCharge{}).
		Where("reference = ? AND status = ?", charge.Reference, string(entity.ChargeStatusPending)).
		UpdateColumns(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + ?", 1),
			"updated_at": time.Now(),
		})
	if reclaimed.Error != nil {
		return false, translateError(reclaimed.Error)
	}
	return reclaimed.RowsAffected == 1, nil
}

func (r *UsageChargeRepositoryImpl) Settle(ctx context.Context, reference string, status entity.ChargeStatus, lastError string) error {
	query := r.db.WithContext(ctx).Model(&model.UsageCharge{})
	result := r.applySpecifications(query, specification.ByReference{Reference: reference}).
		UpdateColumns(map[string]interface{}{
			"status":     string(status),
			"last_error": lastError,
			"updated_at": time.Now(),
		})
	return translateError(result.Error)
}

func (r *UsageChargeRepositoryImpl) CreateIfAbsent(ctx context.Context, charge *entity.UsageCharge) error {
	m := r.mapper.ToModel(charge)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "reference"}}, DoNothing: true}).
		Create(m)
	return translateError(result.Error)
}

func (r *UsageChargeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UsageCharge, error) {
	var models []*model.UsageCharge
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, translateError(err)
	}
	entities := make([]*entity.UsageCharge, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
