package implementation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"video-saas-be/internal/entity"
	"video-saas-be/internal/mapper"
	"video-saas-be/internal/model"
	"video-saas-be/internal/repository/contract"
	"video-saas-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SubscriptionMapper
}

func NewSubscriptionRepository(db *gorm.DB) contract.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSubscriptionMapper(),
	}
}

func (r *SubscriptionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Package Implementation

func (r *SubscriptionRepositoryImpl) CreatePackage(ctx context.Context, pkg *entity.SubscriptionPackage) error {
	m := r.mapper.PackageToModel(pkg)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*pkg = *r.mapper.PackageToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) FindOnePackage(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionPackage, error) {
	var m model.SubscriptionPackage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err)
	}
	return r.mapper.PackageToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) FindAllPackages(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionPackage, error) {
	var models []*model.SubscriptionPackage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, translateError(err)
	}
	entities := make([]*entity.SubscriptionPackage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.PackageToEntity(m)
	}
	return entities, nil
}

// Subscription Implementation

func (r *SubscriptionRepositoryImpl) CreateSubscription(ctx context.Context, subscription *entity.Subscription) error {
	pkg := subscription.Package
	m := r.mapper.SubscriptionToModel(subscription)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*subscription = *r.mapper.SubscriptionToEntity(m)
	subscription.Package = pkg
	return nil
}

func (r *SubscriptionRepositoryImpl) FindOneSubscription(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	var m model.Subscription
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Preload("SubscriptionPackage").First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err)
	}
	return r.mapper.SubscriptionToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) ScheduleCancel(ctx context.Context, subscriptionId uuid.UUID, cancelAt, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("id = ? AND status = ? AND cancel_at IS NULL", subscriptionId, true).
		UpdateColumns(map[string]interface{}{
			"cancel_at":  cancelAt,
			"updated_at": now,
		})
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *SubscriptionRepositoryImpl) Deactivate(ctx context.Context, subscriptionId uuid.UUID, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("id = ? AND status = ?", subscriptionId, true).
		UpdateColumns(map[string]interface{}{
			"status":     false,
			"updated_at": now,
		})
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected == 1, nil
}

// Usage Implementation

func (r *SubscriptionRepositoryImpl) CreateUsage(ctx context.Context, usage *entity.SubscriptionUsage) (bool, error) {
	m := r.mapper.UsageToModel(usage)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subscriptions_id"}, {Name: "created_at"}},
			DoNothing: true,
		}).
		Create(m)
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	*usage = *r.mapper.UsageToEntity(m)
	return true, nil
}

func (r *SubscriptionRepositoryImpl) FindOneUsage(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionUsage, error) {
	var m model.SubscriptionUsage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err)
	}
	return r.mapper.UsageToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) IncrementUsage(ctx context.Context, usageId uuid.UUID, action entity.MeteredAction, limit int) (bool, error) {
	column, err := usageColumn(action)
	if err != nil {
		return false, err
	}

	// Single conditional statement: the limit check and the write happen under
	// the same row lock, so concurrent callers can never push the counter past limit.
	query := r.db.WithContext(ctx).Model(&model.SubscriptionUsage{}).Where("id = ?", usageId)
	if limit >= 0 {
		query = query.Where(fmt.Sprintf("%s < ?", column), limit)
	}
	result := query.UpdateColumn(column, gorm.Expr(fmt.Sprintf("%s + ?", column), 1))
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected == 1, nil
}

func usageColumn(action entity.MeteredAction) (string, error) {
	switch action {
	case entity.ActionUpload:
		return "upload_count", nil
	case entity.ActionClip:
		return "clip_count", nil
	}
	return "", fmt.Errorf("%w: unknown action %q", entity.ErrInvalidRequest, action)
}
