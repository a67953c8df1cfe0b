package implementation

import (
	"context"
	"errors"

	"video-saas-be/internal/entity"
	"video-saas-be/internal/mapper"
	"video-saas-be/internal/model"
	"video-saas-be/internal/repository/contract"
	"video-saas-be/internal/repository/specification"

	"gorm.io/gorm"
)

type VideoRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.VideoMapper
}

func NewVideoRepository(db *gorm.DB) contract.VideoRepository {
	return &VideoRepositoryImpl{
		db:     db,
		mapper: mapper.NewVideoMapper(),
	}
}

func (r *VideoRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *VideoRepositoryImpl) Create(ctx context.Context, video *entity.Video) error {
	m := r.mapper.ToModel(video)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*video = *r.mapper.ToEntity(m)
	return nil
}

func (r *VideoRepositoryImpl) Update(ctx context.Context, video *entity.Video) error {
	m := r.mapper.ToModel(video)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return translateError(err)
	}
	*video = *r.mapper.ToEntity(m)
	return nil
}

func (r *VideoRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Video, error) {
	var m model.Video
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err)
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *VideoRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Video, error) {
	var models []*model.Video
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, translateError(err)
	}
	entities := make([]*entity.Video, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *VideoRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Video{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}
