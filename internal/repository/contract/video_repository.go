package contract

import (
	"context"

	"video-saas-be/internal/entity"
	"video-saas-be/internal/repository/specification"
)

type VideoRepository interface {
	Create(ctx context.Context, video *entity.Video) error
	Update(ctx context.Context, video *entity.Video) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Video, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Video, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
