package mapper

import (
	"video-saas-be/internal/entity"
	"video-saas-be/internal/model"
)

type VideoMapper struct{}

func NewVideoMapper() *VideoMapper {
	return &VideoMapper{}
}

func (m *VideoMapper) ToEntity(v *model.Video) *entity.Video {
	if v == nil {
		return nil
	}
	return &entity.Video{
		Id:            v.Id,
		UserId:        v.UserId,
		Link:          v.Link,
		ConVideoSrc:   v.ConVideoSrc,
		ConVideoTitle: v.ConVideoTitle,
		ConVideoId:    v.ConVideoId,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

func (m *VideoMapper) ToModel(v *entity.Video) *model.Video {
	if v == nil {
		return nil
	}
	return &model.Video{
		Id:            v.Id,
		UserId:        v.UserId,
		Link:          v.Link,
		ConVideoSrc:   v.ConVideoSrc,
		ConVideoTitle: v.ConVideoTitle,
		ConVideoId:    v.ConVideoId,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}
