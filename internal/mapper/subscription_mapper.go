package mapper

import (
	"video-saas-be/internal/entity"
	"video-saas-be/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) PackageToEntity(p *model.SubscriptionPackage) *entity.SubscriptionPackage {
	if p == nil {
		return nil
	}
	features := make([]string, 0, len(p.Features))
	features = append(features, p.Features...)
	return &entity.SubscriptionPackage{
		Id:               p.Id,
		SubscriptionType: p.SubscriptionType,
		SubDurType:       entity.DurationType(p.SubDurType),
		UploadVideoLimit: p.UploadVideoLimit,
		GenerateClips:    p.GenerateClips,
		TotalMin:         p.TotalMin,
		Features:         features,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (m *SubscriptionMapper) PackageToModel(p *entity.SubscriptionPackage) *model.SubscriptionPackage {
	if p == nil {
		return nil
	}
	return &model.SubscriptionPackage{
		Id:               p.Id,
		SubscriptionType: p.SubscriptionType,
		SubDurType:       string(p.SubDurType),
		UploadVideoLimit: p.UploadVideoLimit,
		GenerateClips:    p.GenerateClips,
		TotalMin:         p.TotalMin,
		Features:         p.Features,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (m *SubscriptionMapper) SubscriptionToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	return &entity.Subscription{
		Id:                     s.Id,
		UserId:                 s.UserId,
		SubscriptionPackageId:  s.SubscriptionPackageId,
		Status:                 s.Status,
		CancelAt:               s.CancelAt,
		ProviderSubscriptionId: s.ProviderSubscriptionId,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
		Package:                m.PackageToEntity(s.SubscriptionPackage),
	}
}

func (m *SubscriptionMapper) SubscriptionToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	return &model.Subscription{
		Id:                     s.Id,
		UserId:                 s.UserId,
		SubscriptionPackageId:  s.SubscriptionPackageId,
		Status:                 s.Status,
		CancelAt:               s.CancelAt,
		ProviderSubscriptionId: s.ProviderSubscriptionId,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) UsageToEntity(u *model.SubscriptionUsage) *entity.SubscriptionUsage {
	if u == nil {
		return nil
	}
	return &entity.SubscriptionUsage{
		Id:             u.Id,
		SubscriptionId: u.SubscriptionId,
		UploadCount:    u.UploadCount,
		ClipCount:      u.ClipCount,
		Min:            u.Min,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (m *SubscriptionMapper) UsageToModel(u *entity.SubscriptionUsage) *model.SubscriptionUsage {
	if u == nil {
		return nil
	}
	return &model.SubscriptionUsage{
		Id:             u.Id,
		SubscriptionId: u.SubscriptionId,
		UploadCount:    u.UploadCount,
		ClipCount:      u.ClipCount,
		Min:            u.Min,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
