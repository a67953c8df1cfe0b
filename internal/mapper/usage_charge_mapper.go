package mapper

import (
	"video-saas-be/internal/entity"
	"video-saas-be/internal/model"

	"gorm.io/datatypes"
)

type UsageChargeMapper struct{}

func NewUsageChargeMapper() *UsageChargeMapper {
	return &UsageChargeMapper{}
}

func (m *UsageChargeMapper) ToEntity(c *model.UsageCharge) *entity.UsageCharge {
	if c == nil {
		return nil
	}
	return &entity.UsageCharge{
		Id:             c.Id,
		Reference:      c.Reference,
		UserId:         c.UserId,
		SubscriptionId: c.SubscriptionId,
		Action:         entity.MeteredAction(c.Action),
		Status:         entity.ChargeStatus(c.Status),
		Attempts:       c.Attempts,
		LastError:      c.LastError,
		Details:        map[string]interface{}(c.Details),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (m *UsageChargeMapper) ToModel(c *entity.UsageCharge) *model.UsageCharge {
	if c == nil {
		return nil
	}
	return &model.UsageCharge{
		Id:             c.Id,
		Reference:      c.Reference,
		UserId:         c.UserId,
		SubscriptionId: c.SubscriptionId,
		Action:         string(c.Action),
		Status:         string(c.Status),
		Attempts:       c.Attempts,
		LastError:      c.LastError,
		Details:        datatypes.JSONMap(c.Details),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
