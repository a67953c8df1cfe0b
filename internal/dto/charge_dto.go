package dto

import (
	"video-saas-be/internal/entity"

	"github.com/google/uuid"
)

// ChargeRetryMessage is the payload published on the charge retry topic.
type ChargeRetryMessage struct {
	UserId         uuid.UUID            `json:"user_id"`
	SubscriptionId *uuid.UUID           `json:"subscription_id,omitempty"`
	Action         entity.MeteredAction `json:"action"`
	Reference      string               `json:"reference"`
}

func NewChargeRetryMessage(req entity.ConsumptionRequest) ChargeRetryMessage {
	return ChargeRetryMessage{
		UserId:         req.UserId,
		SubscriptionId: req.SubscriptionId,
		Action:         req.Action,
		Reference:      req.Reference,
	}
}

func (m ChargeRetryMessage) Request() entity.ConsumptionRequest {
	return entity.ConsumptionRequest{
		UserId:         m.UserId,
		SubscriptionId: m.SubscriptionId,
		Action:         m.Action,
		Reference:      m.Reference,
	}
}
