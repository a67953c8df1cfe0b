package dto

import (
	"time"

	"github.com/google/uuid"
)

type CancelSubscriptionResponse struct {
	SubscriptionId uuid.UUID `json:"subscription_id"`
	CancelAt       time.Time `json:"cancel_at"`
}
