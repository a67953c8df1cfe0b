// DTOs for usage limits and entitlement status
package dto

import (
	"fmt"
	"time"

	"video-saas-be/internal/entity"

	"github.com/google/uuid"
)

// UsageLimit represents a single limit status
type UsageLimit struct {
	Used      int  `json:"used"`
	Limit     int  `json:"limit"` // -1 = unlimited
	Remaining int  `json:"remaining"`
	CanUse    bool `json:"can_use"`
}

type MinutesUsage struct {
	Used  float64 `json:"used"`
	Limit int     `json:"limit"`
}

type PackageInfo struct {
	Id               uuid.UUID `json:"id"`
	SubscriptionType string    `json:"subscription_type"`
	SubDurType       string    `json:"sub_dur_type"`
	Features         []string  `json:"features"`
}

// UsageStatusResponse is returned by GET /api/subscription/current
type UsageStatusResponse struct {
	SubscriptionId uuid.UUID    `json:"subscription_id"`
	Package        PackageInfo  `json:"package"`
	Upload         UsageLimit   `json:"upload"`
	Clip           UsageLimit   `json:"clip"`
	Minutes        MinutesUsage `json:"minutes"`
	PeriodStart    time.Time    `json:"period_start"`
	PeriodEnd      time.Time    `json:"period_end"`
	CancelAt       *time.Time   `json:"cancel_at,omitempty"`
}

// EntitlementResponse is returned by GET /api/subscription/entitlement
type EntitlementResponse struct {
	Action    string `json:"action"`
	Allowed   bool   `json:"allowed"`
	BlockedBy string `json:"blocked_by,omitempty"`
	Limit     int    `json:"limit"`
	Used      int    `json:"used"`
}

type EntitlementQuery struct {
	Action string `query:"action" validate:"required,oneof=upload clip"`
}

// LimitExceededError is a custom error that carries usage details
type LimitExceededError struct {
	Action    entity.MeteredAction `json:"action"`
	BlockedBy entity.MeteredAction `json:"blocked_by"`
	Limit     int                  `json:"limit"`
	Used      int                  `json:"used"`
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("%s limit reached (%d/%d)", e.BlockedBy, e.Used, e.Limit)
}

func (e *LimitExceededError) Unwrap() error {
	return entity.ErrLimitExceeded
}

func NewLimitExceededError(d *entity.EntitlementDecision) *LimitExceededError {
	return &LimitExceededError{
		Action:    d.Action,
		BlockedBy: d.BlockedBy,
		Limit:     d.Limit,
		Used:      d.Used,
	}
}

func NewEntitlementResponse(d *entity.EntitlementDecision) *EntitlementResponse {
	return &EntitlementResponse{
		Action:    string(d.Action),
		Allowed:   d.Allowed,
		BlockedBy: string(d.BlockedBy),
		Limit:     d.Limit,
		Used:      d.Used,
	}
}
