package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChargeStatus string
type ConsumptionOutcome string

const (
	ChargeStatusPending  ChargeStatus = "pending"
	ChargeStatusCharged  ChargeStatus = "charged"
	ChargeStatusRejected ChargeStatus = "rejected"
	ChargeStatusSkipped  ChargeStatus = "skipped"

	// OutcomeCharged means the counter was advanced by one.
	OutcomeCharged ConsumptionOutcome = "charged"
	// OutcomeRejected means the counter was already at its limit; nothing changed.
	OutcomeRejected ConsumptionOutcome = "rejected"
	// OutcomeSkipped means there was no current subscription or usage row to charge.
	OutcomeSkipped ConsumptionOutcome = "skipped"
	// OutcomeDuplicate means the reference had already been settled earlier.
	OutcomeDuplicate ConsumptionOutcome = "duplicate"
)

// UsageCharge is one ledger row. Reference is unique, so replaying a charge is safe.
type UsageCharge struct {
	Id             uuid.UUID
	Reference      string
	UserId         uuid.UUID
	SubscriptionId *uuid.UUID
	Action         MeteredAction
	Status         ChargeStatus
	Attempts       int
	LastError      string
	Details        map[string]interface{}
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ConsumptionRequest describes a single unit of usage to be recorded.
type ConsumptionRequest struct {
	UserId         uuid.UUID
	SubscriptionId *uuid.UUID // nil = resolve the user's current subscription
	Action         MeteredAction
	Reference      string
}

// StatusFor maps a settled outcome to the ledger status it is stored as.
func StatusFor(o ConsumptionOutcome) ChargeStatus {
	switch o {
	case OutcomeCharged:
		return ChargeStatusCharged
	case OutcomeRejected:
		return ChargeStatusRejected
	case OutcomeSkipped:
		return ChargeStatusSkipped
	}
	return ChargeStatusPending
}
