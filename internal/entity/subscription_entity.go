package entity

import (
	"time"

	"github.com/google/uuid"
)

type MeteredAction string
type DurationType string

const (
	ActionUpload MeteredAction = "upload"
	ActionClip   MeteredAction = "clip"

	DurationMonthly DurationType = "monthly"
	DurationYearly  DurationType = "yearly"
)

// Unlimited marks a package limit that is never enforced.
const Unlimited = -1

func (a MeteredAction) Valid() bool {
	return a == ActionUpload || a == ActionClip
}

type SubscriptionPackage struct {
	Id               uuid.UUID
	SubscriptionType string // Display name ("Starter", "Pro", ...)
	SubDurType       DurationType
	UploadVideoLimit int // -1 = unlimited
	GenerateClips    int // -1 = unlimited
	TotalMin         int // -1 = unlimited
	Features         []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LimitFor returns the package limit that gates the given action.
func (p *SubscriptionPackage) LimitFor(action MeteredAction) int {
	switch action {
	case ActionUpload:
		return p.UploadVideoLimit
	case ActionClip:
		return p.GenerateClips
	}
	return 0
}

// PeriodEnd returns the end of a billing period that started at start.
func (p *SubscriptionPackage) PeriodEnd(start time.Time) time.Time {
	if p.SubDurType == DurationYearly {
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 1, 0)
}

type Subscription struct {
	Id                     uuid.UUID
	UserId                 uuid.UUID
	SubscriptionPackageId  uuid.UUID
	Status                 bool
	CancelAt               *time.Time
	ProviderSubscriptionId *string
	CreatedAt              time.Time
	UpdatedAt              time.Time

	// Relations
	Package *SubscriptionPackage
}

// IsCurrent reports whether the subscription still grants access at now.
func (s *Subscription) IsCurrent(now time.Time) bool {
	if !s.Status {
		return false
	}
	return s.CancelAt == nil || s.CancelAt.After(now)
}

type SubscriptionUsage struct {
	Id             uuid.UUID
	SubscriptionId uuid.UUID
	UploadCount    int
	ClipCount      int
	Min            float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EntitlementDecision is the result of checking a user's plan against a requested action.
type EntitlementDecision struct {
	Allowed        bool
	Action         MeteredAction
	BlockedBy      MeteredAction // Counter that caused the denial (coupled policy may differ from Action)
	Limit          int
	Used           int
	SubscriptionId uuid.UUID
	UsageId        uuid.UUID
}
