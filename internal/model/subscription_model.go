package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SubscriptionPackage struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubscriptionType string    `gorm:"type:varchar(255);not null"`
	SubDurType       string    `gorm:"type:varchar(50);not null;default:'monthly'"`
	// Limits (-1 = unlimited)
	UploadVideoLimit int `gorm:"not null;default:0"`
	GenerateClips    int `gorm:"not null;default:0"`
	TotalMin         int `gorm:"not null;default:0"`
	// Display only
	Features  datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	CreatedAt time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt time.Time                   `gorm:"autoUpdateTime"`
}

func (SubscriptionPackage) TableName() string {
	return "subscription_packages"
}

type Subscription struct {
	Id                     uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId                 uuid.UUID  `gorm:"type:uuid;not null;index:idx_subscriptions_user_status,priority:1"`
	SubscriptionPackageId  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status                 bool       `gorm:"not null;default:false;index:idx_subscriptions_user_status,priority:2"`
	CancelAt               *time.Time `gorm:"column:cancel_at"`
	ProviderSubscriptionId *string    `gorm:"type:varchar(255)"`
	CreatedAt              time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt              time.Time  `gorm:"autoUpdateTime"`

	// Relations
	SubscriptionPackage *SubscriptionPackage `gorm:"foreignKey:SubscriptionPackageId"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

type SubscriptionUsage struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubscriptionId uuid.UUID `gorm:"column:subscriptions_id;type:uuid;not null;uniqueIndex:idx_usage_subscription_created,priority:1"`
	UploadCount    int       `gorm:"not null;default:0;check:chk_usage_upload_count,upload_count >= 0"`
	ClipCount      int       `gorm:"not null;default:0;check:chk_usage_clip_count,clip_count >= 0"`
	Min            float64   `gorm:"type:numeric(12,2);not null;default:0"`
	CreatedAt      time.Time `gorm:"autoCreateTime;uniqueIndex:idx_usage_subscription_created,priority:2"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (SubscriptionUsage) TableName() string {
	return "subscription_usages"
}
