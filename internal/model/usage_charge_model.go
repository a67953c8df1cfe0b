package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UsageCharge struct {
	Id             uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Reference      string            `gorm:"type:varchar(255);uniqueIndex;not null"`
	UserId         uuid.UUID         `gorm:"type:uuid;not null;index"`
	SubscriptionId *uuid.UUID        `gorm:"type:uuid;index"`
	Action         string            `gorm:"type:varchar(20);not null"`
	Status         string            `gorm:"type:varchar(20);not null;index"`
	Attempts       int               `gorm:"not null"`
	LastError      string            `gorm:"type:text"`
	Details        datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt      time.Time         `gorm:"autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime"`
}

func (UsageCharge) TableName() string {
	return "usage_charges"
}
