package model

import (
	"time"

	"github.com/google/uuid"
)

type Video struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        uuid.UUID `gorm:"type:uuid;not null;index"`
	Link          string    `gorm:"type:text;not null"`
	ConVideoSrc   *string   `gorm:"type:text"`
	ConVideoTitle *string   `gorm:"type:text"`
	ConVideoId    *string   `gorm:"type:varchar(255);index"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Video) TableName() string {
	return "videos"
}
