package entity

import (
	"time"

	"github.com/google/uuid"
)

type Video struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	Link          string
	ConVideoSrc   *string
	ConVideoTitle *string
	ConVideoId    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (v *Video) OwnedBy(userId uuid.UUID) bool {
	return v.UserId == userId
}
