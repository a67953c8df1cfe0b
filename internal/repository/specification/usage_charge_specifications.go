package specification

import (
	"time"

	"gorm.io/gorm"
)

type ByChargeStatus struct {
	Status string
}

func (s ByChargeStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type UpdatedBefore struct {
	Time time.Time
}

func (s UpdatedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("updated_at < ?", s.Time)
}

type ByReference struct {
	Reference string
}

func (s ByReference) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("reference = ?", s.Reference)
}
