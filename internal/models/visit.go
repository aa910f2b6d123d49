package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeviceType string

const (
	DeviceMobile  DeviceType = "mobile"
	DeviceDesktop DeviceType = "desktop"
)

// Visit is one recorded successful resolution. Rows are append-only.
type Visit struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	LinkID uuid.UUID `gorm:"type:uuid;not null;index"`
	Link   Link      `gorm:"foreignKey:LinkID"`

	IP         *string    `gorm:"type:text"`
	DeviceType DeviceType `gorm:"type:text;not null"`
	CreatedAt  time.Time  `gorm:"autoCreateTime"`
}

func (m *Visit) BeforeCreate(tx *gorm.DB) (err error) {
	m.ID = uuid.New()
	return
}
