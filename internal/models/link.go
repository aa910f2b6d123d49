package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Link struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID  *uuid.UUID `gorm:"type:uuid;index"`
	FullURL string     `gorm:"type:text;not null"`
	// ShortURL is the alias; the unique index is the authoritative arbiter
	// for concurrent creations with the same slug.
	ShortURL    string `gorm:"type:text;unique;not null"`
	Clicks      int64  `gorm:"not null;default:0"`
	QRCode      string `gorm:"type:text"`
	QRGenerated bool   `gorm:"not null;default:false"`
	ExpiresAt   *time.Time
	ActiveFrom  time.Time `gorm:"not null"`
	// IsExpired is a cached derived fact, set lazily once the link is
	// observed past ExpiresAt. ExpiresAt stays authoritative.
	IsExpired      bool      `gorm:"not null;default:false"`
	LinkPassword   *string   `gorm:"type:text"`
	IsLinkPassword bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`

	Visits []Visit `gorm:"foreignKey:LinkID"`
}

func (m *Link) BeforeCreate(tx *gorm.DB) (err error) {
	m.ID = uuid.New()
	if m.ActiveFrom.IsZero() {
		m.ActiveFrom = time.Now()
	}
	return
}
