package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:text;not null"`
	Email        string    `gorm:"type:text;unique;not null"`
	PasswordHash *string   `gorm:"type:text"`
	GoogleID     *string   `gorm:"type:text;uniqueIndex:idx_users_google_id,where:google_id IS NOT NULL"`
	Avatar       string    `gorm:"type:text"`
	Provider     string    `gorm:"type:text;not null;default:local"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (m *User) BeforeCreate(tx *gorm.DB) (err error) {
	m.ID = uuid.New()
	return
}
