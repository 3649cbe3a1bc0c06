package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base is the base model for mutable entities.
// ID is a UUID string so links and API payloads never expose row counts.
type Base struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = NewID()
	}
	return nil
}

// NewID returns a fresh primary key value.
func NewID() string { return uuid.New().String() }
