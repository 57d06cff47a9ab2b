package model

import (
	"time"

	"github.com/google/uuid"
)

// Challenge represents the database model for authentication challenges.
// The single-use guarantee lives in the conditional UPDATE on used_at, so the
// row carries no version column.
type Challenge struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	WalletAddress string     `gorm:"not null;size:56;uniqueIndex:idx_challenge_identity"`
	Nonce         string     `gorm:"not null;size:128;uniqueIndex:idx_challenge_identity"`
	Purpose       string     `gorm:"not null;size:32;uniqueIndex:idx_challenge_identity"`
	UserID        *uuid.UUID `gorm:"type:uuid"`
	Message       string     `gorm:"type:text;not null"`
	ExpiresAt     time.Time  `gorm:"not null;index"`
	UsedAt        *time.Time
	CreatedAt     time.Time `gorm:"not null"`
}

// TableName specifies the table name for Challenge
func (Challenge) TableName() string {
	return "challenges"
}
