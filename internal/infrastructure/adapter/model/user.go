package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents the database model for users
type User struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	PrimaryWalletAddress string    `gorm:"uniqueIndex;not null;size:56"`
	CreatedAt            time.Time `gorm:"not null"`
	UpdatedAt            time.Time `gorm:"not null"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// Wallet represents the database model for linked wallets
type Wallet struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Address   string    `gorm:"uniqueIndex;not null;size:56"`
	IsPrimary bool      `gorm:"not null;default:false"`
	Label     string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for Wallet
func (Wallet) TableName() string {
	return "wallets"
}
