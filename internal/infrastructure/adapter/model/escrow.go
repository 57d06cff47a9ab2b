package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Escrow represents the database model for escrows
type Escrow struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BuyerID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	SellerID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount            decimal.Decimal `gorm:"type:numeric(30,7);not null"`
	AssetCode         string          `gorm:"not null;size:12"`
	Status            string          `gorm:"not null;size:16;index"`
	ExpiresAt         time.Time       `gorm:"not null;index"`
	ExternalTxHash    *string         `gorm:"size:64"`
	InvocationPayload string          `gorm:"type:text"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`

	Buyer  User `gorm:"foreignKey:BuyerID;references:ID"`
	Seller User `gorm:"foreignKey:SellerID;references:ID"`
}

// TableName specifies the table name for Escrow
func (Escrow) TableName() string {
	return "escrows"
}
