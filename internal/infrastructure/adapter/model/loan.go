package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Loan represents the database model for loans
type Loan struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BorrowerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	LenderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount            decimal.Decimal `gorm:"type:numeric(30,7);not null"`
	CollateralAmt     decimal.Decimal `gorm:"type:numeric(30,7);not null"`
	AssetCode         string          `gorm:"not null;size:12"`
	Status            string          `gorm:"not null;size:16;index"`
	EscrowAddress     string          `gorm:"size:56"`
	InvocationPayload string          `gorm:"type:text"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`

	Borrower   User        `gorm:"foreignKey:BorrowerID;references:ID"`
	Lender     User        `gorm:"foreignKey:LenderID;references:ID"`
	Repayments []Repayment `gorm:"foreignKey:LoanID;references:ID"`
}

// TableName specifies the table name for Loan
func (Loan) TableName() string {
	return "loans"
}

// Repayment represents the database model for loan repayments. Rows are
// append-only.
type Repayment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	LoanID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:numeric(30,7);not null"`
	PaidAt    time.Time       `gorm:"not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName specifies the table name for Repayment
func (Repayment) TableName() string {
	return "repayments"
}
