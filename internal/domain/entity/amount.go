package entity

import (
	"fmt"

	"github.com/shopspring/decimal"

	errs "github.com/stellovault/backend/internal/domain/error"
)

// MaxDecimalPlaces is the maximum scale accepted for monetary amounts,
// matching the ledger's seven-decimal asset precision
const MaxDecimalPlaces = 7

// MinCollateralRatio is the minimum collateral / principal ratio required to
// issue a loan
var MinCollateralRatio = decimal.NewFromFloat(1.5)

// ParseAmount parses and validates a positive monetary amount. All amount
// arithmetic in the domain goes through decimal.Decimal; floats are never used.
func ParseAmount(amount string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, err.Error())
	}
	return ValidateAmount(d)
}

// ValidateAmount checks that an amount is strictly positive and within the
// supported precision
func ValidateAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: must be greater than zero", errs.ErrInvalidAmount)
	}
	if amount.Exponent() < -MaxDecimalPlaces {
		return decimal.Zero, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
	}
	return amount, nil
}

// MeetsCollateralRatio reports whether collateral / principal is at least the
// minimum ratio. Division is exact within the configured precision; no
// floating point is involved.
func MeetsCollateralRatio(principal, collateral decimal.Decimal) bool {
	if !principal.IsPositive() {
		return false
	}
	// collateral / principal >= ratio  <=>  collateral >= principal * ratio,
	// which avoids division rounding entirely
	return collateral.GreaterThanOrEqual(principal.Mul(MinCollateralRatio))
}
