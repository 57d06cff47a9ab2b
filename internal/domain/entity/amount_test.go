package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/stellovault/backend/internal/domain/error"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "integer", input: "100"},
		{name: "seven decimal places", input: "0.0000001"},
		{name: "eight decimal places", input: "0.00000001", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-5", wantErr: true},
		{name: "not a number", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, errs.ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.IsPositive())
		})
	}
}

func TestMeetsCollateralRatio(t *testing.T) {
	tests := []struct {
		name       string
		principal  string
		collateral string
		want       bool
	}{
		{name: "exactly 1.5x", principal: "300", collateral: "450", want: true},
		{name: "just below 1.5x", principal: "300", collateral: "449.9999999", want: false},
		{name: "well above", principal: "100", collateral: "200", want: true},
		{name: "equal amounts", principal: "100", collateral: "100", want: false},
		// 0.2 * 1.5 = 0.3 is exact in decimal but not in binary floating point
		{name: "no float rounding", principal: "0.2", collateral: "0.3", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal := decimal.RequireFromString(tt.principal)
			collateral := decimal.RequireFromString(tt.collateral)
			assert.Equal(t, tt.want, MeetsCollateralRatio(principal, collateral))
		})
	}
}
