package error

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClasses(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		class      error
		code       int
		httpStatus int
	}{
		{"invalid address", ErrInvalidAddress, ErrValidation, CodeValidation, http.StatusBadRequest},
		{"invalid amount", ErrInvalidAmount, ErrValidation, CodeValidation, http.StatusBadRequest},
		{"invalid signature", ErrInvalidSignature, ErrUnauthorized, CodeUnauthorized, http.StatusUnauthorized},
		{"challenge invalid", ErrChallengeInvalid, ErrUnauthorized, CodeUnauthorized, http.StatusUnauthorized},
		{"wallet already linked", ErrWalletAlreadyLinked, ErrConflict, CodeConflict, http.StatusConflict},
		{"last wallet", ErrLastWallet, ErrValidation, CodeValidation, http.StatusBadRequest},
		{"illegal transition", ErrIllegalTransition, ErrValidation, CodeValidation, http.StatusBadRequest},
		{"concurrent update", ErrConcurrentUpdate, ErrValidation, CodeValidation, http.StatusBadRequest},
		{"insufficient collateral", ErrInsufficientCollateral, ErrValidation, CodeValidation, http.StatusBadRequest},
		{"loan fully repaid", ErrLoanFullyRepaid, ErrValidation, CodeValidation, http.StatusBadRequest},
		{"user not found", ErrUserNotFound, ErrNotFound, CodeNotFound, http.StatusNotFound},
		{"wallet not found", ErrWalletNotFound, ErrNotFound, CodeNotFound, http.StatusNotFound},
		{"escrow not found", ErrEscrowNotFound, ErrNotFound, CodeNotFound, http.StatusNotFound},
		{"forbidden", ErrForbidden, ErrForbidden, CodeForbidden, http.StatusForbidden},
		{"dependency", ErrDependency, ErrDependency, CodeDependency, http.StatusBadGateway},
		{"internal", ErrInternalServer, ErrInternalServer, CodeInternalServer, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, errors.Is(tc.err, tc.class), "error should match its class")
			assert.Equal(t, tc.code, ErrorCode(tc.err))
			assert.Equal(t, tc.httpStatus, HTTPStatus(tc.err))
		})
	}
}

func TestErrorClassesSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("linking wallet: %w", ErrWalletAlreadyLinked)

	assert.True(t, errors.Is(wrapped, ErrWalletAlreadyLinked))
	assert.True(t, errors.Is(wrapped, ErrConflict))
	assert.Equal(t, CodeConflict, ErrorCode(wrapped))
	assert.Equal(t, http.StatusConflict, HTTPStatus(wrapped))
}

func TestTransitionError(t *testing.T) {
	err := NewTransitionError("esc-1", "COMPLETED", "ACTIVE")

	assert.True(t, errors.Is(err, ErrIllegalTransition))
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "COMPLETED -> ACTIVE")

	var te *TransitionError
	assert.True(t, errors.As(err, &te))
	assert.Equal(t, "esc-1", te.LogFields()["escrow_id"])
}

func TestRepaymentError(t *testing.T) {
	err := NewRepaymentError("loan-1", "300.00", "250.00", ErrRepaymentTooLarge)

	assert.True(t, errors.Is(err, ErrRepaymentTooLarge))
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, CodeValidation, ErrorCode(err))

	var re *RepaymentError
	assert.True(t, errors.As(err, &re))
	assert.Equal(t, "250.00", re.LogFields()["outstanding"])
}

func TestUnknownErrorIsInternal(t *testing.T) {
	err := errors.New("driver: bad connection")

	assert.Equal(t, CodeInternalServer, ErrorCode(err))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
}
