package error

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeValidation   = 4000
	CodeUnauthorized = 4010
	CodeForbidden    = 4030
	CodeNotFound     = 4040
	CodeConflict     = 4090

	// 5xxx - Server errors
	CodeInternalServer = 5000
	CodeDependency     = 5020
)

// Error classes. Every expected, user-facing failure matches exactly one of
// these through errors.Is, so handlers and tests never inspect messages.
var (
	// ErrValidation is returned for malformed or out-of-range input and for
	// illegal state transitions
	ErrValidation = errors.New("validation error")

	// ErrUnauthorized is returned for bad signatures and expired, used or
	// unknown challenges
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the requester is authenticated but not a
	// party to the resource
	ErrForbidden = errors.New("forbidden")

	// ErrConflict is returned when a duplicate resource exists or a concurrent
	// writer won elsewhere
	ErrConflict = errors.New("conflict")

	// ErrNotFound is returned when the requested resource doesn't exist
	ErrNotFound = errors.New("resource not found")

	// ErrDependency is returned when an external collaborator call fails
	ErrDependency = errors.New("dependency failure")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// Specific errors. Each belongs to a class via its Is method so that
// errors.Is(err, ErrValidation) etc. keeps working through wrapping.
var (
	// ErrInvalidAddress is returned when a wallet address is not a well-formed
	// Stellar public key
	ErrInvalidAddress = &classedError{class: ErrValidation, msg: "invalid wallet address"}

	// ErrInvalidAmount is returned when a monetary amount is malformed or not positive
	ErrInvalidAmount = &classedError{class: ErrValidation, msg: "invalid amount"}

	// ErrInvalidSignature is returned when signature verification fails
	ErrInvalidSignature = &classedError{class: ErrUnauthorized, msg: "invalid signature"}

	// ErrChallengeInvalid is returned when a challenge is unknown, expired or
	// already consumed
	ErrChallengeInvalid = &classedError{class: ErrUnauthorized, msg: "invalid or expired challenge"}

	// ErrWalletAlreadyLinked is returned when an address is already linked to a wallet
	ErrWalletAlreadyLinked = &classedError{class: ErrConflict, msg: "wallet address already linked"}

	// ErrLastWallet is returned when unlinking would leave the user with no wallets
	ErrLastWallet = &classedError{class: ErrValidation, msg: "cannot unlink the only wallet"}

	// ErrIllegalTransition is returned when an escrow status change is not in
	// the allowed-transition table
	ErrIllegalTransition = &classedError{class: ErrValidation, msg: "illegal status transition"}

	// ErrConcurrentUpdate is returned when an optimistic status update lost the
	// race against another writer
	ErrConcurrentUpdate = &classedError{class: ErrValidation, msg: "changed concurrently, retry"}

	// ErrInsufficientCollateral is returned when collateral / principal is below
	// the minimum ratio
	ErrInsufficientCollateral = &classedError{class: ErrValidation, msg: "insufficient collateral ratio"}

	// ErrLoanDefaulted is returned when a repayment is attempted on a defaulted loan
	ErrLoanDefaulted = &classedError{class: ErrValidation, msg: "loan is defaulted"}

	// ErrLoanFullyRepaid is returned when a repayment is attempted on a loan with
	// zero outstanding balance
	ErrLoanFullyRepaid = &classedError{class: ErrValidation, msg: "already fully repaid"}

	// ErrRepaymentTooLarge is returned when a repayment exceeds the outstanding balance
	ErrRepaymentTooLarge = &classedError{class: ErrValidation, msg: "repayment exceeds outstanding balance"}

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = &classedError{class: ErrNotFound, msg: "user not found"}

	// ErrWalletNotFound is returned when the wallet doesn't exist or is not
	// owned by the requesting user
	ErrWalletNotFound = &classedError{class: ErrNotFound, msg: "wallet not found"}

	// ErrEscrowNotFound is returned when the requested escrow doesn't exist
	ErrEscrowNotFound = &classedError{class: ErrNotFound, msg: "escrow not found"}

	// ErrLoanNotFound is returned when the requested loan doesn't exist
	ErrLoanNotFound = &classedError{class: ErrNotFound, msg: "loan not found"}

	// ErrDatabaseConnection is returned when there's a problem talking to the database
	ErrDatabaseConnection = &classedError{class: ErrInternalServer, msg: "database connection error"}
)

// classedError is a sentinel error that also matches its class sentinel
type classedError struct {
	class error
	msg   string
}

// Error implements the error interface
func (e *classedError) Error() string {
	return e.msg
}

// Is matches both the specific sentinel and its class
func (e *classedError) Is(target error) bool {
	return target == error(e) || target == e.class
}

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrDependency):
		return CodeDependency
	default:
		return CodeInternalServer
	}
}

// HTTPStatus maps an error to the HTTP status the API edge should return
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrDependency):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// TransitionError carries the details of a rejected escrow status change
type TransitionError struct {
	EscrowID string
	From     string
	To       string
}

// Error implements the error interface for TransitionError
func (e *TransitionError) Error() string {
	return fmt.Sprintf("escrow %s: transition %s -> %s is not allowed", e.EscrowID, e.From, e.To)
}

// Is checks if the target error is an ErrIllegalTransition or its class
func (e *TransitionError) Is(target error) bool {
	return target == error(ErrIllegalTransition) || target == ErrValidation
}

// LogFields returns a map of fields for structured logging
func (e *TransitionError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "illegal_transition",
		"escrow_id":  e.EscrowID,
		"from":       e.From,
		"to":         e.To,
		"error_code": CodeValidation,
	}
}

// NewTransitionError creates a detailed illegal-transition error
func NewTransitionError(escrowID, from, to string) error {
	return &TransitionError{EscrowID: escrowID, From: from, To: to}
}

// RepaymentError carries the details of a rejected loan repayment
type RepaymentError struct {
	LoanID      string
	Amount      string
	Outstanding string
	Err         error
}

// Error implements the error interface for RepaymentError
func (e *RepaymentError) Error() string {
	return fmt.Sprintf("repayment of %s rejected for loan %s (outstanding: %s): %v",
		e.Amount, e.LoanID, e.Outstanding, e.Err)
}

// Unwrap returns the underlying error
func (e *RepaymentError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *RepaymentError) LogFields() map[string]any {
	return map[string]any{
		"error_type":  "repayment_error",
		"loan_id":     e.LoanID,
		"amount":      e.Amount,
		"outstanding": e.Outstanding,
		"error":       e.Err.Error(),
		"error_code":  ErrorCode(e.Err),
	}
}

// NewRepaymentError creates a detailed repayment error
func NewRepaymentError(loanID, amount, outstanding string, err error) error {
	return &RepaymentError{LoanID: loanID, Amount: amount, Outstanding: outstanding, Err: err}
}

// IsValidationError checks if the error is any validation-class error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnauthorizedError checks if the error is any unauthorized-class error
func IsUnauthorizedError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflictError checks if the error is any conflict-class error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict)
}
