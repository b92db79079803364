package budget

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Precondition failures. None of them leave partial state behind.
var (
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrGoalNotFound          = errors.New("goal not found")
	ErrGoalNotFunded         = errors.New("goal has not been fully funded yet")
	ErrGoalPurchased         = errors.New("goal no longer accepts deposits")
	ErrAccountNotFound       = errors.New("account not found")
	ErrProjectionUnreachable = errors.New("savings goals cannot be reached with the current income")
)

// AmountError carries the numbers behind a rejected amount so callers can
// build a message like "requested $50.00, available $20.00".
type AmountError struct {
	Err       error
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("%v: requested $%s, available $%s",
		e.Err, e.Requested.StringFixed(2), e.Available.StringFixed(2))
}

func (e *AmountError) Unwrap() error { return e.Err }

func amountErr(err error, requested, available decimal.Decimal) error {
	return &AmountError{Err: err, Requested: requested, Available: available}
}
