package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrCodeNotFound covers both unknown and expired discount codes.
	ErrCodeNotFound = errors.New("discount code not found")
	// ErrBelowMinimumOrder means the selected subtotal does not reach the
	// code's minimum order amount.
	ErrBelowMinimumOrder = errors.New("subtotal below minimum order amount")
	// ErrInsufficientPoints means a redemption exceeds the available balance.
	ErrInsufficientPoints = errors.New("insufficient reward points")
	// ErrOrderAlreadyCompleted means a ledger entry for this order id exists.
	ErrOrderAlreadyCompleted = errors.New("order already completed")
)

// MinimumOrderError carries the threshold that was not met. It matches
// ErrBelowMinimumOrder under errors.Is.
type MinimumOrderError struct {
	MinOrderAmount decimal.Decimal
}

func (e *MinimumOrderError) Error() string {
	return fmt.Sprintf("subtotal below minimum order amount %s", e.MinOrderAmount)
}

func (e *MinimumOrderError) Is(target error) bool {
	return target == ErrBelowMinimumOrder
}
