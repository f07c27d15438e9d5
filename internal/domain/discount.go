package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType enumerates the supported discount strategies.
type DiscountType string

const (
	// DiscountPercentage takes a percentage off the selected subtotal.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed takes a fixed amount off, capped at the subtotal.
	DiscountFixed DiscountType = "fixed"
)

// DiscountCode is an immutable catalog entry. Codes are matched
// case-insensitively and stored lower-cased.
type DiscountCode struct {
	Code           string          `json:"code"`
	Type           DiscountType    `json:"type"`
	Value          decimal.Decimal `json:"value"`
	MinOrderAmount decimal.Decimal `json:"minOrderAmount"`
	Description    string          `json:"description,omitempty"`
	ExpiresAt      *time.Time      `json:"expiresAt,omitempty"`
}

// Expired reports whether the code's expiry, if any, lies before now.
func (d DiscountCode) Expired(now time.Time) bool {
	return d.ExpiresAt != nil && d.ExpiresAt.Before(now)
}

// AppliedDiscount echoes a successfully applied code back to the caller.
type AppliedDiscount struct {
	Code           string          `json:"code"`
	Description    string          `json:"description,omitempty"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}
