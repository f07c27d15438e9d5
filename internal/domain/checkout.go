package domain

import "github.com/shopspring/decimal"

// CheckoutTotals is the derived read model for one checkout computation.
// It is recomputed on every input change and never persisted.
type CheckoutTotals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	PointsDiscount decimal.Decimal `json:"pointsDiscountAmount"`
	ShippingCost   decimal.Decimal `json:"shippingCost"`
	Total          decimal.Decimal `json:"total"`
	PointsToRedeem int64           `json:"pointsToRedeem"`
	PointsToEarn   int64           `json:"pointsToEarn"`
}
