package checkout

import "github.com/shopspring/decimal"

// ShippingRule charges a flat fee below the free-shipping threshold.
// It is evaluated against the pre-discount subtotal: shipping is a
// fulfillment cost, not a promotional one.
type ShippingRule struct {
	FlatFee       decimal.Decimal
	FreeThreshold decimal.Decimal
}

// Cost returns the shipping charge for the given subtotal. An empty
// selection ships nothing and costs nothing.
func (r ShippingRule) Cost(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}
	if subtotal.GreaterThanOrEqual(r.FreeThreshold) {
		return decimal.Zero
	}
	return r.FlatFee
}
