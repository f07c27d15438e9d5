package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is a line item in the authoritative cart. Selected is a view-level
// flag merged in from the persisted selection map at read time.
type CartItem struct {
	ID          string          `json:"id"`
	CartID      string          `json:"-"`
	ProductID   string          `json:"productId"`
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	MaxQuantity int             `json:"maxQuantity"`
	Selected    bool            `json:"selected"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// LineTotal is unit price times quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ClampQuantity keeps a requested quantity inside [1, max]. A non-positive max
// means the item carries no stock ceiling and only the lower bound applies.
func ClampQuantity(quantity, max int) int {
	if quantity < 1 {
		return 1
	}
	if max > 0 && quantity > max {
		return max
	}
	return quantity
}

// SelectionMap maps a cart item id to its selected flag.
type SelectionMap map[string]bool
