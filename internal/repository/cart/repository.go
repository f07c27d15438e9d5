package cart

import (
	"context"

	"salespring-checkout/internal/domain"
)

type Repository interface {
	// ListByCart returns the cart's line items ordered by creation time.
	// Selected flags are left false; the selection layer merges them in.
	ListByCart(ctx context.Context, cartID string) ([]domain.CartItem, error)
	// UpdateQuantity sets a line item's quantity, clamped to [1, max_quantity].
	UpdateQuantity(ctx context.Context, cartID, itemID string, quantity int) (*domain.CartItem, error)
}
