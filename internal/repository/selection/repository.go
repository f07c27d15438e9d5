package selection

import (
	"context"

	"salespring-checkout/internal/domain"
)

type Repository interface {
	// Load returns the persisted selection map for a cart. A cart without a
	// stored map gets an empty one, not ErrNotFound.
	Load(ctx context.Context, cartID string) (domain.SelectionMap, error)
	// Save overwrites the whole map for the cart.
	Save(ctx context.Context, cartID string, m domain.SelectionMap) error
}
