package discount

import (
	"context"

	"salespring-checkout/internal/domain"
)

type Repository interface {
	// GetByCode looks up a catalog entry by its normalized (lower-cased)
	// code. Missing codes return domain.ErrNotFound.
	GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error)
}
