package cart

import (
	"context"
	"strings"

	"salespring-checkout/internal/domain"
	cartrepo "salespring-checkout/internal/repository/cart"
)

// Service reads the authoritative cart snapshot and applies quantity
// mutations. Out-of-range quantities are clamped, never rejected.
type Service struct {
	repo cartrepo.Repository
}

func New(repo cartrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Items(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, domain.ErrNotFound
	}
	return s.repo.ListByCart(ctx, cartID)
}

// UpdateQuantity clamps the requested quantity into [1, maxQuantity] before
// writing; the repository enforces the same bound in SQL.
func (s *Service) UpdateQuantity(ctx context.Context, cartID, itemID string, quantity int) (*domain.CartItem, error) {
	if strings.TrimSpace(itemID) == "" {
		return nil, domain.ErrNotFound
	}
	return s.repo.UpdateQuantity(ctx, cartID, itemID, quantity)
}
