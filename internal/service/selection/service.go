package selection

import (
	"context"

	"salespring-checkout/internal/domain"
	selectionrepo "salespring-checkout/internal/repository/selection"
)

// Service tracks which cart line items are included in checkout. The map is
// persisted whole on every mutation so a reload keeps the user's intent.
type Service struct {
	repo store
}

type store interface {
	Load(ctx context.Context, cartID string) (domain.SelectionMap, error)
	Save(ctx context.Context, cartID string, m domain.SelectionMap) error
}

func New(repo selectionrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Toggle sets the flag for one item and persists the whole map.
func (s *Service) Toggle(ctx context.Context, cartID, itemID string, selected bool) error {
	m, err := s.repo.Load(ctx, cartID)
	if err != nil {
		return err
	}
	m[itemID] = selected
	return s.repo.Save(ctx, cartID, m)
}

// SelectAll sets the flag uniformly for every current line item and persists.
func (s *Service) SelectAll(ctx context.Context, cartID string, items []domain.CartItem, selected bool) error {
	m := make(domain.SelectionMap, len(items))
	for _, item := range items {
		m[item.ID] = selected
	}
	return s.repo.Save(ctx, cartID, m)
}

// Hydrate reconciles the persisted map with the cart's current line items:
// items without an entry default to selected, stale entries are dropped.
// The cleaned map is persisted back when it differs from what was stored.
func (s *Service) Hydrate(ctx context.Context, cartID string, items []domain.CartItem) (domain.SelectionMap, error) {
	stored, err := s.repo.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	m := make(domain.SelectionMap, len(items))
	for _, item := range items {
		if selected, ok := stored[item.ID]; ok {
			m[item.ID] = selected
		} else {
			m[item.ID] = true
		}
	}

	if !equal(stored, m) {
		if err := s.repo.Save(ctx, cartID, m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Merge returns a copy of items with Selected flags applied from the map.
func Merge(items []domain.CartItem, m domain.SelectionMap) []domain.CartItem {
	out := make([]domain.CartItem, len(items))
	for i, item := range items {
		item.Selected = m[item.ID]
		out[i] = item
	}
	return out
}

func equal(a, b domain.SelectionMap) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
