package discount

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"salespring-checkout/internal/domain"
	discountrepo "salespring-checkout/internal/repository/discount"
)

var oneHundred = decimal.NewFromInt(100)

// Service validates submitted discount codes against the catalog and
// computes the discount amount for a given selected subtotal.
type Service struct {
	repo catalog
	now  func() time.Time
}

type catalog interface {
	GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error)
}

func New(repo discountrepo.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Validate normalizes the submitted code and looks it up. Unknown and
// expired codes are indistinguishable: both return domain.ErrCodeNotFound.
func (s *Service) Validate(ctx context.Context, code string) (*domain.DiscountCode, error) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if normalized == "" {
		return nil, domain.ErrCodeNotFound
	}

	def, err := s.repo.GetByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCodeNotFound
		}
		return nil, err
	}
	if def.Expired(s.now().UTC()) {
		return nil, domain.ErrCodeNotFound
	}
	return def, nil
}

// ApplyTo computes the discount a validated code yields against the selected
// subtotal. Percentage values round half-up to currency precision; fixed
// values never exceed the subtotal.
func (s *Service) ApplyTo(def *domain.DiscountCode, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if subtotal.LessThan(def.MinOrderAmount) {
		return decimal.Zero, &domain.MinimumOrderError{MinOrderAmount: def.MinOrderAmount}
	}

	switch def.Type {
	case domain.DiscountPercentage:
		return subtotal.Mul(def.Value).Div(oneHundred).Round(2), nil
	case domain.DiscountFixed:
		if def.Value.GreaterThan(subtotal) {
			return subtotal, nil
		}
		if def.Value.IsNegative() {
			return decimal.Zero, nil
		}
		return def.Value, nil
	default:
		return decimal.Zero, domain.ErrCodeNotFound
	}
}
