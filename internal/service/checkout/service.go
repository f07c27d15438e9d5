package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"salespring-checkout/internal/domain"
)

// Service combines selected line items, an optional discount code and an
// optional point redemption into one consistent order total, and applies the
// ledger mutations when an order completes.
type Service struct {
	items      itemSource
	selections selectionStore
	codes      codeValidator
	points     pointsLedger
	shipping   ShippingRule
}

type itemSource interface {
	ListByCart(ctx context.Context, cartID string) ([]domain.CartItem, error)
}

type selectionStore interface {
	Hydrate(ctx context.Context, cartID string, items []domain.CartItem) (domain.SelectionMap, error)
}

type codeValidator interface {
	Validate(ctx context.Context, code string) (*domain.DiscountCode, error)
	ApplyTo(def *domain.DiscountCode, subtotal decimal.Decimal) (decimal.Decimal, error)
}

type pointsLedger interface {
	PointsEarned(subtotal decimal.Decimal) int64
	MaxRedeemable(available int64, subtotal decimal.Decimal) int64
	PointsDiscount(points int64) decimal.Decimal
	Account(ctx context.Context, cartID string) (*domain.RewardsAccount, error)
	Redeem(ctx context.Context, cartID string, points int64, description, orderID string) (*domain.RewardsAccount, error)
	Earn(ctx context.Context, cartID string, points int64, description, orderID string) (*domain.RewardsAccount, error)
}

func New(items itemSource, selections selectionStore, codes codeValidator, points pointsLedger, shipping ShippingRule) *Service {
	return &Service{
		items:      items,
		selections: selections,
		codes:      codes,
		points:     points,
		shipping:   shipping,
	}
}

// Quote is the computed read model for one checkout state.
type Quote struct {
	Items   []domain.CartItem
	Totals  domain.CheckoutTotals
	Applied *domain.AppliedDiscount
	Account *domain.RewardsAccount
}

// Completion is the result of a completed order.
type Completion struct {
	OrderID        string
	Totals         domain.CheckoutTotals
	Account        *domain.RewardsAccount
	PointsRedeemed int64
	PointsEarned   int64
}

// ComputeTotals derives the totals for the given inputs. Pure and
// idempotent; the step order is load-bearing because it affects rounding
// and the redeemable ceiling.
func (s *Service) ComputeTotals(items []domain.CartItem, def *domain.DiscountCode, pointsToRedeem, available int64) (domain.CheckoutTotals, error) {
	subtotal := decimal.Zero
	for _, item := range items {
		if item.Selected {
			subtotal = subtotal.Add(item.LineTotal())
		}
	}

	discountAmount := decimal.Zero
	if def != nil {
		var err error
		discountAmount, err = s.codes.ApplyTo(def, subtotal)
		if err != nil {
			return domain.CheckoutTotals{}, err
		}
	}

	discountedTotal := subtotal.Sub(discountAmount)
	if discountedTotal.IsNegative() {
		discountedTotal = decimal.Zero
	}

	// Reclamp on every computation: removing a code shrinks the ceiling.
	if pointsToRedeem < 0 {
		pointsToRedeem = 0
	}
	if ceiling := s.points.MaxRedeemable(available, discountedTotal); pointsToRedeem > ceiling {
		pointsToRedeem = ceiling
	}
	pointsDiscount := s.points.PointsDiscount(pointsToRedeem)

	// Shipping is charged on the pre-discount subtotal.
	shippingCost := s.shipping.Cost(subtotal)

	total := discountedTotal.Sub(pointsDiscount).Add(shippingCost)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return domain.CheckoutTotals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		PointsDiscount: pointsDiscount,
		ShippingCost:   shippingCost,
		Total:          total,
		PointsToRedeem: pointsToRedeem,
		// Earned on the discounted pre-points total: redemption is a payment
		// method, not a price reduction.
		PointsToEarn: s.points.PointsEarned(discountedTotal),
	}, nil
}

// BuildQuote assembles the checkout state for a cart: line items with
// selection merged in, the validated discount code if any, the points
// account, and the derived totals.
func (s *Service) BuildQuote(ctx context.Context, cartID, code string, pointsToRedeem int64) (*Quote, error) {
	items, err := s.items.ListByCart(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	m, err := s.selections.Hydrate(ctx, cartID, items)
	if err != nil {
		return nil, fmt.Errorf("hydrate selection: %w", err)
	}
	for i := range items {
		items[i].Selected = m[items[i].ID]
	}

	account, err := s.points.Account(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("load rewards account: %w", err)
	}

	var def *domain.DiscountCode
	if code != "" {
		def, err = s.codes.Validate(ctx, code)
		if err != nil {
			return nil, err
		}
	}

	totals, err := s.ComputeTotals(items, def, pointsToRedeem, account.Available)
	if err != nil {
		return nil, err
	}

	quote := &Quote{Items: items, Totals: totals, Account: account}
	if def != nil {
		quote.Applied = &domain.AppliedDiscount{
			Code:           def.Code,
			Description:    def.Description,
			DiscountAmount: totals.DiscountAmount,
		}
	}
	return quote, nil
}

// CompleteOrder re-derives the totals and applies the ledger mutations,
// redeem then earn, under one order id. Passing the same orderID again is
// safe: each half commits at most once, so a torn-down completion can be
// retried without double-earning.
//
// quotedPointsToEarn is the earn value last shown to the user; it is
// honored only up to the re-derived earn for the same inputs, so a client
// cannot grant itself more points than the order yields.
func (s *Service) CompleteOrder(ctx context.Context, cartID, code string, pointsToRedeem, quotedPointsToEarn int64, orderID string) (*Completion, error) {
	quote, err := s.BuildQuote(ctx, cartID, code, pointsToRedeem)
	if err != nil {
		return nil, err
	}

	if orderID == "" {
		orderID = uuid.NewString()
	}

	pointsToEarn := quote.Totals.PointsToEarn
	if quotedPointsToEarn > 0 && quotedPointsToEarn < pointsToEarn {
		pointsToEarn = quotedPointsToEarn
	}

	account := quote.Account
	if redeem := quote.Totals.PointsToRedeem; redeem > 0 {
		updated, err := s.points.Redeem(ctx, cartID, redeem, fmt.Sprintf("Redeemed on order %s", orderID), orderID)
		switch {
		case errors.Is(err, domain.ErrOrderAlreadyCompleted):
			// Redemption already committed for this order id; fall through
			// so a retried completion can still grant the earn half.
		case err != nil:
			return nil, fmt.Errorf("redeem points: %w", err)
		default:
			account = updated
		}
	}

	if pointsToEarn > 0 {
		updated, err := s.points.Earn(ctx, cartID, pointsToEarn, fmt.Sprintf("Earned on order %s", orderID), orderID)
		if err != nil {
			return nil, fmt.Errorf("earn points: %w", err)
		}
		account = updated
	}

	return &Completion{
		OrderID:        orderID,
		Totals:         quote.Totals,
		Account:        account,
		PointsRedeemed: quote.Totals.PointsToRedeem,
		PointsEarned:   pointsToEarn,
	}, nil
}
