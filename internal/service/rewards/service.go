package rewards

import (
	"context"

	"github.com/shopspring/decimal"

	"salespring-checkout/internal/domain"
	rewardsrepo "salespring-checkout/internal/repository/rewards"
)

// Service is the reward-points ledger: it quotes earn and redemption bounds
// and applies balance mutations through the append-only transaction log.
type Service struct {
	repo       ledger
	earnRate   decimal.Decimal
	pointValue decimal.Decimal
}

type ledger interface {
	GetAccount(ctx context.Context, cartID string) (*domain.RewardsAccount, error)
	Redeem(ctx context.Context, cartID string, amount int64, description, orderID string) (*domain.RewardsAccount, error)
	Earn(ctx context.Context, cartID string, amount int64, description, orderID string) (*domain.RewardsAccount, error)
	ListTransactions(ctx context.Context, cartID string, limit int) ([]domain.PointsTransaction, error)
}

func New(repo rewardsrepo.Repository, earnRate, pointValue decimal.Decimal) *Service {
	return &Service{repo: repo, earnRate: earnRate, pointValue: pointValue}
}

// PointsEarned is the earn-rate function: floor(subtotal * earnRate).
// Monotonic in its input; never negative.
func (s *Service) PointsEarned(subtotal decimal.Decimal) int64 {
	if subtotal.IsNegative() {
		return 0
	}
	return subtotal.Mul(s.earnRate).Floor().IntPart()
}

// MaxRedeemable bounds a redemption by the available balance and by the
// number of points whose value fits in the remaining payable subtotal.
func (s *Service) MaxRedeemable(available int64, subtotal decimal.Decimal) int64 {
	if available <= 0 || !s.pointValue.IsPositive() || !subtotal.IsPositive() {
		return 0
	}
	byValue := subtotal.Div(s.pointValue).Floor().IntPart()
	if byValue < available {
		return byValue
	}
	return available
}

// PointsDiscount is the monetary value of a redemption, exact at currency
// precision.
func (s *Service) PointsDiscount(points int64) decimal.Decimal {
	if points <= 0 {
		return decimal.Zero
	}
	return s.pointValue.Mul(decimal.NewFromInt(points)).Round(2)
}

// Account returns the cart's balances, creating a zero account on first read.
func (s *Service) Account(ctx context.Context, cartID string) (*domain.RewardsAccount, error) {
	return s.repo.GetAccount(ctx, cartID)
}

// Transactions returns the newest ledger entries.
func (s *Service) Transactions(ctx context.Context, cartID string, limit int) ([]domain.PointsTransaction, error) {
	return s.repo.ListTransactions(ctx, cartID, limit)
}

// Redeem spends points. Non-positive amounts are a no-op returning the
// current account; the repository refuses to drive the balance negative.
func (s *Service) Redeem(ctx context.Context, cartID string, points int64, description, orderID string) (*domain.RewardsAccount, error) {
	if points <= 0 {
		return s.repo.GetAccount(ctx, cartID)
	}
	return s.repo.Redeem(ctx, cartID, points, description, orderID)
}

// Earn grants points. Non-positive amounts are a no-op returning the
// current account.
func (s *Service) Earn(ctx context.Context, cartID string, points int64, description, orderID string) (*domain.RewardsAccount, error) {
	if points <= 0 {
		return s.repo.GetAccount(ctx, cartID)
	}
	return s.repo.Earn(ctx, cartID, points, description, orderID)
}
