package rewards

import (
	"context"

	"salespring-checkout/internal/domain"
)

type Repository interface {
	// GetAccount returns the cart's points account, creating a zero-balance
	// row on first access.
	GetAccount(ctx context.Context, cartID string) (*domain.RewardsAccount, error)
	// Redeem appends a redeemed transaction and moves the balances in one
	// database transaction. Amounts beyond the available balance return
	// domain.ErrInsufficientPoints; a duplicate order id returns
	// domain.ErrOrderAlreadyCompleted.
	Redeem(ctx context.Context, cartID string, amount int64, description, orderID string) (*domain.RewardsAccount, error)
	// Earn appends an earned transaction and moves the balances in one
	// database transaction. A duplicate order id returns
	// domain.ErrOrderAlreadyCompleted.
	Earn(ctx context.Context, cartID string, amount int64, description, orderID string) (*domain.RewardsAccount, error)
	// ListTransactions returns the newest entries of the append-only log.
	ListTransactions(ctx context.Context, cartID string, limit int) ([]domain.PointsTransaction, error)
}
