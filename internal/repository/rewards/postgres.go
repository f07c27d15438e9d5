package rewards

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"salespring-checkout/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const accountQuery = `
INSERT INTO rewards_accounts (cart_id)
VALUES ($1)
ON CONFLICT (cart_id) DO UPDATE SET cart_id = EXCLUDED.cart_id
RETURNING cart_id, available, total_earned, total_redeemed
`

func (r *postgresRepo) GetAccount(ctx context.Context, cartID string) (*domain.RewardsAccount, error) {
	var acc domain.RewardsAccount
	if err := r.pool.QueryRow(ctx, accountQuery, cartID).Scan(
		&acc.CartID,
		&acc.Available,
		&acc.TotalEarned,
		&acc.TotalRedeemed,
	); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *postgresRepo) Redeem(ctx context.Context, cartID string, amount int64, description, orderID string) (*domain.RewardsAccount, error) {
	const update = `
UPDATE rewards_accounts
SET available = available - $2,
    total_redeemed = total_redeemed + $2
WHERE cart_id = $1 AND available >= $2
RETURNING cart_id, available, total_earned, total_redeemed
`
	return r.apply(ctx, cartID, amount, description, orderID, domain.TransactionRedeemed, update, domain.ErrInsufficientPoints)
}

func (r *postgresRepo) Earn(ctx context.Context, cartID string, amount int64, description, orderID string) (*domain.RewardsAccount, error) {
	const update = `
UPDATE rewards_accounts
SET available = available + $2,
    total_earned = total_earned + $2
WHERE cart_id = $1
RETURNING cart_id, available, total_earned, total_redeemed
`
	return r.apply(ctx, cartID, amount, description, orderID, domain.TransactionEarned, update, domain.ErrNotFound)
}

// apply runs the ledger append and the counter update in one transaction so
// the account invariant holds under any partial failure.
func (r *postgresRepo) apply(ctx context.Context, cartID string, amount int64, description, orderID string, txType domain.TransactionType, update string, onMiss error) (*domain.RewardsAccount, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, accountQuery, cartID); err != nil {
		return nil, err
	}

	var orderRef *string
	if orderID != "" {
		orderRef = &orderID
	}
	if _, err := tx.Exec(ctx, `
INSERT INTO points_transactions (cart_id, amount, type, description, order_id)
VALUES ($1, $2, $3, $4, $5)
`, cartID, amount, txType, description, orderRef); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrOrderAlreadyCompleted
		}
		return nil, err
	}

	var acc domain.RewardsAccount
	if err := tx.QueryRow(ctx, update, cartID, amount).Scan(
		&acc.CartID,
		&acc.Available,
		&acc.TotalEarned,
		&acc.TotalRedeemed,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, onMiss
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *postgresRepo) ListTransactions(ctx context.Context, cartID string, limit int) ([]domain.PointsTransaction, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id::text, cart_id, amount, type, description, COALESCE(order_id, ''), created_at
FROM points_transactions
WHERE cart_id = $1
ORDER BY created_at DESC
LIMIT $2
`
	rows, err := r.pool.Query(ctx, q, cartID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PointsTransaction
	for rows.Next() {
		var txn domain.PointsTransaction
		if err := rows.Scan(
			&txn.ID,
			&txn.CartID,
			&txn.Amount,
			&txn.Type,
			&txn.Description,
			&txn.OrderID,
			&txn.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
