package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"salespring-checkout/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListByCart(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	const q = `
SELECT id::text, cart_id, product_id, name, unit_price::text, quantity, max_quantity, created_at
FROM cart_items
WHERE cart_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *postgresRepo) UpdateQuantity(ctx context.Context, cartID, itemID string, quantity int) (*domain.CartItem, error) {
	// The clamp mirrors domain.ClampQuantity so a direct write can never
	// violate the [1, max_quantity] invariant.
	const q = `
UPDATE cart_items
SET quantity = GREATEST(1, CASE WHEN max_quantity > 0 THEN LEAST($3, max_quantity) ELSE $3 END)
WHERE cart_id = $1 AND id = $2
RETURNING id::text, cart_id, product_id, name, unit_price::text, quantity, max_quantity, created_at
`
	row := r.pool.QueryRow(ctx, q, cartID, itemID, quantity)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func scanItem(row pgx.Row) (domain.CartItem, error) {
	var item domain.CartItem
	var unitPrice string
	if err := row.Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Name,
		&unitPrice,
		&item.Quantity,
		&item.MaxQuantity,
		&item.CreatedAt,
	); err != nil {
		return domain.CartItem{}, err
	}
	price, err := decimal.NewFromString(unitPrice)
	if err != nil {
		return domain.CartItem{}, err
	}
	item.UnitPrice = price
	return item, nil
}
