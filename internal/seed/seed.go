package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type itemSeed struct {
	ProductID   string
	Name        string
	UnitPrice   string
	Quantity    int
	MaxQuantity int
}

type codeSeed struct {
	Code           string
	Type           string
	Value          string
	MinOrderAmount string
	Description    string
	ExpiresAt      *time.Time
}

const demoCartID = "demo-cart"

// Apply inserts demo data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	items := []itemSeed{
		{ProductID: "sku-headphones", Name: "Wireless Headphones", UnitPrice: "149.99", Quantity: 1, MaxQuantity: 5},
		{ProductID: "sku-speaker", Name: "Portable Speaker", UnitPrice: "89.50", Quantity: 2, MaxQuantity: 10},
		{ProductID: "sku-cable", Name: "USB-C Cable 2m", UnitPrice: "12.90", Quantity: 3, MaxQuantity: 20},
	}
	for _, item := range items {
		if err := upsertItem(ctx, pool, demoCartID, item); err != nil {
			return fmt.Errorf("upsert cart item %s: %w", item.ProductID, err)
		}
	}

	expired := time.Date(2022, 12, 31, 23, 59, 59, 0, time.UTC)
	codes := []codeSeed{
		{Code: "save10", Type: "percentage", Value: "10", MinOrderAmount: "100", Description: "10% off orders over 100"},
		{Code: "welcome5", Type: "fixed", Value: "5", MinOrderAmount: "0", Description: "5 off your first order"},
		{Code: "expired2022", Type: "percentage", Value: "20", MinOrderAmount: "0", Description: "Holiday 2022 promo", ExpiresAt: &expired},
	}
	for _, code := range codes {
		if err := upsertCode(ctx, pool, code); err != nil {
			return fmt.Errorf("upsert discount code %s: %w", code.Code, err)
		}
	}

	if err := seedPoints(ctx, pool, demoCartID, 500); err != nil {
		return fmt.Errorf("seed points: %w", err)
	}

	return nil
}

func upsertItem(ctx context.Context, pool *pgxpool.Pool, cartID string, item itemSeed) error {
	const q = `
INSERT INTO cart_items (cart_id, product_id, name, unit_price, quantity, max_quantity)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (cart_id, product_id) DO UPDATE
SET name = EXCLUDED.name,
    unit_price = EXCLUDED.unit_price,
    quantity = EXCLUDED.quantity,
    max_quantity = EXCLUDED.max_quantity
`
	_, err := pool.Exec(ctx, q, cartID, item.ProductID, item.Name, item.UnitPrice, item.Quantity, item.MaxQuantity)
	return err
}

func upsertCode(ctx context.Context, pool *pgxpool.Pool, code codeSeed) error {
	const q = `
INSERT INTO discount_codes (code, type, value, min_order_amount, description, expires_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (code) DO UPDATE
SET type = EXCLUDED.type,
    value = EXCLUDED.value,
    min_order_amount = EXCLUDED.min_order_amount,
    description = EXCLUDED.description,
    expires_at = EXCLUDED.expires_at
`
	_, err := pool.Exec(ctx, q, code.Code, code.Type, code.Value, code.MinOrderAmount, code.Description, code.ExpiresAt)
	return err
}

// seedPoints grants a starting balance once; the seed-order guard keeps
// reruns from inflating it.
func seedPoints(ctx context.Context, pool *pgxpool.Pool, cartID string, points int64) error {
	if _, err := pool.Exec(ctx, `
INSERT INTO rewards_accounts (cart_id) VALUES ($1)
ON CONFLICT (cart_id) DO NOTHING
`, cartID); err != nil {
		return err
	}

	tag, err := pool.Exec(ctx, `
INSERT INTO points_transactions (cart_id, amount, type, description, order_id)
VALUES ($1, $2, 'earned', 'Welcome bonus', 'seed-welcome')
ON CONFLICT (cart_id, order_id, type) WHERE order_id IS NOT NULL DO NOTHING
`, cartID, points)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return nil
	}

	_, err = pool.Exec(ctx, `
UPDATE rewards_accounts
SET available = available + $2,
    total_earned = total_earned + $2
WHERE cart_id = $1
`, cartID, points)
	return err
}
