package discount

import (
	"context"
	"errors"
	"time"

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

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	const q = `
SELECT code, type, value::text, min_order_amount::text, description, expires_at
FROM discount_codes
WHERE code = $1
`
	var (
		def       domain.DiscountCode
		value     string
		minOrder  string
		expiresAt *time.Time
	)
	if err := r.pool.QueryRow(ctx, q, code).Scan(
		&def.Code,
		&def.Type,
		&value,
		&minOrder,
		&def.Description,
		&expiresAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	v, err := decimal.NewFromString(value)
	if err != nil {
		return nil, err
	}
	m, err := decimal.NewFromString(minOrder)
	if err != nil {
		return nil, err
	}
	def.Value = v
	def.MinOrderAmount = m
	def.ExpiresAt = expiresAt
	return &def, nil
}
