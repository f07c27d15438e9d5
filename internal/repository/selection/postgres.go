package selection

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"salespring-checkout/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Load(ctx context.Context, cartID string) (domain.SelectionMap, error) {
	const q = `
SELECT selection
FROM cart_selections
WHERE cart_id = $1
`
	var raw []byte
	if err := r.pool.QueryRow(ctx, q, cartID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SelectionMap{}, nil
		}
		return nil, err
	}

	m := domain.SelectionMap{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (r *postgresRepo) Save(ctx context.Context, cartID string, m domain.SelectionMap) error {
	if m == nil {
		m = domain.SelectionMap{}
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO cart_selections (cart_id, selection, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (cart_id) DO UPDATE
SET selection = EXCLUDED.selection,
    updated_at = now()
`
	_, err = r.pool.Exec(ctx, q, cartID, raw)
	return err
}
