package merchants

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/couponhub/dashboard/internal/platform/db"
)

// Repository persists merchants.
type Repository interface {
	List(ctx context.Context, limit, offset int) ([]Merchant, error)
	Get(ctx context.Context, id string) (Merchant, error)
	Create(ctx context.Context, m Merchant) (Merchant, error)
	// Update locks the row, applies mutate and stores the result.
	Update(ctx context.Context, id string, mutate func(Merchant) (Merchant, error)) (before, after Merchant, err error)
	// Delete removes the row and returns its last state.
	Delete(ctx context.Context, id string) (Merchant, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL merchant repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, name, slug, website_url, description, active, created_at, updated_at`

func (r *repository) List(ctx context.Context, limit, offset int) ([]Merchant, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM merchants ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Merchant
	for rows.Next() {
		m, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Merchant, error) {
	return scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM merchants WHERE id = $1`, id))
}

func (r *repository) Create(ctx context.Context, m Merchant) (Merchant, error) {
	return scan(r.pool.QueryRow(ctx, `INSERT INTO merchants
		(id, name, slug, website_url, description, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING `+columns,
		m.ID, m.Name, m.Slug, m.WebsiteURL, m.Description, m.Active, m.CreatedAt, m.UpdatedAt))
}

func (r *repository) Update(ctx context.Context, id string, mutate func(Merchant) (Merchant, error)) (before, after Merchant, err error) {
	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		before, err = scan(tx.QueryRow(ctx, `SELECT `+columns+` FROM merchants WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		next, err := mutate(before)
		if err != nil {
			return err
		}
		after, err = scan(tx.QueryRow(ctx, `UPDATE merchants SET
			name = $2, slug = $3, website_url = $4, description = $5, active = $6, updated_at = $7
			WHERE id = $1 RETURNING `+columns,
			id, next.Name, next.Slug, next.WebsiteURL, next.Description, next.Active, next.UpdatedAt))
		return err
	})
	return before, after, err
}

func (r *repository) Delete(ctx context.Context, id string) (Merchant, error) {
	return scan(r.pool.QueryRow(ctx, `DELETE FROM merchants WHERE id = $1 RETURNING `+columns, id))
}

func scan(row pgx.Row) (Merchant, error) {
	var m Merchant
	if err := row.Scan(&m.ID, &m.Name, &m.Slug, &m.WebsiteURL, &m.Description, &m.Active, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return Merchant{}, db.MapError(err, "merchant")
	}
	return m, nil
}
