package banners

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/couponhub/dashboard/internal/lifecycle"
	"github.com/couponhub/dashboard/internal/platform/db"
)

// Repository persists banners.
type Repository interface {
	List(ctx context.Context, placement string, limit, offset int) ([]Banner, error)
	Get(ctx context.Context, id string) (Banner, error)
	Create(ctx context.Context, b Banner) (Banner, error)
	Update(ctx context.Context, id string, mutate func(Banner) (Banner, error)) (before, after Banner, err error)
	Delete(ctx context.Context, id string) (Banner, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL banner repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, title, image_url, link_url, placement, position, status, starts_at, ends_at, created_at, updated_at`

func (r *repository) List(ctx context.Context, placement string, limit, offset int) ([]Banner, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM banners
		WHERE ($1 = '' OR placement = $1)
		ORDER BY placement, position, id LIMIT $2 OFFSET $3`, placement, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Banner
	for rows.Next() {
		b, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Banner, error) {
	return scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM banners WHERE id = $1`, id))
}

func (r *repository) Create(ctx context.Context, b Banner) (Banner, error) {
	return scan(r.pool.QueryRow(ctx, `INSERT INTO banners
		(id, title, image_url, link_url, placement, position, status, starts_at, ends_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING `+columns,
		b.ID, b.Title, b.ImageURL, b.LinkURL, b.Placement, b.Position, string(b.Status),
		b.StartsAt, b.EndsAt, b.CreatedAt, b.UpdatedAt))
}

func (r *repository) Update(ctx context.Context, id string, mutate func(Banner) (Banner, error)) (before, after Banner, err error) {
	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		before, err = scan(tx.QueryRow(ctx, `SELECT `+columns+` FROM banners WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		next, err := mutate(before)
		if err != nil {
			return err
		}
		after, err = scan(tx.QueryRow(ctx, `UPDATE banners SET
			title = $2, image_url = $3, link_url = $4, placement = $5, position = $6,
			status = $7, starts_at = $8, ends_at = $9, updated_at = $10
			WHERE id = $1 RETURNING `+columns,
			id, next.Title, next.ImageURL, next.LinkURL, next.Placement, next.Position,
			string(next.Status), next.StartsAt, next.EndsAt, next.UpdatedAt))
		return err
	})
	return before, after, err
}

func (r *repository) Delete(ctx context.Context, id string) (Banner, error) {
	return scan(r.pool.QueryRow(ctx, `DELETE FROM banners WHERE id = $1 RETURNING `+columns, id))
}

func scan(row pgx.Row) (Banner, error) {
	var (
		b      Banner
		status string
	)
	if err := row.Scan(&b.ID, &b.Title, &b.ImageURL, &b.LinkURL, &b.Placement, &b.Position, &status,
		&b.StartsAt, &b.EndsAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return Banner{}, db.MapError(err, "banner")
	}
	b.Status = lifecycle.BannerStatus(status)
	return b, nil
}
