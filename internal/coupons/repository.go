package coupons

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/couponhub/dashboard/internal/lifecycle"
	"github.com/couponhub/dashboard/internal/platform/db"
)

// Repository persists coupons.
type Repository interface {
	List(ctx context.Context, f Filter, limit, offset int) ([]Coupon, error)
	Get(ctx context.Context, id string) (Coupon, error)
	Create(ctx context.Context, c Coupon) (Coupon, error)
	Update(ctx context.Context, id string, mutate func(Coupon) (Coupon, error)) (before, after Coupon, err error)
	// Transition locks the row and moves its status through next. An
	// unchanged status writes nothing.
	Transition(ctx context.Context, id string, next func(lifecycle.CouponStatus) (lifecycle.CouponStatus, error), at time.Time) (before, after Coupon, err error)
	Delete(ctx context.Context, id string) (Coupon, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL coupon repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, merchant_id, code, title, description, affiliate_url, status, starts_at, expires_at, created_at, updated_at`

func (r *repository) List(ctx context.Context, f Filter, limit, offset int) ([]Coupon, error) {
	var (
		conds []string
		args  []any
	)
	if f.MerchantID != "" {
		args = append(args, f.MerchantID)
		conds = append(conds, fmt.Sprintf("merchant_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	query := `SELECT ` + columns + ` FROM coupons`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Coupon
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Coupon, error) {
	return scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM coupons WHERE id = $1`, id))
}

func (r *repository) Create(ctx context.Context, c Coupon) (Coupon, error) {
	return scan(r.pool.QueryRow(ctx, `INSERT INTO coupons
		(id, merchant_id, code, title, description, affiliate_url, status, starts_at, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING `+columns,
		c.ID, c.MerchantID, c.Code, c.Title, c.Description, c.AffiliateURL, string(c.Status),
		c.StartsAt, c.ExpiresAt, c.CreatedAt, c.UpdatedAt))
}

func (r *repository) Update(ctx context.Context, id string, mutate func(Coupon) (Coupon, error)) (before, after Coupon, err error) {
	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		before, err = lockRow(ctx, tx, id)
		if err != nil {
			return err
		}
		next, err := mutate(before)
		if err != nil {
			return err
		}
		after, err = scan(tx.QueryRow(ctx, `UPDATE coupons SET
			merchant_id = $2, code = $3, title = $4, description = $5, affiliate_url = $6,
			status = $7, starts_at = $8, expires_at = $9, updated_at = $10
			WHERE id = $1 RETURNING `+columns,
			id, next.MerchantID, next.Code, next.Title, next.Description, next.AffiliateURL,
			string(next.Status), next.StartsAt, next.ExpiresAt, next.UpdatedAt))
		return err
	})
	return before, after, err
}

func (r *repository) Transition(ctx context.Context, id string, next func(lifecycle.CouponStatus) (lifecycle.CouponStatus, error), at time.Time) (before, after Coupon, err error) {
	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		before, err = lockRow(ctx, tx, id)
		if err != nil {
			return err
		}
		status, err := next(before.Status)
		if err != nil {
			return err
		}
		if status == before.Status {
			after = before
			return nil
		}
		after, err = scan(tx.QueryRow(ctx, `UPDATE coupons SET status = $2, updated_at = $3 WHERE id = $1 RETURNING `+columns,
			id, string(status), at))
		return err
	})
	return before, after, err
}

func (r *repository) Delete(ctx context.Context, id string) (Coupon, error) {
	return scan(r.pool.QueryRow(ctx, `DELETE FROM coupons WHERE id = $1 RETURNING `+columns, id))
}

func lockRow(ctx context.Context, tx pgx.Tx, id string) (Coupon, error) {
	return scan(tx.QueryRow(ctx, `SELECT `+columns+` FROM coupons WHERE id = $1 FOR UPDATE`, id))
}

func scan(row pgx.Row) (Coupon, error) {
	var (
		c      Coupon
		status string
	)
	if err := row.Scan(&c.ID, &c.MerchantID, &c.Code, &c.Title, &c.Description, &c.AffiliateURL, &status,
		&c.StartsAt, &c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return Coupon{}, db.MapError(err, "coupon")
	}
	c.Status = lifecycle.CouponStatus(status)
	return c, nil
}
