package conversions

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

// StateFunc computes the next review state of a conversion.
type StateFunc func(lifecycle.ConversionState) (lifecycle.ConversionState, error)

// Repository reads conversions and updates their review state.
type Repository interface {
	List(ctx context.Context, f Filter, limit, offset int) ([]Conversion, error)
	Get(ctx context.Context, id string) (Conversion, error)
	// SetState locks the row and stores next's result. An unchanged state writes nothing.
	SetState(ctx context.Context, id string, next StateFunc, at time.Time) (before, after Conversion, err error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL conversion repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, merchant_id, coupon_id, order_ref, sale_amount_cents, commission_cents, currency,
	status, occurred_at, confirmed_at, paid_at, created_at, updated_at`

func (r *repository) List(ctx context.Context, f Filter, limit, offset int) ([]Conversion, error) {
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
	query := `SELECT ` + columns + ` FROM conversions`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY occurred_at DESC, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Conversion
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Conversion, error) {
	return scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM conversions WHERE id = $1`, id))
}

func (r *repository) SetState(ctx context.Context, id string, next StateFunc, at time.Time) (before, after Conversion, err error) {
	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		before, err = scan(tx.QueryRow(ctx, `SELECT `+columns+` FROM conversions WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		st, err := next(before.state())
		if err != nil {
			return err
		}
		if sameState(before.state(), st) {
			after = before
			return nil
		}
		after, err = scan(tx.QueryRow(ctx, `UPDATE conversions SET
			status = $2, confirmed_at = $3, paid_at = $4, updated_at = $5
			WHERE id = $1 RETURNING `+columns,
			id, string(st.Status), st.ConfirmedAt, st.PaidAt, at))
		return err
	})
	return before, after, err
}

func sameState(a, b lifecycle.ConversionState) bool {
	return a.Status == b.Status && sameTime(a.ConfirmedAt, b.ConfirmedAt) && sameTime(a.PaidAt, b.PaidAt)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func scan(row pgx.Row) (Conversion, error) {
	var (
		c      Conversion
		status string
	)
	if err := row.Scan(&c.ID, &c.MerchantID, &c.CouponID, &c.OrderRef, &c.SaleAmountCents, &c.CommissionCents, &c.Currency,
		&status, &c.OccurredAt, &c.ConfirmedAt, &c.PaidAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return Conversion{}, db.MapError(err, "conversion")
	}
	c.Status = lifecycle.ConversionStatus(status)
	return c, nil
}
