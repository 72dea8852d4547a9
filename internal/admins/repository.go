package admins

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/couponhub/dashboard/internal/platform/db"
	"github.com/couponhub/dashboard/internal/rbac"
	"github.com/couponhub/dashboard/internal/shared"
)

// Repository persists admin accounts.
type Repository interface {
	List(ctx context.Context, limit, offset int) ([]Admin, error)
	Get(ctx context.Context, id string) (Admin, error)
	// Create fails with shared.ErrConflict when the email is taken.
	Create(ctx context.Context, a Admin) (Admin, error)
	Update(ctx context.Context, id string, mutate func(Admin) (Admin, error)) (before, after Admin, err error)
	Delete(ctx context.Context, id string) (Admin, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL admin repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, email, name, role, active, password_hash, last_login_at, created_at, updated_at`

func (r *repository) List(ctx context.Context, limit, offset int) ([]Admin, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM admins ORDER BY email_key LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Admin
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Admin, error) {
	return scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM admins WHERE id = $1`, id))
}

func (r *repository) Create(ctx context.Context, a Admin) (Admin, error) {
	return scan(r.pool.QueryRow(ctx, `INSERT INTO admins
		(id, email, email_key, name, role, active, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING `+columns,
		a.ID, a.Email, shared.NormalizeEmail(a.Email), a.Name, string(a.Role), a.Active, a.PasswordHash, a.CreatedAt, a.UpdatedAt))
}

func (r *repository) Update(ctx context.Context, id string, mutate func(Admin) (Admin, error)) (before, after Admin, err error) {
	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		before, err = scan(tx.QueryRow(ctx, `SELECT `+columns+` FROM admins WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		next, err := mutate(before)
		if err != nil {
			return err
		}
		after, err = scan(tx.QueryRow(ctx, `UPDATE admins SET name = $2, role = $3, active = $4, updated_at = $5
			WHERE id = $1 RETURNING `+columns,
			id, next.Name, string(next.Role), next.Active, next.UpdatedAt))
		return err
	})
	return before, after, err
}

func (r *repository) Delete(ctx context.Context, id string) (Admin, error) {
	return scan(r.pool.QueryRow(ctx, `DELETE FROM admins WHERE id = $1 RETURNING `+columns, id))
}

func scan(row pgx.Row) (Admin, error) {
	var (
		a    Admin
		role string
	)
	if err := row.Scan(&a.ID, &a.Email, &a.Name, &role, &a.Active, &a.PasswordHash, &a.LastLoginAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return Admin{}, db.MapError(err, "admin")
	}
	a.Role = rbac.Role(role)
	return a, nil
}
