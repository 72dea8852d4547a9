package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/couponhub/dashboard/internal/platform/db"
	"github.com/couponhub/dashboard/internal/rbac"
	"github.com/couponhub/dashboard/internal/shared"
)

// ActorStore defines the actor lookups used by authentication.
type ActorStore interface {
	FindByID(ctx context.Context, id string) (Actor, error)
	FindByEmail(ctx context.Context, email string) (Credentials, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// PGActorStore implements ActorStore using PostgreSQL.
type PGActorStore struct {
	pool *pgxpool.Pool
}

// NewActorStore constructs a PostgreSQL actor store.
func NewActorStore(pool *pgxpool.Pool) *PGActorStore {
	return &PGActorStore{pool: pool}
}

const actorColumns = `id, email, name, role, active, last_login_at, password_hash`

// FindByID fetches an actor by id.
func (s *PGActorStore) FindByID(ctx context.Context, id string) (Actor, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+actorColumns+` FROM admins WHERE id = $1`, id)
	creds, err := scanCredentials(row)
	if err != nil {
		return Actor{}, err
	}
	return creds.Actor, nil
}

// FindByEmail fetches an actor and its password hash by case-insensitive email.
func (s *PGActorStore) FindByEmail(ctx context.Context, email string) (Credentials, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+actorColumns+` FROM admins WHERE email_key = $1`, shared.NormalizeEmail(email))
	return scanCredentials(row)
}

// TouchLastLogin stamps the last successful authentication.
func (s *PGActorStore) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `UPDATE admins SET last_login_at = $2 WHERE id = $1`, id, at.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("actor %s: %w", id, shared.ErrNotFound)
	}
	return nil
}

func scanCredentials(row pgx.Row) (Credentials, error) {
	var (
		creds     Credentials
		role      string
		lastLogin pgtype.Timestamptz
	)
	if err := row.Scan(&creds.ID, &creds.Email, &creds.Name, &role, &creds.Active, &lastLogin, &creds.PasswordHash); err != nil {
		return Credentials{}, db.MapError(err, "actor")
	}
	parsed, err := rbac.ParseRole(role)
	if err != nil {
		// A row we cannot authorize is treated as absent.
		return Credentials{}, fmt.Errorf("actor %s: %w", creds.ID, shared.ErrNotFound)
	}
	creds.Role = parsed
	if lastLogin.Valid {
		t := lastLogin.Time
		creds.LastLoginAt = &t
	}
	return creds, nil
}

var _ ActorStore = (*PGActorStore)(nil)
