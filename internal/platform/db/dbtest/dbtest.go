// Package dbtest opens a migrated PostgreSQL schema for repository tests.
//
// Tests run only when DASHBOARD_TEST_PG_DSN holds a postgres:// URL. Each
// call creates a fresh schema, applies the embedded migrations into it and
// drops it when the test ends, so packages can run in parallel against one
// database.
package dbtest

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/couponhub/dashboard/internal/platform/db"
	"github.com/couponhub/dashboard/migrations"
)

// EnvDSN names the variable holding the test database URL.
const EnvDSN = "DASHBOARD_TEST_PG_DSN"

// Open returns a pool bound to a new migrated schema, or skips the test
// when no database is configured.
func Open(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := strings.TrimSpace(os.Getenv(EnvDSN))
	if dsn == "" {
		t.Skipf("%s not set", EnvDSN)
	}
	ctx := context.Background()

	admin, err := db.New(ctx, db.PoolConfig{DSN: dsn, MaxConns: 2})
	require.NoError(t, err)
	t.Cleanup(admin.Close)

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
	})

	scoped, err := withSearchPath(dsn, schema)
	require.NoError(t, err)
	require.NoError(t, migrateUp(scoped))

	pool, err := db.New(ctx, db.PoolConfig{DSN: scoped, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func withSearchPath(dsn, schema string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("dbtest: parse %s: %w", EnvDSN, err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("dbtest: %s must be a postgres:// URL", EnvDSN)
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func migrateUp(dsn string) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("dbtest: open migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("dbtest: init migrate: %w", err)
	}
	defer func() {
		_, _ = m.Close()
	}()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("dbtest: migrate up: %w", err)
	}
	return nil
}
