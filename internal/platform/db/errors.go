package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/couponhub/dashboard/internal/shared"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// MapError translates driver errors into the shared taxonomy.
func MapError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", entity, shared.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s %s: %w", entity, pgErr.ConstraintName, shared.ErrConflict)
		case foreignKeyViolation:
			return fmt.Errorf("%s references a missing row (%s): %w", entity, pgErr.ConstraintName, shared.ErrValidation)
		}
	}
	return err
}
