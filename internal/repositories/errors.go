package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a lookup, update or delete matches no row.
	ErrNotFound = errors.New("not found")
	// ErrUniquenessViolation is returned when a write collides with a unique index.
	ErrUniquenessViolation = errors.New("uniqueness violation")
	// ErrReferentialIntegrityViolation is returned when a write references a missing row,
	// or a delete is blocked by rows that still reference it.
	ErrReferentialIntegrityViolation = errors.New("referential integrity violation")
)

// SQLSTATE codes, class 23.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// mapError translates driver errors into the package sentinels, keeping the original in the chain.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w on %s: %w", ErrUniquenessViolation, pgErr.ConstraintName, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w on %s: %w", ErrReferentialIntegrityViolation, pgErr.ConstraintName, err)
		}
	}
	return err
}

// ConstraintName returns the constraint a store error was raised for, or "".
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
