package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsUniqueViolation checks if the error is a PostgreSQL unique violation (23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique
// violation for a specific named constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraintName
}

// IsNoRows reports whether the error is pgx's empty-result sentinel.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
