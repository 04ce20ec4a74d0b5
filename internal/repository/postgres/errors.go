package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsPgDuplicateError checks if error is a unique constraint violation (23505)
func IsPgDuplicateError(err error) bool {
	return pgErrorCode(err) == "23505"
}

// IsPgForeignKeyError checks if error is a foreign key violation (23503)
func IsPgForeignKeyError(err error) bool {
	return pgErrorCode(err) == "23503"
}

// IsPgCheckViolation checks if error is a CHECK constraint violation (23514)
func IsPgCheckViolation(err error) bool {
	return pgErrorCode(err) == "23514"
}

// IsPgInvalidTextError reports malformed input such as a non-UUID id (22P02)
func IsPgInvalidTextError(err error) bool {
	return pgErrorCode(err) == "22P02"
}

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
