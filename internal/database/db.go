package database

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nskaret/lingoread/internal/models"
)

// SQLSTATE classes the repositories care about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
)

// MapPostgresError translates driver-level errors into the model sentinels
// so callers never inspect SQLSTATE codes themselves.
func MapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return models.ErrConflict
		case pgForeignKeyViolation, pgNotNullViolation:
			return models.ErrBadRequest
		}
	}

	return err
}
