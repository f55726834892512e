package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nskaret/lingoread/internal/database"
	"github.com/nskaret/lingoread/internal/models"
)

const activationCodeColumns = `id, code, consumed, consumed_at, created_by, created_at`

// ActivationCodeRepository is the persisted one-time code registry. The
// uniqueness constraint on the code column and the conditional consume
// update are the authoritative guards against double use.
type ActivationCodeRepository struct {
	pool *pgxpool.Pool
}

func NewActivationCodeRepository(db *database.DB) *ActivationCodeRepository {
	return &ActivationCodeRepository{pool: db.Pool}
}

func scanCodeRow(scanner rowScanner) (*models.ActivationCode, error) {
	var code models.ActivationCode

	err := scanner.Scan(
		&code.ID, &code.Code, &code.Consumed, &code.ConsumedAt,
		&code.CreatedBy, &code.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &code, nil
}

func (r *ActivationCodeRepository) Create(ctx context.Context, code string, createdBy *int64) (*models.ActivationCode, error) {
	query := `
		INSERT INTO activation_codes (code, created_by)
		VALUES ($1, $2)
		RETURNING ` + activationCodeColumns

	return scanCodeRow(r.pool.QueryRow(ctx, query, code, createdBy))
}

// IsUnconsumed reports whether the code exists and has not been used.
func (r *ActivationCodeRepository) IsUnconsumed(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM activation_codes WHERE code = $1 AND NOT consumed)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, database.MapPostgresError(err)
	}
	return exists, nil
}

// Consume marks a code used. The WHERE clause makes the claim atomic:
// of two concurrent registrations racing on the same code, exactly one
// sees a row updated.
func (r *ActivationCodeRepository) Consume(ctx context.Context, code string) error {
	query := `
		UPDATE activation_codes
		SET consumed = true, consumed_at = CURRENT_TIMESTAMP
		WHERE code = $1 AND NOT consumed`

	result, err := r.pool.Exec(ctx, query, code)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrInvalidActivationCode
	}
	return nil
}

// ListUnconsumed returns the codes still available for registration.
func (r *ActivationCodeRepository) ListUnconsumed(ctx context.Context) ([]*models.ActivationCode, error) {
	query := `SELECT ` + activationCodeColumns + ` FROM activation_codes WHERE NOT consumed ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query activation codes: %w", err)
	}
	defer rows.Close()

	codes := make([]*models.ActivationCode, 0)
	for rows.Next() {
		code, err := scanCodeRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activation code: %w", err)
		}
		codes = append(codes, code)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return codes, nil
}

// Delete removes an unconsumed code from the registry.
func (r *ActivationCodeRepository) Delete(ctx context.Context, code string) error {
	query := `DELETE FROM activation_codes WHERE code = $1 AND NOT consumed`

	result, err := r.pool.Exec(ctx, query, code)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *ActivationCodeRepository) CountUnconsumed(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM activation_codes WHERE NOT consumed`).Scan(&count); err != nil {
		return 0, database.MapPostgresError(err)
	}
	return count, nil
}

// PurgeConsumed deletes consumed codes older than the cutoff. Historical
// code references on account rows are unaffected.
func (r *ActivationCodeRepository) PurgeConsumed(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM activation_codes WHERE consumed AND consumed_at < $1`

	result, err := r.pool.Exec(ctx, query, before)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return result.RowsAffected(), nil
}
