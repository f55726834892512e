package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nskaret/lingoread/internal/database"
	"github.com/nskaret/lingoread/internal/models"
)

const userColumns = `id, email, password_hash, activation_code, is_activated, activation_code_used_at,
	login_attempts, locked_until, is_admin, created_by, created_at, last_login`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{pool: db.Pool}
}

// rowScanner interface for scanning user rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanUserRow handles nullable fields and populates a User model from a database row
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User

	err := scanner.Scan(
		&user.ID, &user.Email, &user.PasswordHash,
		&user.ActivationCode, &user.IsActivated, &user.ActivationCodeUsedAt,
		&user.LoginAttempts, &user.LockedUntil,
		&user.IsAdmin, &user.CreatedBy,
		&user.CreatedAt, &user.LastLogin,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &user, nil
}

func scanUserRows(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	users := make([]*models.User, 0)

	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	return scanUserRow(r.pool.QueryRow(ctx, query, email))
}

// GetByEmailAndCode resolves the account for the activation flow.
func (r *UserRepository) GetByEmailAndCode(ctx context.Context, email, code string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND activation_code = $2`

	return scanUserRow(r.pool.QueryRow(ctx, query, email, code))
}

// HasInactiveWithCode reports whether an account row references the given
// activation code without having completed activation.
func (r *UserRepository) HasInactiveWithCode(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE activation_code = $1 AND is_activated = false)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, database.MapPostgresError(err)
	}
	return exists, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	return scanUserRows(rows)
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, activation_code, is_activated, is_admin, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.Email, user.PasswordHash, user.ActivationCode,
		user.IsActivated, user.IsAdmin, user.CreatedBy,
	))
}

// UpdateStatus applies an admin patch to the activation/admin flags.
func (r *UserRepository) UpdateStatus(ctx context.Context, id int64, patch models.UserStatusPatch) (*models.User, error) {
	query := `
		UPDATE users
		SET is_activated = COALESCE($1, is_activated),
		    is_admin = COALESCE($2, is_admin)
		WHERE id = $3
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query, patch.IsActivated, patch.IsAdmin, id))
}

// Activate marks the account activated and stamps the code-use timestamp.
// The stamp is written only once; re-activation attempts are rejected by
// the service before reaching here.
func (r *UserRepository) Activate(ctx context.Context, id int64) error {
	query := `
		UPDATE users
		SET is_activated = true,
		    activation_code_used_at = COALESCE(activation_code_used_at, CURRENT_TIMESTAMP)
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// RecordFailedLogin increments the attempt counter and applies the lockout
// in a single conditional update so concurrent failures cannot race the
// counter. Returns the post-increment attempt count and lock expiry.
func (r *UserRepository) RecordFailedLogin(ctx context.Context, id int64, maxAttempts int, lockUntil time.Time) (int, *time.Time, error) {
	query := `
		UPDATE users
		SET login_attempts = login_attempts + 1,
		    locked_until = CASE WHEN login_attempts + 1 >= $2 THEN $3 ELSE locked_until END
		WHERE id = $1
		RETURNING login_attempts, locked_until`

	var attempts int
	var lockedUntil *time.Time
	if err := r.pool.QueryRow(ctx, query, id, maxAttempts, lockUntil).Scan(&attempts, &lockedUntil); err != nil {
		return 0, nil, database.MapPostgresError(err)
	}

	return attempts, lockedUntil, nil
}

// RecordSuccessfulLogin resets the attempt counter, clears any lockout and
// stamps the login time.
func (r *UserRepository) RecordSuccessfulLogin(ctx context.Context, id int64) error {
	query := `
		UPDATE users
		SET login_attempts = 0, locked_until = NULL, last_login = CURRENT_TIMESTAMP
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, database.MapPostgresError(err)
	}
	return count, nil
}

func (r *UserRepository) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE is_admin = true`).Scan(&count); err != nil {
		return 0, database.MapPostgresError(err)
	}
	return count, nil
}
