package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-sufficiently-long-test-secret")
	t.Setenv("DB_PASSWORD", "postgres")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Auth.LockoutDuration)
	assert.Equal(t, 5, cfg.Auth.RateLimitRequests)
	assert.Equal(t, 15*time.Minute, cfg.Auth.RateLimitWindow)
	assert.Equal(t, "lingoread", cfg.Database.Name)
	assert.False(t, cfg.Email.Enabled)
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "postgres")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingDBPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-sufficiently-long-test-secret")
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_WeakJWTSecretRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("DB_PASSWORD", "postgres")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProductionRequiresLongerSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "only-twenty-chars-xx")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("ENV", "production")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_EmailEnabledRequiresFromAddress(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EMAIL_ENABLED", "true")
	t.Setenv("EMAIL_FROM_ADDRESS", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TOKEN_EXPIRY", "1h")
	t.Setenv("MAX_LOGIN_ATTEMPTS", "3")
	t.Setenv("LOCKOUT_DURATION", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1*time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, 3, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, 5*time.Minute, cfg.Auth.LockoutDuration)
}

func TestDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "pw",
		Name:     "lingoread",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=localhost port=5432 user=postgres password=pw dbname=lingoread sslmode=disable", cfg.DSN())
}
