package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/nskaret/lingoread/internal/auth"
	"github.com/nskaret/lingoread/internal/models"
	pkgauth "github.com/nskaret/lingoread/pkg/auth"
	pkglogger "github.com/nskaret/lingoread/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(users *MockUserRepository, codes *MockCodeRegistry) *AuthService {
	logger := slog.Default()
	tm := auth.NewTokenManager("test-secret-key-long-enough", 24*time.Hour)
	return NewAuthService(users, codes, tm, DefaultLockoutPolicy(), nil, logger, pkglogger.NewAuditLogger(logger))
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := pkgauth.HashPassword(password)
	require.NoError(t, err)
	return hash
}

// ============================================================================
// Register
// ============================================================================

func TestAuthService_Register_Success(t *testing.T) {
	var createdUser *models.User
	consumed := false

	users := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			createdUser = user
			user.ID = 123
			user.CreatedAt = time.Now()
			return user, nil
		},
	}
	codes := &MockCodeRegistry{
		IsUnconsumedFunc: func(ctx context.Context, code string) (bool, error) { return true, nil },
		ConsumeFunc: func(ctx context.Context, code string) error {
			consumed = true
			return nil
		},
	}

	resp, err := newAuthService(users, codes).Register(context.Background(), "A@X.com", "pw123456", "CODE1")

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, int64(123), resp.ID)
	assert.Equal(t, "a@x.com", resp.Email)
	assert.False(t, resp.IsActivated)
	assert.True(t, consumed)

	require.NotNil(t, createdUser)
	assert.False(t, createdUser.IsActivated)
	require.NotNil(t, createdUser.ActivationCode)
	assert.Equal(t, "CODE1", *createdUser.ActivationCode)
	assert.NotEqual(t, "pw123456", createdUser.PasswordHash)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	consumed := false

	users := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return NewTestUser(1, email), nil
		},
	}
	codes := &MockCodeRegistry{
		ConsumeFunc: func(ctx context.Context, code string) error {
			consumed = true
			return nil
		},
	}

	resp, err := newAuthService(users, codes).Register(context.Background(), "a@x.com", "pw123456", "CODE1")

	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Nil(t, resp)
	assert.False(t, consumed, "a duplicate registration must not burn a code")
}

func TestAuthService_Register_InvalidCode(t *testing.T) {
	created := false

	users := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			created = true
			return user, nil
		},
	}
	codes := &MockCodeRegistry{
		IsUnconsumedFunc: func(ctx context.Context, code string) (bool, error) { return false, nil },
	}

	resp, err := newAuthService(users, codes).Register(context.Background(), "a@x.com", "pw123456", "NOPE")

	assert.ErrorIs(t, err, models.ErrInvalidActivationCode)
	assert.Nil(t, resp)
	assert.False(t, created, "no account row may be created for an invalid code")
}

func TestAuthService_Register_CodeAlreadyReferenced(t *testing.T) {
	users := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
		HasInactiveWithCodeFunc: func(ctx context.Context, code string) (bool, error) {
			return true, nil
		},
	}
	codes := &MockCodeRegistry{
		IsUnconsumedFunc: func(ctx context.Context, code string) (bool, error) { return true, nil },
	}

	resp, err := newAuthService(users, codes).Register(context.Background(), "a@x.com", "pw123456", "CODE1")

	assert.ErrorIs(t, err, models.ErrActivationCodeUsed)
	assert.Nil(t, resp)
}

func TestAuthService_Register_ConsumeRace(t *testing.T) {
	// The registry says the code is free, but a concurrent registration
	// claims it between the check and the consume.
	users := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
	}
	codes := &MockCodeRegistry{
		IsUnconsumedFunc: func(ctx context.Context, code string) (bool, error) { return true, nil },
		ConsumeFunc: func(ctx context.Context, code string) error {
			return models.ErrInvalidActivationCode
		},
	}

	_, err := newAuthService(users, codes).Register(context.Background(), "a@x.com", "pw123456", "CODE1")
	assert.ErrorIs(t, err, models.ErrInvalidActivationCode)
}

// ============================================================================
// Activate
// ============================================================================

func TestAuthService_Activate_Success(t *testing.T) {
	var activatedID int64

	code := "CODE1"
	users := &MockUserRepository{
		GetByEmailAndCodeFunc: func(ctx context.Context, email, c string) (*models.User, error) {
			return &models.User{ID: 5, Email: email, ActivationCode: &code}, nil
		},
		ActivateFunc: func(ctx context.Context, id int64) error {
			activatedID = id
			return nil
		},
	}

	err := newAuthService(users, &MockCodeRegistry{}).Activate(context.Background(), "a@x.com", code)

	require.NoError(t, err)
	assert.Equal(t, int64(5), activatedID)
}

func TestAuthService_Activate_NoMatch(t *testing.T) {
	users := &MockUserRepository{
		GetByEmailAndCodeFunc: func(ctx context.Context, email, code string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
	}

	err := newAuthService(users, &MockCodeRegistry{}).Activate(context.Background(), "a@x.com", "WRONG")
	assert.ErrorIs(t, err, models.ErrInvalidActivationCode)
}

func TestAuthService_Activate_AlreadyActivated(t *testing.T) {
	usedAt := time.Now().Add(-time.Hour)
	activateCalled := false

	code := "CODE1"
	users := &MockUserRepository{
		GetByEmailAndCodeFunc: func(ctx context.Context, email, c string) (*models.User, error) {
			return &models.User{
				ID:                   5,
				Email:                email,
				ActivationCode:       &code,
				IsActivated:          true,
				ActivationCodeUsedAt: &usedAt,
			}, nil
		},
		ActivateFunc: func(ctx context.Context, id int64) error {
			activateCalled = true
			return nil
		},
	}

	err := newAuthService(users, &MockCodeRegistry{}).Activate(context.Background(), "a@x.com", code)

	assert.ErrorIs(t, err, models.ErrAlreadyActivated)
	assert.False(t, activateCalled, "repeat activation must not touch the use timestamp")
}

// ============================================================================
// Login
// ============================================================================

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	users := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
	}

	resp, err := newAuthService(users, &MockCodeRegistry{}).Login(context.Background(), "nobody@x.com", "pw123456", "")

	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	assert.Nil(t, resp)
}

func TestAuthService_Login_NormalizesEmailLookup(t *testing.T) {
	var lookedUp string
	users := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			lookedUp = email
			return nil, models.ErrNotFound
		},
	}

	_, err := newAuthService(users, &MockCodeRegistry{}).Login(context.Background(), "  Someone@Example.COM ", "pw123456", "")

	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	assert.Equal(t, "someone@example.com", lookedUp)
}

func TestAuthService_Login_LockedAccount(t *testing.T) {
	lockedUntil := time.Now().Add(10 * time.Minute)

	user := NewTestUser(5, "a@x.com")
	user.PasswordHash = hashFor(t, "pw123456")
	user.LockedUntil = &lockedUntil
	user.LoginAttempts = 5

	users := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
	}

	// Even the correct password fails while the lock is active
	resp, err := newAuthService(users, &MockCodeRegistry{}).Login(context.Background(), "a@x.com", "pw123456", "")

	assert.ErrorIs(t, err, models.ErrAccountLocked)
	assert.Nil(t, resp)
}

func TestAuthService_Login_ExpiredLockIsBypassed(t *testing.T) {
	expired := time.Now().Add(-time.Minute)

	user := NewTestUser(5, "a@x.com")
	user.PasswordHash = hashFor(t, "pw123456")
	user.LockedUntil = &expired

	users := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
	}

	resp, err := newAuthService(users, &MockCodeRegistry{}).Login(context.Background(), "a@x.com", "pw123456", "")

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestAuthService_Login_NotActivated(t *testing.T) {
	user := NewTestUser(5, "a@x.com")
	user.PasswordHash = hashFor(t, "pw123456")
	user.IsActivated = false

	users := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
	}

	resp, err := newAuthService(users, &MockCodeRegistry{}).Login(context.Background(), "a@x.com", "pw123456", "")

	assert.ErrorIs(t, err, models.ErrAccountNotActivated)
	assert.Nil(t, resp)
}

func TestAuthService_Login_WrongPasswordCountsAttempt(t *testing.T) {
	user := NewTestUser(5, "a@x.com")
	user.PasswordHash = hashFor(t, "pw123456")

	var recordedMax int
	var recordedLock time.Time

	users := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
		RecordFailedLoginFunc: func(ctx context.Context, id int64, maxAttempts int, lockUntil time.Time) (int, *time.Time, error) {
			recordedMax = maxAttempts
			recordedLock = lockUntil
			return 1, nil, nil
		},
	}

	resp, err := newAuthService(users, &MockCodeRegistry{}).Login(context.Background(), "a@x.com", "wrongpw", "")

	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	assert.Nil(t, resp)
	assert.Equal(t, 5, recordedMax)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), recordedLock, time.Minute)
}

func TestAuthService_Login_Success(t *testing.T) {
	user := NewTestUser(5, "a@x.com")
	user.PasswordHash = hashFor(t, "pw123456")
	user.LoginAttempts = 3

	resetCalled := false

	users := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
		RecordSuccessfulLoginFunc: func(ctx context.Context, id int64) error {
			resetCalled = true
			assert.Equal(t, int64(5), id)
			return nil
		},
	}

	svc := newAuthService(users, &MockCodeRegistry{})
	resp, err := svc.Login(context.Background(), "a@x.com", "pw123456", "203.0.113.9")

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "a@x.com", resp.User.Email)
	assert.True(t, resetCalled, "a successful login must reset the attempt counter")

	// The issued token round-trips through verification
	verified, err := svc.VerifyToken(context.Background(), resp.Token)
	require.Error(t, err) // mock GetByID has no user wired

	users.GetByIDFunc = func(ctx context.Context, id int64) (*models.User, error) {
		return user, nil
	}
	verified, err = svc.VerifyToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", verified.Email)
}

// ============================================================================
// VerifyToken
// ============================================================================

func TestAuthService_VerifyToken_Missing(t *testing.T) {
	svc := newAuthService(&MockUserRepository{}, &MockCodeRegistry{})

	_, err := svc.VerifyToken(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrMissingToken)

	_, err = svc.VerifyToken(context.Background(), "   ")
	assert.ErrorIs(t, err, models.ErrMissingToken)
}

func TestAuthService_VerifyToken_Invalid(t *testing.T) {
	svc := newAuthService(&MockUserRepository{}, &MockCodeRegistry{})

	_, err := svc.VerifyToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestAuthService_VerifyToken_DeletedAccount(t *testing.T) {
	users := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id int64) (*models.User, error) {
			return nil, models.ErrNotFound
		},
	}
	svc := newAuthService(users, &MockCodeRegistry{})

	tm := auth.NewTokenManager("test-secret-key-long-enough", 24*time.Hour)
	token, err := tm.GenerateToken(99, "gone@x.com")
	require.NoError(t, err)

	_, err = svc.VerifyToken(context.Background(), token)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}
