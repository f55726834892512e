package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/nskaret/lingoread/internal/auth"
	"github.com/nskaret/lingoread/internal/models"
	pkgauth "github.com/nskaret/lingoread/pkg/auth"
	pkglogger "github.com/nskaret/lingoread/pkg/logger"
)

// UserRepository defines the account store surface used by the services
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmailAndCode(ctx context.Context, email, code string) (*models.User, error)
	HasInactiveWithCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	UpdateStatus(ctx context.Context, id int64, patch models.UserStatusPatch) (*models.User, error)
	Activate(ctx context.Context, id int64) error
	RecordFailedLogin(ctx context.Context, id int64, maxAttempts int, lockUntil time.Time) (int, *time.Time, error)
	RecordSuccessfulLogin(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	CountAdmins(ctx context.Context) (int64, error)
}

// CodeRegistry defines the activation code store surface
type CodeRegistry interface {
	Create(ctx context.Context, code string, createdBy *int64) (*models.ActivationCode, error)
	IsUnconsumed(ctx context.Context, code string) (bool, error)
	Consume(ctx context.Context, code string) error
	ListUnconsumed(ctx context.Context) ([]*models.ActivationCode, error)
	Delete(ctx context.Context, code string) error
	CountUnconsumed(ctx context.Context) (int64, error)
	PurgeConsumed(ctx context.Context, before time.Time) (int64, error)
}

// LockoutPolicy controls the failed-login counter
type LockoutPolicy struct {
	MaxAttempts     int
	LockoutDuration time.Duration
}

// DefaultLockoutPolicy locks an account for 15 minutes after 5 consecutive
// failed attempts.
func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{
		MaxAttempts:     5,
		LockoutDuration: 15 * time.Minute,
	}
}

// AuthService drives the account lifecycle: registration, activation,
// login with lockout, and token verification.
type AuthService struct {
	repo        UserRepository
	codes       CodeRegistry
	tm          *auth.TokenManager
	lockout     LockoutPolicy
	timingDelay *auth.TimingDelay
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	repo UserRepository,
	codes CodeRegistry,
	tm *auth.TokenManager,
	lockout LockoutPolicy,
	timingDelay *auth.TimingDelay,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *AuthService {
	return &AuthService{
		repo:        repo,
		codes:       codes,
		tm:          tm,
		lockout:     lockout,
		timingDelay: timingDelay,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// UserResponse is the public projection of an account
type UserResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	IsActivated bool   `json:"is_activated"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// Register creates an inactive account against a one-time activation code.
func (s *AuthService) Register(ctx context.Context, email, password, activationCode string) (*UserResponse, error) {
	email = models.NormalizeEmail(email)

	// Duplicate check first so the caller never burns a code on an email
	// that cannot register.
	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		s.logger.Info("registration failed: account already exists")
		return nil, models.ErrConflict
	}
	if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check for existing account", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	unconsumed, err := s.codes.IsUnconsumed(ctx, activationCode)
	if err != nil {
		s.logger.Error("failed to check activation code", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if !unconsumed {
		s.logger.Info("registration failed: invalid activation code")
		return nil, models.ErrInvalidActivationCode
	}

	// Defensive double-check: an account row already holding this code
	// means the registry and the account table disagree.
	used, err := s.repo.HasInactiveWithCode(ctx, activationCode)
	if err != nil {
		s.logger.Error("failed to cross-check activation code", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if used {
		s.logger.Warn("registration failed: activation code already referenced by an account")
		return nil, models.ErrActivationCodeUsed
	}

	// Claim the code. Exactly one of two concurrent registrations racing
	// on the same code gets past this point.
	if err := s.codes.Consume(ctx, activationCode); err != nil {
		if errors.Is(err, models.ErrInvalidActivationCode) {
			return nil, models.ErrInvalidActivationCode
		}
		s.logger.Error("failed to consume activation code", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	hashedPassword, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user := &models.User{
		Email:          email,
		PasswordHash:   hashedPassword,
		ActivationCode: &activationCode,
		IsActivated:    false,
	}

	createdUser, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create account", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("account registered", slog.Int64("user_id", createdUser.ID))
	s.auditLogger.LogAccountAction("account_registered", createdUser.ID, "", nil)

	return userModelToResponse(createdUser), nil
}

// Activate flips an inactive account to active, consuming its code for
// good. Activating twice yields ErrAlreadyActivated, never silent success.
func (s *AuthService) Activate(ctx context.Context, email, activationCode string) error {
	email = models.NormalizeEmail(email)

	user, err := s.repo.GetByEmailAndCode(ctx, email, activationCode)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("activation failed: no matching account")
			return models.ErrInvalidActivationCode
		}
		s.logger.Error("failed to look up account for activation", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if user.IsActivated {
		return models.ErrAlreadyActivated
	}

	if err := s.repo.Activate(ctx, user.ID); err != nil {
		s.logger.Error("failed to activate account", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("account activated", slog.Int64("user_id", user.ID))
	s.auditLogger.LogAccountAction("account_activated", user.ID, "", nil)

	return nil
}

// Login authenticates an account and issues a session token. Failures are
// counted atomically on the account row; reaching the attempt threshold
// locks the account for the configured lockout window.
func (s *AuthService) Login(ctx context.Context, email, password, ipAddress string) (*LoginResponse, error) {
	start := time.Now()
	email = models.NormalizeEmail(email)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Same error surface as a wrong password so callers cannot
			// probe for account existence.
			s.audit("login_failed", 0, ipAddress, "invalid_credentials")
			s.delayFrom(start)
			return nil, models.ErrInvalidCredentials
		}
		s.logger.Error("failed to get account by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if user.Locked(time.Now()) {
		s.audit("login_failed", user.ID, ipAddress, "account_locked")
		s.delayFrom(start)
		return nil, models.ErrAccountLocked
	}

	if !user.IsActivated {
		s.audit("login_failed", user.ID, ipAddress, "account_not_activated")
		s.delayFrom(start)
		return nil, models.ErrAccountNotActivated
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		lockUntil := time.Now().Add(s.lockout.LockoutDuration)
		attempts, _, recErr := s.repo.RecordFailedLogin(ctx, user.ID, s.lockout.MaxAttempts, lockUntil)
		if recErr != nil {
			s.logger.Error("failed to record login failure", slog.Int64("user_id", user.ID), slog.Any("error", recErr))
			return nil, models.ErrInternalServer
		}

		if attempts >= s.lockout.MaxAttempts {
			s.logger.Warn("account locked after repeated failures",
				slog.Int64("user_id", user.ID),
				slog.Int("attempts", attempts))
		}

		s.audit("login_failed", user.ID, ipAddress, "invalid_credentials")
		s.delayFrom(start)
		return nil, models.ErrInvalidCredentials
	}

	if err := s.repo.RecordSuccessfulLogin(ctx, user.ID); err != nil {
		s.logger.Error("failed to record login success", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	token, err := s.tm.GenerateToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to generate session token", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user logged in", slog.Int64("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_success",
		UserID:    user.ID,
		IPAddress: ipAddress,
		Success:   true,
	})

	return &LoginResponse{
		Token: token,
		User:  userModelToResponse(user),
	}, nil
}

// VerifyToken validates a session token and resolves the referenced
// account. Lock and activation state are not re-checked here; the access
// control middleware layers those where required.
func (s *AuthService) VerifyToken(ctx context.Context, tokenString string) (*models.User, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, models.ErrMissingToken
	}

	claims, err := s.tm.ValidateToken(tokenString)
	if err != nil {
		return nil, models.ErrInvalidToken
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidToken
		}
		s.logger.Error("failed to resolve account for token", slog.Int64("user_id", claims.UserID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return user, nil
}

func (s *AuthService) audit(eventType string, userID int64, ipAddress, reason string) {
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType:     eventType,
		UserID:        userID,
		IPAddress:     ipAddress,
		FailureReason: reason,
		Success:       false,
	})
}

// delayFrom evens out the response time of the failure paths so a fast
// "no such account" cannot be told apart from a slow bcrypt mismatch.
func (s *AuthService) delayFrom(start time.Time) {
	if s.timingDelay != nil {
		s.timingDelay.WaitFrom(start)
	}
}

// userModelToResponse converts an account to its public projection
func userModelToResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		IsActivated: user.IsActivated,
	}
}
