package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/nskaret/lingoread/internal/models"
	pkgauth "github.com/nskaret/lingoread/pkg/auth"
	pkglogger "github.com/nskaret/lingoread/pkg/logger"
)

// BlogRepository defines the lesson store surface
type BlogRepository interface {
	List(ctx context.Context) ([]*models.Blog, error)
	GetByID(ctx context.Context, id int64) (*models.Blog, error)
	Create(ctx context.Context, blog *models.Blog) (*models.Blog, error)
	Update(ctx context.Context, id int64, blog *models.Blog) (*models.Blog, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// EmailSender delivers freshly generated activation codes. May be nil when
// email delivery is not configured.
type EmailSender interface {
	SendActivationCode(ctx context.Context, to, code string) error
}

// AdminService handles user management, the activation code registry and
// dashboard statistics. Admin-created accounts are a privileged creation
// path: they are activated immediately and never consume a public code.
type AdminService struct {
	users       UserRepository
	codes       CodeRegistry
	blogs       BlogRepository
	email       EmailSender
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	users UserRepository,
	codes CodeRegistry,
	blogs BlogRepository,
	email EmailSender,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *AdminService {
	return &AdminService{
		users:       users,
		codes:       codes,
		blogs:       blogs,
		email:       email,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// AdminStats holds the dashboard counters
type AdminStats struct {
	TotalUsers            int64 `json:"totalUsers"`
	TotalBlogs            int64 `json:"totalBlogs"`
	TotalAdmins           int64 `json:"totalAdmins"`
	ActiveActivationCodes int64 `json:"activeActivationCodes"`
}

// ListUsers returns accounts ordered newest first
func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list users", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return users, nil
}

// UpdateUserStatus applies an explicit patch to the activation/admin flags
func (s *AdminService) UpdateUserStatus(ctx context.Context, actorID, targetID int64, patch models.UserStatusPatch) (*models.User, error) {
	if patch.Empty() {
		return nil, models.ErrBadRequest
	}

	user, err := s.users.UpdateStatus(ctx, targetID, patch)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update user status", slog.Int64("user_id", targetID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogAccountAction("user_status_updated", targetID, "", map[string]string{
		"actor_id": formatID(actorID),
	})

	return user, nil
}

// DeleteUser removes an account. An admin may not delete their own record.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, targetID int64) error {
	if actorID == targetID {
		return models.ErrSelfDeletion
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete user", slog.Int64("user_id", targetID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("user deleted", slog.Int64("user_id", targetID), slog.Int64("actor_id", actorID))
	s.auditLogger.LogAccountAction("user_deleted", targetID, "", map[string]string{
		"actor_id": formatID(actorID),
	})

	return nil
}

// CreateUser provisions an account on behalf of an admin. The account is
// activated immediately and records who created it.
func (s *AdminService) CreateUser(ctx context.Context, actorID int64, email, password string, isAdmin bool) (*models.User, error) {
	email = models.NormalizeEmail(email)

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, models.ErrConflict
	}
	if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check for existing account", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := pkgauth.ValidatePassword(password); err != nil {
		return nil, models.ErrBadRequest
	}

	hashedPassword, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hashedPassword,
		IsActivated:  true,
		IsAdmin:      isAdmin,
		CreatedBy:    &actorID,
	}

	createdUser, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user provisioned by admin",
		slog.Int64("user_id", createdUser.ID),
		slog.Int64("actor_id", actorID),
		slog.Bool("is_admin", isAdmin))
	s.auditLogger.LogAccountAction("user_provisioned", createdUser.ID, "", map[string]string{
		"actor_id": formatID(actorID),
	})

	return createdUser, nil
}

// GenerateCode mints a one-time activation code. When a recipient address
// is given and email delivery is configured, the code is sent out; a
// delivery failure does not invalidate the code.
func (s *AdminService) GenerateCode(ctx context.Context, actorID int64, recipient string) (*models.ActivationCode, error) {
	code, err := s.codes.Create(ctx, uuid.NewString(), &actorID)
	if err != nil {
		s.logger.Error("failed to create activation code", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if recipient != "" && s.email != nil {
		if err := s.email.SendActivationCode(ctx, recipient, code.Code); err != nil {
			s.logger.Error("failed to send activation code email",
				slog.String("recipient", pkglogger.SanitizedEmail(recipient)),
				slog.Any("error", err))
		}
	}

	s.auditLogger.LogAccountAction("activation_code_generated", actorID, "", nil)

	return code, nil
}

// ListCodes returns the unconsumed activation codes
func (s *AdminService) ListCodes(ctx context.Context) ([]*models.ActivationCode, error) {
	codes, err := s.codes.ListUnconsumed(ctx)
	if err != nil {
		s.logger.Error("failed to list activation codes", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return codes, nil
}

// DeleteCode removes an unconsumed code from the registry
func (s *AdminService) DeleteCode(ctx context.Context, code string) error {
	if err := s.codes.Delete(ctx, code); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete activation code", slog.Any("error", err))
		return models.ErrInternalServer
	}
	return nil
}

// ListBlogs returns all lessons for the admin dashboard
func (s *AdminService) ListBlogs(ctx context.Context) ([]*models.Blog, error) {
	blogs, err := s.blogs.List(ctx)
	if err != nil {
		s.logger.Error("failed to list blogs", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return blogs, nil
}

// DeleteBlog removes a lesson
func (s *AdminService) DeleteBlog(ctx context.Context, id int64) error {
	if err := s.blogs.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete blog", slog.Int64("blog_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}
	return nil
}

// Stats gathers the dashboard counters
func (s *AdminService) Stats(ctx context.Context) (*AdminStats, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		s.logger.Error("failed to count users", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	totalBlogs, err := s.blogs.Count(ctx)
	if err != nil {
		s.logger.Error("failed to count blogs", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	totalAdmins, err := s.users.CountAdmins(ctx)
	if err != nil {
		s.logger.Error("failed to count admins", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	activeCodes, err := s.codes.CountUnconsumed(ctx)
	if err != nil {
		s.logger.Error("failed to count activation codes", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return &AdminStats{
		TotalUsers:            totalUsers,
		TotalBlogs:            totalBlogs,
		TotalAdmins:           totalAdmins,
		ActiveActivationCodes: activeCodes,
	}, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
