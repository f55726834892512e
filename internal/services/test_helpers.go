package services

import (
	"context"
	"time"

	"github.com/nskaret/lingoread/internal/models"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc               func(ctx context.Context, id int64) (*models.User, error)
	GetByEmailFunc            func(ctx context.Context, email string) (*models.User, error)
	GetByEmailAndCodeFunc     func(ctx context.Context, email, code string) (*models.User, error)
	HasInactiveWithCodeFunc   func(ctx context.Context, code string) (bool, error)
	ListFunc                  func(ctx context.Context, limit, offset int) ([]*models.User, error)
	CreateFunc                func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateStatusFunc          func(ctx context.Context, id int64, patch models.UserStatusPatch) (*models.User, error)
	ActivateFunc              func(ctx context.Context, id int64) error
	RecordFailedLoginFunc     func(ctx context.Context, id int64, maxAttempts int, lockUntil time.Time) (int, *time.Time, error)
	RecordSuccessfulLoginFunc func(ctx context.Context, id int64) error
	DeleteFunc                func(ctx context.Context, id int64) error
	CountFunc                 func(ctx context.Context) (int64, error)
	CountAdminsFunc           func(ctx context.Context) (int64, error)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmailAndCode(ctx context.Context, email, code string) (*models.User, error) {
	if m.GetByEmailAndCodeFunc != nil {
		return m.GetByEmailAndCodeFunc(ctx, email, code)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) HasInactiveWithCode(ctx context.Context, code string) (bool, error) {
	if m.HasInactiveWithCodeFunc != nil {
		return m.HasInactiveWithCodeFunc(ctx, code)
	}
	return false, nil
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) UpdateStatus(ctx context.Context, id int64, patch models.UserStatusPatch) (*models.User, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, patch)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Activate(ctx context.Context, id int64) error {
	if m.ActivateFunc != nil {
		return m.ActivateFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) RecordFailedLogin(ctx context.Context, id int64, maxAttempts int, lockUntil time.Time) (int, *time.Time, error) {
	if m.RecordFailedLoginFunc != nil {
		return m.RecordFailedLoginFunc(ctx, id, maxAttempts, lockUntil)
	}
	return 1, nil, nil
}

func (m *MockUserRepository) RecordSuccessfulLogin(ctx context.Context, id int64) error {
	if m.RecordSuccessfulLoginFunc != nil {
		return m.RecordSuccessfulLoginFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *MockUserRepository) CountAdmins(ctx context.Context) (int64, error) {
	if m.CountAdminsFunc != nil {
		return m.CountAdminsFunc(ctx)
	}
	return 0, nil
}

// MockCodeRegistry implements CodeRegistry for testing
type MockCodeRegistry struct {
	CreateFunc          func(ctx context.Context, code string, createdBy *int64) (*models.ActivationCode, error)
	IsUnconsumedFunc    func(ctx context.Context, code string) (bool, error)
	ConsumeFunc         func(ctx context.Context, code string) error
	ListUnconsumedFunc  func(ctx context.Context) ([]*models.ActivationCode, error)
	DeleteFunc          func(ctx context.Context, code string) error
	CountUnconsumedFunc func(ctx context.Context) (int64, error)
	PurgeConsumedFunc   func(ctx context.Context, before time.Time) (int64, error)
}

func (m *MockCodeRegistry) Create(ctx context.Context, code string, createdBy *int64) (*models.ActivationCode, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, code, createdBy)
	}
	return &models.ActivationCode{Code: code, CreatedBy: createdBy, CreatedAt: time.Now()}, nil
}

func (m *MockCodeRegistry) IsUnconsumed(ctx context.Context, code string) (bool, error) {
	if m.IsUnconsumedFunc != nil {
		return m.IsUnconsumedFunc(ctx, code)
	}
	return false, nil
}

func (m *MockCodeRegistry) Consume(ctx context.Context, code string) error {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, code)
	}
	return models.ErrInvalidActivationCode
}

func (m *MockCodeRegistry) ListUnconsumed(ctx context.Context) ([]*models.ActivationCode, error) {
	if m.ListUnconsumedFunc != nil {
		return m.ListUnconsumedFunc(ctx)
	}
	return []*models.ActivationCode{}, nil
}

func (m *MockCodeRegistry) Delete(ctx context.Context, code string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, code)
	}
	return models.ErrNotFound
}

func (m *MockCodeRegistry) CountUnconsumed(ctx context.Context) (int64, error) {
	if m.CountUnconsumedFunc != nil {
		return m.CountUnconsumedFunc(ctx)
	}
	return 0, nil
}

func (m *MockCodeRegistry) PurgeConsumed(ctx context.Context, before time.Time) (int64, error) {
	if m.PurgeConsumedFunc != nil {
		return m.PurgeConsumedFunc(ctx, before)
	}
	return 0, nil
}

// MockBlogRepository implements BlogRepository for testing
type MockBlogRepository struct {
	ListFunc    func(ctx context.Context) ([]*models.Blog, error)
	GetByIDFunc func(ctx context.Context, id int64) (*models.Blog, error)
	CreateFunc  func(ctx context.Context, blog *models.Blog) (*models.Blog, error)
	UpdateFunc  func(ctx context.Context, id int64, blog *models.Blog) (*models.Blog, error)
	DeleteFunc  func(ctx context.Context, id int64) error
	CountFunc   func(ctx context.Context) (int64, error)
}

func (m *MockBlogRepository) List(ctx context.Context) ([]*models.Blog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.Blog{}, nil
}

func (m *MockBlogRepository) GetByID(ctx context.Context, id int64) (*models.Blog, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockBlogRepository) Create(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, blog)
	}
	return nil, models.ErrInternalServer
}

func (m *MockBlogRepository) Update(ctx context.Context, id int64, blog *models.Blog) (*models.Blog, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, blog)
	}
	return nil, models.ErrInternalServer
}

func (m *MockBlogRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockBlogRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// MockEmailSender implements EmailSender for testing
type MockEmailSender struct {
	SendActivationCodeFunc func(ctx context.Context, to, code string) error
}

func (m *MockEmailSender) SendActivationCode(ctx context.Context, to, code string) error {
	if m.SendActivationCodeFunc != nil {
		return m.SendActivationCodeFunc(ctx, to, code)
	}
	return nil
}

// NewTestUser builds an activated, unlocked account for tests
func NewTestUser(id int64, email string) *models.User {
	return &models.User{
		ID:          id,
		Email:       email,
		IsActivated: true,
		CreatedAt:   time.Now(),
	}
}
