package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nskaret/lingoread/internal/auth"
	"github.com/nskaret/lingoread/internal/models"
	"github.com/nskaret/lingoread/internal/services"
	pkghttp "github.com/nskaret/lingoread/pkg/http"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext attaches an authenticated account to the request context
func WithAuthContext(req *http.Request, user *models.User) *http.Request {
	ctx := context.WithValue(req.Context(), auth.UserContextKey, user)
	return req.WithContext(ctx)
}

// WithAdminContext attaches an admin account to the request context
func WithAdminContext(req *http.Request, userID int64, email string) *http.Request {
	user := &models.User{
		ID:          userID,
		Email:       email,
		IsActivated: true,
		IsAdmin:     true,
	}
	return WithAuthContext(req, user)
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	RegisterFunc    func(ctx context.Context, email, password, activationCode string) (*services.UserResponse, error)
	ActivateFunc    func(ctx context.Context, email, activationCode string) error
	LoginFunc       func(ctx context.Context, email, password, ipAddress string) (*services.LoginResponse, error)
	VerifyTokenFunc func(ctx context.Context, token string) (*models.User, error)
}

func (m *MockAuthService) Register(ctx context.Context, email, password, activationCode string) (*services.UserResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, password, activationCode)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAuthService) Activate(ctx context.Context, email, activationCode string) error {
	if m.ActivateFunc != nil {
		return m.ActivateFunc(ctx, email, activationCode)
	}
	return models.ErrInternalServer
}

func (m *MockAuthService) Login(ctx context.Context, email, password, ipAddress string) (*services.LoginResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password, ipAddress)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAuthService) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	if m.VerifyTokenFunc != nil {
		return m.VerifyTokenFunc(ctx, token)
	}
	return nil, models.ErrInvalidToken
}

// MockBlogService implements BlogServiceInterface for testing
type MockBlogService struct {
	ListBlogsFunc   func(ctx context.Context) ([]*models.Blog, error)
	GetBlogByIDFunc func(ctx context.Context, id int64) (*models.Blog, error)
	CreateBlogFunc  func(ctx context.Context, blog *models.Blog) (*models.Blog, error)
	UpdateBlogFunc  func(ctx context.Context, id int64, blog *models.Blog) (*models.Blog, error)
	DeleteBlogFunc  func(ctx context.Context, id int64) error
}

func (m *MockBlogService) ListBlogs(ctx context.Context) ([]*models.Blog, error) {
	if m.ListBlogsFunc != nil {
		return m.ListBlogsFunc(ctx)
	}
	return []*models.Blog{}, nil
}

func (m *MockBlogService) GetBlogByID(ctx context.Context, id int64) (*models.Blog, error) {
	if m.GetBlogByIDFunc != nil {
		return m.GetBlogByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockBlogService) CreateBlog(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	if m.CreateBlogFunc != nil {
		return m.CreateBlogFunc(ctx, blog)
	}
	return nil, models.ErrInternalServer
}

func (m *MockBlogService) UpdateBlog(ctx context.Context, id int64, blog *models.Blog) (*models.Blog, error) {
	if m.UpdateBlogFunc != nil {
		return m.UpdateBlogFunc(ctx, id, blog)
	}
	return nil, models.ErrInternalServer
}

func (m *MockBlogService) DeleteBlog(ctx context.Context, id int64) error {
	if m.DeleteBlogFunc != nil {
		return m.DeleteBlogFunc(ctx, id)
	}
	return nil
}

// MockAdminService implements AdminServiceInterface for testing
type MockAdminService struct {
	ListUsersFunc        func(ctx context.Context, limit, offset int) ([]*models.User, error)
	UpdateUserStatusFunc func(ctx context.Context, actorID, targetID int64, patch models.UserStatusPatch) (*models.User, error)
	DeleteUserFunc       func(ctx context.Context, actorID, targetID int64) error
	CreateUserFunc       func(ctx context.Context, actorID int64, email, password string, isAdmin bool) (*models.User, error)
	GenerateCodeFunc     func(ctx context.Context, actorID int64, recipient string) (*models.ActivationCode, error)
	ListCodesFunc        func(ctx context.Context) ([]*models.ActivationCode, error)
	DeleteCodeFunc       func(ctx context.Context, code string) error
	ListBlogsFunc        func(ctx context.Context) ([]*models.Blog, error)
	DeleteBlogFunc       func(ctx context.Context, id int64) error
	StatsFunc            func(ctx context.Context) (*services.AdminStats, error)
}

func (m *MockAdminService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx, limit, offset)
	}
	return []*models.User{}, nil
}

func (m *MockAdminService) UpdateUserStatus(ctx context.Context, actorID, targetID int64, patch models.UserStatusPatch) (*models.User, error) {
	if m.UpdateUserStatusFunc != nil {
		return m.UpdateUserStatusFunc(ctx, actorID, targetID, patch)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAdminService) DeleteUser(ctx context.Context, actorID, targetID int64) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, actorID, targetID)
	}
	return nil
}

func (m *MockAdminService) CreateUser(ctx context.Context, actorID int64, email, password string, isAdmin bool) (*models.User, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, actorID, email, password, isAdmin)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAdminService) GenerateCode(ctx context.Context, actorID int64, recipient string) (*models.ActivationCode, error) {
	if m.GenerateCodeFunc != nil {
		return m.GenerateCodeFunc(ctx, actorID, recipient)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAdminService) ListCodes(ctx context.Context) ([]*models.ActivationCode, error) {
	if m.ListCodesFunc != nil {
		return m.ListCodesFunc(ctx)
	}
	return []*models.ActivationCode{}, nil
}

func (m *MockAdminService) DeleteCode(ctx context.Context, code string) error {
	if m.DeleteCodeFunc != nil {
		return m.DeleteCodeFunc(ctx, code)
	}
	return nil
}

func (m *MockAdminService) ListBlogs(ctx context.Context) ([]*models.Blog, error) {
	if m.ListBlogsFunc != nil {
		return m.ListBlogsFunc(ctx)
	}
	return []*models.Blog{}, nil
}

func (m *MockAdminService) DeleteBlog(ctx context.Context, id int64) error {
	if m.DeleteBlogFunc != nil {
		return m.DeleteBlogFunc(ctx, id)
	}
	return nil
}

func (m *MockAdminService) Stats(ctx context.Context) (*services.AdminStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &services.AdminStats{}, nil
}
