package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nskaret/lingoread/internal/models"
	"github.com/nskaret/lingoread/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestRegister_Success(t *testing.T) {
	mockService := &MockAuthService{
		RegisterFunc: func(ctx context.Context, email, password, activationCode string) (*services.UserResponse, error) {
			return &services.UserResponse{ID: 1, Email: email, IsActivated: false}, nil
		},
	}
	handler := NewAuthHandler(mockService, nil)

	req := NewTestRequest(t, http.MethodPost, "/auth/register", RegisterRequest{
		Email:          "alice@example.com",
		Password:       "pw123456",
		ActivationCode: "CODE1",
	})
	w := httptest.NewRecorder()

	handler.Register(w, req)

	var resp services.UserResponse
	AssertJSONResponse(t, w, http.StatusCreated, &resp)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.False(t, resp.IsActivated)
}

func TestRegister_DuplicateAccount(t *testing.T) {
	mockService := &MockAuthService{
		RegisterFunc: func(ctx context.Context, email, password, activationCode string) (*services.UserResponse, error) {
			return nil, models.ErrConflict
		},
	}
	handler := NewAuthHandler(mockService, nil)

	req := NewTestRequest(t, http.MethodPost, "/auth/register", RegisterRequest{
		Email:          "alice@example.com",
		Password:       "pw123456",
		ActivationCode: "CODE1",
	})
	w := httptest.NewRecorder()

	handler.Register(w, req)

	AssertErrorResponse(t, w, http.StatusBadRequest, "duplicate_account")
}

func TestRegister_InvalidCode(t *testing.T) {
	mockService := &MockAuthService{
		RegisterFunc: func(ctx context.Context, email, password, activationCode string) (*services.UserResponse, error) {
			return nil, models.ErrInvalidActivationCode
		},
	}
	handler := NewAuthHandler(mockService, nil)

	req := NewTestRequest(t, http.MethodPost, "/auth/register", RegisterRequest{
		Email:          "alice@example.com",
		Password:       "pw123456",
		ActivationCode: "WRONG",
	})
	w := httptest.NewRecorder()

	handler.Register(w, req)

	AssertErrorResponse(t, w, http.StatusBadRequest, "invalid_activation_code")
}

func TestRegister_ShortPassword(t *testing.T) {
	serviceCalled := false
	mockService := &MockAuthService{
		RegisterFunc: func(ctx context.Context, email, password, activationCode string) (*services.UserResponse, error) {
			serviceCalled = true
			return nil, nil
		},
	}
	handler := NewAuthHandler(mockService, nil)

	req := NewTestRequest(t, http.MethodPost, "/auth/register", RegisterRequest{
		Email:          "alice@example.com",
		Password:       "short",
		ActivationCode: "CODE1",
	})
	w := httptest.NewRecorder()

	handler.Register(w, req)

	AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
	assert.False(t, serviceCalled, "validation failures must not reach the service")
}

func TestActivate_Success(t *testing.T) {
	mockService := &MockAuthService{
		ActivateFunc: func(ctx context.Context, email, activationCode string) error {
			return nil
		},
	}
	handler := NewAuthHandler(mockService, nil)

	req := NewTestRequest(t, http.MethodPost, "/auth/activate", ActivateRequest{
		Email:          "alice@example.com",
		ActivationCode: "CODE1",
	})
	w := httptest.NewRecorder()

	handler.Activate(w, req)

	var resp map[string]string
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.NotEmpty(t, resp["message"])
}

func TestActivate_AlreadyActivated(t *testing.T) {
	mockService := &MockAuthService{
		ActivateFunc: func(ctx context.Context, email, activationCode string) error {
			return models.ErrAlreadyActivated
		},
	}
	handler := NewAuthHandler(mockService, nil)

	req := NewTestRequest(t, http.MethodPost, "/auth/activate", ActivateRequest{
		Email:          "alice@example.com",
		ActivationCode: "CODE1",
	})
	w := httptest.NewRecorder()

	handler.Activate(w, req)

	AssertErrorResponse(t, w, http.StatusBadRequest, "already_activated")
}

func TestLogin_Success(t *testing.T) {
	mockService := &MockAuthService{
		LoginFunc: func(ctx context.Context, email, password, ipAddress string) (*services.LoginResponse, error) {
			return &services.LoginResponse{
				Token: "token123",
				User:  &services.UserResponse{ID: 1, Email: email, IsActivated: true},
			}, nil
		},
	}
	handler := NewAuthHandler(mockService, nil)

	req := NewTestRequest(t, http.MethodPost, "/auth/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "pw123456",
	})
	w := httptest.NewRecorder()

	handler.Login(w, req)

	var resp services.LoginResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "token123", resp.Token)
	assert.Equal(t, "alice@example.com", resp.User.Email)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	mockService := &MockAuthService{
		LoginFunc: func(ctx context.Context, email, password, ipAddress string) (*services.LoginResponse, error) {
			return nil, models.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(mockService, nil)

	req := NewTestRequest(t, http.MethodPost, "/auth/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "wrongpw",
	})
	w := httptest.NewRecorder()

	handler.Login(w, req)

	AssertErrorResponse(t, w, http.StatusUnauthorized, "unauthorized")
}

func TestLogin_AccountLocked(t *testing.T) {
	mockService := &MockAuthService{
		LoginFunc: func(ctx context.Context, email, password, ipAddress string) (*services.LoginResponse, error) {
			return nil, models.ErrAccountLocked
		},
	}
	handler := NewAuthHandler(mockService, nil)

	req := NewTestRequest(t, http.MethodPost, "/auth/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "pw123456",
	})
	w := httptest.NewRecorder()

	handler.Login(w, req)

	AssertErrorResponse(t, w, http.StatusLocked, "account_locked")
}

func TestLogin_NotActivated(t *testing.T) {
	mockService := &MockAuthService{
		LoginFunc: func(ctx context.Context, email, password, ipAddress string) (*services.LoginResponse, error) {
			return nil, models.ErrAccountNotActivated
		},
	}
	handler := NewAuthHandler(mockService, nil)

	req := NewTestRequest(t, http.MethodPost, "/auth/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "pw123456",
	})
	w := httptest.NewRecorder()

	handler.Login(w, req)

	AssertErrorResponse(t, w, http.StatusForbidden, "account_not_activated")
}

func TestVerify_Success(t *testing.T) {
	mockService := &MockAuthService{
		VerifyTokenFunc: func(ctx context.Context, token string) (*models.User, error) {
			return &models.User{ID: 1, Email: "alice@example.com", IsActivated: true}, nil
		},
	}
	handler := NewAuthHandler(mockService, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer token123")
	w := httptest.NewRecorder()

	handler.Verify(w, req)

	var resp VerifyResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.True(t, resp.Valid)
	assert.Equal(t, "alice@example.com", resp.User.Email)
}

func TestVerify_MissingHeader(t *testing.T) {
	handler := NewAuthHandler(&MockAuthService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	w := httptest.NewRecorder()

	handler.Verify(w, req)

	AssertErrorResponse(t, w, http.StatusUnauthorized, "unauthorized")
}

func TestVerify_InvalidToken(t *testing.T) {
	mockService := &MockAuthService{
		VerifyTokenFunc: func(ctx context.Context, token string) (*models.User, error) {
			return nil, models.ErrInvalidToken
		},
	}
	handler := NewAuthHandler(mockService, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer expired")
	w := httptest.NewRecorder()

	handler.Verify(w, req)

	AssertErrorResponse(t, w, http.StatusUnauthorized, "unauthorized")
}

func TestLogout_AlwaysSucceeds(t *testing.T) {
	handler := NewAuthHandler(&MockAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	w := httptest.NewRecorder()

	handler.Logout(w, req)

	var resp map[string]string
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "Logged out", resp["message"])
}
