package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nskaret/lingoread/internal/models"
	"github.com/nskaret/lingoread/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminListUsers_Success(t *testing.T) {
	mockService := &MockAdminService{
		ListUsersFunc: func(ctx context.Context, limit, offset int) ([]*models.User, error) {
			assert.Equal(t, 100, limit)
			assert.Equal(t, 0, offset)
			return []*models.User{
				{ID: 1, Email: "admin@example.com", IsAdmin: true, IsActivated: true},
				{ID: 2, Email: "alice@example.com", IsActivated: true},
			}, nil
		},
	}
	handler := NewAdminHandler(mockService)

	req := WithAdminContext(httptest.NewRequest(http.MethodGet, "/admin/users", nil), 1, "admin@example.com")
	w := httptest.NewRecorder()

	handler.ListUsers(w, req)

	var resp []*AdminUserResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	require.Len(t, resp, 2)
	assert.True(t, resp[0].IsAdmin)
	assert.False(t, resp[1].IsAdmin)
}

func TestAdminListUsers_Pagination(t *testing.T) {
	mockService := &MockAdminService{
		ListUsersFunc: func(ctx context.Context, limit, offset int) ([]*models.User, error) {
			assert.Equal(t, 10, limit)
			assert.Equal(t, 20, offset)
			return []*models.User{}, nil
		},
	}
	handler := NewAdminHandler(mockService)

	req := WithAdminContext(httptest.NewRequest(http.MethodGet, "/admin/users?limit=10&offset=20", nil), 1, "admin@example.com")
	w := httptest.NewRecorder()

	handler.ListUsers(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminUpdateUser_Success(t *testing.T) {
	mockService := &MockAdminService{
		UpdateUserStatusFunc: func(ctx context.Context, actorID, targetID int64, patch models.UserStatusPatch) (*models.User, error) {
			assert.Equal(t, int64(1), actorID)
			assert.Equal(t, int64(7), targetID)
			require.NotNil(t, patch.IsAdmin)
			assert.True(t, *patch.IsAdmin)
			assert.Nil(t, patch.IsActivated)
			u := &models.User{ID: targetID, Email: "alice@example.com", IsActivated: true, IsAdmin: true}
			return u, nil
		},
	}
	handler := NewAdminHandler(mockService)

	isAdmin := true
	req := NewTestRequest(t, http.MethodPut, "/admin/users/7", UpdateUserRequest{IsAdmin: &isAdmin})
	req = WithAdminContext(withURLParam(req, "id", "7"), 1, "admin@example.com")
	w := httptest.NewRecorder()

	handler.UpdateUser(w, req)

	var resp AdminUserResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.True(t, resp.IsAdmin)
}

func TestAdminUpdateUser_EmptyPatch(t *testing.T) {
	mockService := &MockAdminService{
		UpdateUserStatusFunc: func(ctx context.Context, actorID, targetID int64, patch models.UserStatusPatch) (*models.User, error) {
			return nil, models.ErrBadRequest
		},
	}
	handler := NewAdminHandler(mockService)

	req := NewTestRequest(t, http.MethodPut, "/admin/users/7", UpdateUserRequest{})
	req = WithAdminContext(withURLParam(req, "id", "7"), 1, "admin@example.com")
	w := httptest.NewRecorder()

	handler.UpdateUser(w, req)

	AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestAdminDeleteUser_Success(t *testing.T) {
	mockService := &MockAdminService{
		DeleteUserFunc: func(ctx context.Context, actorID, targetID int64) error {
			assert.Equal(t, int64(1), actorID)
			assert.Equal(t, int64(7), targetID)
			return nil
		},
	}
	handler := NewAdminHandler(mockService)

	req := WithAdminContext(withURLParam(httptest.NewRequest(http.MethodDelete, "/admin/users/7", nil), "id", "7"), 1, "admin@example.com")
	w := httptest.NewRecorder()

	handler.DeleteUser(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAdminDeleteUser_Self(t *testing.T) {
	mockService := &MockAdminService{
		DeleteUserFunc: func(ctx context.Context, actorID, targetID int64) error {
			return models.ErrSelfDeletion
		},
	}
	handler := NewAdminHandler(mockService)

	req := WithAdminContext(withURLParam(httptest.NewRequest(http.MethodDelete, "/admin/users/1", nil), "id", "1"), 1, "admin@example.com")
	w := httptest.NewRecorder()

	handler.DeleteUser(w, req)

	AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
}

func TestAdminCreateUser_Success(t *testing.T) {
	mockService := &MockAdminService{
		CreateUserFunc: func(ctx context.Context, actorID int64, email, password string, isAdmin bool) (*models.User, error) {
			createdBy := actorID
			return &models.User{
				ID:          42,
				Email:       email,
				IsActivated: true,
				IsAdmin:     isAdmin,
				CreatedBy:   &createdBy,
			}, nil
		},
	}
	handler := NewAdminHandler(mockService)

	req := NewTestRequest(t, http.MethodPost, "/admin/users", CreateUserRequest{
		Email:    "new@example.com",
		Password: "pw123456",
		IsAdmin:  false,
	})
	req = WithAdminContext(req, 1, "admin@example.com")
	w := httptest.NewRecorder()

	handler.CreateUser(w, req)

	var resp AdminUserResponse
	AssertJSONResponse(t, w, http.StatusCreated, &resp)
	assert.True(t, resp.IsActivated, "admin-created accounts are activated immediately")
	require.NotNil(t, resp.CreatedBy)
	assert.Equal(t, int64(1), *resp.CreatedBy)
}

func TestAdminGenerateCode_EmptyBody(t *testing.T) {
	mockService := &MockAdminService{
		GenerateCodeFunc: func(ctx context.Context, actorID int64, recipient string) (*models.ActivationCode, error) {
			assert.Empty(t, recipient)
			return &models.ActivationCode{ID: 1, Code: "generated-code"}, nil
		},
	}
	handler := NewAdminHandler(mockService)

	req := WithAdminContext(httptest.NewRequest(http.MethodPost, "/admin/activation-codes", nil), 1, "admin@example.com")
	w := httptest.NewRecorder()

	handler.GenerateCode(w, req)

	var resp models.ActivationCode
	AssertJSONResponse(t, w, http.StatusCreated, &resp)
	assert.Equal(t, "generated-code", resp.Code)
}

func TestAdminGenerateCode_WithRecipient(t *testing.T) {
	mockService := &MockAdminService{
		GenerateCodeFunc: func(ctx context.Context, actorID int64, recipient string) (*models.ActivationCode, error) {
			assert.Equal(t, "invitee@example.com", recipient)
			return &models.ActivationCode{ID: 1, Code: "generated-code"}, nil
		},
	}
	handler := NewAdminHandler(mockService)

	req := NewTestRequest(t, http.MethodPost, "/admin/activation-codes", GenerateCodeRequest{
		Recipient: "invitee@example.com",
	})
	req = WithAdminContext(req, 1, "admin@example.com")
	w := httptest.NewRecorder()

	handler.GenerateCode(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAdminGenerateCode_ChunkedBody(t *testing.T) {
	mockService := &MockAdminService{
		GenerateCodeFunc: func(ctx context.Context, actorID int64, recipient string) (*models.ActivationCode, error) {
			assert.Equal(t, "invitee@example.com", recipient)
			return &models.ActivationCode{ID: 1, Code: "generated-code"}, nil
		},
	}
	handler := NewAdminHandler(mockService)

	// A reader of unknown length gives ContentLength -1, as a chunked
	// request would; the recipient must still be honoured
	body := struct{ io.Reader }{strings.NewReader(`{"recipient":"invitee@example.com"}`)}
	req := httptest.NewRequest(http.MethodPost, "/admin/activation-codes", body)
	require.Equal(t, int64(-1), req.ContentLength)
	req = WithAdminContext(req, 1, "admin@example.com")
	w := httptest.NewRecorder()

	handler.GenerateCode(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAdminDeleteCode_NotFound(t *testing.T) {
	mockService := &MockAdminService{
		DeleteCodeFunc: func(ctx context.Context, code string) error {
			return models.ErrNotFound
		},
	}
	handler := NewAdminHandler(mockService)

	req := WithAdminContext(withURLParam(httptest.NewRequest(http.MethodDelete, "/admin/activation-codes/missing", nil), "code", "missing"), 1, "admin@example.com")
	w := httptest.NewRecorder()

	handler.DeleteCode(w, req)

	AssertErrorResponse(t, w, http.StatusNotFound, "not_found")
}

func TestAdminStats_Success(t *testing.T) {
	mockService := &MockAdminService{
		StatsFunc: func(ctx context.Context) (*services.AdminStats, error) {
			return &services.AdminStats{
				TotalUsers:            12,
				TotalBlogs:            40,
				TotalAdmins:           2,
				ActiveActivationCodes: 3,
			}, nil
		},
	}
	handler := NewAdminHandler(mockService)

	req := WithAdminContext(httptest.NewRequest(http.MethodGet, "/admin/stats", nil), 1, "admin@example.com")
	w := httptest.NewRecorder()

	handler.Stats(w, req)

	var resp services.AdminStats
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, int64(12), resp.TotalUsers)
	assert.Equal(t, int64(3), resp.ActiveActivationCodes)
}
