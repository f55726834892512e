package http_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	pkghttp "github.com/nskaret/lingoread/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) pkghttp.ErrorResponse {
	t.Helper()
	var resp pkghttp.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	pkghttp.WriteError(w, 400, "test_error", "Test message")

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	resp := decodeError(t, w)
	assert.Equal(t, "test_error", resp.Error)
	assert.Equal(t, "Test message", resp.Message)
}

func TestErrorWriters(t *testing.T) {
	tests := []struct {
		name       string
		write      func(w *httptest.ResponseRecorder)
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "bad request",
			write:      func(w *httptest.ResponseRecorder) { pkghttp.WriteBadRequest(w, "Invalid input") },
			wantStatus: 400,
			wantCode:   "bad_request",
			wantMsg:    "Invalid input",
		},
		{
			name:       "unauthorized",
			write:      func(w *httptest.ResponseRecorder) { pkghttp.WriteUnauthorized(w, "Invalid credentials") },
			wantStatus: 401,
			wantCode:   "unauthorized",
			wantMsg:    "Invalid credentials",
		},
		{
			name:       "forbidden",
			write:      func(w *httptest.ResponseRecorder) { pkghttp.WriteForbidden(w, "Access denied") },
			wantStatus: 403,
			wantCode:   "forbidden",
			wantMsg:    "Access denied",
		},
		{
			name:       "not found",
			write:      func(w *httptest.ResponseRecorder) { pkghttp.WriteNotFound(w, "Resource not found") },
			wantStatus: 404,
			wantCode:   "not_found",
			wantMsg:    "Resource not found",
		},
		{
			name:       "locked",
			write:      func(w *httptest.ResponseRecorder) { pkghttp.WriteLocked(w, "Account is temporarily locked") },
			wantStatus: 423,
			wantCode:   "account_locked",
			wantMsg:    "Account is temporarily locked",
		},
		{
			name:       "internal error",
			write:      func(w *httptest.ResponseRecorder) { pkghttp.WriteInternalError(w, "Internal server error") },
			wantStatus: 500,
			wantCode:   "internal_error",
			wantMsg:    "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.wantCode, resp.Error)
			assert.Equal(t, tt.wantMsg, resp.Message)
		})
	}
}

func TestErrorResponseFieldNames(t *testing.T) {
	w := httptest.NewRecorder()
	pkghttp.WriteError(w, 401, "unauthorized", "Invalid token")

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unauthorized", resp["error"])
	assert.Equal(t, "Invalid token", resp["message"])
}
