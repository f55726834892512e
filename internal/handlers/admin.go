package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nskaret/lingoread/internal/auth"
	"github.com/nskaret/lingoread/internal/models"
	"github.com/nskaret/lingoread/internal/services"
	pkghttp "github.com/nskaret/lingoread/pkg/http"
)

// AdminServiceInterface defines the interface for admin operations
type AdminServiceInterface interface {
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	UpdateUserStatus(ctx context.Context, actorID, targetID int64, patch models.UserStatusPatch) (*models.User, error)
	DeleteUser(ctx context.Context, actorID, targetID int64) error
	CreateUser(ctx context.Context, actorID int64, email, password string, isAdmin bool) (*models.User, error)
	GenerateCode(ctx context.Context, actorID int64, recipient string) (*models.ActivationCode, error)
	ListCodes(ctx context.Context) ([]*models.ActivationCode, error)
	DeleteCode(ctx context.Context, code string) error
	ListBlogs(ctx context.Context) ([]*models.Blog, error)
	DeleteBlog(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*services.AdminStats, error)
}

// AdminHandler handles admin HTTP requests. Every route in here sits
// behind the RequireAdmin middleware.
type AdminHandler struct {
	service AdminServiceInterface
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(service AdminServiceInterface) *AdminHandler {
	return &AdminHandler{service: service}
}

// Request DTOs

// UpdateUserRequest represents the request body for patching account flags.
// Absent fields are left untouched.
type UpdateUserRequest struct {
	IsActivated *bool `json:"is_activated"`
	IsAdmin     *bool `json:"is_admin"`
}

// CreateUserRequest represents the request body for admin account provisioning
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	IsAdmin  bool   `json:"is_admin"`
}

// GenerateCodeRequest represents the request body for minting a code.
// Recipient is optional; when set, the code is emailed out.
type GenerateCodeRequest struct {
	Recipient string `json:"recipient" validate:"omitempty,email"`
}

// AdminUserResponse is the admin-facing projection of an account
type AdminUserResponse struct {
	ID            int64      `json:"id"`
	Email         string     `json:"email"`
	IsActivated   bool       `json:"is_activated"`
	IsAdmin       bool       `json:"is_admin"`
	LoginAttempts int        `json:"login_attempts"`
	LockedUntil   *time.Time `json:"locked_until"`
	CreatedBy     *int64     `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	LastLogin     *time.Time `json:"last_login"`
}

// ListUsers returns all accounts
// @Summary List accounts
// @Security BearerAuth
// @Produce json
// @Success 200 {array} AdminUserResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	users, err := h.service.ListUsers(r.Context(), limit, offset)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	resp := make([]*AdminUserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, adminUserResponse(user))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// UpdateUser patches an account's activation/admin flags
// @Summary Update account flags
// @Security BearerAuth
// @Accept json
// @Param id path int true "Account ID"
// @Param request body UpdateUserRequest true "Flags to change"
// @Produce json
// @Success 200 {object} AdminUserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetUserFromContext(r)
	if actor == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	targetID, err := parseIDParam(r, "id")
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid account ID")
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	patch := models.UserStatusPatch{
		IsActivated: req.IsActivated,
		IsAdmin:     req.IsAdmin,
	}

	user, err := h.service.UpdateUserStatus(r.Context(), actor.ID, targetID, patch)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "No fields to update")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Account not found")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(adminUserResponse(user))
}

// DeleteUser removes an account
// @Summary Delete an account
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetUserFromContext(r)
	if actor == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	targetID, err := parseIDParam(r, "id")
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid account ID")
		return
	}

	if err := h.service.DeleteUser(r.Context(), actor.ID, targetID); err != nil {
		switch {
		case errors.Is(err, models.ErrSelfDeletion):
			pkghttp.WriteBadRequest(w, "You cannot delete your own account")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Account not found")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateUser provisions an account. The account is activated immediately
// and no activation code is consumed.
// @Summary Provision an account
// @Security BearerAuth
// @Accept json
// @Param request body CreateUserRequest true "Account details"
// @Produce json
// @Success 201 {object} AdminUserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/users [post]
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetUserFromContext(r)
	if actor == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.CreateUser(r.Context(), actor.ID, req.Email, req.Password, req.IsAdmin)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteError(w, http.StatusBadRequest, "duplicate_account", "An account with this email already exists")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Invalid account details")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(adminUserResponse(user))
}

// GenerateCode mints a one-time activation code
// @Summary Generate an activation code
// @Security BearerAuth
// @Accept json
// @Param request body GenerateCodeRequest true "Optional recipient"
// @Produce json
// @Success 201 {object} models.ActivationCode
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/activation-codes [post]
func (h *AdminHandler) GenerateCode(w http.ResponseWriter, r *http.Request) {
	actor := auth.GetUserFromContext(r)
	if actor == nil {
		pkghttp.WriteUnauthorized(w, "unauthorized")
		return
	}

	// Body is optional; an empty body mints a code with no delivery.
	// Content-Length is not checked so a chunked body still counts.
	var req GenerateCodeRequest
	if r.Body != nil {
		switch err := json.NewDecoder(r.Body).Decode(&req); {
		case errors.Is(err, io.EOF):
			// no body sent
		case err != nil:
			pkghttp.WriteBadRequest(w, "Invalid request body")
			return
		default:
			if err := ValidateRequest(req); err != nil {
				pkghttp.WriteBadRequest(w, err.Error())
				return
			}
		}
	}

	code, err := h.service.GenerateCode(r.Context(), actor.ID, req.Recipient)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(code)
}

// ListCodes returns the unconsumed activation codes
// @Summary List activation codes
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.ActivationCode
// @Failure 500 {object} ErrorResponse
// @Router /admin/activation-codes [get]
func (h *AdminHandler) ListCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.service.ListCodes(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(codes)
}

// DeleteCode removes an unconsumed activation code
// @Summary Delete an activation code
// @Security BearerAuth
// @Param code path string true "Activation code"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/activation-codes/{code} [delete]
func (h *AdminHandler) DeleteCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		pkghttp.WriteBadRequest(w, "Missing activation code")
		return
	}

	if err := h.service.DeleteCode(r.Context(), code); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Activation code not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListBlogs returns all lessons for the admin dashboard
// @Summary List lessons (admin)
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Blog
// @Failure 500 {object} ErrorResponse
// @Router /admin/blogs [get]
func (h *AdminHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.service.ListBlogs(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(blogs)
}

// DeleteBlog removes a lesson
// @Summary Delete a lesson (admin)
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/blogs/{id} [delete]
func (h *AdminHandler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid lesson ID")
		return
	}

	if err := h.service.DeleteBlog(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Lesson not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stats returns the dashboard counters
// @Summary Dashboard statistics
// @Security BearerAuth
// @Produce json
// @Success 200 {object} services.AdminStats
// @Failure 500 {object} ErrorResponse
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(stats)
}

func adminUserResponse(user *models.User) *AdminUserResponse {
	return &AdminUserResponse{
		ID:            user.ID,
		Email:         user.Email,
		IsActivated:   user.IsActivated,
		IsAdmin:       user.IsAdmin,
		LoginAttempts: user.LoginAttempts,
		LockedUntil:   user.LockedUntil,
		CreatedBy:     user.CreatedBy,
		CreatedAt:     user.CreatedAt,
		LastLogin:     user.LastLogin,
	}
}

// parsePagination reads limit/offset query parameters with sane defaults
func parsePagination(r *http.Request) (int, int) {
	limit := 100
	offset := 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}
