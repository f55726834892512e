package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nskaret/lingoread/internal/auth"
	"github.com/nskaret/lingoread/internal/models"
	"github.com/nskaret/lingoread/internal/services"
	pkghttp "github.com/nskaret/lingoread/pkg/http"
)

// AuthServiceInterface defines the interface for account lifecycle logic
type AuthServiceInterface interface {
	Register(ctx context.Context, email, password, activationCode string) (*services.UserResponse, error)
	Activate(ctx context.Context, email, activationCode string) error
	Login(ctx context.Context, email, password, ipAddress string) (*services.LoginResponse, error)
	VerifyToken(ctx context.Context, token string) (*models.User, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service  AuthServiceInterface
	ipConfig *pkghttp.IPConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		ipConfig: ipConfig,
	}
}

// Request DTOs

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6,max=128"`
	ActivationCode string `json:"activation_code" validate:"required"`
}

// ActivateRequest represents the request body for account activation
type ActivateRequest struct {
	Email          string `json:"email" validate:"required,email"`
	ActivationCode string `json:"activation_code" validate:"required"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyResponse represents the response for token verification
type VerifyResponse struct {
	Valid bool                   `json:"valid"`
	User  *services.UserResponse `json:"user"`
}

// Register handles account registration against a one-time activation code
// @Summary Register a new account
// @Accept json
// @Param request body RegisterRequest true "Register request"
// @Produce json
// @Success 201 {object} services.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password, req.ActivationCode)
	if err != nil {
		// All registration failures are 400s with a stable error code so the
		// client can self-diagnose which input was wrong.
		switch {
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteError(w, http.StatusBadRequest, "duplicate_account", "An account with this email already exists")
		case errors.Is(err, models.ErrInvalidActivationCode):
			pkghttp.WriteError(w, http.StatusBadRequest, "invalid_activation_code", "Invalid activation code")
		case errors.Is(err, models.ErrActivationCodeUsed):
			pkghttp.WriteError(w, http.StatusBadRequest, "activation_code_used", "Activation code has already been used")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// Activate handles account activation
// @Summary Activate a registered account
// @Accept json
// @Param request body ActivateRequest true "Activate request"
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/activate [post]
func (h *AuthHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var req ActivateRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.Activate(r.Context(), req.Email, req.ActivationCode); err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidActivationCode):
			pkghttp.WriteError(w, http.StatusBadRequest, "invalid_activation_code", "Invalid activation code")
		case errors.Is(err, models.ErrAlreadyActivated):
			pkghttp.WriteError(w, http.StatusBadRequest, "already_activated", "Account is already activated")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Account activated. You can now log in.",
	})
}

// Login handles user login
// @Summary User login
// @Accept json
// @Param request body LoginRequest true "Login request"
// @Produce json
// @Success 200 {object} services.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 423 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)

	loginResp, err := h.service.Login(r.Context(), req.Email, req.Password, ipAddress)
	if err != nil {
		// Unknown email and wrong password share one answer. Lockout and
		// missing activation are reported distinctly so a legitimate user
		// can self-diagnose.
		switch {
		case errors.Is(err, models.ErrInvalidCredentials):
			pkghttp.WriteUnauthorized(w, "Invalid email or password")
		case errors.Is(err, models.ErrAccountLocked):
			pkghttp.WriteLocked(w, "Account temporarily locked due to repeated failed logins. Try again later.")
		case errors.Is(err, models.ErrAccountNotActivated):
			pkghttp.WriteError(w, http.StatusForbidden, "account_not_activated", "Account is not activated")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(loginResp)
}

// Verify reports whether the presented bearer token is valid
// @Summary Verify a session token
// @Security BearerAuth
// @Produce json
// @Success 200 {object} VerifyResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/verify [get]
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token, err := auth.ExtractBearerToken(r)
	if err != nil {
		pkghttp.WriteUnauthorized(w, "Missing or malformed authorization header")
		return
	}

	user, err := h.service.VerifyToken(r.Context(), token)
	if err != nil {
		pkghttp.WriteUnauthorized(w, "Invalid or expired token")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(VerifyResponse{
		Valid: true,
		User: &services.UserResponse{
			ID:          user.ID,
			Email:       user.Email,
			IsActivated: user.IsActivated,
		},
	})
}

// Logout acknowledges a logout. Session tokens are stateless and never
// revoked server-side; the client discards the token.
// @Summary User logout
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Logged out",
	})
}
