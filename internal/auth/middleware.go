package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/nskaret/lingoread/internal/models"
	pkghttp "github.com/nskaret/lingoread/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// UserContextKey is the key for storing the resolved account in context
	UserContextKey contextKey = "user"
)

// UserRepository is the read surface the gate needs to resolve accounts
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// ExtractBearerToken pulls the bearer token out of the Authorization header.
// Returns ErrMissingToken when the header is absent or not a bearer scheme.
func ExtractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", models.ErrMissingToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", models.ErrMissingToken
	}

	return parts[1], nil
}

// ResolveToken validates a session token and resolves the referenced
// account. Lock and activation state are not re-checked here; callers that
// need activation-gated access layer RequireActivation on top.
func ResolveToken(ctx context.Context, tm *TokenManager, userRepo UserRepository, tokenString string) (*models.User, error) {
	claims, err := tm.ValidateToken(tokenString)
	if err != nil {
		return nil, models.ErrInvalidToken
	}

	user, err := userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidToken
		}
		return nil, models.ErrInternalServer
	}

	return user, nil
}

// Authenticate validates the bearer token and injects the resolved account
// into the request context.
func Authenticate(tm *TokenManager, userRepo UserRepository) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := ExtractBearerToken(r)
			if err != nil {
				pkghttp.WriteUnauthorized(w, "Access token required")
				return
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				pkghttp.WriteForbidden(w, "Invalid or expired token")
				return
			}

			user, err := userRepo.GetByID(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					pkghttp.WriteUnauthorized(w, "Invalid token")
					return
				}
				pkghttp.WriteInternalError(w, "Internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireActivation rejects accounts that have not completed activation.
// Must be composed after Authenticate.
func RequireActivation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r)
		if user == nil {
			pkghttp.WriteUnauthorized(w, "Access token required")
			return
		}

		if !user.IsActivated {
			pkghttp.WriteError(w, http.StatusForbidden, "account_not_activated",
				"Please activate your account before accessing this resource")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin re-verifies the bearer token and resolves the account fresh
// rather than trusting a previously attached one, then rejects non-admins.
func RequireAdmin(tm *TokenManager, userRepo UserRepository) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := ExtractBearerToken(r)
			if err != nil {
				pkghttp.WriteUnauthorized(w, "No token provided")
				return
			}

			user, err := ResolveToken(r.Context(), tm, userRepo, tokenString)
			if err != nil {
				if errors.Is(err, models.ErrInvalidToken) {
					pkghttp.WriteUnauthorized(w, "Invalid token")
					return
				}
				pkghttp.WriteInternalError(w, "Internal server error")
				return
			}

			if !user.IsAdmin {
				pkghttp.WriteError(w, http.StatusForbidden, "admin_required", "Admin access required")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext extracts the resolved account from the request context
func GetUserFromContext(r *http.Request) *models.User {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
