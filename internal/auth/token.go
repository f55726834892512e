package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nskaret/lingoread/internal/models"
)

// TokenManager issues and verifies stateless session tokens. A token is
// valid purely as a function of its signature and embedded expiry; nothing
// is stored server-side and tokens are never revoked before they expire.
type TokenManager struct {
	secret      string
	tokenExpiry time.Duration
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(secret string, tokenExpiry time.Duration) *TokenManager {
	return &TokenManager{
		secret:      secret,
		tokenExpiry: tokenExpiry,
	}
}

// GenerateToken creates a signed session token for the given account
func (tm *TokenManager) GenerateToken(userID int64, email string) (string, error) {
	now := time.Now()

	claims := &models.TokenClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(tm.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken verifies a session token and returns its claims
func (tm *TokenManager) ValidateToken(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tm.secret), nil
	})

	if err != nil {
		return nil, models.ErrInvalidToken
	}

	if !token.Valid {
		return nil, models.ErrInvalidToken
	}

	if claims.UserID == 0 {
		return nil, models.ErrInvalidToken
	}

	return claims, nil
}
