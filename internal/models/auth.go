package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the claims embedded in a session token. Validity is
// purely a function of the signature and expiry; nothing is stored
// server-side.
type TokenClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
