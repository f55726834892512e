package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("missing token")
	ErrInvalidToken       = errors.New("invalid or expired token")

	// Account state errors
	ErrAccountLocked       = errors.New("account is temporarily locked")
	ErrAccountNotActivated = errors.New("account is not activated")

	// Activation errors
	ErrInvalidActivationCode = errors.New("invalid activation code")
	ErrActivationCodeUsed    = errors.New("activation code has already been used")
	ErrAlreadyActivated      = errors.New("account is already activated")

	// Admin errors
	ErrAdminRequired = errors.New("admin access required")
	ErrSelfDeletion  = errors.New("cannot delete your own account")
)
