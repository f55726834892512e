package models

import (
	"strings"
	"time"
)

// NormalizeEmail canonicalizes an address for storage and lookup. Every
// path that writes or resolves users.email must agree on casing, or an
// account stored one way becomes unreachable the other.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type User struct {
	ID                   int64      `json:"id"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"-"` // Never exposed
	ActivationCode       *string    `json:"-"` // NULL once consumed or for admin-created accounts
	IsActivated          bool       `json:"is_activated"`
	ActivationCodeUsedAt *time.Time `json:"activation_code_used_at,omitempty"`
	LoginAttempts        int        `json:"login_attempts"`
	LockedUntil          *time.Time `json:"locked_until,omitempty"`
	IsAdmin              bool       `json:"is_admin"`
	CreatedBy            *int64     `json:"created_by,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	LastLogin            *time.Time `json:"last_login,omitempty"`
}

// Locked reports whether the account is currently inside a lockout window.
func (u *User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// UserStatusPatch enumerates the admin-updatable account flags. Nil fields
// are left untouched.
type UserStatusPatch struct {
	IsActivated *bool
	IsAdmin     *bool
}

func (p UserStatusPatch) Empty() bool {
	return p.IsActivated == nil && p.IsAdmin == nil
}
