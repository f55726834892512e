package models

import "time"

// ActivationCode is a one-time registration code. Each code is usable by
// exactly one registration; consuming it is a single conditional update so
// that concurrent registrations cannot both claim it.
type ActivationCode struct {
	ID         int64      `json:"id"`
	Code       string     `json:"code"`
	Consumed   bool       `json:"consumed"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
	CreatedBy  *int64     `json:"created_by,omitempty"` // Admin that generated the code, if any
	CreatedAt  time.Time  `json:"created_at"`
}
