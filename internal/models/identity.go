package models

import "time"

// Identity captures application-facing fields for an authenticated principal.
// The synthetic employee identity uses ID 0 and never has a stored row.
type Identity struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
