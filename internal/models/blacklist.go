package models

import "time"

// BlacklistEntry is a moderator-curated forbidden phone number. The
// request engine consults it as a read-only gate.
type BlacklistEntry struct {
	ID          int       `json:"id" db:"id"`
	ModeratorID int       `json:"moderator_id" db:"moderator_id"`
	PhoneNumber string    `json:"phone_number" db:"phone_number"`
	Notes       string    `json:"notes" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// BlacklistRequest represents a request to blacklist a phone number
type BlacklistRequest struct {
	PhoneNumber string `json:"phone_number"`
	Notes       string `json:"notes"`
}
