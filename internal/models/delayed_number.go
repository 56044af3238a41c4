package models

import "time"

// DelayedNumber marks a phone number as temporarily blocked from new
// OTP requests after a rate-limit breach. Rows are evicted lazily the
// next time the number is checked after the delay window has elapsed.
type DelayedNumber struct {
	ID          int       `json:"id" db:"id"`
	PhoneNumber string    `json:"phone_number" db:"phone_number"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
