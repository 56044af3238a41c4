package models

import "time"

// SMSLog represents a dispatched OTP message. Rows are append-only and
// exist solely for rate-limit counting within the configured window.
type SMSLog struct {
	ID          int       `json:"id" db:"id"`
	PhoneNumber string    `json:"phone_number" db:"phone_number"`
	RequestedAt time.Time `json:"requested_at" db:"requested_at"`
}
