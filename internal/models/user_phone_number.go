package models

import "time"

// Phone verification status values
const (
	PhoneStatusVerified   = "verified"
	PhoneStatusUnverified = "unverified"
)

// UserPhoneNumber is the durable association between a user and a
// phone number. A phone number maps to at most one user and a user to
// at most one phone number; writes that would violate this evict the
// conflicting row first.
type UserPhoneNumber struct {
	ID          int       `json:"id" db:"id"`
	UserID      int       `json:"user_id" db:"user_id"`
	PhoneNumber string    `json:"phone_number" db:"phone_number"`
	DeviceID    string    `json:"device_id" db:"device_id"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// PhoneNumberChanges carries the optional fields of a phone-details
// update. Nil pointers mean "leave unchanged"; an explicitly empty
// phone number deletes the record.
type PhoneNumberChanges struct {
	PhoneNumber *string
	DeviceID    *string
	Status      *string
}

// DeletePhoneNumberResponse is returned when a phone record is removed
type DeletePhoneNumberResponse struct {
	Deleted  bool             `json:"deleted"`
	Previous *UserPhoneNumber `json:"previous"`
}
