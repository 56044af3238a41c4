package models

import "time"

// PendingVerification represents an in-flight OTP challenge tied to a
// phone number and device pair.
type PendingVerification struct {
	ID           int       `json:"id" db:"id"`
	PhoneNumber  string    `json:"phone_number" db:"phone_number"`
	DeviceID     string    `json:"device_id" db:"device_id"`
	RequestCount int       `json:"request_count" db:"request_count"`
	IsVerified   bool      `json:"is_verified" db:"is_verified"`
	RequestedAt  time.Time `json:"requested_at" db:"requested_at"`
}

// Equal reports whether two pending records carry the same persisted
// state. Used to skip redundant saves on repeat requests.
func (p *PendingVerification) Equal(other *PendingVerification) bool {
	if other == nil {
		return false
	}
	return p.ID == other.ID &&
		p.PhoneNumber == other.PhoneNumber &&
		p.DeviceID == other.DeviceID &&
		p.RequestCount == other.RequestCount &&
		p.IsVerified == other.IsVerified &&
		p.RequestedAt.Equal(other.RequestedAt)
}

// Clone returns a copy of the record for pre-mutation snapshots.
func (p *PendingVerification) Clone() *PendingVerification {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// RequestCodeRequest represents a request to send a verification code
type RequestCodeRequest struct {
	DeviceID    string `json:"device_id"`
	PhoneNumber string `json:"phone_number"`
}

// RequestCodeResponse is returned from the requestsmscode endpoint
type RequestCodeResponse struct {
	Verified  bool `json:"verified"`
	Requested bool `json:"requested"`
	RequestID int  `json:"request_id"`
}

// VerifyCodeRequest represents a request to check a verification code
type VerifyCodeRequest struct {
	DeviceID         string `json:"device_id"`
	PhoneNumber      string `json:"phone_number"`
	RequestID        int    `json:"request_id"`
	VerificationCode string `json:"verification_code"`
	GenerateAuth     bool   `json:"generate_auth"`
}

// VerifyCodeResponse is returned from the verifysmscode endpoint
type VerifyCodeResponse struct {
	Verified bool   `json:"verified"`
	UserID   int    `json:"user_id"`
	DeviceID string `json:"device_id"`
	Auth     string `json:"auth,omitempty"`
}
