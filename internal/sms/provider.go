package sms

import "errors"

// ErrNotEnabled is returned when verification is disabled or the
// provider credentials are missing.
var ErrNotEnabled = errors.New("verification service not available")

// ErrInvalidPhoneNumber is returned by Lookup when the provider rejects
// the number as unreachable or malformed.
var ErrInvalidPhoneNumber = errors.New("invalid phone number")

// VerifyProvider is the gateway to the OTP delivery and verification
// service. Implementations own code generation and storage; the caller
// never sees the code itself.
type VerifyProvider interface {
	// IsEnabled reports whether credentials are configured and the
	// verification feature is switched on.
	IsEnabled() bool

	// SendOTP dispatches a one-time passcode to the phone number and
	// returns an opaque provider-side identifier for the verification.
	SendOTP(phone string) (string, error)

	// CheckOTP checks a code against the provider. Returns false (not
	// an error) when the code is simply wrong or expired.
	CheckOTP(phone, code string) (bool, error)

	// LookupPhoneNumber validates that the number is real and
	// reachable. Returns ErrInvalidPhoneNumber when it is not.
	LookupPhoneNumber(phone string) error
}
