package sms

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMockVerifyServiceRoundTrip(t *testing.T) {
	svc := NewMockVerifyService()
	require.True(t, svc.IsEnabled())

	sid, err := svc.SendOTP("+15551234567")
	require.NoError(t, err)
	require.NotEmpty(t, sid)

	code := svc.codes["+15551234567"]
	require.Len(t, code, 6)

	ok, err := svc.CheckOTP("+15551234567", "not-a-code")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = svc.CheckOTP("+15551234567", code)
	require.NoError(t, err)
	require.True(t, ok)

	// A code approves exactly once.
	ok, err = svc.CheckOTP("+15551234567", code)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMockVerifyServiceLookup(t *testing.T) {
	svc := NewMockVerifyService()
	require.NoError(t, svc.LookupPhoneNumber("+15551234567"))
}
