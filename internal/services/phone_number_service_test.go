package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/models"
)

func newPhoneFixture() (*PhoneNumberService, *fakeUserPhoneStore, *fakePendingStore) {
	userPhones := newFakeUserPhoneStore()
	pending := newFakePendingStore()
	svc := NewPhoneNumberService(userPhones, pending)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, userPhones, pending
}

func strptr(s string) *string { return &s }

func TestUpdateUserPhoneDetailsCreatesRecord(t *testing.T) {
	svc, userPhones, _ := newPhoneFixture()

	err := svc.UpdateUserPhoneDetails(context.Background(), 1, &models.PhoneNumberChanges{
		PhoneNumber: strptr("+15551234567"),
		DeviceID:    strptr("dev-1"),
		Status:      strptr(models.PhoneStatusVerified),
	})
	require.NoError(t, err)

	require.Len(t, userPhones.rows, 1)
	row := userPhones.rows[0]
	require.Equal(t, 1, row.UserID)
	require.Equal(t, "+15551234567", row.PhoneNumber)
	require.Equal(t, "dev-1", row.DeviceID)
	require.Equal(t, models.PhoneStatusVerified, row.Status)
}

func TestUpdateUserPhoneDetailsPhoneExclusivity(t *testing.T) {
	svc, userPhones, _ := newPhoneFixture()

	require.NoError(t, svc.UpdateUserPhoneDetails(context.Background(), 1, &models.PhoneNumberChanges{
		PhoneNumber: strptr("+15551234567"),
		DeviceID:    strptr("dev-1"),
		Status:      strptr(models.PhoneStatusVerified),
	}))

	// Reassigning the number to another user reclaims the existing row;
	// no two rows ever share a phone number.
	require.NoError(t, svc.UpdateUserPhoneDetails(context.Background(), 2, &models.PhoneNumberChanges{
		PhoneNumber: strptr("+15551234567"),
		Status:      strptr(models.PhoneStatusVerified),
	}))

	require.Len(t, userPhones.rows, 1)
	row := userPhones.rows[0]
	require.Equal(t, 2, row.UserID)
	require.Equal(t, "+15551234567", row.PhoneNumber)
	// Device binding does not carry across users.
	require.Empty(t, row.DeviceID)
}

func TestUpdateUserPhoneDetailsEmptyPhoneDeletes(t *testing.T) {
	svc, userPhones, _ := newPhoneFixture()

	require.NoError(t, svc.UpdateUserPhoneDetails(context.Background(), 1, &models.PhoneNumberChanges{
		PhoneNumber: strptr("+15551234567"),
	}))
	require.Len(t, userPhones.rows, 1)

	require.NoError(t, svc.UpdateUserPhoneDetails(context.Background(), 1, &models.PhoneNumberChanges{
		PhoneNumber: strptr(""),
	}))
	require.Empty(t, userPhones.rows)
}

func TestUpdateUserPhoneDetailsPartialUpdate(t *testing.T) {
	svc, userPhones, _ := newPhoneFixture()

	require.NoError(t, svc.UpdateUserPhoneDetails(context.Background(), 1, &models.PhoneNumberChanges{
		PhoneNumber: strptr("+15551234567"),
		DeviceID:    strptr("dev-1"),
		Status:      strptr(models.PhoneStatusUnverified),
	}))

	// Status-only change keeps phone and device.
	require.NoError(t, svc.UpdateUserPhoneDetails(context.Background(), 1, &models.PhoneNumberChanges{
		Status: strptr(models.PhoneStatusVerified),
	}))

	require.Len(t, userPhones.rows, 1)
	row := userPhones.rows[0]
	require.Equal(t, "+15551234567", row.PhoneNumber)
	require.Equal(t, "dev-1", row.DeviceID)
	require.Equal(t, models.PhoneStatusVerified, row.Status)
}

func TestUpdateUserPhoneDetailsConsumesPending(t *testing.T) {
	svc, _, pending := newPhoneFixture()
	pending.rows = append(pending.rows, &models.PendingVerification{
		ID: 1, PhoneNumber: "+15551234567", DeviceID: "dev-1", IsVerified: true,
	})

	require.NoError(t, svc.UpdateUserPhoneDetails(context.Background(), 1, &models.PhoneNumberChanges{
		PhoneNumber: strptr("+15551234567"),
		DeviceID:    strptr("dev-1"),
		Status:      strptr(models.PhoneStatusVerified),
	}))
	require.Empty(t, pending.rows)
}

func TestDeleteUserPhoneNumber(t *testing.T) {
	svc, userPhones, _ := newPhoneFixture()

	require.NoError(t, svc.UpdateUserPhoneDetails(context.Background(), 1, &models.PhoneNumberChanges{
		PhoneNumber: strptr("+15551234567"),
		Status:      strptr(models.PhoneStatusVerified),
	}))

	resp, err := svc.DeleteUserPhoneNumber(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, resp.Deleted)
	require.NotNil(t, resp.Previous)
	require.Equal(t, "+15551234567", resp.Previous.PhoneNumber)
	require.Empty(t, userPhones.rows)
}

func TestDeleteUserPhoneNumberMissing(t *testing.T) {
	svc, _, _ := newPhoneFixture()

	_, err := svc.DeleteUserPhoneNumber(context.Background(), 1)
	requireKind(t, err, KindNotFound)
}

func TestIsPhoneNumberVerified(t *testing.T) {
	svc, _, _ := newPhoneFixture()

	verified, err := svc.IsPhoneNumberVerified(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, verified)

	require.NoError(t, svc.UpdateUserPhoneDetails(context.Background(), 1, &models.PhoneNumberChanges{
		PhoneNumber: strptr("+15551234567"),
		Status:      strptr(models.PhoneStatusVerified),
	}))

	verified, err = svc.IsPhoneNumberVerified(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, verified)
}
