package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/auth"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/config"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/models"
)

type verificationFixture struct {
	svc       *VerificationService
	phones    *PhoneNumberService
	pending   *fakePendingStore
	smsLogs   *fakeSMSLogStore
	delayed   *fakeDelayedStore
	userPhone *fakeUserPhoneStore
	blacklist *fakeBlacklistStore
	provider  *fakeProvider
	now       time.Time
}

func newVerificationFixture(t *testing.T) *verificationFixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.Verification.Enabled = true
	cfg.Verification.RateLimit = config.RateLimitConfig{
		Attempts:        3,
		DurationMinutes: 5,
		DelayMinutes:    10,
	}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1

	f := &verificationFixture{
		pending:   newFakePendingStore(),
		smsLogs:   newFakeSMSLogStore(),
		delayed:   newFakeDelayedStore(),
		userPhone: newFakeUserPhoneStore(),
		blacklist: newFakeBlacklistStore(),
		provider:  newFakeProvider(),
		now:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	blacklistSvc := NewBlacklistService(f.blacklist)
	f.phones = NewPhoneNumberService(f.userPhone, f.pending)
	f.phones.now = func() time.Time { return f.now }

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpirationHours, "test")
	f.svc = NewVerificationService(
		f.pending, f.smsLogs, f.delayed,
		blacklistSvc, f.phones,
		f.provider, jwtManager, cfg,
	)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *verificationFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, kind, svcErr.Kind)
}

func TestRequestCodeFirstRequest(t *testing.T) {
	f := newVerificationFixture(t)

	resp, err := f.svc.RequestCode(context.Background(), 0, &models.RequestCodeRequest{
		PhoneNumber: "+15551234567",
		DeviceID:    "dev-1",
	})
	require.NoError(t, err)
	require.False(t, resp.Verified)
	require.True(t, resp.Requested)
	require.Greater(t, resp.RequestID, 0)

	require.Len(t, f.pending.rows, 1)
	require.Equal(t, 1, f.pending.rows[0].RequestCount)
	require.False(t, f.pending.rows[0].IsVerified)
	require.Equal(t, f.now, f.pending.rows[0].RequestedAt)

	require.Len(t, f.smsLogs.rows, 1)
	require.Equal(t, "+15551234567", f.smsLogs.rows[0].PhoneNumber)
	require.Equal(t, f.now, f.smsLogs.rows[0].RequestedAt)

	require.Equal(t, []string{"+15551234567"}, f.provider.sends)
}

func TestRequestCodeBlacklisted(t *testing.T) {
	f := newVerificationFixture(t)
	f.blacklist.rows = append(f.blacklist.rows, &models.BlacklistEntry{ID: 1, PhoneNumber: "+15551234567"})

	_, err := f.svc.RequestCode(context.Background(), 0, &models.RequestCodeRequest{
		PhoneNumber: "+15551234567",
		DeviceID:    "dev-1",
	})
	requireKind(t, err, KindBlacklisted)
	require.Empty(t, f.provider.sends)
	require.Empty(t, f.pending.rows)
}

func TestRequestCodeDisabled(t *testing.T) {
	f := newVerificationFixture(t)
	f.provider.enabled = false

	_, err := f.svc.RequestCode(context.Background(), 0, &models.RequestCodeRequest{
		PhoneNumber: "+15551234567",
		DeviceID:    "dev-1",
	})
	requireKind(t, err, KindServiceUnavailable)
}

func TestRequestCodeIdempotentReconfirm(t *testing.T) {
	f := newVerificationFixture(t)

	req := &models.RequestCodeRequest{PhoneNumber: "+15551234567", DeviceID: "dev-1"}
	first, err := f.svc.RequestCode(context.Background(), 0, req)
	require.NoError(t, err)

	// Simulate a completed verification on the same device.
	f.pending.rows[0].IsVerified = true
	requestedAt := f.pending.rows[0].RequestedAt

	f.advance(time.Minute)
	resp, err := f.svc.RequestCode(context.Background(), 0, req)
	require.NoError(t, err)
	require.True(t, resp.Verified)
	require.False(t, resp.Requested)
	require.Equal(t, first.RequestID, resp.RequestID)

	// No new dispatch, no timestamp churn.
	require.Len(t, f.smsLogs.rows, 1)
	require.Len(t, f.provider.sends, 1)
	require.Equal(t, requestedAt, f.pending.rows[0].RequestedAt)
}

func TestRequestCodeAuthenticatedCallerRerequests(t *testing.T) {
	f := newVerificationFixture(t)

	req := &models.RequestCodeRequest{PhoneNumber: "+15551234567", DeviceID: "dev-1"}
	_, err := f.svc.RequestCode(context.Background(), 0, req)
	require.NoError(t, err)
	f.pending.rows[0].IsVerified = true

	// A logged-in caller falls through the idempotent path and gets a
	// fresh code, resetting the verified flag.
	resp, err := f.svc.RequestCode(context.Background(), 42, req)
	require.NoError(t, err)
	require.True(t, resp.Requested)
	require.False(t, f.pending.rows[0].IsVerified)
	require.Len(t, f.provider.sends, 2)
}

func TestRequestCodeRateLimit(t *testing.T) {
	f := newVerificationFixture(t)

	req := &models.RequestCodeRequest{PhoneNumber: "+15551234567", DeviceID: "dev-1"}
	for i := 0; i < 3; i++ {
		_, err := f.svc.RequestCode(context.Background(), 0, req)
		require.NoError(t, err)
		f.advance(30 * time.Second)
	}

	_, err := f.svc.RequestCode(context.Background(), 0, req)
	requireKind(t, err, KindRateLimited)

	require.Len(t, f.delayed.rows, 1)
	require.Equal(t, "+15551234567", f.delayed.rows[0].PhoneNumber)
	// The delay window starts at the last successful dispatch.
	require.Equal(t, f.pending.rows[0].RequestedAt, f.delayed.rows[0].CreatedAt)

	// Still delayed on the next attempt, without another count.
	_, err = f.svc.RequestCode(context.Background(), 0, req)
	requireKind(t, err, KindRateLimited)
	require.Len(t, f.delayed.rows, 1)
	require.Len(t, f.provider.sends, 3)
}

func TestRequestCodeDelayExpiry(t *testing.T) {
	f := newVerificationFixture(t)
	f.delayed.rows = append(f.delayed.rows, &models.DelayedNumber{
		ID: 1, PhoneNumber: "+15551234567", CreatedAt: f.now,
	})

	req := &models.RequestCodeRequest{PhoneNumber: "+15551234567", DeviceID: "dev-1"}

	// Exactly at the boundary the delay still holds.
	f.advance(10 * time.Minute)
	_, err := f.svc.RequestCode(context.Background(), 0, req)
	requireKind(t, err, KindRateLimited)
	require.Len(t, f.delayed.rows, 1)

	// Strictly after, the marker is evicted and the request goes out.
	f.advance(time.Second)
	resp, err := f.svc.RequestCode(context.Background(), 0, req)
	require.NoError(t, err)
	require.True(t, resp.Requested)
	require.Empty(t, f.delayed.rows)
}

func TestRequestCodeDeviceReassignment(t *testing.T) {
	f := newVerificationFixture(t)

	_, err := f.svc.RequestCode(context.Background(), 0, &models.RequestCodeRequest{
		PhoneNumber: "+15551234567", DeviceID: "dev-1",
	})
	require.NoError(t, err)

	// A second phone pending on dev-2, then the first phone requested
	// from dev-2: dev-2's old pending row goes away and the first
	// phone's row moves to dev-2.
	_, err = f.svc.RequestCode(context.Background(), 0, &models.RequestCodeRequest{
		PhoneNumber: "+15559876543", DeviceID: "dev-2",
	})
	require.NoError(t, err)

	_, err = f.svc.RequestCode(context.Background(), 0, &models.RequestCodeRequest{
		PhoneNumber: "+15551234567", DeviceID: "dev-2",
	})
	require.NoError(t, err)

	require.Len(t, f.pending.rows, 1)
	require.Equal(t, "+15551234567", f.pending.rows[0].PhoneNumber)
	require.Equal(t, "dev-2", f.pending.rows[0].DeviceID)
}

func TestRequestCodeProviderFailureSkipsPersistence(t *testing.T) {
	f := newVerificationFixture(t)
	f.provider.sendErr = context.DeadlineExceeded

	_, err := f.svc.RequestCode(context.Background(), 0, &models.RequestCodeRequest{
		PhoneNumber: "+15551234567", DeviceID: "dev-1",
	})
	requireKind(t, err, KindProviderError)
	require.Empty(t, f.pending.rows)
	require.Empty(t, f.smsLogs.rows)
}

func TestVerifyCodeNoPendingRequest(t *testing.T) {
	f := newVerificationFixture(t)

	_, err := f.svc.VerifyCode(context.Background(), 0, &models.VerifyCodeRequest{
		PhoneNumber: "+15551234567", DeviceID: "dev-1", VerificationCode: "123456",
	})
	requireKind(t, err, KindInvalidRequest)
}

func TestVerifyCodeWrongCode(t *testing.T) {
	f := newVerificationFixture(t)

	_, err := f.svc.RequestCode(context.Background(), 0, &models.RequestCodeRequest{
		PhoneNumber: "+15551234567", DeviceID: "dev-1",
	})
	require.NoError(t, err)

	resp, err := f.svc.VerifyCode(context.Background(), 0, &models.VerifyCodeRequest{
		PhoneNumber: "+15551234567", DeviceID: "dev-1", VerificationCode: "000000",
	})
	require.NoError(t, err)
	require.False(t, resp.Verified)
	require.False(t, f.pending.rows[0].IsVerified)
}

func TestVerifyCodeAuthenticatedRoundTrip(t *testing.T) {
	f := newVerificationFixture(t)

	_, err := f.svc.RequestCode(context.Background(), 42, &models.RequestCodeRequest{
		PhoneNumber: "+15551234567", DeviceID: "dev-1",
	})
	require.NoError(t, err)

	resp, err := f.svc.VerifyCode(context.Background(), 42, &models.VerifyCodeRequest{
		PhoneNumber: "+15551234567", DeviceID: "dev-1", VerificationCode: "123456",
	})
	require.NoError(t, err)
	require.True(t, resp.Verified)
	require.Equal(t, 42, resp.UserID)

	// The challenge transitions into a durable verified record and the
	// pending row is consumed.
	require.Len(t, f.userPhone.rows, 1)
	require.Equal(t, 42, f.userPhone.rows[0].UserID)
	require.Equal(t, "+15551234567", f.userPhone.rows[0].PhoneNumber)
	require.Equal(t, models.PhoneStatusVerified, f.userPhone.rows[0].Status)
	require.Empty(t, f.pending.rows)
}

func TestVerifyCodeAnonymousLoginRecovery(t *testing.T) {
	f := newVerificationFixture(t)
	f.userPhone.rows = append(f.userPhone.rows, &models.UserPhoneNumber{
		ID: 1, UserID: 7, PhoneNumber: "+15551234567", Status: models.PhoneStatusVerified,
	})

	_, err := f.svc.RequestCode(context.Background(), 0, &models.RequestCodeRequest{
		PhoneNumber: "+15551234567", DeviceID: "dev-9",
	})
	require.NoError(t, err)

	resp, err := f.svc.VerifyCode(context.Background(), 0, &models.VerifyCodeRequest{
		PhoneNumber: "+15551234567", DeviceID: "dev-9", VerificationCode: "123456",
	})
	require.NoError(t, err)
	require.True(t, resp.Verified)
	require.Equal(t, 7, resp.UserID)
	require.Empty(t, f.pending.rows)
}

func TestVerifyCodeAnonymousPreSignup(t *testing.T) {
	f := newVerificationFixture(t)

	_, err := f.svc.RequestCode(context.Background(), 0, &models.RequestCodeRequest{
		PhoneNumber: "+15551234567", DeviceID: "dev-1",
	})
	require.NoError(t, err)

	resp, err := f.svc.VerifyCode(context.Background(), 0, &models.VerifyCodeRequest{
		PhoneNumber: "+15551234567", DeviceID: "dev-1", VerificationCode: "123456",
	})
	require.NoError(t, err)
	require.True(t, resp.Verified)
	require.Equal(t, 0, resp.UserID)

	// The verified pending row survives so signup can claim it.
	require.Len(t, f.pending.rows, 1)
	require.True(t, f.pending.rows[0].IsVerified)
}

func TestVerifyCodeGenerateAuth(t *testing.T) {
	f := newVerificationFixture(t)

	_, err := f.svc.RequestCode(context.Background(), 42, &models.RequestCodeRequest{
		PhoneNumber: "+15551234567", DeviceID: "dev-1",
	})
	require.NoError(t, err)

	resp, err := f.svc.VerifyCode(context.Background(), 42, &models.VerifyCodeRequest{
		PhoneNumber: "+15551234567", DeviceID: "dev-1",
		VerificationCode: "123456", GenerateAuth: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Auth)

	claims, err := auth.NewJWTManager("test-secret", 1, "test").ValidateToken(resp.Auth)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "dev-1", claims.DeviceID)
}
