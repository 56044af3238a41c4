package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/auth"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/config"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/metrics"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/models"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/sms"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/timeutil"
)

// PendingVerificationStore is the persistence surface the verification
// engine needs for in-flight OTP challenges.
type PendingVerificationStore interface {
	FirstByPhone(ctx context.Context, phone string) (*models.PendingVerification, error)
	FirstByPhoneAndDevice(ctx context.Context, phone, deviceID string) (*models.PendingVerification, error)
	Create(ctx context.Context, p *models.PendingVerification) error
	Update(ctx context.Context, p *models.PendingVerification) error
	Delete(ctx context.Context, id int) error
	DeleteByDevice(ctx context.Context, deviceID string) error
	DeleteByPhone(ctx context.Context, phone string) error
}

type SMSLogStore interface {
	Create(ctx context.Context, entry *models.SMSLog) error
	CountSince(ctx context.Context, phone string, since time.Time) (int, error)
}

type DelayedNumberStore interface {
	FirstByPhone(ctx context.Context, phone string) (*models.DelayedNumber, error)
	Create(ctx context.Context, d *models.DelayedNumber) error
	Delete(ctx context.Context, id int) error
}

// VerificationService orchestrates the OTP request and confirmation
// flows. All read-modify-write sequences on a phone number run under a
// per-number lock so concurrent requests cannot compute stale upserts
// against each other.
type VerificationService struct {
	pending   PendingVerificationStore
	smsLogs   SMSLogStore
	delayed   DelayedNumberStore
	blacklist *BlacklistService
	phones    *PhoneNumberService
	provider  sms.VerifyProvider
	jwt       *auth.JWTManager

	enabled        bool
	enforced       bool
	validateLookup bool
	rateLimit      config.RateLimitConfig

	locks *phoneLock
	now   func() time.Time
}

func NewVerificationService(
	pending PendingVerificationStore,
	smsLogs SMSLogStore,
	delayed DelayedNumberStore,
	blacklist *BlacklistService,
	phones *PhoneNumberService,
	provider sms.VerifyProvider,
	jwt *auth.JWTManager,
	cfg *config.Config,
) *VerificationService {
	return &VerificationService{
		pending:        pending,
		smsLogs:        smsLogs,
		delayed:        delayed,
		blacklist:      blacklist,
		phones:         phones,
		provider:       provider,
		jwt:            jwt,
		enabled:        cfg.Verification.Enabled,
		enforced:       cfg.Verification.Enforced,
		validateLookup: cfg.Twilio.ValidateLookup,
		rateLimit:      cfg.Verification.RateLimit,
		locks:          newPhoneLock(),
		now:            timeutil.Now,
	}
}

// Available reports whether verification can be offered at all, which
// requires both the feature toggle and configured provider credentials.
func (s *VerificationService) Available() bool {
	return s.enabled && s.provider.IsEnabled()
}

// Enforced reports whether signup requires a verified phone number.
func (s *VerificationService) Enforced() bool {
	return s.enforced
}

// RequestCode dispatches an OTP to the given phone number and records a
// pending verification for the device. userID is 0 for anonymous
// callers.
func (s *VerificationService) RequestCode(ctx context.Context, userID int, req *models.RequestCodeRequest) (*models.RequestCodeResponse, error) {
	if !s.Available() {
		return nil, errServiceUnavailable()
	}

	s.locks.Lock(req.PhoneNumber)
	defer s.locks.Unlock(req.PhoneNumber)

	banned, err := s.blacklist.IsBlacklisted(ctx, req.PhoneNumber)
	if err != nil {
		return nil, errSaveFailed()
	}
	if banned {
		metrics.VerificationRequestsTotal.WithLabelValues("blacklisted").Inc()
		return nil, errBlacklisted()
	}

	if s.validateLookup {
		if err := s.provider.LookupPhoneNumber(req.PhoneNumber); err != nil {
			metrics.VerificationRequestsTotal.WithLabelValues("invalid_number").Inc()
			return nil, errProvider(err.Error())
		}
	}

	pending, err := s.pending.FirstByPhone(ctx, req.PhoneNumber)
	if err != nil {
		return nil, errSaveFailed()
	}

	// An anonymous caller re-confirming an already verified challenge on
	// the same device gets the stored result back without a new send.
	// Authenticated callers fall through and re-request.
	if pending != nil && pending.IsVerified && pending.DeviceID == req.DeviceID && userID == 0 {
		return &models.RequestCodeResponse{Verified: true, Requested: false, RequestID: pending.ID}, nil
	}

	delayed, err := s.isDelayed(ctx, req.PhoneNumber)
	if err != nil {
		return nil, errSaveFailed()
	}
	if delayed {
		metrics.VerificationRequestsTotal.WithLabelValues("rate_limited").Inc()
		return nil, errRateLimited()
	}

	now := s.now()

	if pending != nil {
		windowStart := timeutil.WindowStart(now, s.rateLimit.DurationMinutes)
		count, err := s.smsLogs.CountSince(ctx, req.PhoneNumber, windowStart)
		if err != nil {
			return nil, errSaveFailed()
		}
		if count >= s.rateLimit.Attempts {
			// The delay window starts from the last dispatch, not from
			// the rejected attempt.
			if err := s.delayed.Create(ctx, &models.DelayedNumber{
				PhoneNumber: req.PhoneNumber,
				CreatedAt:   pending.RequestedAt,
			}); err != nil {
				return nil, errSaveFailed()
			}
			metrics.VerificationRequestsTotal.WithLabelValues("rate_limited").Inc()
			return nil, errRateLimited()
		}
	}

	snapshot := pending.Clone()
	isNew := pending == nil

	if isNew {
		// A device holds at most one pending challenge.
		if err := s.pending.DeleteByDevice(ctx, req.DeviceID); err != nil {
			return nil, errSaveFailed()
		}
		pending = &models.PendingVerification{
			PhoneNumber:  req.PhoneNumber,
			DeviceID:     req.DeviceID,
			RequestCount: 1,
		}
	} else {
		pending.IsVerified = false
		if pending.DeviceID != req.DeviceID {
			if err := s.pending.DeleteByDevice(ctx, req.DeviceID); err != nil {
				return nil, errSaveFailed()
			}
			pending.DeviceID = req.DeviceID
		}
	}
	pending.RequestedAt = now

	if _, err := s.provider.SendOTP(req.PhoneNumber); err != nil {
		metrics.VerificationRequestsTotal.WithLabelValues("provider_error").Inc()
		if errors.Is(err, sms.ErrNotEnabled) {
			return nil, errServiceUnavailable()
		}
		log.Printf("[Verification] OTP send failed for %s: %v", req.PhoneNumber, err)
		return nil, errProvider(err.Error())
	}

	if isNew {
		err = s.pending.Create(ctx, pending)
	} else if !pending.Equal(snapshot) {
		err = s.pending.Update(ctx, pending)
	}
	if err != nil {
		return nil, errSaveFailed()
	}

	if err := s.smsLogs.Create(ctx, &models.SMSLog{
		PhoneNumber: req.PhoneNumber,
		RequestedAt: pending.RequestedAt,
	}); err != nil {
		return nil, errSaveFailed()
	}

	metrics.VerificationRequestsTotal.WithLabelValues("sent").Inc()
	return &models.RequestCodeResponse{Verified: false, Requested: true, RequestID: pending.ID}, nil
}

// VerifyCode checks a submitted OTP against the provider and, on
// approval, either transitions the challenge into a durable phone
// record (authenticated callers) or resolves the owning user for
// login recovery (anonymous callers).
func (s *VerificationService) VerifyCode(ctx context.Context, userID int, req *models.VerifyCodeRequest) (*models.VerifyCodeResponse, error) {
	s.locks.Lock(req.PhoneNumber)
	defer s.locks.Unlock(req.PhoneNumber)

	pending, err := s.pending.FirstByPhoneAndDevice(ctx, req.PhoneNumber, req.DeviceID)
	if err != nil {
		return nil, errSaveFailed()
	}
	if pending == nil {
		return nil, errInvalidRequest()
	}

	approved, err := s.provider.CheckOTP(req.PhoneNumber, req.VerificationCode)
	if err != nil {
		metrics.VerificationChecksTotal.WithLabelValues("provider_error").Inc()
		return nil, errProvider(err.Error())
	}
	if !approved {
		metrics.VerificationChecksTotal.WithLabelValues("rejected").Inc()
		return &models.VerifyCodeResponse{Verified: false, UserID: userID, DeviceID: req.DeviceID}, nil
	}

	pending.IsVerified = true
	if err := s.pending.Update(ctx, pending); err != nil {
		return nil, errSaveFailed()
	}

	resp := &models.VerifyCodeResponse{Verified: true, UserID: userID, DeviceID: req.DeviceID}

	if userID > 0 {
		if err := s.phones.TransitionPendingVerification(ctx, userID, pending); err != nil {
			return nil, errUpdateFailed()
		}
	} else {
		owner, err := s.phones.FindByPhone(ctx, req.PhoneNumber)
		if err != nil {
			return nil, errSaveFailed()
		}
		if owner != nil {
			// Login recovery: the number already belongs to an account,
			// so the challenge is consumed and the caller learns whose.
			if err := s.pending.Delete(ctx, pending.ID); err != nil {
				return nil, errSaveFailed()
			}
			resp.UserID = owner.UserID
		}
		// Otherwise this is pre-signup verification; the pending row is
		// claimed later at account creation.
	}

	if req.GenerateAuth && resp.UserID > 0 {
		token, err := s.jwt.GenerateToken(int64(resp.UserID), req.DeviceID, "user")
		if err != nil {
			return nil, errUpdateFailed()
		}
		resp.Auth = token
	}

	metrics.VerificationChecksTotal.WithLabelValues("approved").Inc()
	return resp, nil
}

// isDelayed reports whether the number is inside a rate-limit delay
// window, evicting the marker lazily once the window has elapsed.
func (s *VerificationService) isDelayed(ctx context.Context, phone string) (bool, error) {
	delayed, err := s.delayed.FirstByPhone(ctx, phone)
	if err != nil {
		return false, err
	}
	if delayed == nil {
		return false, nil
	}
	if timeutil.DelayElapsed(s.now(), delayed.CreatedAt, s.rateLimit.DelayMinutes) {
		if err := s.delayed.Delete(ctx, delayed.ID); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}
