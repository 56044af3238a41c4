package services

import (
	"context"
	"log"
	"time"

	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/cache"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/models"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/timeutil"
)

type UserPhoneNumberStore interface {
	FirstByPhone(ctx context.Context, phone string) (*models.UserPhoneNumber, error)
	FirstByUser(ctx context.Context, userID int) (*models.UserPhoneNumber, error)
	Create(ctx context.Context, u *models.UserPhoneNumber) error
	Update(ctx context.Context, u *models.UserPhoneNumber) error
	Delete(ctx context.Context, id int) error
	DeleteByUser(ctx context.Context, userID int) error
}

// PhoneNumberService manages the durable user-phone association. Its
// upsert keeps two invariants: a phone number belongs to at most one
// user, and a user holds at most one phone number. Conflicting rows are
// evicted rather than rejected.
type PhoneNumberService struct {
	userPhones UserPhoneNumberStore
	pending    PendingVerificationStore
	now        func() time.Time
}

func NewPhoneNumberService(userPhones UserPhoneNumberStore, pending PendingVerificationStore) *PhoneNumberService {
	return &PhoneNumberService{
		userPhones: userPhones,
		pending:    pending,
		now:        timeutil.Now,
	}
}

// UpdateUserPhoneDetails applies a partial update to the user's phone
// record. Nil fields are left unchanged; an explicitly empty phone
// number deletes the record.
func (s *PhoneNumberService) UpdateUserPhoneDetails(ctx context.Context, userID int, changes *models.PhoneNumberChanges) error {
	cache.InvalidatePhoneDetails(ctx, userID)

	if changes.PhoneNumber != nil && *changes.PhoneNumber == "" {
		return s.userPhones.DeleteByUser(ctx, userID)
	}

	// Prefer the row already holding the new number so the assignment
	// reclaims it instead of duplicating.
	var row *models.UserPhoneNumber
	var err error
	if changes.PhoneNumber != nil {
		row, err = s.userPhones.FirstByPhone(ctx, *changes.PhoneNumber)
		if err != nil {
			return err
		}
	}
	if row == nil {
		row, err = s.userPhones.FirstByUser(ctx, userID)
		if err != nil {
			return err
		}
	}

	isNew := row == nil
	if isNew {
		if err := s.userPhones.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		row = &models.UserPhoneNumber{}
	} else {
		cache.InvalidatePhoneDetails(ctx, row.UserID)
		if row.UserID != userID {
			// Device binding does not carry across users.
			row.DeviceID = ""
		}
	}

	if changes.PhoneNumber != nil {
		other, err := s.userPhones.FirstByPhone(ctx, *changes.PhoneNumber)
		if err != nil {
			return err
		}
		if other != nil && other.ID != row.ID {
			cache.InvalidatePhoneDetails(ctx, other.UserID)
			if err := s.userPhones.Delete(ctx, other.ID); err != nil {
				return err
			}
		}
		row.PhoneNumber = *changes.PhoneNumber
	}
	if changes.DeviceID != nil {
		row.DeviceID = *changes.DeviceID
	}
	if changes.Status != nil {
		row.Status = *changes.Status
	}
	row.UserID = userID
	row.CreatedAt = s.now()

	if isNew {
		err = s.userPhones.Create(ctx, row)
	} else {
		err = s.userPhones.Update(ctx, row)
	}
	if err != nil {
		return err
	}

	cache.CachePhoneDetails(ctx, userID, row.PhoneNumber, row.Status)

	// The challenge that produced this association is consumed.
	if row.DeviceID != "" {
		if err := s.pending.DeleteByDevice(ctx, row.DeviceID); err != nil {
			log.Printf("[PhoneNumber] pending cleanup by device failed: %v", err)
		}
	}
	if row.PhoneNumber != "" {
		if err := s.pending.DeleteByPhone(ctx, row.PhoneNumber); err != nil {
			log.Printf("[PhoneNumber] pending cleanup by phone failed: %v", err)
		}
	}
	return nil
}

// TransitionPendingVerification converts a verified challenge into the
// user's durable phone record.
func (s *PhoneNumberService) TransitionPendingVerification(ctx context.Context, userID int, pending *models.PendingVerification) error {
	status := models.PhoneStatusUnverified
	if pending.IsVerified {
		status = models.PhoneStatusVerified
	}
	return s.UpdateUserPhoneDetails(ctx, userID, &models.PhoneNumberChanges{
		PhoneNumber: &pending.PhoneNumber,
		DeviceID:    &pending.DeviceID,
		Status:      &status,
	})
}

// GetUserPhoneNumber returns the user's phone record, consulting the
// cache before the store. Returns (nil, nil) when the user has none.
func (s *PhoneNumberService) GetUserPhoneNumber(ctx context.Context, userID int) (*models.UserPhoneNumber, error) {
	if phone, status, ok := cache.GetCachedPhoneDetails(ctx, userID); ok {
		return &models.UserPhoneNumber{UserID: userID, PhoneNumber: phone, Status: status}, nil
	}

	row, err := s.userPhones.FirstByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if row != nil {
		cache.CachePhoneDetails(ctx, userID, row.PhoneNumber, row.Status)
	}
	return row, nil
}

// DeleteUserPhoneNumber removes the user's phone record and reports the
// previous value alongside the outcome.
func (s *PhoneNumberService) DeleteUserPhoneNumber(ctx context.Context, userID int) (*models.DeletePhoneNumberResponse, error) {
	previous, err := s.userPhones.FirstByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if previous == nil {
		return nil, errNotFound("no phone number on record")
	}

	empty := ""
	if err := s.UpdateUserPhoneDetails(ctx, userID, &models.PhoneNumberChanges{PhoneNumber: &empty}); err != nil {
		return nil, errUpdateFailed()
	}
	return &models.DeletePhoneNumberResponse{Deleted: true, Previous: previous}, nil
}

// FindByPhone returns the record owning a phone number, if any.
func (s *PhoneNumberService) FindByPhone(ctx context.Context, phone string) (*models.UserPhoneNumber, error) {
	return s.userPhones.FirstByPhone(ctx, phone)
}

// IsPhoneNumberVerified reports whether the user holds a verified phone
// number.
func (s *PhoneNumberService) IsPhoneNumberVerified(ctx context.Context, userID int) (bool, error) {
	row, err := s.GetUserPhoneNumber(ctx, userID)
	if err != nil {
		return false, err
	}
	return row != nil && row.Status == models.PhoneStatusVerified, nil
}
