package services

import (
	"context"
	"strings"
	"time"

	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/models"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/timeutil"
)

type BlacklistStore interface {
	FirstByPhone(ctx context.Context, phone string) (*models.BlacklistEntry, error)
	List(ctx context.Context) ([]*models.BlacklistEntry, error)
	Create(ctx context.Context, b *models.BlacklistEntry) error
	DeleteByPhone(ctx context.Context, phone string) (bool, error)
}

// BlacklistService maintains the moderator-curated list of forbidden
// phone numbers consulted by the request engine.
type BlacklistService struct {
	store BlacklistStore
	now   func() time.Time
}

func NewBlacklistService(store BlacklistStore) *BlacklistService {
	return &BlacklistService{store: store, now: timeutil.Now}
}

func (s *BlacklistService) IsBlacklisted(ctx context.Context, phone string) (bool, error) {
	entry, err := s.store.FirstByPhone(ctx, phone)
	if err != nil {
		return false, err
	}
	return entry != nil, nil
}

func (s *BlacklistService) List(ctx context.Context) ([]*models.BlacklistEntry, error) {
	return s.store.List(ctx)
}

func (s *BlacklistService) Add(ctx context.Context, moderatorID int, req *models.BlacklistRequest) (*models.BlacklistEntry, error) {
	phone := strings.TrimSpace(req.PhoneNumber)
	if phone == "" {
		return nil, errNotFound("phone number is required")
	}

	entry := &models.BlacklistEntry{
		ModeratorID: moderatorID,
		PhoneNumber: phone,
		Notes:       req.Notes,
		CreatedAt:   s.now(),
	}
	if err := s.store.Create(ctx, entry); err != nil {
		return nil, errSaveFailed()
	}
	return entry, nil
}

func (s *BlacklistService) Remove(ctx context.Context, phone string) error {
	removed, err := s.store.DeleteByPhone(ctx, phone)
	if err != nil {
		return errSaveFailed()
	}
	if !removed {
		return errNotFound("phone number is not blacklisted")
	}
	return nil
}
