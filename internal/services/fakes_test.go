package services

import (
	"context"
	"time"

	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/models"
)

// In-memory stores backing the service tests. They mirror the
// repository query semantics: "First" lookups return (nil, nil) when
// nothing matches.

type fakePendingStore struct {
	rows   []*models.PendingVerification
	nextID int
}

func newFakePendingStore() *fakePendingStore {
	return &fakePendingStore{nextID: 1}
}

func (f *fakePendingStore) FirstByPhone(_ context.Context, phone string) (*models.PendingVerification, error) {
	for _, p := range f.rows {
		if p.PhoneNumber == phone {
			return p.Clone(), nil
		}
	}
	return nil, nil
}

func (f *fakePendingStore) FirstByPhoneAndDevice(_ context.Context, phone, deviceID string) (*models.PendingVerification, error) {
	for _, p := range f.rows {
		if p.PhoneNumber == phone && p.DeviceID == deviceID {
			return p.Clone(), nil
		}
	}
	return nil, nil
}

func (f *fakePendingStore) Create(_ context.Context, p *models.PendingVerification) error {
	p.ID = f.nextID
	f.nextID++
	f.rows = append(f.rows, p.Clone())
	return nil
}

func (f *fakePendingStore) Update(_ context.Context, p *models.PendingVerification) error {
	for i, row := range f.rows {
		if row.ID == p.ID {
			f.rows[i] = p.Clone()
		}
	}
	return nil
}

func (f *fakePendingStore) Delete(_ context.Context, id int) error {
	f.deleteWhere(func(p *models.PendingVerification) bool { return p.ID == id })
	return nil
}

func (f *fakePendingStore) DeleteByDevice(_ context.Context, deviceID string) error {
	f.deleteWhere(func(p *models.PendingVerification) bool { return p.DeviceID == deviceID })
	return nil
}

func (f *fakePendingStore) DeleteByPhone(_ context.Context, phone string) error {
	f.deleteWhere(func(p *models.PendingVerification) bool { return p.PhoneNumber == phone })
	return nil
}

func (f *fakePendingStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	before := len(f.rows)
	f.deleteWhere(func(p *models.PendingVerification) bool { return p.RequestedAt.Before(cutoff) })
	return int64(before - len(f.rows)), nil
}

func (f *fakePendingStore) deleteWhere(match func(*models.PendingVerification) bool) {
	kept := f.rows[:0]
	for _, p := range f.rows {
		if !match(p) {
			kept = append(kept, p)
		}
	}
	f.rows = kept
}

type fakeSMSLogStore struct {
	rows   []*models.SMSLog
	nextID int
}

func newFakeSMSLogStore() *fakeSMSLogStore {
	return &fakeSMSLogStore{nextID: 1}
}

func (f *fakeSMSLogStore) Create(_ context.Context, entry *models.SMSLog) error {
	entry.ID = f.nextID
	f.nextID++
	copied := *entry
	f.rows = append(f.rows, &copied)
	return nil
}

func (f *fakeSMSLogStore) CountSince(_ context.Context, phone string, since time.Time) (int, error) {
	count := 0
	for _, row := range f.rows {
		if row.PhoneNumber == phone && row.RequestedAt.After(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeSMSLogStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	kept := f.rows[:0]
	var removed int64
	for _, row := range f.rows {
		if row.RequestedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	f.rows = kept
	return removed, nil
}

type fakeDelayedStore struct {
	rows   []*models.DelayedNumber
	nextID int
}

func newFakeDelayedStore() *fakeDelayedStore {
	return &fakeDelayedStore{nextID: 1}
}

func (f *fakeDelayedStore) FirstByPhone(_ context.Context, phone string) (*models.DelayedNumber, error) {
	for _, d := range f.rows {
		if d.PhoneNumber == phone {
			copied := *d
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeDelayedStore) Create(_ context.Context, d *models.DelayedNumber) error {
	d.ID = f.nextID
	f.nextID++
	copied := *d
	f.rows = append(f.rows, &copied)
	return nil
}

func (f *fakeDelayedStore) Delete(_ context.Context, id int) error {
	kept := f.rows[:0]
	for _, d := range f.rows {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	f.rows = kept
	return nil
}

type fakeUserPhoneStore struct {
	rows   []*models.UserPhoneNumber
	nextID int
}

func newFakeUserPhoneStore() *fakeUserPhoneStore {
	return &fakeUserPhoneStore{nextID: 1}
}

func (f *fakeUserPhoneStore) FirstByPhone(_ context.Context, phone string) (*models.UserPhoneNumber, error) {
	for _, u := range f.rows {
		if u.PhoneNumber == phone {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserPhoneStore) FirstByUser(_ context.Context, userID int) (*models.UserPhoneNumber, error) {
	for _, u := range f.rows {
		if u.UserID == userID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserPhoneStore) Create(_ context.Context, u *models.UserPhoneNumber) error {
	u.ID = f.nextID
	f.nextID++
	copied := *u
	f.rows = append(f.rows, &copied)
	return nil
}

func (f *fakeUserPhoneStore) Update(_ context.Context, u *models.UserPhoneNumber) error {
	for i, row := range f.rows {
		if row.ID == u.ID {
			copied := *u
			f.rows[i] = &copied
		}
	}
	return nil
}

func (f *fakeUserPhoneStore) Delete(_ context.Context, id int) error {
	f.deleteWhere(func(u *models.UserPhoneNumber) bool { return u.ID == id })
	return nil
}

func (f *fakeUserPhoneStore) DeleteByUser(_ context.Context, userID int) error {
	f.deleteWhere(func(u *models.UserPhoneNumber) bool { return u.UserID == userID })
	return nil
}

func (f *fakeUserPhoneStore) deleteWhere(match func(*models.UserPhoneNumber) bool) {
	kept := f.rows[:0]
	for _, u := range f.rows {
		if !match(u) {
			kept = append(kept, u)
		}
	}
	f.rows = kept
}

type fakeBlacklistStore struct {
	rows   []*models.BlacklistEntry
	nextID int
}

func newFakeBlacklistStore() *fakeBlacklistStore {
	return &fakeBlacklistStore{nextID: 1}
}

func (f *fakeBlacklistStore) FirstByPhone(_ context.Context, phone string) (*models.BlacklistEntry, error) {
	for _, b := range f.rows {
		if b.PhoneNumber == phone {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBlacklistStore) List(_ context.Context) ([]*models.BlacklistEntry, error) {
	return append([]*models.BlacklistEntry(nil), f.rows...), nil
}

func (f *fakeBlacklistStore) Create(_ context.Context, b *models.BlacklistEntry) error {
	b.ID = f.nextID
	f.nextID++
	copied := *b
	f.rows = append(f.rows, &copied)
	return nil
}

func (f *fakeBlacklistStore) DeleteByPhone(_ context.Context, phone string) (bool, error) {
	for i, b := range f.rows {
		if b.PhoneNumber == phone {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// fakeProvider approves one configured code per phone number and
// records every dispatch.
type fakeProvider struct {
	enabled   bool
	sendErr   error
	lookupErr error
	codes     map[string]string
	sends     []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{enabled: true, codes: make(map[string]string)}
}

func (f *fakeProvider) IsEnabled() bool { return f.enabled }

func (f *fakeProvider) SendOTP(phone string) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sends = append(f.sends, phone)
	if _, ok := f.codes[phone]; !ok {
		f.codes[phone] = "123456"
	}
	return "VE_fake", nil
}

func (f *fakeProvider) CheckOTP(phone, code string) (bool, error) {
	return f.codes[phone] == code, nil
}

func (f *fakeProvider) LookupPhoneNumber(string) error {
	return f.lookupErr
}
