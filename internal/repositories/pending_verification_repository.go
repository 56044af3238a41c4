package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PendingVerificationRepository struct {
	DB *pgxpool.Pool
}

func NewPendingVerificationRepository(db *pgxpool.Pool) *PendingVerificationRepository {
	return &PendingVerificationRepository{DB: db}
}

const pendingColumns = `id, phone_number, device_id, request_count, is_verified, requested_at`

func scanPending(row pgx.Row) (*models.PendingVerification, error) {
	var p models.PendingVerification
	err := row.Scan(&p.ID, &p.PhoneNumber, &p.DeviceID, &p.RequestCount, &p.IsVerified, &p.RequestedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FirstByPhone retrieves the pending request for a phone number, or nil
// when none exists.
func (r *PendingVerificationRepository) FirstByPhone(ctx context.Context, phone string) (*models.PendingVerification, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+pendingColumns+` FROM pending_verifications WHERE phone_number=$1 ORDER BY id LIMIT 1`, phone)
	return scanPending(row)
}

// FirstByPhoneAndDevice retrieves the pending request for a phone and
// device pair, or nil when none exists.
func (r *PendingVerificationRepository) FirstByPhoneAndDevice(ctx context.Context, phone, deviceID string) (*models.PendingVerification, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+pendingColumns+` FROM pending_verifications WHERE phone_number=$1 AND device_id=$2 ORDER BY id LIMIT 1`,
		phone, deviceID)
	return scanPending(row)
}

func (r *PendingVerificationRepository) Create(ctx context.Context, p *models.PendingVerification) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO pending_verifications(phone_number, device_id, request_count, is_verified, requested_at)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id`,
		p.PhoneNumber, p.DeviceID, p.RequestCount, p.IsVerified, p.RequestedAt,
	).Scan(&p.ID)
}

func (r *PendingVerificationRepository) Update(ctx context.Context, p *models.PendingVerification) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE pending_verifications
         SET phone_number=$1, device_id=$2, request_count=$3, is_verified=$4, requested_at=$5
         WHERE id=$6`,
		p.PhoneNumber, p.DeviceID, p.RequestCount, p.IsVerified, p.RequestedAt, p.ID)
	return err
}

func (r *PendingVerificationRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM pending_verifications WHERE id=$1`, id)
	return err
}

// DeleteByDevice removes any pending request bound to the device. Used
// to keep at most one pending row per device.
func (r *PendingVerificationRepository) DeleteByDevice(ctx context.Context, deviceID string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM pending_verifications WHERE device_id=$1`, deviceID)
	return err
}

// DeleteByPhone removes any pending request for the phone number.
func (r *PendingVerificationRepository) DeleteByPhone(ctx context.Context, phone string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM pending_verifications WHERE phone_number=$1`, phone)
	return err
}

// DeleteOlderThan purges abandoned requests for the cleanup sweeper.
func (r *PendingVerificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM pending_verifications WHERE requested_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
