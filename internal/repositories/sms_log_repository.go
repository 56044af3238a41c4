package repositories

import (
	"context"
	"time"

	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SMSLogRepository struct {
	DB *pgxpool.Pool
}

func NewSMSLogRepository(db *pgxpool.Pool) *SMSLogRepository {
	return &SMSLogRepository{DB: db}
}

// Create appends an SMS dispatch record.
func (r *SMSLogRepository) Create(ctx context.Context, log *models.SMSLog) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO sms_logs(phone_number, requested_at) VALUES($1, $2) RETURNING id`,
		log.PhoneNumber, log.RequestedAt,
	).Scan(&log.ID)
}

// CountSince counts dispatches for a phone number after the given
// instant. Drives the rate-limit window check.
func (r *SMSLogRepository) CountSince(ctx context.Context, phone string, since time.Time) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM sms_logs WHERE phone_number=$1 AND requested_at > $2`,
		phone, since,
	).Scan(&count)
	return count, err
}

// DeleteOlderThan purges old log rows for the cleanup sweeper.
func (r *SMSLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM sms_logs WHERE requested_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
