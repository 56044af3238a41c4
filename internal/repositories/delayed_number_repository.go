package repositories

import (
	"context"
	"errors"

	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DelayedNumberRepository struct {
	DB *pgxpool.Pool
}

func NewDelayedNumberRepository(db *pgxpool.Pool) *DelayedNumberRepository {
	return &DelayedNumberRepository{DB: db}
}

// FirstByPhone retrieves the delay entry for a phone number, or nil
// when the number is not delayed.
func (r *DelayedNumberRepository) FirstByPhone(ctx context.Context, phone string) (*models.DelayedNumber, error) {
	var d models.DelayedNumber
	err := r.DB.QueryRow(ctx,
		`SELECT id, phone_number, created_at FROM sms_delayed_numbers WHERE phone_number=$1 ORDER BY id LIMIT 1`,
		phone,
	).Scan(&d.ID, &d.PhoneNumber, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DelayedNumberRepository) Create(ctx context.Context, d *models.DelayedNumber) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO sms_delayed_numbers(phone_number, created_at) VALUES($1, $2) RETURNING id`,
		d.PhoneNumber, d.CreatedAt,
	).Scan(&d.ID)
}

func (r *DelayedNumberRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM sms_delayed_numbers WHERE id=$1`, id)
	return err
}
