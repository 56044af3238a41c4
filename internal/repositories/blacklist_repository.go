package repositories

import (
	"context"
	"errors"

	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BlacklistRepository struct {
	DB *pgxpool.Pool
}

func NewBlacklistRepository(db *pgxpool.Pool) *BlacklistRepository {
	return &BlacklistRepository{DB: db}
}

// FirstByPhone retrieves the blacklist entry for a phone number, or nil
// when the number is not blacklisted.
func (r *BlacklistRepository) FirstByPhone(ctx context.Context, phone string) (*models.BlacklistEntry, error) {
	var b models.BlacklistEntry
	err := r.DB.QueryRow(ctx,
		`SELECT id, moderator_id, phone_number, COALESCE(notes, '') as notes, created_at
         FROM blacklisted_numbers WHERE phone_number=$1`, phone,
	).Scan(&b.ID, &b.ModeratorID, &b.PhoneNumber, &b.Notes, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BlacklistRepository) List(ctx context.Context) ([]*models.BlacklistEntry, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, moderator_id, phone_number, COALESCE(notes, '') as notes, created_at
         FROM blacklisted_numbers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.BlacklistEntry
	for rows.Next() {
		var b models.BlacklistEntry
		if err := rows.Scan(&b.ID, &b.ModeratorID, &b.PhoneNumber, &b.Notes, &b.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &b)
	}
	return entries, rows.Err()
}

func (r *BlacklistRepository) Create(ctx context.Context, b *models.BlacklistEntry) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO blacklisted_numbers(moderator_id, phone_number, notes, created_at)
         VALUES($1, $2, $3, $4)
         ON CONFLICT (phone_number) DO UPDATE SET moderator_id=$1, notes=$3
         RETURNING id`,
		b.ModeratorID, b.PhoneNumber, b.Notes, b.CreatedAt,
	).Scan(&b.ID)
}

func (r *BlacklistRepository) DeleteByPhone(ctx context.Context, phone string) (bool, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM blacklisted_numbers WHERE phone_number=$1`, phone)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
