package repositories

import (
	"context"
	"errors"

	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserPhoneNumberRepository struct {
	DB *pgxpool.Pool
}

func NewUserPhoneNumberRepository(db *pgxpool.Pool) *UserPhoneNumberRepository {
	return &UserPhoneNumberRepository{DB: db}
}

const userPhoneColumns = `id, user_id, phone_number, device_id, status, created_at`

func scanUserPhone(row pgx.Row) (*models.UserPhoneNumber, error) {
	var u models.UserPhoneNumber
	err := row.Scan(&u.ID, &u.UserID, &u.PhoneNumber, &u.DeviceID, &u.Status, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FirstByPhone retrieves the record holding a phone number, or nil.
func (r *UserPhoneNumberRepository) FirstByPhone(ctx context.Context, phone string) (*models.UserPhoneNumber, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+userPhoneColumns+` FROM user_phone_numbers WHERE phone_number=$1 ORDER BY id LIMIT 1`, phone)
	return scanUserPhone(row)
}

// FirstByUser retrieves the record for a user, or nil.
func (r *UserPhoneNumberRepository) FirstByUser(ctx context.Context, userID int) (*models.UserPhoneNumber, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+userPhoneColumns+` FROM user_phone_numbers WHERE user_id=$1 ORDER BY id LIMIT 1`, userID)
	return scanUserPhone(row)
}

// FirstByPhoneAndStatus retrieves the record holding a phone number in
// the given status, or nil.
func (r *UserPhoneNumberRepository) FirstByPhoneAndStatus(ctx context.Context, phone, status string) (*models.UserPhoneNumber, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+userPhoneColumns+` FROM user_phone_numbers WHERE phone_number=$1 AND status=$2 ORDER BY id LIMIT 1`,
		phone, status)
	return scanUserPhone(row)
}

func (r *UserPhoneNumberRepository) Create(ctx context.Context, u *models.UserPhoneNumber) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO user_phone_numbers(user_id, phone_number, device_id, status, created_at)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id`,
		u.UserID, u.PhoneNumber, u.DeviceID, u.Status, u.CreatedAt,
	).Scan(&u.ID)
}

func (r *UserPhoneNumberRepository) Update(ctx context.Context, u *models.UserPhoneNumber) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE user_phone_numbers
         SET user_id=$1, phone_number=$2, device_id=$3, status=$4, created_at=$5
         WHERE id=$6`,
		u.UserID, u.PhoneNumber, u.DeviceID, u.Status, u.CreatedAt, u.ID)
	return err
}

func (r *UserPhoneNumberRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM user_phone_numbers WHERE id=$1`, id)
	return err
}

// DeleteByUser removes the record for a user. Enforces the one-phone-
// per-user invariant before fresh inserts.
func (r *UserPhoneNumberRepository) DeleteByUser(ctx context.Context, userID int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM user_phone_numbers WHERE user_id=$1`, userID)
	return err
}

// DeleteByPhone removes any record holding the phone number. Enforces
// the one-user-per-phone invariant before reassignment.
func (r *UserPhoneNumberRepository) DeleteByPhone(ctx context.Context, phone string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM user_phone_numbers WHERE phone_number=$1`, phone)
	return err
}
