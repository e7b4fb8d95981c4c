package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/reelbase/backend/internal/db"
	"github.com/reelbase/backend/internal/models"
)

// PostgresUserRepository provides PostgreSQL-backed persistence for identity
// records.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new identity record.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO users (id, email, email_verified, password_hash, display_name, photo_url, provider, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, user.ID, user.Email, user.EmailVerified, user.Password, user.DisplayName, user.PhotoURL, user.Provider, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// FindByEmail fetches an identity record by email address.
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.find(ctx, `
        SELECT id, email, email_verified, password_hash, display_name, photo_url, provider, created_at, updated_at
        FROM users
        WHERE email = $1
    `, email)
}

// FindByID fetches an identity record by its identifier.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	return r.find(ctx, `
        SELECT id, email, email_verified, password_hash, display_name, photo_url, provider, created_at, updated_at
        FROM users
        WHERE id = $1
    `, id)
}

func (r *PostgresUserRepository) find(ctx context.Context, query, arg string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, query, arg)

	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.EmailVerified, &user.Password, &user.DisplayName,
		&user.PhotoURL, &user.Provider, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user: %w", err)
	}

	return user, nil
}

// Update modifies an existing identity record.
func (r *PostgresUserRepository) Update(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET email = $2, email_verified = $3, password_hash = $4, display_name = $5, photo_url = $6, updated_at = $7
        WHERE id = $1
    `, user.ID, user.Email, user.EmailVerified, user.Password, user.DisplayName, user.PhotoURL, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("update user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// PostgresProfileRepository provides PostgreSQL-backed persistence for the
// per-user profile document. Date of birth is stored as epoch milliseconds.
type PostgresProfileRepository struct {
	pool db.Pool
}

// NewPostgresProfileRepository constructs a profile repository backed by
// PostgreSQL.
func NewPostgresProfileRepository(pool db.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

// Find loads the profile document for a user.
func (r *PostgresProfileRepository) Find(ctx context.Context, userID string) (models.Profile, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Profile{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT user_id, email, email_verified, first_name, last_name, photo_url,
               country_code, country_label, country_phone,
               phone_number, phone_number_verified, dob_millis
        FROM profiles
        WHERE user_id = $1
    `, userID)

	var (
		profile      models.Profile
		countryCode  sql.NullString
		countryLabel sql.NullString
		countryPhone sql.NullString
		dobMillis    sql.NullInt64
	)
	if err := row.Scan(&profile.UserID, &profile.Email, &profile.EmailVerified,
		&profile.FirstName, &profile.LastName, &profile.PhotoURL,
		&countryCode, &countryLabel, &countryPhone,
		&profile.PhoneNumber, &profile.PhoneNumberVerified, &dobMillis); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Profile{}, ErrNotFound
		}
		return models.Profile{}, fmt.Errorf("select profile: %w", err)
	}

	if countryCode.Valid && countryCode.String != "" {
		profile.Country = &models.Country{
			Code:  countryCode.String,
			Label: countryLabel.String,
			Phone: countryPhone.String,
		}
	}
	if dobMillis.Valid {
		dob := time.UnixMilli(dobMillis.Int64).UTC()
		profile.DOB = &dob
	}

	return profile, nil
}

// Upsert stores the profile document, replacing any previous version.
func (r *PostgresProfileRepository) Upsert(ctx context.Context, profile models.Profile) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var (
		countryCode  sql.NullString
		countryLabel sql.NullString
		countryPhone sql.NullString
		dobMillis    sql.NullInt64
	)
	if profile.Country != nil {
		countryCode = sql.NullString{Valid: true, String: profile.Country.Code}
		countryLabel = sql.NullString{Valid: true, String: profile.Country.Label}
		countryPhone = sql.NullString{Valid: true, String: profile.Country.Phone}
	}
	if profile.DOB != nil {
		dobMillis = sql.NullInt64{Valid: true, Int64: profile.DOB.UnixMilli()}
	}

	_, err = conn.Exec(ctx, `
        INSERT INTO profiles (user_id, email, email_verified, first_name, last_name, photo_url,
                              country_code, country_label, country_phone,
                              phone_number, phone_number_verified, dob_millis, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
        ON CONFLICT (user_id)
        DO UPDATE SET email = EXCLUDED.email,
                      email_verified = EXCLUDED.email_verified,
                      first_name = EXCLUDED.first_name,
                      last_name = EXCLUDED.last_name,
                      photo_url = EXCLUDED.photo_url,
                      country_code = EXCLUDED.country_code,
                      country_label = EXCLUDED.country_label,
                      country_phone = EXCLUDED.country_phone,
                      phone_number = EXCLUDED.phone_number,
                      phone_number_verified = EXCLUDED.phone_number_verified,
                      dob_millis = EXCLUDED.dob_millis,
                      updated_at = NOW()
    `, profile.UserID, profile.Email, profile.EmailVerified, profile.FirstName, profile.LastName,
		profile.PhotoURL, countryCode, countryLabel, countryPhone,
		profile.PhoneNumber, profile.PhoneNumberVerified, dobMillis)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	return nil
}
