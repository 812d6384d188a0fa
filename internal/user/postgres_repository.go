package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL profile repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a profile by user ID.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*Profile, error) {
	query := `
		SELECT user_id, display_name, home_base, locale, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`

	var profile Profile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.HomeBase,
		&profile.Locale,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return &profile, nil
}

// Upsert creates a profile if none exists, or replaces it.
func (r *PostgresRepository) Upsert(ctx context.Context, profile *Profile) error {
	query := `
		INSERT INTO user_profiles (user_id, display_name, home_base, locale, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			home_base = EXCLUDED.home_base,
			locale = EXCLUDED.locale,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		profile.UserID,
		profile.DisplayName,
		profile.HomeBase,
		profile.Locale,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	return err
}

// Delete deletes a profile.
func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	query := `DELETE FROM user_profiles WHERE user_id = $1`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
