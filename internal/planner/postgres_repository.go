package planner

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL generation repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create stores a new generation job.
func (r *PostgresRepository) Create(ctx context.Context, gen *Generation) error {
	query := `
		INSERT INTO generations (
			id, user_id, status, location, start_date,
			number_of_days, budget_level, number_of_people,
			itinerary_id, error_message, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		gen.ID,
		gen.UserID,
		string(gen.Status),
		gen.Location,
		gen.StartDate,
		gen.NumberOfDays,
		string(gen.BudgetLevel),
		gen.NumberOfPeople,
		gen.ItineraryID,
		gen.ErrorMessage,
		gen.CreatedAt,
		gen.UpdatedAt,
	)
	return err
}

// GetByID retrieves a generation regardless of owner.
func (r *PostgresRepository) GetByID(ctx context.Context, generationID string) (*Generation, error) {
	query := `
		SELECT id, user_id, status, location, start_date,
		       number_of_days, budget_level, number_of_people,
		       itinerary_id, error_message, created_at, updated_at
		FROM generations
		WHERE id = $1
	`

	return r.scanGeneration(r.pool.QueryRow(ctx, query, generationID))
}

// GetByUserAndID retrieves a generation scoped to its owner.
func (r *PostgresRepository) GetByUserAndID(ctx context.Context, userID, generationID string) (*Generation, error) {
	query := `
		SELECT id, user_id, status, location, start_date,
		       number_of_days, budget_level, number_of_people,
		       itinerary_id, error_message, created_at, updated_at
		FROM generations
		WHERE id = $1 AND user_id = $2
	`

	return r.scanGeneration(r.pool.QueryRow(ctx, query, generationID, userID))
}

// Update persists status transitions and result fields.
func (r *PostgresRepository) Update(ctx context.Context, gen *Generation) error {
	query := `
		UPDATE generations
		SET status = $2, itinerary_id = $3, error_message = $4, updated_at = $5
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		gen.ID,
		string(gen.Status),
		gen.ItineraryID,
		gen.ErrorMessage,
		gen.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGenerationNotFound
	}
	return nil
}

// ListPending returns PENDING jobs created before the cutoff, oldest
// first.
func (r *PostgresRepository) ListPending(ctx context.Context, before time.Time, limit int) ([]*Generation, error) {
	query := `
		SELECT id, user_id, status, location, start_date,
		       number_of_days, budget_level, number_of_people,
		       itinerary_id, error_message, created_at, updated_at
		FROM generations
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at ASC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, string(StatusPending), before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []*Generation
	for rows.Next() {
		gen, err := r.scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		pending = append(pending, gen)
	}
	return pending, rows.Err()
}

func (r *PostgresRepository) scanGeneration(row pgx.Row) (*Generation, error) {
	var gen Generation
	var status, budget string
	err := row.Scan(
		&gen.ID,
		&gen.UserID,
		&status,
		&gen.Location,
		&gen.StartDate,
		&gen.NumberOfDays,
		&budget,
		&gen.NumberOfPeople,
		&gen.ItineraryID,
		&gen.ErrorMessage,
		&gen.CreatedAt,
		&gen.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGenerationNotFound
		}
		return nil, err
	}

	gen.Status = Status(status)
	gen.BudgetLevel = BudgetLevel(budget)
	return &gen, nil
}
