package planner

import (
	"context"
	"time"
)

// Repository persists generation jobs.
type Repository interface {
	// Create stores a new generation job.
	Create(ctx context.Context, gen *Generation) error

	// GetByID retrieves a generation regardless of owner. Used by the
	// worker, which processes jobs for all users.
	// Returns ErrGenerationNotFound if it does not exist.
	GetByID(ctx context.Context, generationID string) (*Generation, error)

	// GetByUserAndID retrieves a generation scoped to its owner.
	// Returns ErrGenerationNotFound if it does not exist or belongs to
	// another user.
	GetByUserAndID(ctx context.Context, userID, generationID string) (*Generation, error)

	// Update persists status transitions and result fields.
	// Returns ErrGenerationNotFound if the generation does not exist.
	Update(ctx context.Context, gen *Generation) error

	// ListPending returns jobs still in PENDING state that were created
	// before the cutoff, oldest first. Used by the worker sweep to
	// recover jobs whose enqueue message was lost.
	ListPending(ctx context.Context, before time.Time, limit int) ([]*Generation, error)
}
