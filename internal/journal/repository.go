package journal

import (
	"context"
	"time"
)

// ListOptions contains options for listing journals.
type ListOptions struct {
	Limit  int
	Cursor string
}

// Summary is the list-view projection of a journal.
type Summary struct {
	ID          string
	UserID      string
	Title       string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Visibility  Visibility
	CreatedAt   time.Time
}

// ListResult contains the results of listing journals.
type ListResult struct {
	Items      []*Summary
	NextCursor string
}

// Repository defines the interface for journal persistence. Create and
// Update persist the journal together with its subsections atomically.
type Repository interface {
	// GetByUserAndID retrieves a journal with its subsections in order.
	// Returns ErrJournalNotFound if it doesn't exist or doesn't belong to
	// the user.
	GetByUserAndID(ctx context.Context, userID, journalID string) (*Journal, error)

	// List retrieves journal summaries for a user with pagination.
	List(ctx context.Context, userID string, opts ListOptions) (*ListResult, error)

	// Create persists a new journal with its subsections.
	Create(ctx context.Context, j *Journal) error

	// Update replaces an existing journal including its subsections.
	Update(ctx context.Context, j *Journal) error

	// Delete removes a journal and cascades to its subsections.
	Delete(ctx context.Context, id string) error
}
