package trip

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ListOptions contains options for listing itineraries.
type ListOptions struct {
	Limit  int
	Cursor string
}

// Summary is the list-view projection of an itinerary. TotalCost is
// derived from the stored activities at read time.
type Summary struct {
	ID        string
	UserID    string
	Title     string
	StartDate time.Time
	EndDate   time.Time
	TotalCost decimal.Decimal
	CreatedAt time.Time
}

// ListResult contains the results of listing itineraries.
type ListResult struct {
	Items      []*Summary
	NextCursor string
}

// Repository defines the interface for itinerary graph persistence.
// Create and Update persist the whole graph (itinerary, day plans,
// activities) atomically: either everything is written or nothing is.
type Repository interface {
	// GetByUserAndID retrieves a fully materialized itinerary graph.
	// Returns ErrItineraryNotFound if it doesn't exist or doesn't belong
	// to the user.
	GetByUserAndID(ctx context.Context, userID, itineraryID string) (*Itinerary, error)

	// List retrieves itinerary summaries for a user with pagination.
	List(ctx context.Context, userID string, opts ListOptions) (*ListResult, error)

	// Create persists a new itinerary graph.
	Create(ctx context.Context, it *Itinerary) error

	// Update replaces an existing itinerary graph.
	Update(ctx context.Context, it *Itinerary) error

	// Delete removes an itinerary and cascades to its day plans and
	// activities.
	Delete(ctx context.Context, id string) error
}
