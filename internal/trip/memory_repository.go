package trip

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu          sync.RWMutex
	itineraries map[string]*Itinerary
}

// NewInMemoryRepository creates a new in-memory itinerary repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		itineraries: make(map[string]*Itinerary),
	}
}

// GetByUserAndID retrieves an itinerary graph by user ID and itinerary ID.
func (r *InMemoryRepository) GetByUserAndID(_ context.Context, userID, itineraryID string) (*Itinerary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.itineraries[itineraryID]
	if !ok || it.UserID != userID {
		return nil, ErrItineraryNotFound
	}

	return copyItinerary(it), nil
}

// List retrieves itinerary summaries for a user with pagination.
func (r *InMemoryRepository) List(_ context.Context, userID string, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var summaries []*Summary
	for _, it := range r.itineraries {
		if it.UserID != userID {
			continue
		}
		summaries = append(summaries, &Summary{
			ID:        it.ID,
			UserID:    it.UserID,
			Title:     it.Title,
			StartDate: it.StartDate,
			EndDate:   it.EndDate,
			TotalCost: it.TotalCost(),
			CreatedAt: it.CreatedAt,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})

	if opts.Cursor != "" {
		for i := range summaries {
			if summaries[i].ID == opts.Cursor {
				summaries = summaries[i+1:]
				break
			}
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	result := &ListResult{Items: summaries}
	if len(summaries) > limit {
		result.Items = summaries[:limit]
		result.NextCursor = summaries[limit-1].ID
	}

	return result, nil
}

// Create persists a new itinerary graph.
func (r *InMemoryRepository) Create(_ context.Context, it *Itinerary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.itineraries[it.ID] = copyItinerary(it)
	return nil
}

// Update replaces an existing itinerary graph.
func (r *InMemoryRepository) Update(_ context.Context, it *Itinerary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.itineraries[it.ID]; !ok {
		return ErrItineraryNotFound
	}
	r.itineraries[it.ID] = copyItinerary(it)
	return nil
}

// Delete removes an itinerary and its whole graph.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.itineraries, id)
	return nil
}

// copyItinerary deep-copies a trip graph so callers never share slices
// with the stored value.
func copyItinerary(it *Itinerary) *Itinerary {
	cpy := *it
	cpy.Locations = append([]GeoPoint(nil), it.Locations...)
	cpy.Notes = append([]string(nil), it.Notes...)
	cpy.DayPlans = make([]DayPlan, len(it.DayPlans))
	for i := range it.DayPlans {
		dp := it.DayPlans[i]
		dp.Activities = append([]Activity(nil), it.DayPlans[i].Activities...)
		dp.Notes = append([]string(nil), it.DayPlans[i].Notes...)
		if it.DayPlans[i].Route != nil {
			route := *it.DayPlans[i].Route
			route.Waypoints = append([]GeoPoint(nil), it.DayPlans[i].Route.Waypoints...)
			dp.Route = &route
		}
		cpy.DayPlans[i] = dp
	}
	return &cpy
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
