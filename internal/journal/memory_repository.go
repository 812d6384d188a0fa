package journal

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	journals map[string]*Journal
}

// NewInMemoryRepository creates a new in-memory journal repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		journals: make(map[string]*Journal),
	}
}

// GetByUserAndID retrieves a journal by user ID and journal ID.
func (r *InMemoryRepository) GetByUserAndID(_ context.Context, userID, journalID string) (*Journal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.journals[journalID]
	if !ok || j.UserID != userID {
		return nil, ErrJournalNotFound
	}

	return copyJournal(j), nil
}

// List retrieves journal summaries for a user with pagination.
func (r *InMemoryRepository) List(_ context.Context, userID string, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var summaries []*Summary
	for _, j := range r.journals {
		if j.UserID != userID {
			continue
		}
		summaries = append(summaries, &Summary{
			ID:          j.ID,
			UserID:      j.UserID,
			Title:       j.Title,
			Destination: j.Destination,
			StartDate:   j.StartDate,
			EndDate:     j.EndDate,
			Visibility:  j.Visibility,
			CreatedAt:   j.CreatedAt,
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

// Create persists a new journal with its subsections.
func (r *InMemoryRepository) Create(_ context.Context, j *Journal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.journals[j.ID] = copyJournal(j)
	return nil
}

// Update replaces an existing journal including its subsections.
func (r *InMemoryRepository) Update(_ context.Context, j *Journal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.journals[j.ID]; !ok {
		return ErrJournalNotFound
	}
	r.journals[j.ID] = copyJournal(j)
	return nil
}

// Delete removes a journal and its subsections.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.journals, id)
	return nil
}

// copyJournal deep-copies a journal so callers never share slices with
// the stored value.
func copyJournal(j *Journal) *Journal {
	cpy := *j
	cpy.Subsections = make([]Subsection, len(j.Subsections))
	for i := range j.Subsections {
		sec := j.Subsections[i]
		if sec.Sightseeing != nil {
			s := *sec.Sightseeing
			sec.Sightseeing = &s
		}
		if sec.Activity != nil {
			a := *sec.Activity
			sec.Activity = &a
		}
		if sec.Route != nil {
			rt := *sec.Route
			rt.Waypoints = append([]Point(nil), sec.Route.Waypoints...)
			sec.Route = &rt
		}
		cpy.Subsections[i] = sec
	}
	return &cpy
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
