package planner

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory Repository implementation for tests
// and local development.
type InMemoryRepository struct {
	mu          sync.RWMutex
	generations map[string]*Generation
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		generations: make(map[string]*Generation),
	}
}

// Create stores a new generation job.
func (r *InMemoryRepository) Create(_ context.Context, gen *Generation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.generations[gen.ID] = copyGeneration(gen)
	return nil
}

// GetByID retrieves a generation regardless of owner.
func (r *InMemoryRepository) GetByID(_ context.Context, generationID string) (*Generation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gen, ok := r.generations[generationID]
	if !ok {
		return nil, ErrGenerationNotFound
	}
	return copyGeneration(gen), nil
}

// GetByUserAndID retrieves a generation scoped to its owner.
func (r *InMemoryRepository) GetByUserAndID(_ context.Context, userID, generationID string) (*Generation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gen, ok := r.generations[generationID]
	if !ok || gen.UserID != userID {
		return nil, ErrGenerationNotFound
	}
	return copyGeneration(gen), nil
}

// Update persists status transitions and result fields.
func (r *InMemoryRepository) Update(_ context.Context, gen *Generation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.generations[gen.ID]; !ok {
		return ErrGenerationNotFound
	}
	r.generations[gen.ID] = copyGeneration(gen)
	return nil
}

// ListPending returns PENDING jobs created before the cutoff, oldest
// first.
func (r *InMemoryRepository) ListPending(_ context.Context, before time.Time, limit int) ([]*Generation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var pending []*Generation
	for _, gen := range r.generations {
		if gen.Status == StatusPending && gen.CreatedAt.Before(before) {
			pending = append(pending, copyGeneration(gen))
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func copyGeneration(gen *Generation) *Generation {
	out := *gen
	if gen.ItineraryID != nil {
		id := *gen.ItineraryID
		out.ItineraryID = &id
	}
	if gen.ErrorMessage != nil {
		msg := *gen.ErrorMessage
		out.ErrorMessage = &msg
	}
	return &out
}
