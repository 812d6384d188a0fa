package user

import (
	"context"
	"sync"
)

// Repository defines the interface for profile persistence.
type Repository interface {
	// Get retrieves a profile by user ID.
	Get(ctx context.Context, userID string) (*Profile, error)

	// Upsert creates a profile if none exists, or replaces it.
	Upsert(ctx context.Context, profile *Profile) error

	// Delete deletes a profile.
	Delete(ctx context.Context, userID string) error
}

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for MVP/testing. Production should use a database-backed implementation.
type InMemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewInMemoryRepository creates a new in-memory profile repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		profiles: make(map[string]*Profile),
	}
}

// Get retrieves a profile by user ID.
func (r *InMemoryRepository) Get(_ context.Context, userID string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}

	// Return a copy to prevent mutation
	profileCopy := *profile
	return &profileCopy, nil
}

// Upsert creates or replaces a profile.
func (r *InMemoryRepository) Upsert(_ context.Context, profile *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	profileCopy := *profile
	r.profiles[profile.UserID] = &profileCopy
	return nil
}

// Delete deletes a profile.
func (r *InMemoryRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.profiles, userID)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
