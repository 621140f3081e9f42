package leads

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of LeadsRepo used when no
// database is configured.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Lead
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Lead),
	}
}

// Create stores a lead.
func (r *MemoryRepo) Create(ctx context.Context, lead Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[lead.ID] = lead
	return nil
}

// GetByID returns a lead by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Lead, error) {
	if err := ctx.Err(); err != nil {
		return Lead{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	lead, ok := r.data[id]
	if !ok {
		return Lead{}, ErrNotFound
	}
	return lead, nil
}

var _ LeadsRepo = (*MemoryRepo)(nil)
