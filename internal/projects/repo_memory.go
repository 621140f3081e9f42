package projects

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of ProjectsRepo used when no
// database is configured.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Project
	// creation order per lead, oldest first
	byLead map[string][]string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data:   make(map[string]Project),
		byLead: make(map[string][]string),
	}
}

// Create stores a project.
func (r *MemoryRepo) Create(ctx context.Context, project Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[project.ID] = project
	r.byLead[project.LeadID] = append(r.byLead[project.LeadID], project.ID)
	return nil
}

// GetByID returns a project by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Project, error) {
	if err := ctx.Err(); err != nil {
		return Project{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	project, ok := r.data[id]
	if !ok {
		return Project{}, ErrNotFound
	}
	return project, nil
}

// GetLatestByLead returns the most recently created project for a lead.
func (r *MemoryRepo) GetLatestByLead(ctx context.Context, leadID string) (Project, error) {
	if err := ctx.Err(); err != nil {
		return Project{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byLead[leadID]
	if len(ids) == 0 {
		return Project{}, ErrNotFound
	}
	return r.data[ids[len(ids)-1]], nil
}

// UpdateStatus changes the status of a project.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	project.Status = status
	project.UpdatedAt = time.Now().UTC()
	r.data[id] = project
	return nil
}

var _ ProjectsRepo = (*MemoryRepo)(nil)
