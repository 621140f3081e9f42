package meta

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of TokenRepo used when no
// database is configured.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Token
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Token)}
}

// Save stores a token, replacing any previous one for the same lead and
// provider.
func (r *MemoryRepo) Save(ctx context.Context, token Token) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[token.LeadID+"|"+token.Provider] = token
	return nil
}

// Get returns the stored token for a lead and provider.
func (r *MemoryRepo) Get(ctx context.Context, leadID, provider string) (Token, error) {
	if err := ctx.Err(); err != nil {
		return Token{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	token, ok := r.data[leadID+"|"+provider]
	if !ok {
		return Token{}, ErrNotFound
	}
	return token, nil
}

var _ TokenRepo = (*MemoryRepo)(nil)
