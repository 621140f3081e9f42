package leads

import "context"

// LeadsRepo persists diagnosed leads.
type LeadsRepo interface {
	Create(ctx context.Context, lead Lead) error
	GetByID(ctx context.Context, id string) (Lead, error)
}
