package projects

import "context"

// ProjectsRepo persists onboarding projects.
type ProjectsRepo interface {
	Create(ctx context.Context, project Project) error
	GetByID(ctx context.Context, id string) (Project, error)
	GetLatestByLead(ctx context.Context, leadID string) (Project, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
