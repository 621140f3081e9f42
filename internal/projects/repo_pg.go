package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PGRepo implements ProjectsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new project.
func (r *PGRepo) Create(ctx context.Context, project Project) error {
	const query = `
INSERT INTO projects (
    id,
    lead_id,
    created_at,
    updated_at,
    status,
    selected_modules,
    access,
    notes
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	selectedModules, err := json.Marshal(orEmptyList(project.SelectedModules))
	if err != nil {
		return fmt.Errorf("marshal selected modules: %w", err)
	}
	access, err := json.Marshal(orEmptyMap(project.Access))
	if err != nil {
		return fmt.Errorf("marshal access payload: %w", err)
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		project.ID,
		project.LeadID,
		project.CreatedAt,
		project.UpdatedAt,
		project.Status,
		selectedModules,
		access,
		project.Notes,
	)
	return err
}

// GetByID fetches a project by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Project, error) {
	const query = `
SELECT id, lead_id, created_at, updated_at, status, selected_modules, access, notes
FROM projects
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

// GetLatestByLead returns the most recently created project for a lead.
func (r *PGRepo) GetLatestByLead(ctx context.Context, leadID string) (Project, error) {
	const query = `
SELECT id, lead_id, created_at, updated_at, status, selected_modules, access, notes
FROM projects
WHERE lead_id = $1
ORDER BY created_at DESC
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, leadID))
}

// UpdateStatus changes the status of a project.
func (r *PGRepo) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `
UPDATE projects
SET status = $1, updated_at = $2
WHERE id = $3`
	res, err := r.DB.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) scanOne(row *sql.Row) (Project, error) {
	var project Project
	var selectedModules []byte
	var access []byte
	err := row.Scan(
		&project.ID,
		&project.LeadID,
		&project.CreatedAt,
		&project.UpdatedAt,
		&project.Status,
		&selectedModules,
		&access,
		&project.Notes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}
	if len(selectedModules) > 0 {
		if err := json.Unmarshal(selectedModules, &project.SelectedModules); err != nil {
			return Project{}, fmt.Errorf("unmarshal selected modules: %w", err)
		}
	}
	if len(access) > 0 {
		if err := json.Unmarshal(access, &project.Access); err != nil {
			return Project{}, fmt.Errorf("unmarshal access payload: %w", err)
		}
	}
	return project, nil
}

func orEmptyList(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func orEmptyMap(values map[string]any) map[string]any {
	if values == nil {
		return map[string]any{}
	}
	return values
}

var _ ProjectsRepo = (*PGRepo)(nil)
