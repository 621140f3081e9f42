package leads

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements LeadsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new lead with its analysis snapshot.
func (r *PGRepo) Create(ctx context.Context, lead Lead) error {
	const query = `
INSERT INTO leads (
    id,
    created_at,
    company_name,
    industry,
    business_focus,
    region,
    team_size,
    team_size_target,
    team_focus_same,
    team_roles,
    employee_band,
    transaction_volume,
    tooling_level,
    manual_hours_per_week,
    selected_modules,
    processes,
    bottlenecks,
    systems,
    goals,
    budget_range,
    contact_email,
    contact_whatsapp,
    access_code_hash,
    access_code_hint,
    diagnosis
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`

	selectedModules, err := json.Marshal(orEmptyList(lead.Intake.SelectedModules))
	if err != nil {
		return fmt.Errorf("marshal selected modules: %w", err)
	}
	diagnosis, err := json.Marshal(lead.Diagnosis)
	if err != nil {
		return fmt.Errorf("marshal diagnosis: %w", err)
	}

	var teamFocusSame sql.NullBool
	if lead.Intake.TeamFocusSame != nil {
		teamFocusSame = sql.NullBool{Bool: *lead.Intake.TeamFocusSame, Valid: true}
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		lead.ID,
		lead.CreatedAt,
		lead.Intake.CompanyName,
		lead.Intake.Industry,
		lead.Intake.BusinessFocus,
		lead.Intake.Region,
		lead.Intake.TeamSize,
		lead.Intake.TeamSizeTarget,
		teamFocusSame,
		lead.Intake.TeamRoles,
		lead.Intake.EmployeeBand,
		lead.Intake.TransactionVolume,
		lead.Intake.ToolingLevel,
		lead.Intake.ManualHoursPerWeek,
		selectedModules,
		lead.Intake.Processes,
		lead.Intake.Bottlenecks,
		lead.Intake.Systems,
		lead.Intake.Goals,
		lead.Intake.BudgetRange,
		lead.Intake.ContactEmail,
		lead.Intake.ContactWhatsApp,
		lead.AccessCodeHash,
		lead.AccessCodeHint,
		diagnosis,
	)
	return err
}

// GetByID fetches a lead by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Lead, error) {
	const query = `
SELECT id, created_at, company_name, industry, business_focus, region,
       team_size, team_size_target, team_focus_same, team_roles,
       employee_band, transaction_volume, tooling_level, manual_hours_per_week,
       selected_modules, processes, bottlenecks, systems, goals, budget_range,
       contact_email, contact_whatsapp, access_code_hash, access_code_hint, diagnosis
FROM leads
WHERE id = $1
LIMIT 1`

	var lead Lead
	var teamFocusSame sql.NullBool
	var selectedModules []byte
	var diagnosis []byte
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&lead.ID,
		&lead.CreatedAt,
		&lead.Intake.CompanyName,
		&lead.Intake.Industry,
		&lead.Intake.BusinessFocus,
		&lead.Intake.Region,
		&lead.Intake.TeamSize,
		&lead.Intake.TeamSizeTarget,
		&teamFocusSame,
		&lead.Intake.TeamRoles,
		&lead.Intake.EmployeeBand,
		&lead.Intake.TransactionVolume,
		&lead.Intake.ToolingLevel,
		&lead.Intake.ManualHoursPerWeek,
		&selectedModules,
		&lead.Intake.Processes,
		&lead.Intake.Bottlenecks,
		&lead.Intake.Systems,
		&lead.Intake.Goals,
		&lead.Intake.BudgetRange,
		&lead.Intake.ContactEmail,
		&lead.Intake.ContactWhatsApp,
		&lead.AccessCodeHash,
		&lead.AccessCodeHint,
		&diagnosis,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, err
	}

	if teamFocusSame.Valid {
		lead.Intake.TeamFocusSame = &teamFocusSame.Bool
	}
	if len(selectedModules) > 0 {
		if err := json.Unmarshal(selectedModules, &lead.Intake.SelectedModules); err != nil {
			return Lead{}, fmt.Errorf("unmarshal selected modules: %w", err)
		}
	}
	if len(diagnosis) > 0 {
		if err := json.Unmarshal(diagnosis, &lead.Diagnosis); err != nil {
			return Lead{}, fmt.Errorf("unmarshal diagnosis: %w", err)
		}
	}
	return lead, nil
}

func orEmptyList(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

var _ LeadsRepo = (*PGRepo)(nil)
