package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"kan-backend/internal/leads"
	"kan-backend/internal/provision"
	"kan-backend/internal/shared/telemetry"
)

// LeadSource resolves leads during onboarding.
type LeadSource interface {
	Get(ctx context.Context, id string) (leads.Lead, error)
}

// Service contains business logic for onboarding projects.
type Service struct {
	Repo        ProjectsRepo
	Leads       LeadSource
	Provisioner *provision.Client
}

// NewService constructs a Service. provisioner may be nil when no automation
// backend is configured.
func NewService(repo ProjectsRepo, leadSource LeadSource, provisioner *provision.Client) *Service {
	return &Service{Repo: repo, Leads: leadSource, Provisioner: provisioner}
}

// CreateInput is the onboarding submission for a lead.
type CreateInput struct {
	LeadID           string
	SelectedModules  []string
	ConsentContract  bool
	ConsentAccess    bool
	PaymentMethod    string
	WantsWhatsApp    bool
	WantsMessenger   bool
	MetaAccess       map[string]string
	Options          provision.Options
	Access           map[string]string
	DeliveryChannels []string
	BotPreferences   []string
	Notes            string
}

// Create records a project for a lead and, when both consents are present,
// provisions the requested channel workflows. Provisioning failures mark the
// project but never fail the call.
func (s *Service) Create(ctx context.Context, in CreateInput) (Project, provision.Outcome, error) {
	lead, err := s.Leads.Get(ctx, strings.TrimSpace(in.LeadID))
	if err != nil {
		if errors.Is(err, leads.ErrNotFound) || errors.Is(err, leads.ErrInvalidInput) {
			return Project{}, provision.Outcome{}, ErrNotFound
		}
		return Project{}, provision.Outcome{}, fmt.Errorf("fetch lead: %w", err)
	}

	selectedModules := in.SelectedModules
	if len(selectedModules) == 0 {
		if offer, ok := leads.ExpressOfferFor(lead.Intake); ok {
			selectedModules = offer.Modules
		} else {
			for _, m := range lead.Diagnosis.RecommendedModules {
				selectedModules = append(selectedModules, m.Name)
			}
		}
	}

	consent := in.ConsentContract && in.ConsentAccess
	status := StatusPendingConsent
	if consent {
		status = StatusQueued
	}

	now := time.Now().UTC()
	project := Project{
		ID:              uuid.NewString(),
		LeadID:          lead.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
		Status:          status,
		SelectedModules: selectedModules,
		Access:          buildAccessPayload(in),
		Notes:           strings.TrimSpace(in.Notes),
	}
	if err := s.Repo.Create(ctx, project); err != nil {
		return Project{}, provision.Outcome{}, fmt.Errorf("store project: %w", err)
	}

	var outcome provision.Outcome
	if consent && (in.WantsWhatsApp || in.WantsMessenger) && s.Provisioner != nil {
		outcome = s.Provisioner.Provision(ctx, provision.Request{
			ProjectID:      project.ID,
			Intake:         lead.Intake,
			MetaAccess:     in.MetaAccess,
			Options:        in.Options,
			WantsWhatsApp:  in.WantsWhatsApp,
			WantsMessenger: in.WantsMessenger,
		})
		if next := statusAfterProvisioning(outcome); next != "" {
			if err := s.Repo.UpdateStatus(ctx, project.ID, next); err != nil {
				telemetry.Error("projects.status_update_failed", map[string]any{
					"project_id": project.ID,
					"status":     next,
				})
			} else {
				project.Status = next
			}
		}
	}

	telemetry.Info("projects.created", map[string]any{
		"project_id": project.ID,
		"lead_id":    project.LeadID,
		"status":     project.Status,
		"modules":    len(project.SelectedModules),
	})
	return project, outcome, nil
}

// Latest returns the most recent project for a lead.
func (s *Service) Latest(ctx context.Context, leadID string) (Project, error) {
	if strings.TrimSpace(leadID) == "" {
		return Project{}, ErrInvalidInput
	}
	return s.Repo.GetLatestByLead(ctx, leadID)
}

// Get returns a project by ID.
func (s *Service) Get(ctx context.Context, id string) (Project, error) {
	if strings.TrimSpace(id) == "" {
		return Project{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// UpdateStatus changes the lifecycle status of a project.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	if !validStatus(status) {
		return ErrInvalidInput
	}
	return s.Repo.UpdateStatus(ctx, id, status)
}

func statusAfterProvisioning(outcome provision.Outcome) string {
	switch {
	case outcome.Status == provision.StatusMissingConfig:
		return ""
	case outcome.AllOK():
		return StatusProvisioned
	default:
		return StatusProvisionFailed
	}
}

func buildAccessPayload(in CreateInput) map[string]any {
	payload := map[string]any{
		"contract": map[string]any{
			"accepted":       in.ConsentContract,
			"payment_method": strings.TrimSpace(in.PaymentMethod),
		},
		"access_consent":    in.ConsentAccess,
		"delivery_channels": orEmptyList(in.DeliveryChannels),
		"bot_preferences":   orEmptyList(in.BotPreferences),
		"wants_whatsapp":    in.WantsWhatsApp,
		"wants_messenger":   in.WantsMessenger,
		"meta_access":       orEmptyStringMap(in.MetaAccess),
		"automation_options": map[string]any{
			"advanced_workflow":    in.Options.AdvancedWorkflow,
			"crm_webhook_url":      in.Options.CRMWebhookURL,
			"calendar_webhook_url": in.Options.CalendarWebhookURL,
			"crm_name":             in.Options.CRMName,
			"calendar_tool":        in.Options.CalendarTool,
		},
	}

	// Only known access items are kept; each is stored with its catalog label.
	for _, item := range accessItems {
		if value := strings.TrimSpace(in.Access[item.Key]); value != "" {
			payload[item.Key] = map[string]any{
				"label": item.Label,
				"value": value,
			}
		}
	}
	return payload
}

func orEmptyStringMap(values map[string]string) map[string]string {
	if values == nil {
		return map[string]string{}
	}
	return values
}
