package payments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"kan-backend/internal/leads"
	"kan-backend/internal/projects"
	"kan-backend/internal/shared/telemetry"
)

// LeadSource resolves leads for checkout pricing.
type LeadSource interface {
	Get(ctx context.Context, id string) (leads.Lead, error)
}

// ProjectSource resolves the latest project per lead.
type ProjectSource interface {
	Latest(ctx context.Context, leadID string) (projects.Project, error)
}

// Service creates hosted checkouts for onboarded projects.
type Service struct {
	Leads    LeadSource
	Projects ProjectSource
	MP       *Client
}

// NewService constructs a Service. mp may be nil when checkout is disabled.
func NewService(leadSource LeadSource, projectSource ProjectSource, mp *Client) *Service {
	return &Service{Leads: leadSource, Projects: projectSource, MP: mp}
}

// CheckoutInput identifies the lead and project paying a setup fee.
type CheckoutInput struct {
	LeadID        string
	ProjectID     string
	PayerEmail    string
	PaymentMethod string
}

// Checkout is the created preference plus the public key the card widget
// needs.
type Checkout struct {
	PreferenceID string  `json:"preference_id"`
	InitPoint    string  `json:"init_point"`
	PublicKey    string  `json:"public_key"`
	AmountMXN    float64 `json:"amount_mxn"`
}

// CreateCheckout prices and creates a Mercado Pago preference. The amount is
// always derived server-side: express offers charge their fixed price, every
// other lead pays the quoted setup fee.
func (s *Service) CreateCheckout(ctx context.Context, in CheckoutInput) (Checkout, error) {
	if s.MP == nil || !s.MP.Configured() {
		return Checkout{}, ErrNotConfigured
	}
	if method := strings.ToLower(strings.TrimSpace(in.PaymentMethod)); method != "" && method != "tarjeta" {
		return Checkout{}, ErrInvalidInput
	}

	lead, err := s.Leads.Get(ctx, strings.TrimSpace(in.LeadID))
	if err != nil {
		if errors.Is(err, leads.ErrNotFound) || errors.Is(err, leads.ErrInvalidInput) {
			return Checkout{}, ErrNotFound
		}
		return Checkout{}, fmt.Errorf("fetch lead: %w", err)
	}

	project, err := s.Projects.Latest(ctx, lead.ID)
	if err != nil || project.ID != strings.TrimSpace(in.ProjectID) {
		if err == nil || errors.Is(err, projects.ErrNotFound) || errors.Is(err, projects.ErrInvalidInput) {
			return Checkout{}, ErrNotFound
		}
		return Checkout{}, fmt.Errorf("fetch project: %w", err)
	}

	amount := float64(lead.Diagnosis.Pricing.SetupFeeMXN)
	if offer, ok := leads.ExpressOfferFor(lead.Intake); ok && offer.PriceMXN > 0 {
		amount = float64(offer.PriceMXN)
	}
	amount = math.Round(math.Max(1.0, amount)*100) / 100

	payerEmail := strings.TrimSpace(in.PayerEmail)
	if payerEmail == "" {
		payerEmail = strings.TrimSpace(lead.Intake.ContactEmail)
	}

	created, err := s.MP.CreatePreference(ctx, Preference{
		AmountMXN:         amount,
		ExternalReference: fmt.Sprintf("lead-%s-project-%s", lead.ID, project.ID),
		PayerEmail:        payerEmail,
		Metadata: map[string]any{
			"lead_id":        lead.ID,
			"project_id":     project.ID,
			"company_name":   lead.Intake.CompanyName,
			"payment_method": "tarjeta",
		},
	})
	if err != nil {
		return Checkout{}, err
	}

	telemetry.Info("payments.preference_created", map[string]any{
		"lead_id":    lead.ID,
		"project_id": project.ID,
		"amount_mxn": amount,
	})
	return Checkout{
		PreferenceID: created.ID,
		InitPoint:    created.InitPoint,
		PublicKey:    s.MP.Config.PublicKey,
		AmountMXN:    amount,
	}, nil
}
