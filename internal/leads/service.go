package leads

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"kan-backend/internal/engine"
	"kan-backend/internal/llm"
	"kan-backend/internal/shared/metrics"
	"kan-backend/internal/shared/telemetry"
	"kan-backend/internal/shared/util"
)

const (
	cannedReplyWithAdvisor = "Gracias por tu mensaje. En breve te atendemos con un asesor."
	cannedReply            = "Gracias por tu mensaje. En breve te atendemos."

	aiReplyMaxTokens   = 180
	aiReplyTemperature = 0.2
)

// Service contains business logic for lead diagnosis and the client portal.
type Service struct {
	Repo     LeadsRepo
	Analyzer engine.Analyzer
	Client   llm.Client
}

// NewService constructs a Service. client may be nil when no LLM credential
// is configured; every flow then uses its deterministic fallback.
func NewService(repo LeadsRepo, analyzer engine.Analyzer, client llm.Client) *Service {
	return &Service{Repo: repo, Analyzer: analyzer, Client: client}
}

// Diagnose runs the full analysis for an intake and persists the lead. The
// returned string is the plain access code, shown to the prospect exactly
// once.
func (s *Service) Diagnose(ctx context.Context, in engine.BusinessIntake) (Lead, string, error) {
	metrics.IncDiagnosisStarted()
	started := metrics.NowMillis()
	output := s.Analyzer.Run(ctx, in)
	metrics.ObserveDiagnosisDurationMs(metrics.NowMillis() - started)
	metrics.IncDiagnosisCompleted()
	return s.save(ctx, in, output)
}

// QuickStart builds the fixed express intake for an offer, runs it through
// the same analysis flow and persists the lead. Express engagements ship on
// a shortened roadmap.
func (s *Service) QuickStart(ctx context.Context, offerKey, companyName, contactEmail, contactWhatsApp string) (Lead, string, ExpressOffer, error) {
	offer := ExpressOfferByKey(offerKey)
	in := quickIntake(offer, companyName, contactEmail, contactWhatsApp)

	metrics.IncDiagnosisStarted()
	started := metrics.NowMillis()
	output := s.Analyzer.Run(ctx, in)
	metrics.ObserveDiagnosisDurationMs(metrics.NowMillis() - started)
	metrics.IncDiagnosisCompleted()
	output.Roadmap = engine.BuildRoadmap(output.RecommendedModules, offer.ETALabel)
	output.Pricing.ImplementationETA = offer.ETALabel

	lead, code, err := s.save(ctx, in, output)
	if err != nil {
		return Lead{}, "", ExpressOffer{}, err
	}
	return lead, code, offer, nil
}

// Get returns a stored lead.
func (s *Service) Get(ctx context.Context, id string) (Lead, error) {
	if strings.TrimSpace(id) == "" {
		return Lead{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// PortalLogin verifies a folio + email + access code combination and returns
// the lead on success. The stored email, when present, must match
// case-insensitively.
func (s *Service) PortalLogin(ctx context.Context, leadID, email, accessCode string) (Lead, error) {
	lead, err := s.Repo.GetByID(ctx, strings.TrimSpace(leadID))
	if err != nil {
		return Lead{}, err
	}

	code := strings.TrimSpace(accessCode)
	if code == "" {
		return Lead{}, ErrCodeRequired
	}

	storedEmail := strings.ToLower(strings.TrimSpace(lead.Intake.ContactEmail))
	if storedEmail != "" && strings.ToLower(strings.TrimSpace(email)) != storedEmail {
		return Lead{}, ErrEmailMismatch
	}

	if lead.AccessCodeHash != util.HashAccessCode(code) {
		return Lead{}, ErrCodeMismatch
	}
	return lead, nil
}

// AIReply generates a short customer-facing reply. Any model failure
// degrades to a canned acknowledgment.
func (s *Service) AIReply(ctx context.Context, message string, businessContext map[string]string) string {
	if s.Client == nil {
		return cannedReplyWithAdvisor
	}

	out, err := s.Client.Generate(ctx, llm.GenerateInput{
		Prompt:          buildReplyPrompt(message, businessContext),
		MaxOutputTokens: aiReplyMaxTokens,
		Temperature:     aiReplyTemperature,
	})
	if err != nil {
		if llm.ReasonOf(err) == llm.ReasonMissingAPIKey {
			return cannedReplyWithAdvisor
		}
		metrics.IncAIFallback()
		telemetry.Error("leads.ai_reply.fallback", map[string]any{
			"reason": string(llm.ReasonOf(err)),
		})
		return cannedReply
	}

	reply := strings.TrimSpace(out.Text)
	if reply == "" {
		return cannedReply
	}
	return reply
}

func (s *Service) save(ctx context.Context, in engine.BusinessIntake, output engine.AnalysisOutput) (Lead, string, error) {
	code, err := util.GenerateAccessCode()
	if err != nil {
		return Lead{}, "", fmt.Errorf("access code: %w", err)
	}

	lead := Lead{
		ID:             uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		Intake:         in,
		AccessCodeHash: util.HashAccessCode(code),
		AccessCodeHint: util.AccessCodeHint(code),
		Diagnosis:      output,
	}

	if err := s.Repo.Create(ctx, lead); err != nil {
		return Lead{}, "", fmt.Errorf("store lead: %w", err)
	}

	telemetry.Info("leads.created", map[string]any{
		"lead_id":      lead.ID,
		"service_tier": output.Pricing.ServiceTier,
		"setup_fee":    output.Pricing.SetupFeeMXN,
	})
	return lead, code, nil
}

func buildReplyPrompt(message string, businessContext map[string]string) string {
	get := func(key string) string {
		if v := strings.TrimSpace(businessContext[key]); v != "" {
			return v
		}
		return "No especificado"
	}

	var b strings.Builder
	b.WriteString("Eres el asistente virtual de una empresa. Responde en espanol claro, breve y amable. ")
	b.WriteString("Si el usuario pide informacion, ofrece opciones y pide datos faltantes. ")
	b.WriteString("Si solicita cita, pide horario preferido, nombre y telefono.\n\n")
	fmt.Fprintf(&b, "Empresa: %s\n", get("company_name"))
	fmt.Fprintf(&b, "Rubro: %s\n", get("industry"))
	fmt.Fprintf(&b, "Actividad: %s\n", get("business_focus"))
	fmt.Fprintf(&b, "Objetivos: %s\n", get("goals"))
	fmt.Fprintf(&b, "Servicios/roles: %s\n\n", get("team_roles"))
	fmt.Fprintf(&b, "Mensaje del cliente: %s", message)
	return b.String()
}
