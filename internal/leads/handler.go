package leads

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kan-backend/internal/engine"
	"kan-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches lead routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/diagnose", h.diagnose)
	rg.POST("/quick-start", h.quickStart)
	rg.POST("/portal/login", h.portalLogin)
	rg.POST("/ai-reply", h.aiReply)
	rg.GET("/leads/:id", h.get)
}

func (h *Handler) diagnose(c *gin.Context) {
	var in engine.BusinessIntake
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if msg := validateIntake(in); msg != "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", msg, nil)
		return
	}

	lead, code, err := h.Svc.Diagnose(c.Request.Context(), in)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store diagnosis", nil)
		return
	}

	c.Set("leadId", lead.ID)
	respond.JSON(c, http.StatusCreated, gin.H{
		"lead_id":          lead.ID,
		"access_code":      code,
		"access_code_hint": lead.AccessCodeHint,
		"analysis":         lead.Diagnosis,
	})
}

type quickStartRequest struct {
	Offer           string `json:"offer"`
	CompanyName     string `json:"company_name"`
	ContactEmail    string `json:"contact_email"`
	ContactWhatsApp string `json:"contact_whatsapp"`
	ConsentContact  bool   `json:"consent_contact"`
}

func (h *Handler) quickStart(c *gin.Context) {
	var req quickStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if !req.ConsentContact {
		respond.Error(c, http.StatusBadRequest, "validation_error", "consent_contact is required", nil)
		return
	}
	if strings.TrimSpace(req.ContactEmail) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "contact_email is required", nil)
		return
	}

	lead, code, offer, err := h.Svc.QuickStart(c.Request.Context(), req.Offer, req.CompanyName, req.ContactEmail, req.ContactWhatsApp)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store quick-start lead", nil)
		return
	}

	c.Set("leadId", lead.ID)
	respond.JSON(c, http.StatusCreated, gin.H{
		"lead_id":          lead.ID,
		"access_code":      code,
		"access_code_hint": lead.AccessCodeHint,
		"offer":            offer,
		"analysis":         lead.Diagnosis,
	})
}

type portalLoginRequest struct {
	LeadID     string `json:"lead_id"`
	Email      string `json:"email"`
	AccessCode string `json:"access_code"`
}

func (h *Handler) portalLogin(c *gin.Context) {
	var req portalLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.LeadID) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "lead_id is required", nil)
		return
	}

	lead, err := h.Svc.PortalLogin(c.Request.Context(), req.LeadID, req.Email, req.AccessCode)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Folio no encontrado.", nil)
		case errors.Is(err, ErrCodeRequired):
			respond.Error(c, http.StatusBadRequest, "validation_error", "Ingresa tu codigo de acceso.", nil)
		case errors.Is(err, ErrEmailMismatch):
			respond.Error(c, http.StatusUnauthorized, "login_failed", "El correo no coincide con el registrado.", nil)
		case errors.Is(err, ErrCodeMismatch):
			respond.Error(c, http.StatusUnauthorized, "login_failed", "Codigo incorrecto.", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to verify login", nil)
		}
		return
	}

	c.Set("leadId", lead.ID)
	respond.JSON(c, http.StatusOK, gin.H{
		"lead_id":      lead.ID,
		"company_name": lead.Intake.CompanyName,
		"analysis":     lead.Diagnosis,
	})
}

type aiReplyRequest struct {
	Message string            `json:"message"`
	Channel string            `json:"channel,omitempty"`
	Sender  string            `json:"sender,omitempty"`
	Context map[string]string `json:"context,omitempty"`
}

func (h *Handler) aiReply(c *gin.Context) {
	var req aiReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "message is required", nil)
		return
	}

	reply := h.Svc.AIReply(c.Request.Context(), req.Message, req.Context)
	respond.JSON(c, http.StatusOK, gin.H{"reply": reply})
}

func (h *Handler) get(c *gin.Context) {
	lead, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "lead not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "lead id is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch lead", nil)
		}
		return
	}

	c.Set("leadId", lead.ID)
	respond.JSON(c, http.StatusOK, gin.H{
		"lead_id":          lead.ID,
		"created_at":       lead.CreatedAt,
		"company_name":     lead.Intake.CompanyName,
		"access_code_hint": lead.AccessCodeHint,
		"analysis":         lead.Diagnosis,
	})
}

func validateIntake(in engine.BusinessIntake) string {
	if strings.TrimSpace(in.Bottlenecks) == "" {
		return "bottlenecks is required"
	}
	if in.TeamSize < 0 {
		return "team_size must be non-negative"
	}
	if in.TeamSizeTarget < 0 {
		return "team_size_target must be non-negative"
	}
	if in.ManualHoursPerWeek < 0 {
		return "manual_hours_per_week must be non-negative"
	}
	return ""
}
