package projects

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kan-backend/internal/provision"
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

// RegisterRoutes attaches project routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects", h.create)
	rg.GET("/projects/:id", h.get)
	rg.PATCH("/projects/:id/status", h.updateStatus)
	rg.GET("/leads/:id/project", h.latestForLead)
	rg.GET("/access-items", h.accessItems)
}

type createRequest struct {
	LeadID           string            `json:"lead_id"`
	SelectedModules  []string          `json:"selected_modules"`
	ConsentContract  bool              `json:"consent_contract"`
	ConsentAccess    bool              `json:"consent_access"`
	PaymentMethod    string            `json:"payment_method"`
	WantsWhatsApp    bool              `json:"wants_whatsapp"`
	WantsMessenger   bool              `json:"wants_messenger"`
	MetaAccess       map[string]string `json:"meta_access"`
	Options          provision.Options `json:"automation_options"`
	Access           map[string]string `json:"access"`
	DeliveryChannels []string          `json:"delivery_channels"`
	BotPreferences   []string          `json:"bot_preferences"`
	Notes            string            `json:"notes"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.LeadID) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "lead_id is required", nil)
		return
	}

	project, outcome, err := h.Svc.Create(c.Request.Context(), CreateInput{
		LeadID:           req.LeadID,
		SelectedModules:  req.SelectedModules,
		ConsentContract:  req.ConsentContract,
		ConsentAccess:    req.ConsentAccess,
		PaymentMethod:    req.PaymentMethod,
		WantsWhatsApp:    req.WantsWhatsApp,
		WantsMessenger:   req.WantsMessenger,
		MetaAccess:       req.MetaAccess,
		Options:          req.Options,
		Access:           req.Access,
		DeliveryChannels: req.DeliveryChannels,
		BotPreferences:   req.BotPreferences,
		Notes:            req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "lead not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create project", nil)
		}
		return
	}

	c.Set("leadId", project.LeadID)
	c.Set("projectId", project.ID)
	body := gin.H{"project": toResponse(project)}
	if outcome.Status != "" {
		body["provisioning"] = outcome
	}
	respond.JSON(c, http.StatusCreated, body)
}

func (h *Handler) get(c *gin.Context) {
	project, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondProjectError(c, err)
		return
	}
	c.Set("projectId", project.ID)
	respond.JSON(c, http.StatusOK, toResponse(project))
}

func (h *Handler) latestForLead(c *gin.Context) {
	project, err := h.Svc.Latest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondProjectError(c, err)
		return
	}
	c.Set("leadId", project.LeadID)
	c.Set("projectId", project.ID)
	respond.JSON(c, http.StatusOK, toResponse(project))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	if err := h.Svc.UpdateStatus(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.Status)); err != nil {
		respondProjectError(c, err)
		return
	}
	c.Set("projectId", c.Param("id"))
	respond.JSON(c, http.StatusOK, gin.H{"status": req.Status})
}

func (h *Handler) accessItems(c *gin.Context) {
	respond.JSON(c, http.StatusOK, AccessItems())
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "project not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "project operation failed", nil)
	}
}

func toResponse(project Project) gin.H {
	return gin.H{
		"project_id":       project.ID,
		"lead_id":          project.LeadID,
		"created_at":       project.CreatedAt,
		"updated_at":       project.UpdatedAt,
		"status":           project.Status,
		"selected_modules": project.SelectedModules,
		"access":           project.Access,
		"notes":            project.Notes,
	}
}
