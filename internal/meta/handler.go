package meta

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kan-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the OAuth service and validator.
type Handler struct {
	Svc       *Service
	Validator *Validator
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, validator *Validator) *Handler {
	return &Handler{Svc: svc, Validator: validator}
}

// RegisterRoutes attaches Meta routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/meta/connect", h.connect)
	rg.GET("/meta/callback", h.callback)
	rg.POST("/meta/validate", h.validate)
	rg.GET("/meta/status/:id", h.status)
}

func (h *Handler) connect(c *gin.Context) {
	leadID := strings.TrimSpace(c.Query("lead_id"))
	if leadID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "lead_id is required", nil)
		return
	}

	authURL, err := h.Svc.ConnectURL(c.Request.Context(), leadID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotConfigured):
			respond.Error(c, http.StatusServiceUnavailable, "meta_not_configured", "Falta configurar META_APP_ID o META_REDIRECT_URI.", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Lead no encontrado.", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to build authorization URL", nil)
		}
		return
	}

	c.Set("leadId", leadID)
	c.Redirect(http.StatusFound, authURL)
}

func (h *Handler) callback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		message := c.Query("error_description")
		if message == "" {
			message = errParam
		}
		respond.Error(c, http.StatusBadGateway, "meta_denied", message, nil)
		return
	}

	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "No se recibio el codigo de autorizacion.", nil)
		return
	}

	leadID, err := h.Svc.HandleCallback(c.Request.Context(), code, c.Query("state"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotConfigured):
			respond.Error(c, http.StatusServiceUnavailable, "meta_not_configured", "Falta configurar META_APP_ID o META_APP_SECRET.", nil)
		case errors.Is(err, ErrInvalidState):
			respond.Error(c, http.StatusBadRequest, "invalid_state", "La sesion de conexion expiro, intenta de nuevo.", nil)
		default:
			respond.Error(c, http.StatusBadGateway, "meta_exchange_failed", "No se pudo obtener el token.", nil)
		}
		return
	}

	c.Set("leadId", leadID)
	respond.JSON(c, http.StatusOK, gin.H{
		"ok":      true,
		"lead_id": leadID,
		"message": "Cuenta Meta conectada. Ya podemos validar y solicitar permisos.",
	})
}

type validateRequest struct {
	WantsWhatsApp  bool              `json:"wants_whatsapp"`
	WantsMessenger bool              `json:"wants_messenger"`
	MetaAccess     map[string]string `json:"meta_access"`
}

func (h *Handler) validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if !req.WantsWhatsApp && !req.WantsMessenger {
		respond.Error(c, http.StatusBadRequest, "validation_error", "no channel selected", nil)
		return
	}

	body := gin.H{}
	if req.WantsWhatsApp {
		body["whatsapp"] = h.Validator.ValidateWhatsApp(
			c.Request.Context(),
			req.MetaAccess["whatsapp_phone_number_id"],
			req.MetaAccess["whatsapp_token"],
		)
	}
	if req.WantsMessenger {
		body["messenger"] = h.Validator.ValidateMessenger(
			c.Request.Context(),
			req.MetaAccess["facebook_page_id"],
			req.MetaAccess["messenger_page_token"],
		)
	}
	respond.JSON(c, http.StatusOK, body)
}

func (h *Handler) status(c *gin.Context) {
	leadID := c.Param("id")
	c.Set("leadId", leadID)
	respond.JSON(c, http.StatusOK, gin.H{
		"lead_id":   leadID,
		"connected": h.Svc.Connected(c.Request.Context(), leadID),
	})
}
