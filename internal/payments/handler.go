package payments

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kan-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the payments service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches payment routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/mercadopago/preference", h.createPreference)
}

type preferenceRequest struct {
	LeadID        string `json:"lead_id"`
	ProjectID     string `json:"project_id"`
	PayerEmail    string `json:"payer_email"`
	PaymentMethod string `json:"payment_method"`
}

func (h *Handler) createPreference(c *gin.Context) {
	var req preferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.LeadID) == "" || strings.TrimSpace(req.ProjectID) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "lead_id and project_id are required", nil)
		return
	}
	c.Set("leadId", req.LeadID)

	checkout, err := h.Svc.CreateCheckout(c.Request.Context(), CheckoutInput{
		LeadID:        req.LeadID,
		ProjectID:     req.ProjectID,
		PayerEmail:    req.PayerEmail,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotConfigured):
			respond.Error(c, http.StatusServiceUnavailable, "mercadopago_not_configured", "El cobro con tarjeta no esta disponible.", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Lead o proyecto no encontrado.", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "invalid_payment_method", "Metodo de pago no soportado.", nil)
		case errors.Is(err, ErrUnreachable):
			respond.Error(c, http.StatusBadGateway, "mercadopago_unreachable", "No se pudo contactar a Mercado Pago.", nil)
		case errors.Is(err, ErrInvalidPreference):
			respond.Error(c, http.StatusBadGateway, "mercadopago_invalid_preference", "Mercado Pago devolvio una preferencia invalida.", nil)
		case errors.Is(err, ErrPreferenceFailed):
			respond.Error(c, http.StatusBadGateway, "mercadopago_preference_failed", "Mercado Pago rechazo la preferencia.", gin.H{"detail": err.Error()})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create checkout", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"ok":            true,
		"preference_id": checkout.PreferenceID,
		"public_key":    checkout.PublicKey,
		"init_point":    checkout.InitPoint,
		"amount_mxn":    checkout.AmountMXN,
	})
}
