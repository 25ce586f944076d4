package forward

import (
	"context"
	"errors"
	"net/http"

	"github.com/confinedspacecoach/coachbot/internal/domain"
	"github.com/gin-gonic/gin"
)

// Forwarder relays a validated payload to the automation webhook.
// Implemented by service.ForwardService.
type Forwarder interface {
	Forward(ctx context.Context, body map[string]any) (*domain.ForwardResult, error)
}

// Handler handles the inbound lead/Q&A relay
type Handler struct {
	forwarder Forwarder
	secret    string
}

// NewHandler creates a new forward handler. secret, when non-empty,
// locks the endpoint behind an X-Secret header check.
func NewHandler(forwarder Forwarder, secret string) *Handler {
	return &Handler{forwarder: forwarder, secret: secret}
}

// RegisterRoutes registers the relay route. The OPTIONS preflight is
// answered by the CORS middleware before routing, so no OPTIONS route
// is registered here.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/coach/qa", h.Forward)
}

// Forward validates and relays an inbound lead or Q&A payload.
func (h *Handler) Forward(c *gin.Context) {
	if h.secret != "" && c.GetHeader("X-Secret") != h.secret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload. Send lead fields or Q&A fields (question/answer)."})
		return
	}

	result, err := h.forwarder.Forward(c.Request.Context(), body)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPayload):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload. Send lead fields or Q&A fields (question/answer)."})
		case errors.Is(err, domain.ErrNotConfigured):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Forwarding not configured"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Forward failed"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
