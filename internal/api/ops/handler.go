package ops

import (
	"context"
	"net/http"
	"time"

	"github.com/confinedspacecoach/coachbot/internal/config"
	"github.com/confinedspacecoach/coachbot/internal/domain"
	"github.com/confinedspacecoach/coachbot/internal/sink"
	"github.com/gin-gonic/gin"
)

// Handler serves the operational endpoints: liveness, integration
// flags and the spreadsheet-sink smoke test. None of them require
// credentials and none of them ever reveal credential values.
type Handler struct {
	cfg       *config.Config
	sheetSink sink.Sink
}

// NewHandler creates a new ops handler.
func NewHandler(cfg *config.Config, sheetSink sink.Sink) *Handler {
	return &Handler{cfg: cfg, sheetSink: sheetSink}
}

// RegisterRoutes registers the operational routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/_env", h.Env)
	r.GET("/_logtest", h.LogTest)
}

// Health is the liveness check.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"hasKey": h.cfg.HasLLMKey(),
	})
}

// Env reports which optional integrations are configured. Booleans
// only; the values themselves stay server-side.
func (h *Handler) Env(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"has_openai_key":     h.cfg.HasLLMKey(),
		"model":              h.cfg.LLM.Model,
		"sheet_configured":   h.cfg.SheetEnabled(),
		"trello_configured":  h.cfg.TrelloEnabled(),
		"forward_configured": h.cfg.ForwardEnabled(),
		"forward_secret_set": h.cfg.Forward.Secret != "",
	})
}

// LogTest delivers a synthetic record to the spreadsheet sink
// synchronously and reports the outcome.
func (h *Handler) LogTest(c *gin.Context) {
	if !h.sheetSink.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"ok":    false,
			"error": "sheet webhook not configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.Sheet.Timeout)
	defer cancel()

	rec := &domain.LogRecord{
		Question:  "logtest question",
		Answer:    "logtest answer",
		Timestamp: time.Now().UTC(),
		SessionID: "logtest",
		UserAgent: c.GetHeader("User-Agent"),
	}

	if err := h.sheetSink.Deliver(ctx, rec); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
