package chat

import (
	"context"
	"errors"
	"net/http"

	"github.com/confinedspacecoach/coachbot/internal/domain"
	"github.com/gin-gonic/gin"
)

// Asker answers a chat question. Implemented by service.ChatService.
type Asker interface {
	Ask(ctx context.Context, req *domain.ChatRequest, meta domain.RequestMeta) (*domain.ChatResponse, *domain.LogRecord, error)
}

// Recorder dispatches a LogRecord to the logging sinks without
// blocking. Implemented by sink.Fanout.
type Recorder interface {
	Record(rec *domain.LogRecord)
}

// Handler handles the chat API
type Handler struct {
	asker    Asker
	recorder Recorder
}

// NewHandler creates a new chat handler
func NewHandler(asker Asker, recorder Recorder) *Handler {
	return &Handler{asker: asker, recorder: recorder}
}

// RegisterRoutes registers chat routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/chat", h.Chat)
}

// Chat answers a question. The response always carries a non-empty
// answer except for the missing-question client error; sink fan-out is
// kicked off only after the response has been written.
func (h *Handler) Chat(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'question' (string) in body"})
		return
	}

	meta := domain.RequestMeta{
		UserAgent: c.GetHeader("User-Agent"),
		Referrer:  c.GetHeader("Referer"),
	}

	resp, rec, err := h.asker.Ask(c.Request.Context(), &req, meta)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyQuestion) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'question' (string) in body"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating response"})
		return
	}

	c.JSON(http.StatusOK, resp)
	c.Writer.Flush()

	h.recorder.Record(rec)
}
