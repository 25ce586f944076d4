package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/confinedspacecoach/coachbot/internal/config"
	"github.com/confinedspacecoach/coachbot/internal/domain"
	"go.uber.org/zap"
)

// webhookPayload is the LogRecord plus the shared secret the receiving
// automation uses to filter inbound payloads.
type webhookPayload struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id,omitempty"`
	PagePath  string    `json:"page_path,omitempty"`
	PageURL   string    `json:"page_url,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	Referrer  string    `json:"referrer,omitempty"`
	LatencyMs int64     `json:"latency_ms,omitempty"`
	Secret    string    `json:"secret,omitempty"`
}

// WebhookSink POSTs each LogRecord, plus the shared secret, to a
// generic automation webhook.
type WebhookSink struct {
	cfg    config.ForwardConfig
	client *http.Client
	logger *zap.Logger
}

// NewWebhookSink creates the automation-webhook sink.
func NewWebhookSink(cfg config.ForwardConfig, logger *zap.Logger) *WebhookSink {
	return &WebhookSink{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

func (s *WebhookSink) Name() string { return "webhook" }

// Enabled reports whether a webhook URL is configured.
func (s *WebhookSink) Enabled() bool { return s.cfg.WebhookURL != "" }

// Deliver POSTs the record with the secret injected.
func (s *WebhookSink) Deliver(ctx context.Context, rec *domain.LogRecord) error {
	body, err := json.Marshal(webhookPayload{
		Question:  rec.Question,
		Answer:    rec.Answer,
		Timestamp: rec.Timestamp,
		SessionID: rec.SessionID,
		PagePath:  rec.PagePath,
		PageURL:   rec.PageURL,
		UserAgent: rec.UserAgent,
		Referrer:  rec.Referrer,
		LatencyMs: rec.LatencyMs,
		Secret:    s.cfg.Secret,
	})
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError("webhook", resp.StatusCode, string(text))
	}
	return nil
}
