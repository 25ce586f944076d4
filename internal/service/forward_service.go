package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/confinedspacecoach/coachbot/internal/config"
	"github.com/confinedspacecoach/coachbot/internal/domain"
	"go.uber.org/zap"
)

// A lead payload carries at least one of these fields; the alternative
// Q&A shape carries both question and answer as non-empty strings.
var leadFields = []string{"name", "email", "company", "reason", "notes"}

// ForwardService relays inbound lead or Q&A payloads to the automation
// webhook, injecting the shared secret so the receiving scenario can
// filter out payloads that did not come from us.
type ForwardService struct {
	cfg    *config.Config
	client *http.Client
	logger *zap.Logger
}

// NewForwardService creates a new forward service.
func NewForwardService(cfg *config.Config, logger *zap.Logger) *ForwardService {
	return &ForwardService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Forward.Timeout},
		logger: logger,
	}
}

// ValidShape reports whether the body matches one of the two accepted
// payload shapes. Unknown extra fields are allowed and forwarded as-is.
func ValidShape(body map[string]any) bool {
	for _, f := range leadFields {
		if s, ok := body[f].(string); ok && s != "" {
			return true
		}
	}
	q, qok := body["question"].(string)
	a, aok := body["answer"].(string)
	return qok && aok && q != "" && a != ""
}

// Forward validates the payload shape and relays it, with the shared
// secret injected, to the automation webhook. The webhook's status and
// body are reported back verbatim so callers can debug their scenario.
func (s *ForwardService) Forward(ctx context.Context, body map[string]any) (*domain.ForwardResult, error) {
	if !ValidShape(body) {
		return nil, domain.ErrInvalidPayload
	}
	if !s.cfg.ForwardEnabled() {
		return nil, domain.ErrNotConfigured
	}

	payload := make(map[string]any, len(body)+1)
	for k, v := range body {
		payload[k] = v
	}
	payload["secret"] = s.cfg.Forward.Secret

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Forward.WebhookURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("automation webhook unreachable", zap.Error(err))
		return nil, fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	return &domain.ForwardResult{
		Status:     "ok",
		MakeStatus: resp.StatusCode,
		MakeBody:   string(respBody),
	}, nil
}
