package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/confinedspacecoach/coachbot/internal/config"
	"github.com/confinedspacecoach/coachbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func forwardConfig(url string) *config.Config {
	return &config.Config{
		Forward: config.ForwardConfig{
			WebhookURL: url,
			Secret:     "hunter2",
			Timeout:    5 * time.Second,
		},
	}
}

func TestValidShape(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
		want bool
	}{
		{"lead with email only", map[string]any{"email": "a@b.co"}, true},
		{"lead with notes", map[string]any{"notes": "call me"}, true},
		{"full qa", map[string]any{"question": "q", "answer": "a"}, true},
		{"qa missing answer", map[string]any{"question": "q"}, false},
		{"qa non-string answer", map[string]any{"question": "q", "answer": 7}, false},
		{"empty body", map[string]any{}, false},
		{"unrelated fields", map[string]any{"foo": "bar"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidShape(tt.body))
		})
	}
}

func TestForwardService_InjectsSecretAndKeepsFields(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Accepted"))
	}))
	defer server.Close()

	svc := NewForwardService(forwardConfig(server.URL), zap.NewNop())

	result, err := svc.Forward(context.Background(), map[string]any{
		"name":   "Jo Bloggs",
		"email":  "jo@example.com",
		"extra":  "kept as-is",
		"reason": "training enquiry",
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, http.StatusOK, result.MakeStatus)
	assert.Equal(t, "Accepted", result.MakeBody)

	assert.Equal(t, "hunter2", received["secret"], "shared secret must be injected")
	assert.Equal(t, "Jo Bloggs", received["name"])
	assert.Equal(t, "kept as-is", received["extra"], "unknown fields are forwarded untouched")
}

func TestForwardService_InvalidShape(t *testing.T) {
	svc := NewForwardService(forwardConfig("http://unused.invalid"), zap.NewNop())

	result, err := svc.Forward(context.Background(), map[string]any{"foo": "bar"})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
	assert.Nil(t, result)
}

func TestForwardService_NotConfigured(t *testing.T) {
	svc := NewForwardService(forwardConfig(""), zap.NewNop())

	_, err := svc.Forward(context.Background(), map[string]any{"question": "q", "answer": "a"})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestForwardService_ReportsWebhookStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("scenario rejected"))
	}))
	defer server.Close()

	svc := NewForwardService(forwardConfig(server.URL), zap.NewNop())

	result, err := svc.Forward(context.Background(), map[string]any{"question": "q", "answer": "a"})
	require.NoError(t, err, "the webhook's verdict is reported, not treated as a relay failure")
	assert.Equal(t, http.StatusBadRequest, result.MakeStatus)
	assert.Equal(t, "scenario rejected", result.MakeBody)
}
