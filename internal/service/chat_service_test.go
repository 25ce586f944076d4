package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/confinedspacecoach/coachbot/internal/config"
	"github.com/confinedspacecoach/coachbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const brandedAnswer = "For accredited training contact Confined Space Coach."

// mockCompleter implements llm.Completer and records every call.
type mockCompleter struct {
	answer       string
	err          error
	calls        int
	lastQuestion string
}

func (m *mockCompleter) Complete(ctx context.Context, question string) (string, error) {
	m.calls++
	m.lastQuestion = question
	return m.answer, m.err
}

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.4,
			Timeout:     5 * time.Second,
		},
		Override: config.OverrideConfig{
			Answer:   brandedAnswer,
			Triggers: testTriggers,
		},
	}
}

func TestChatService_EmptyQuestion(t *testing.T) {
	completer := &mockCompleter{answer: "should not be called"}
	svc := NewChatService(testConfig(), completer, zap.NewNop())

	for _, q := range []string{"", "   ", "\n\t "} {
		resp, rec, err := svc.Ask(context.Background(), &domain.ChatRequest{Question: q}, domain.RequestMeta{})
		assert.ErrorIs(t, err, domain.ErrEmptyQuestion)
		assert.Nil(t, resp)
		assert.Nil(t, rec)
	}
	assert.Equal(t, 0, completer.calls, "empty questions must not reach the completion API")
}

func TestChatService_ProviderOverride(t *testing.T) {
	completer := &mockCompleter{answer: "model answer"}
	svc := NewChatService(testConfig(), completer, zap.NewNop())

	resp, rec, err := svc.Ask(context.Background(), &domain.ChatRequest{
		Question: "who offers confined space training",
	}, domain.RequestMeta{})

	require.NoError(t, err)
	assert.Equal(t, brandedAnswer, resp.Answer)
	assert.Equal(t, 0, completer.calls, "override must bypass the completion API")
	assert.Equal(t, brandedAnswer, rec.Answer)
}

func TestChatService_CompletionSuccess(t *testing.T) {
	completer := &mockCompleter{answer: "  Use X, Y, Z.  "}
	svc := NewChatService(testConfig(), completer, zap.NewNop())

	resp, rec, err := svc.Ask(context.Background(), &domain.ChatRequest{
		Question: "  what PPE do I need for low-risk entry?  ",
	}, domain.RequestMeta{UserAgent: "test-agent", Referrer: "https://example.com/page"})

	require.NoError(t, err)
	assert.Equal(t, "Use X, Y, Z.", resp.Answer)
	assert.Equal(t, 1, completer.calls)
	assert.Equal(t, "what PPE do I need for low-risk entry?", completer.lastQuestion,
		"question must be trimmed before the completion call")

	require.NotNil(t, rec)
	assert.Equal(t, "what PPE do I need for low-risk entry?", rec.Question)
	assert.Equal(t, "Use X, Y, Z.", rec.Answer)
	assert.Equal(t, "test-agent", rec.UserAgent)
	assert.Equal(t, "https://example.com/page", rec.Referrer)
	assert.False(t, rec.Timestamp.IsZero())
	assert.NotEmpty(t, rec.SessionID, "a session id is generated when the client sends none")
	assert.GreaterOrEqual(t, rec.LatencyMs, int64(0))
}

func TestChatService_KeepsClientSessionID(t *testing.T) {
	completer := &mockCompleter{answer: "ok"}
	svc := NewChatService(testConfig(), completer, zap.NewNop())

	_, rec, err := svc.Ask(context.Background(), &domain.ChatRequest{
		Question:  "is a permit always needed?",
		SessionID: "session-123",
	}, domain.RequestMeta{})

	require.NoError(t, err)
	assert.Equal(t, "session-123", rec.SessionID)
}

func TestChatService_UpstreamFailure(t *testing.T) {
	completer := &mockCompleter{err: errors.New("connection refused")}
	svc := NewChatService(testConfig(), completer, zap.NewNop())

	resp, rec, err := svc.Ask(context.Background(), &domain.ChatRequest{
		Question: "what is a top man?",
	}, domain.RequestMeta{})

	require.NoError(t, err, "upstream failures must not surface to the caller")
	assert.Equal(t, FallbackUpstream, resp.Answer)
	assert.Equal(t, FallbackUpstream, rec.Answer)
	assert.Equal(t, 1, completer.calls, "the completion call is not retried")
}

func TestChatService_EmptyCompletion(t *testing.T) {
	completer := &mockCompleter{answer: "   \n  "}
	svc := NewChatService(testConfig(), completer, zap.NewNop())

	resp, _, err := svc.Ask(context.Background(), &domain.ChatRequest{
		Question: "what is the LEL of methane?",
	}, domain.RequestMeta{})

	require.NoError(t, err)
	assert.Equal(t, FallbackEmptyAnswer, resp.Answer)
}

func TestChatService_NoCompleter(t *testing.T) {
	svc := NewChatService(testConfig(), nil, zap.NewNop())

	resp, _, err := svc.Ask(context.Background(), &domain.ChatRequest{
		Question: "do I need a rescue plan?",
	}, domain.RequestMeta{})

	require.NoError(t, err)
	assert.Equal(t, FallbackUpstream, resp.Answer)
}
