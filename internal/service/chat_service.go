package service

import (
	"context"
	"strings"
	"time"

	"github.com/confinedspacecoach/coachbot/internal/config"
	"github.com/confinedspacecoach/coachbot/internal/domain"
	"github.com/confinedspacecoach/coachbot/internal/llm"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// FallbackEmptyAnswer replaces a blank completion.
	FallbackEmptyAnswer = "Sorry, I couldn't generate an answer. Please try rephrasing your question."
	// FallbackUpstream replaces the answer when the completion API
	// cannot be reached at all. The response is still HTTP 200; the
	// underlying failure is logged server-side only.
	FallbackUpstream = "I'm online but can't reach the AI service right now. Please try again in a moment."
)

// ChatService is the relay: it turns an inbound question into an answer
// via the provider override or a single completion call, and builds the
// LogRecord handed to the fan-out sinks.
type ChatService struct {
	cfg       *config.Config
	completer llm.Completer
	logger    *zap.Logger
}

// NewChatService creates a new chat service. completer may be nil when
// no API credential is configured; every non-override question then
// gets the upstream fallback answer.
func NewChatService(cfg *config.Config, completer llm.Completer, logger *zap.Logger) *ChatService {
	return &ChatService{
		cfg:       cfg,
		completer: completer,
		logger:    logger,
	}
}

// Ask answers a chat question. It returns domain.ErrEmptyQuestion when
// the question is blank after trimming; any other failure is absorbed
// into a fallback answer so the caller always has text to return.
// The returned LogRecord is ready for fan-out delivery.
func (s *ChatService) Ask(ctx context.Context, req *domain.ChatRequest, meta domain.RequestMeta) (*domain.ChatResponse, *domain.LogRecord, error) {
	started := time.Now()

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, nil, domain.ErrEmptyQuestion
	}

	answer := s.answer(ctx, question)

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	rec := &domain.LogRecord{
		Question:  question,
		Answer:    answer,
		Timestamp: time.Now().UTC(),
		SessionID: sessionID,
		PagePath:  req.PagePath,
		PageURL:   req.PageURL,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
		LatencyMs: time.Since(started).Milliseconds(),
	}

	return &domain.ChatResponse{Answer: answer}, rec, nil
}

// answer resolves the text for a non-empty question: override first,
// then one completion attempt, then fallbacks.
func (s *ChatService) answer(ctx context.Context, question string) string {
	if MatchesOverride(question, s.cfg.Override.Triggers) {
		s.logger.Info("provider override matched", zap.String("question", question))
		return s.cfg.Override.Answer
	}

	if s.completer == nil {
		s.logger.Warn("completion client not configured, returning fallback")
		return FallbackUpstream
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.LLM.Timeout)
	defer cancel()

	text, err := s.completer.Complete(ctx, question)
	if err != nil {
		s.logger.Error("completion failed", zap.Error(err))
		return FallbackUpstream
	}

	text = strings.TrimSpace(text)
	if text == "" {
		s.logger.Warn("completion returned empty answer")
		return FallbackEmptyAnswer
	}

	return text
}
