package llm

import (
	"context"
	"fmt"

	"github.com/confinedspacecoach/coachbot/internal/config"
	"github.com/sashabaranov/go-openai"
)

// Completer produces a model answer for a single user question.
type Completer interface {
	Complete(ctx context.Context, question string) (string, error)
}

// OpenAIClient calls an OpenAI-compatible chat completion endpoint.
// One request per question: a fixed system prompt plus the question as
// the sole user turn. The call is never retried.
type OpenAIClient struct {
	client       *openai.Client
	model        string
	temperature  float32
	systemPrompt string
}

// NewOpenAIClient creates a completion client from config. An empty API
// key is an error; callers that tolerate a missing key should not
// construct a client at all.
func NewOpenAIClient(cfg config.LLMConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm api key not set")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client:       openai.NewClientWithConfig(clientCfg),
		model:        cfg.Model,
		temperature:  cfg.Temperature,
		systemPrompt: cfg.SystemPrompt,
	}, nil
}

// Complete sends the question and returns the first choice's text.
func (c *OpenAIClient) Complete(ctx context.Context, question string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
