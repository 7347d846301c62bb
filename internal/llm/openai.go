package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/f3rmion/memcard/internal/prompt"
	"github.com/f3rmion/memcard/internal/vocab"
)

// OpenAI generates cards with the chat completions API.
type OpenAI struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAI creates an OpenAI generator. An empty baseURL means the public API.
func NewOpenAI(apiKey, model, baseURL string, timeout time.Duration) (*OpenAI, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrNoAPIKey)
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAI{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}, nil
}

func (g *OpenAI) Name() string { return "openai" }

// Generate asks the chat model for a JSON memory card.
func (g *OpenAI) Generate(ctx context.Context, r Request) (*vocab.MemoryCard, error) {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You write concise vocabulary memory cards as JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: r.prompt(),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.7,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			code := ""
			if s, ok := apiErr.Code.(string); ok {
				code = s
			}
			return nil, &ServiceError{Message: apiErr.Message, Code: code, Status: apiErr.HTTPStatusCode}
		}
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response: %w", ErrMalformedResponse)
	}

	card, err := prompt.ParseCard(resp.Choices[0].Message.Content, r.Word, r.Meaning)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return card, nil
}
