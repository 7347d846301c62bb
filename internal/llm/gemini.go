package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/f3rmion/memcard/internal/prompt"
	"github.com/f3rmion/memcard/internal/vocab"
)

const geminiDefaultModel = "gemini-2.0-flash"

// Gemini generates cards with the Gemini API.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGemini creates a Gemini generator. An empty baseURL means the public API.
func NewGemini(ctx context.Context, apiKey, model, baseURL string, timeout time.Duration) (*Gemini, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrNoAPIKey)
	}
	if model == "" {
		model = geminiDefaultModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{client: client, model: model, timeout: timeout}, nil
}

func (g *Gemini) Name() string { return "gemini" }

// Generate asks Gemini for a JSON memory card.
func (g *Gemini) Generate(ctx context.Context, r Request) (*vocab.MemoryCard, error) {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(r.prompt()), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, &ServiceError{Message: apiErr.Message, Code: apiErr.Status, Status: apiErr.Code}
		}
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty response from API: %w", ErrMalformedResponse)
	}

	card, err := prompt.ParseCard(text, r.Word, r.Meaning)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return card, nil
}
