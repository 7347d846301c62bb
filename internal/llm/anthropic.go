package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/f3rmion/memcard/internal/prompt"
	"github.com/f3rmion/memcard/internal/vocab"
)

const (
	anthropicAPIURL       = "https://api.anthropic.com/v1/messages"
	anthropicDefaultModel = "claude-sonnet-4-20250514"
)

// Anthropic is a Messages API client.
type Anthropic struct {
	apiKey     string
	url        string
	httpClient *http.Client
	model      string
}

// message represents an Anthropic API message.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// request represents an Anthropic API request.
type request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

// response represents an Anthropic API response.
type response struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewAnthropic creates an Anthropic client. An empty baseURL means the
// public API.
func NewAnthropic(apiKey, model, baseURL string, timeout time.Duration) (*Anthropic, error) {
	// Trim any whitespace/newlines that might have snuck in
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic: %w", ErrNoAPIKey)
	}
	if model == "" {
		model = anthropicDefaultModel
	}
	url := anthropicAPIURL
	if baseURL != "" {
		url = strings.TrimRight(baseURL, "/") + "/v1/messages"
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Anthropic{
		apiKey: apiKey,
		url:    url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		model: model,
	}, nil
}

func (c *Anthropic) Name() string { return "anthropic" }

// Generate asks Claude for a memory card.
func (c *Anthropic) Generate(ctx context.Context, r Request) (*vocab.MemoryCard, error) {
	req := request{
		Model:     c.model,
		MaxTokens: 1024,
		Messages: []message{
			{Role: "user", Content: r.prompt()},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var apiResp response
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode >= 400 {
			return nil, &ServiceError{Message: strings.TrimSpace(string(respBody)), Status: resp.StatusCode}
		}
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if apiResp.Error != nil {
		return nil, &ServiceError{Message: apiResp.Error.Message, Code: apiResp.Error.Type, Status: resp.StatusCode}
	}

	if len(apiResp.Content) == 0 {
		return nil, fmt.Errorf("empty response from API: %w", ErrMalformedResponse)
	}

	card, err := prompt.ParseCard(apiResp.Content[0].Text, r.Word, r.Meaning)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return card, nil
}
