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

	"github.com/f3rmion/memcard/internal/vocab"
)

// MemoryCardPath is the memory-card route of a memcard server.
const MemoryCardPath = "/api/vocabulary/memory-card"

// Envelope is the response body of a memcard server.
type Envelope struct {
	Success bool          `json:"success"`
	Data    *EnvelopeData `json:"data,omitempty"`
	Error   string        `json:"error,omitempty"`
	Code    string        `json:"code,omitempty"`
}

// EnvelopeData is the payload of a successful memory-card response.
type EnvelopeData struct {
	Card *vocab.MemoryCard `json:"card"`
}

// Remote generates cards by calling another memcard server.
type Remote struct {
	url        string
	httpClient *http.Client
}

// NewRemote creates a client for the memcard server at baseURL.
func NewRemote(baseURL string, timeout time.Duration) (*Remote, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("remote: server URL not configured")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Remote{
		url:        baseURL + MemoryCardPath,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *Remote) Name() string { return "remote" }

// Generate posts the request and unwraps the server envelope.
func (c *Remote) Generate(ctx context.Context, r Request) (*vocab.MemoryCard, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		if resp.StatusCode >= 400 {
			return nil, &ServiceError{Message: http.StatusText(resp.StatusCode), Status: resp.StatusCode}
		}
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if !env.Success {
		return nil, &ServiceError{Message: env.Error, Code: env.Code, Status: resp.StatusCode}
	}
	if env.Data == nil || env.Data.Card == nil {
		return nil, fmt.Errorf("response has no card: %w", ErrMalformedResponse)
	}
	return env.Data.Card, nil
}
