package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Options selects and configures a provider.
type Options struct {
	Provider string // gemini, anthropic (or claude), openai, remote
	Model    string
	APIKey   string
	BaseURL  string // API base for hosted providers, server URL for remote
	Timeout  time.Duration
}

// New creates the generator named by opts.Provider. Gemini is the default.
func New(ctx context.Context, opts Options) (Generator, error) {
	var (
		g   Generator
		err error
	)
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", "gemini":
		g, err = NewGemini(ctx, opts.APIKey, opts.Model, opts.BaseURL, opts.Timeout)
	case "anthropic", "claude":
		g, err = NewAnthropic(opts.APIKey, opts.Model, opts.BaseURL, opts.Timeout)
	case "openai":
		g, err = NewOpenAI(opts.APIKey, opts.Model, opts.BaseURL, opts.Timeout)
	case "remote":
		g, err = NewRemote(opts.BaseURL, opts.Timeout)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownProvider, opts.Provider)
	}
	// A failed constructor returns a typed nil pointer.
	if err != nil {
		return nil, err
	}
	return g, nil
}
