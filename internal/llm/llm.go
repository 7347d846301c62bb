// Package llm talks to the text-generation services that write memory cards.
package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/f3rmion/memcard/internal/prompt"
	"github.com/f3rmion/memcard/internal/vocab"
)

const defaultTimeout = 30 * time.Second

// Request describes the vocabulary entry a card is generated for.
type Request struct {
	Word           string `json:"word"`
	Meaning        string `json:"meaning"`
	SourceSentence string `json:"source_sentence,omitempty"`
	// Regenerate skips any cached card.
	Regenerate bool `json:"regenerate,omitempty"`
}

// RequestFor builds a request from a vocabulary entry.
func RequestFor(e *vocab.Entry) Request {
	return Request{Word: e.Word, Meaning: e.Meaning, SourceSentence: e.SourceSentence}
}

// Key identifies the card a request produces. Case and surrounding space
// in the word are ignored.
func (r Request) Key() string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(r.Word))))
	h.Write([]byte{0})
	h.Write([]byte(strings.TrimSpace(r.Meaning)))
	h.Write([]byte{0})
	h.Write([]byte(strings.TrimSpace(r.SourceSentence)))
	return hex.EncodeToString(h.Sum(nil))
}

func (r Request) prompt() string {
	return prompt.Build(r.Word, r.Meaning, r.SourceSentence)
}

// Generator produces a memory card for a vocabulary entry.
type Generator interface {
	Generate(ctx context.Context, req Request) (*vocab.MemoryCard, error)
	Name() string
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultTimeout
	}
	return context.WithTimeout(ctx, d)
}
