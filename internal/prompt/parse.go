package prompt

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/f3rmion/memcard/internal/vocab"
)

// ErrNoCard is returned when a reply contains no usable JSON object.
var ErrNoCard = errors.New("no memory card in response")

var objectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ParseCard extracts a memory card from a model reply. It accepts bare JSON,
// JSON inside a markdown fence, or JSON surrounded by prose. Word and meaning
// fall back to the values from the request when the reply leaves them out.
func ParseCard(text, word, meaning string) (*vocab.MemoryCard, error) {
	card, ok := decodeCard(text)
	if !ok {
		card, ok = decodeCard(stripFence(text))
	}
	if !ok {
		if m := objectPattern.FindString(text); m != "" {
			card, ok = decodeCard(m)
		}
	}
	if !ok {
		return nil, ErrNoCard
	}

	card.Word = strings.TrimSpace(card.Word)
	card.Meaning = strings.TrimSpace(card.Meaning)
	if card.Word == "" {
		card.Word = word
	}
	if card.Meaning == "" {
		card.Meaning = meaning
	}
	return card, nil
}

func decodeCard(s string) (*vocab.MemoryCard, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return nil, false
	}
	var card vocab.MemoryCard
	if err := json.Unmarshal([]byte(s), &card); err != nil {
		return nil, false
	}
	return &card, true
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
