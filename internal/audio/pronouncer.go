package audio

import (
	"context"
	"strings"

	"github.com/f3rmion/memcard/internal/logger"
)

// Pronouncer fetches and plays a word. It never reports failure to the
// caller; problems are logged and playback is skipped.
type Pronouncer struct {
	source Source
	player Player
	log    *logger.Logger
}

// NewPronouncer combines a source and a player. A nil source disables audio.
func NewPronouncer(source Source, player Player, log *logger.Logger) *Pronouncer {
	return &Pronouncer{source: source, player: player, log: log.With("component", "audio")}
}

// Enabled reports whether a pronunciation source is configured.
func (p *Pronouncer) Enabled() bool {
	return p != nil && p.source != nil
}

// Pronounce plays word and blocks until playback ends.
func (p *Pronouncer) Pronounce(ctx context.Context, word string) {
	word = strings.TrimSpace(word)
	if !p.Enabled() || word == "" {
		return
	}

	path, err := p.source.Fetch(ctx, word)
	if err != nil {
		p.log.Warn("fetching pronunciation failed", "word", word, "source", p.source.Name(), "error", err)
		return
	}
	if err := p.player.Play(ctx, path); err != nil {
		p.log.Warn("playing pronunciation failed", "word", word, "path", path, "error", err)
		return
	}
	p.log.Debug("pronounced", "word", word)
}
