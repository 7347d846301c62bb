// Package store caches generated memory cards.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/f3rmion/memcard/internal/llm"
	"github.com/f3rmion/memcard/internal/logger"
	"github.com/f3rmion/memcard/internal/vocab"
)

// ErrCacheMiss is returned by Get when no fresh card is stored under a key.
var ErrCacheMiss = errors.New("card not cached")

// Cache stores cards by request key.
type Cache interface {
	Get(ctx context.Context, key string) (*vocab.MemoryCard, error)
	Put(ctx context.Context, key string, card *vocab.MemoryCard) error
	Close() error
}

// Options selects a cache backend.
type Options struct {
	Backend   string // none, sqlite, redis
	Path      string
	RedisAddr string
	TTL       time.Duration
}

// OpenCache opens the configured backend. It returns a nil Cache for "none".
func OpenCache(ctx context.Context, opts Options) (Cache, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", "none", "off":
		return nil, nil
	case "sqlite":
		c, err := OpenSQLite(opts.Path, opts.TTL)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "redis":
		c, err := NewRedisCache(ctx, opts.RedisAddr, opts.TTL)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// CachedGenerator serves cards from a cache and stores new ones. Failures
// are never cached, and a request with Regenerate set skips the lookup.
type CachedGenerator struct {
	next  llm.Generator
	cache Cache
	log   *logger.Logger
}

// NewCachedGenerator wraps next with cache.
func NewCachedGenerator(next llm.Generator, cache Cache, log *logger.Logger) *CachedGenerator {
	return &CachedGenerator{next: next, cache: cache, log: log.With("component", "card-cache")}
}

func (g *CachedGenerator) Name() string { return g.next.Name() }

// Generate returns the cached card for req or generates and stores one.
func (g *CachedGenerator) Generate(ctx context.Context, req llm.Request) (*vocab.MemoryCard, error) {
	key := req.Key()

	if !req.Regenerate {
		card, err := g.cache.Get(ctx, key)
		if err == nil {
			g.log.Debug("cache hit", "word", req.Word)
			return card, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			g.log.Warn("cache read failed", "word", req.Word, "error", err)
		}
	}

	card, err := g.next.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := g.cache.Put(ctx, key, card); err != nil {
		g.log.Warn("cache write failed", "word", req.Word, "error", err)
	}
	return card, nil
}
