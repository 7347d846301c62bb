package cmd

import (
	"context"
	"fmt"

	"github.com/f3rmion/memcard/internal/audio"
	"github.com/f3rmion/memcard/internal/config"
	"github.com/f3rmion/memcard/internal/llm"
	"github.com/f3rmion/memcard/internal/logger"
	"github.com/f3rmion/memcard/internal/store"
)

// newLogger builds the logger from config. toFile sends output to the log
// file instead of stderr.
func newLogger(cfg *config.Config, toFile bool) (*logger.Logger, error) {
	opts := logger.Options{Mode: cfg.Log.Mode, Level: cfg.Log.Level}
	if toFile {
		opts.File = cfg.Log.File
	}
	log, err := logger.NewWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return log, nil
}

// buildGenerator assembles provider, breaker and cache. The cleanup func
// closes the cache.
func buildGenerator(ctx context.Context, cfg *config.Config, log *logger.Logger) (llm.Generator, func(), error) {
	opts := llm.Options{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey(),
		Timeout:  cfg.Timeout,
	}
	if cfg.Provider == "remote" {
		opts.BaseURL = cfg.Remote.URL
	}

	provider, err := llm.New(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s generator: %w", cfg.Provider, err)
	}

	var gen llm.Generator = llm.NewBreaker(provider, llm.BreakerSettings{
		MaxFailures: cfg.Breaker.MaxFailures,
		OpenTimeout: cfg.Breaker.OpenTimeout,
	}, log)

	cache, err := store.OpenCache(ctx, store.Options{
		Backend:   cfg.Cache.Backend,
		Path:      cfg.Cache.Path,
		RedisAddr: cfg.Cache.RedisAddr,
		TTL:       cfg.Cache.TTL,
	})
	if err != nil {
		// Generation still works without a cache.
		log.Warn("card cache unavailable", "backend", cfg.Cache.Backend, "error", err)
		return gen, func() {}, nil
	}
	if cache == nil {
		return gen, func() {}, nil
	}

	log.Debug("card cache enabled", "backend", cfg.Cache.Backend)
	cleanup := func() {
		if err := cache.Close(); err != nil {
			log.Warn("closing card cache", "error", err)
		}
	}
	return store.NewCachedGenerator(gen, cache, log), cleanup, nil
}

// buildPronouncer returns a pronouncer for the configured audio source. A
// broken source disables audio rather than failing startup.
func buildPronouncer(cfg *config.Config, log *logger.Logger) *audio.Pronouncer {
	src, err := audio.NewSource(audio.Options{
		Source:      cfg.Audio.Source,
		CacheDir:    cfg.Audio.CacheDir,
		APIKey:      cfg.OpenAI.APIKey,
		Model:       cfg.Audio.Model,
		Voice:       cfg.Audio.Voice,
		URLTemplate: cfg.Audio.URLTemplate,
		Timeout:     cfg.Timeout,
	})
	if err != nil {
		log.Warn("pronunciation disabled", "source", cfg.Audio.Source, "error", err)
	}
	return audio.NewPronouncer(src, audio.NewExecPlayer(), log)
}
