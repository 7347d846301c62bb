// Package audio fetches and plays word pronunciations.
package audio

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Source produces a playable audio file for a word.
type Source interface {
	// Fetch returns the path of an audio file pronouncing word.
	Fetch(ctx context.Context, word string) (string, error)
	// Name returns the source name
	Name() string
}

// Options selects and configures a pronunciation source.
type Options struct {
	Source      string // openai, espeak, url, none
	CacheDir    string
	APIKey      string // OpenAI key
	BaseURL     string // OpenAI API base
	Model       string // OpenAI TTS model
	Voice       string // OpenAI voice or espeak-ng voice
	URLTemplate string
	Timeout     time.Duration
}

// NewSource creates the configured source. It returns nil for "none".
func NewSource(opts Options) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Source)) {
	case "", "none", "off":
		return nil, nil
	case "openai":
		src, err := NewOpenAISource(opts.APIKey, opts.BaseURL, opts.Model, opts.Voice, opts.CacheDir)
		if err != nil {
			return nil, err
		}
		return src, nil
	case "espeak":
		voice := opts.Voice
		// OpenAI voice names mean nothing to espeak-ng.
		if voice == "" || voice == "alloy" {
			voice = "en"
		}
		return NewESpeakSource(voice, opts.CacheDir), nil
	case "url":
		src, err := NewURLSource(opts.URLTemplate, opts.CacheDir, opts.Timeout)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("unknown audio source %q", opts.Source)
	}
}

// cachePath returns where audio for the given key parts is stored. The first
// two hex characters of the hash become a subdirectory.
func cachePath(dir, ext string, parts ...string) string {
	h := md5.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	hash := hex.EncodeToString(h.Sum(nil))
	return filepath.Join(dir, hash[:2], hash[2:]+ext)
}

func cached(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

// writeAtomic writes data next to path and renames it into place so a
// half-written file is never played.
func writeAtomic(path string, write func(f *os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating audio cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".part-*")
	if err != nil {
		return fmt.Errorf("creating audio file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing audio file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
