package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ESpeakSource pronounces words with a local espeak-ng.
type ESpeakSource struct {
	voice    string
	cacheDir string
	command  string
}

// NewESpeakSource creates an espeak-ng source using voice (e.g. "en-us").
func NewESpeakSource(voice, cacheDir string) *ESpeakSource {
	return &ESpeakSource{voice: voice, cacheDir: cacheDir, command: "espeak-ng"}
}

func (s *ESpeakSource) Name() string { return "espeak" }

// Fetch renders word to a wav file.
func (s *ESpeakSource) Fetch(ctx context.Context, word string) (string, error) {
	path := cachePath(s.cacheDir, ".wav", "espeak", s.voice, word)
	if cached(path) {
		return path, nil
	}
	if _, err := exec.LookPath(s.command); err != nil {
		return "", fmt.Errorf("%s not found: %w", s.command, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating audio cache directory: %w", err)
	}

	args := []string{
		"-v", s.voice,
		"-s", "140", // words per minute, slower than default for learners
		"-w", path,
		word,
	}
	output, err := exec.CommandContext(ctx, s.command, args...).CombinedOutput()
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}
	return path, nil
}
