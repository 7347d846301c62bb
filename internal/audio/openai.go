package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAISource pronounces words with the OpenAI speech API.
type OpenAISource struct {
	client   *openai.Client
	model    string
	voice    string
	cacheDir string
}

// NewOpenAISource creates an OpenAI TTS source.
func NewOpenAISource(apiKey, baseURL, model, voice, cacheDir string) (*OpenAISource, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = "tts-1"
	}
	if voice == "" {
		voice = "alloy"
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAISource{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		voice:    voice,
		cacheDir: cacheDir,
	}, nil
}

func (s *OpenAISource) Name() string { return "openai" }

// Fetch returns a cached mp3 for word, calling the API on a miss.
func (s *OpenAISource) Fetch(ctx context.Context, word string) (string, error) {
	path := cachePath(s.cacheDir, ".mp3", "openai", s.model, s.voice, word)
	if cached(path) {
		return path, nil
	}

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.model),
		Input:          word,
		Voice:          openai.SpeechVoice(s.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          1.0,
	}

	response, err := s.client.CreateSpeech(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	err = writeAtomic(path, func(f *os.File) error {
		if _, err := io.Copy(f, response); err != nil {
			return fmt.Errorf("writing audio data: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return path, nil
}
