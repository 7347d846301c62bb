package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// URLSource downloads pronunciations from a dictionary service whose URL
// template contains one %s for the query-escaped word.
type URLSource struct {
	template   string
	cacheDir   string
	httpClient *http.Client
}

// NewURLSource creates a URL template source.
func NewURLSource(template, cacheDir string, timeout time.Duration) (*URLSource, error) {
	if strings.Count(template, "%s") != 1 {
		return nil, fmt.Errorf("audio URL template must contain exactly one %%s: %q", template)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &URLSource{
		template:   template,
		cacheDir:   cacheDir,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (s *URLSource) Name() string { return "url" }

// Fetch downloads the audio for word unless it is already cached.
func (s *URLSource) Fetch(ctx context.Context, word string) (string, error) {
	path := cachePath(s.cacheDir, ".mp3", "url", s.template, word)
	if cached(path) {
		return path, nil
	}

	u := fmt.Sprintf(s.template, url.QueryEscape(word))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading audio: unexpected status %s", resp.Status)
	}

	err = writeAtomic(path, func(f *os.File) error {
		n, err := io.Copy(f, resp.Body)
		if err != nil {
			return fmt.Errorf("writing audio data: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("empty audio response")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return path, nil
}
