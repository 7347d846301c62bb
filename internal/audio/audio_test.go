package audio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/f3rmion/memcard/internal/logger"
)

func TestURLSourceDownloadsOnceAndCaches(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if got := r.URL.Query().Get("audio"); got != "ice cream" {
			t.Errorf("unexpected word %q", got)
		}
		w.Write([]byte("ID3fake-mp3"))
	}))
	defer srv.Close()

	src, err := NewURLSource(srv.URL+"/voice?audio=%s", t.TempDir(), time.Second)
	if err != nil {
		t.Fatalf("NewURLSource: %v", err)
	}

	first, err := src.Fetch(context.Background(), "ice cream")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	second, err := src.Fetch(context.Background(), "ice cream")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if first != second {
		t.Errorf("cache path changed: %s vs %s", first, second)
	}
	if hits != 1 {
		t.Errorf("expected one download, got %d", hits)
	}
	data, _ := os.ReadFile(first)
	if string(data) != "ID3fake-mp3" {
		t.Errorf("unexpected file contents %q", data)
	}
}

func TestURLSourceRejectsBadStatusAndTemplate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := NewURLSource("https://example.com/no-placeholder", t.TempDir(), 0); err == nil {
		t.Error("expected template error")
	}

	src, _ := NewURLSource(srv.URL+"/%s", t.TempDir(), time.Second)
	if _, err := src.Fetch(context.Background(), "word"); err == nil {
		t.Error("expected error for 404")
	}
}

func TestOpenAISourceWritesSpeech(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio/speech") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("speech-bytes"))
	}))
	defer srv.Close()

	src, err := NewOpenAISource("sk-test", srv.URL+"/v1", "", "", t.TempDir())
	if err != nil {
		t.Fatalf("NewOpenAISource: %v", err)
	}
	path, err := src.Fetch(context.Background(), "harness")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.HasSuffix(path, ".mp3") {
		t.Errorf("expected mp3 path, got %s", path)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "speech-bytes" {
		t.Errorf("unexpected file contents %q", data)
	}
}

func TestExecPlayerWithoutPlayers(t *testing.T) {
	for _, goos := range []string{"linux", "darwin", "windows"} {
		p := &ExecPlayer{goos: goos, lookPath: func(string) (string, error) {
			return "", errors.New("not found")
		}}
		if err := p.Play(context.Background(), "x.mp3"); !errors.Is(err, ErrNoPlayer) {
			t.Errorf("%s: expected ErrNoPlayer, got %v", goos, err)
		}
	}
}

type fakeSource struct {
	err   error
	words []string
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Fetch(ctx context.Context, word string) (string, error) {
	f.words = append(f.words, word)
	if f.err != nil {
		return "", f.err
	}
	return "/tmp/" + word + ".mp3", nil
}

type fakePlayer struct {
	err    error
	played []string
}

func (f *fakePlayer) Play(ctx context.Context, path string) error {
	f.played = append(f.played, path)
	return f.err
}

func TestPronouncerPlaysFetchedFile(t *testing.T) {
	src := &fakeSource{}
	player := &fakePlayer{}
	p := NewPronouncer(src, player, logger.Nop())

	p.Pronounce(context.Background(), " lucid ")
	if len(player.played) != 1 || player.played[0] != "/tmp/lucid.mp3" {
		t.Errorf("unexpected playback %v", player.played)
	}
}

func TestPronouncerSwallowsFailures(t *testing.T) {
	src := &fakeSource{err: fmt.Errorf("network down")}
	player := &fakePlayer{}
	p := NewPronouncer(src, player, logger.Nop())

	p.Pronounce(context.Background(), "lucid")
	if len(player.played) != 0 {
		t.Error("nothing should play when fetch fails")
	}

	p = NewPronouncer(&fakeSource{}, &fakePlayer{err: ErrNoPlayer}, logger.Nop())
	p.Pronounce(context.Background(), "lucid")

	var disabled *Pronouncer
	disabled.Pronounce(context.Background(), "lucid")
	if disabled.Enabled() {
		t.Error("nil pronouncer should be disabled")
	}
}

func TestNewSource(t *testing.T) {
	if s, err := NewSource(Options{Source: "none"}); err != nil || s != nil {
		t.Errorf("none should disable audio: %v %v", s, err)
	}
	if s, err := NewSource(Options{Source: "openai"}); err == nil || s != nil {
		t.Errorf("openai source without key should fail with a nil source: %v %v", s, err)
	}
	if s, err := NewSource(Options{Source: "url", URLTemplate: "no-placeholder"}); err == nil || s != nil {
		t.Errorf("bad url template should fail with a nil source: %v %v", s, err)
	}
	s, err := NewSource(Options{Source: "espeak", CacheDir: t.TempDir()})
	if err != nil || s.Name() != "espeak" {
		t.Errorf("espeak source: %v %v", s, err)
	}
	if _, err := NewSource(Options{Source: "tape"}); err == nil {
		t.Error("expected error for unknown source")
	}
}
