package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/f3rmion/memcard/internal/llm"
	"github.com/f3rmion/memcard/internal/logger"
	"github.com/f3rmion/memcard/internal/vocab"
)

type fakeGenerator struct {
	err  error
	last llm.Request
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Generate(ctx context.Context, r llm.Request) (*vocab.MemoryCard, error) {
	f.last = r
	if f.err != nil {
		return nil, f.err
	}
	return &vocab.MemoryCard{Word: r.Word, Meaning: r.Meaning, Phonetic: "/test/"}, nil
}

func newTestRouter(gen llm.Generator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(gen, logger.Nop())
}

func post(t *testing.T, r http.Handler, body string) (*httptest.ResponseRecorder, llm.Envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, llm.MemoryCardPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env llm.Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding envelope %q: %v", w.Body.String(), err)
	}
	return w, env
}

func TestGenerateSuccess(t *testing.T) {
	gen := &fakeGenerator{}
	w, env := post(t, newTestRouter(gen), `{"word":" harness ","meaning":"to use","source_sentence":"We harness it.","regenerate":true}`)

	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("expected success, got %d %+v", w.Code, env)
	}
	if env.Data == nil || env.Data.Card.Word != "harness" || env.Data.Card.Phonetic != "/test/" {
		t.Errorf("unexpected card %+v", env.Data)
	}
	if !gen.last.Regenerate || gen.last.SourceSentence != "We harness it." {
		t.Errorf("request not passed through: %+v", gen.last)
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("expected a request id header")
	}
}

func TestGenerateFailureEnvelope(t *testing.T) {
	gen := &fakeGenerator{err: &llm.ServiceError{Message: "rate limited", Status: 429}}
	_, env := post(t, newTestRouter(gen), `{"word":"harness","meaning":"to use"}`)

	if env.Success {
		t.Fatal("expected failure")
	}
	if env.Error != "Failed to generate memory card: rate limited" || env.Code != CodeGenerationFailed {
		t.Errorf("unexpected envelope %+v", env)
	}
}

func TestGenerateValidation(t *testing.T) {
	r := newTestRouter(&fakeGenerator{})

	tests := []struct {
		body string
		code string
	}{
		{`{"word":"harness"}`, CodeValidation},
		{`{"word":"  ","meaning":"x"}`, CodeValidation},
		{`not json`, CodeBadRequest},
	}
	for _, tt := range tests {
		w, env := post(t, r, tt.body)
		if w.Code != http.StatusBadRequest || env.Success || env.Code != tt.code {
			t.Errorf("%s: got %d %+v", tt.body, w.Code, env)
		}
	}
}

func TestHealthAndCORS(t *testing.T) {
	r := newTestRouter(&fakeGenerator{})

	for _, path := range []string{"/", "/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Origin", "http://client.test")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK || w.Body.String() != "OK" {
			t.Errorf("%s: got %d %q", path, w.Code, w.Body.String())
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Errorf("%s: expected CORS header", path)
		}
	}
}

func TestRemoteProviderAgainstServer(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(&fakeGenerator{}))
	defer srv.Close()

	remote, err := llm.NewRemote(srv.URL, 0)
	if err != nil {
		t.Fatalf("NewRemote: %v", err)
	}
	card, err := remote.Generate(context.Background(), llm.Request{Word: "lucid", Meaning: "clear"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if card.Word != "lucid" || card.Phonetic != "/test/" {
		t.Errorf("unexpected card %+v", card)
	}
}
