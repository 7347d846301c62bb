package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"

	"github.com/f3rmion/memcard/internal/llm"
	"github.com/f3rmion/memcard/internal/logger"
	"github.com/f3rmion/memcard/internal/vocab"
)

// Error codes carried in failed envelopes.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeValidation       = "VALIDATION_ERROR"
	CodeGenerationFailed = "GENERATION_FAILED"
)

// CardHandler serves memory-card generation.
type CardHandler struct {
	gen   llm.Generator
	group singleflight.Group
	log   *logger.Logger
}

func NewCardHandler(gen llm.Generator, log *logger.Logger) *CardHandler {
	return &CardHandler{gen: gen, log: log.With("handler", "memory-card")}
}

func respondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, llm.Envelope{Success: false, Error: msg, Code: code})
}

func respondCard(c *gin.Context, card *vocab.MemoryCard) {
	c.JSON(http.StatusOK, llm.Envelope{Success: true, Data: &llm.EnvelopeData{Card: card}})
}

// Generate handles POST /api/vocabulary/memory-card.
func (h *CardHandler) Generate(c *gin.Context) {
	var req llm.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return
	}
	req.Word = strings.TrimSpace(req.Word)
	req.Meaning = strings.TrimSpace(req.Meaning)
	req.SourceSentence = strings.TrimSpace(req.SourceSentence)
	if req.Word == "" || req.Meaning == "" {
		respondError(c, http.StatusBadRequest, CodeValidation, "word and meaning are required")
		return
	}

	key := req.Key()
	if req.Regenerate {
		key = "regenerate:" + key
	}

	// Identical concurrent requests share one generation. The shared call
	// must outlive whichever client asked first.
	ctx := context.WithoutCancel(c.Request.Context())
	v, err, shared := h.group.Do(key, func() (interface{}, error) {
		return h.gen.Generate(ctx, req)
	})
	if err != nil {
		h.log.Warn("memory card generation failed", "word", req.Word, "error", err, "request_id", c.GetString(requestIDKey))
		respondError(c, http.StatusOK, CodeGenerationFailed, "Failed to generate memory card: "+llm.Describe(err))
		return
	}

	h.log.Info("memory card generated", "word", req.Word, "shared", shared, "request_id", c.GetString(requestIDKey))
	respondCard(c, v.(*vocab.MemoryCard))
}

// Health answers liveness probes.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
