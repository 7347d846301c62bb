// Package session drives the generation request behind one memory card.
//
// A Session is owned by a single event loop. Start hands back a Request that
// may run anywhere, and its Result is fed back through Settle on the owning
// loop. Each Start bumps a token; results carrying an older token, or
// arriving after Dispose, are dropped.
package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/f3rmion/memcard/internal/llm"
	"github.com/f3rmion/memcard/internal/logger"
	"github.com/f3rmion/memcard/internal/vocab"
)

// State is one of Idle, Loading, Failed or Ready.
type State interface {
	isState()
}

// Idle is the state before the first Start.
type Idle struct{}

// Loading means a request is outstanding.
type Loading struct{}

// Failed holds the display message for a failed request.
type Failed struct {
	Message string
}

// Ready holds the generated card.
type Ready struct {
	Card *vocab.MemoryCard
}

func (Idle) isState()    {}
func (Loading) isState() {}
func (Failed) isState()  {}
func (Ready) isState()   {}

// Session tracks the latest card request for the entry on screen.
type Session struct {
	id      string
	token   uint64
	pending bool
	entry   *vocab.Entry
	state   State
	log     *logger.Logger
}

// New creates an idle session.
func New(log *logger.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:    id,
		state: Idle{},
		log:   log.With("session", id),
	}
}

// Handle lets the caller give up on the request it started.
type Handle struct {
	s     *Session
	token uint64
}

// Request is the outbound call for one Start. Run does not touch the
// session, so it can run off the event loop.
type Request struct {
	SessionID string
	Token     uint64
	Entry     *vocab.Entry
	Params    llm.Request
}

// Result is what a Request produced.
type Result struct {
	SessionID string
	Token     uint64
	Card      *vocab.MemoryCard
	Err       error
}

// Start supersedes any outstanding request and moves to Loading.
func (s *Session) Start(entry *vocab.Entry) (*Handle, Request) {
	s.token++
	s.pending = true
	s.entry = entry
	s.state = Loading{}

	s.log.Debug("card requested", "word", entry.Word, "token", s.token)

	return &Handle{s: s, token: s.token}, Request{
		SessionID: s.id,
		Token:     s.token,
		Entry:     entry,
		Params:    llm.RequestFor(entry),
	}
}

// Run performs the generation call.
func (r Request) Run(ctx context.Context, gen llm.Generator) Result {
	card, err := gen.Generate(ctx, r.Params)
	return Result{SessionID: r.SessionID, Token: r.Token, Card: card, Err: err}
}

// Settle applies res if it belongs to the live request and reports whether
// it did. A request settles at most once.
func (s *Session) Settle(res Result) bool {
	if res.SessionID != s.id || res.Token != s.token || !s.pending {
		s.log.Debug("dropping stale card result", "token", res.Token, "live", s.token)
		return false
	}
	s.pending = false

	if res.Err != nil || res.Card == nil {
		msg := llm.Describe(res.Err)
		if msg == "" {
			msg = llm.FallbackMessage
		}
		s.state = Failed{Message: msg}
		s.log.Warn("card generation failed", "word", s.entry.Word, "error", res.Err)
		return true
	}

	s.state = Ready{Card: res.Card}
	s.log.Info("card ready", "word", s.entry.Word)
	return true
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Entry returns the entry of the latest Start, or nil.
func (s *Session) Entry() *vocab.Entry { return s.entry }

// ID identifies the session in logs and results.
func (s *Session) ID() string { return s.id }

// Dispose stops the handle's request from changing the session. It is
// idempotent and does nothing once a newer Start has superseded the handle.
func (h *Handle) Dispose() {
	if h == nil || h.s == nil {
		return
	}
	if h.s.token == h.token {
		h.s.token++
		h.s.pending = false
		h.s.log.Debug("card request disposed", "token", h.token)
	}
	h.s = nil
}

// Live reports whether the handle's request can still settle.
func (h *Handle) Live() bool {
	return h != nil && h.s != nil && h.s.token == h.token && h.s.pending
}
