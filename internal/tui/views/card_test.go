package views

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/f3rmion/memcard/internal/audio"
	"github.com/f3rmion/memcard/internal/llm"
	"github.com/f3rmion/memcard/internal/logger"
	"github.com/f3rmion/memcard/internal/vocab"
)

type stubGenerator struct {
	cards map[string]*vocab.MemoryCard
	err   error
}

func (g *stubGenerator) Name() string { return "stub" }

func (g *stubGenerator) Generate(ctx context.Context, r llm.Request) (*vocab.MemoryCard, error) {
	if g.err != nil {
		return nil, g.err
	}
	if c, ok := g.cards[r.Word]; ok {
		return c, nil
	}
	return &vocab.MemoryCard{Word: r.Word, Meaning: r.Meaning}, nil
}

type stubSource struct{}

func (stubSource) Name() string { return "stub" }

func (stubSource) Fetch(ctx context.Context, word string) (string, error) {
	return "/tmp/" + word + ".mp3", nil
}

type recordingPlayer struct {
	mu     sync.Mutex
	played []string
}

func (p *recordingPlayer) Play(ctx context.Context, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.played = append(p.played, path)
	return nil
}

var fullCard = &vocab.MemoryCard{
	Word:            "harness",
	Phonetic:        "/ˈhɑːnɪs/",
	PartOfSpeech:    "verb",
	Meaning:         "to control and use",
	Etymology:       "From Old French harneis, equipment.",
	ExampleSentence: "They harness the wind.",
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs cmd and any batched commands, returning the non-nil messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func resultOf(t *testing.T, cmd tea.Cmd) cardResultMsg {
	t.Helper()
	for _, msg := range drain(cmd) {
		if r, ok := msg.(cardResultMsg); ok {
			return r
		}
	}
	t.Fatal("no card result produced")
	return cardResultMsg{}
}

func newCard(gen llm.Generator, player *recordingPlayer, entries ...*vocab.Entry) (CardModel, tea.Cmd) {
	var p *audio.Pronouncer
	if player != nil {
		p = audio.NewPronouncer(stubSource{}, player, logger.Nop())
	}
	m := NewCardModel(CardDeps{Generator: gen, Pronouncer: p, Log: logger.Nop()}, entries, 0)
	m.SetSize(100, 40)
	cmd := m.Start()
	return m, cmd
}

func readyCard(t *testing.T, gen llm.Generator, player *recordingPlayer, entries ...*vocab.Entry) CardModel {
	t.Helper()
	m, cmd := newCard(gen, player, entries...)
	m, _ = m.Update(resultOf(t, cmd))
	return m
}

func TestCardLoadingThenFront(t *testing.T) {
	gen := &stubGenerator{cards: map[string]*vocab.MemoryCard{"harness": fullCard}}
	m, cmd := newCard(gen, nil, &vocab.Entry{Word: "harness", Meaning: "to control"})

	if m.Mode() != CardLoading {
		t.Fatalf("expected loading, got %v", m.Mode())
	}
	if !strings.Contains(m.View(), "Generating memory card") {
		t.Errorf("loading view missing status:\n%s", m.View())
	}

	m, _ = m.Update(resultOf(t, cmd))
	if m.Mode() != CardFront {
		t.Fatalf("expected front, got %v", m.Mode())
	}

	view := m.View()
	for _, want := range []string{"harness", "/ˈhɑːnɪs/", "verb", "to control and use", "space: more details"} {
		if !strings.Contains(view, want) {
			t.Errorf("front view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Etymology") {
		t.Error("front view should not show the etymology section")
	}
}

func TestCardActivateToggles(t *testing.T) {
	gen := &stubGenerator{cards: map[string]*vocab.MemoryCard{"harness": fullCard}}
	m := readyCard(t, gen, nil, &vocab.Entry{Word: "harness", Meaning: "to control"})

	m, _ = m.Update(key(" "))
	if m.Mode() != CardBack {
		t.Fatalf("expected back, got %v", m.Mode())
	}
	view := m.View()
	for _, want := range []string{"Etymology", "harneis", "Example", "They harness the wind.", "space: back to front"} {
		if !strings.Contains(view, want) {
			t.Errorf("back view missing %q:\n%s", want, view)
		}
	}

	m, _ = m.Update(key("enter"))
	if m.Mode() != CardFront {
		t.Fatalf("second activation should return to front, got %v", m.Mode())
	}
}

func TestCardBackOmitsAbsentSections(t *testing.T) {
	m := readyCard(t, &stubGenerator{}, nil, &vocab.Entry{Word: "lucid", Meaning: "clear"})
	m, _ = m.Update(key(" "))

	if m.Mode() != CardBack {
		t.Fatalf("expected back, got %v", m.Mode())
	}
	view := m.View()
	if strings.Contains(view, "Etymology") || strings.Contains(view, "Example") {
		t.Errorf("back view should have no sections:\n%s", view)
	}

	m, _ = m.Update(key(" "))
	if strings.Contains(m.View(), "pronounce") {
		t.Error("pronounce control shown without an audio source")
	}
}

func TestCardPronounceDoesNotFlip(t *testing.T) {
	player := &recordingPlayer{}
	gen := &stubGenerator{cards: map[string]*vocab.MemoryCard{"harness": fullCard}}
	m := readyCard(t, gen, player, &vocab.Entry{Word: "harness", Meaning: "to control"})

	m, _ = m.Update(key(" "))
	m, cmd := m.Update(key("p"))
	if m.Mode() != CardBack {
		t.Fatalf("pronounce changed mode to %v", m.Mode())
	}
	if cmd == nil {
		t.Fatal("expected a pronounce command")
	}
	if msgs := drain(cmd); len(msgs) != 0 {
		t.Errorf("pronounce should produce no messages, got %v", msgs)
	}
	if len(player.played) != 1 || player.played[0] != "/tmp/harness.mp3" {
		t.Errorf("unexpected playback %v", player.played)
	}
}

func TestCardMouseHitTesting(t *testing.T) {
	player := &recordingPlayer{}
	gen := &stubGenerator{cards: map[string]*vocab.MemoryCard{"harness": fullCard}}
	m := readyCard(t, gen, player, &vocab.Entry{Word: "harness", Meaning: "to control"})

	_, row := m.body()
	if row < 0 {
		t.Fatal("expected a pronounce row")
	}

	clickAt := func(x, y int) tea.MouseMsg {
		return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	}
	click := func(y int) tea.MouseMsg { return clickAt(4, y) }

	m, cmd := m.Update(click(cardBodyTop + row))
	if m.Mode() != CardFront {
		t.Fatalf("click on pronounce row flipped the card")
	}
	drain(cmd)
	if len(player.played) != 1 {
		t.Errorf("expected one playback, got %v", player.played)
	}

	m, _ = m.Update(click(cardBodyTop))
	if m.Mode() != CardBack {
		t.Errorf("click on card body should flip, got %v", m.Mode())
	}

	m, _ = m.Update(click(0))
	if m.Mode() != CardBack {
		t.Errorf("click outside the card should do nothing, got %v", m.Mode())
	}

	lines, _ := m.body()
	right := boxWidth(lines)
	m, _ = m.Update(clickAt(right, cardBodyTop))
	m, _ = m.Update(clickAt(right+40, cardBodyTop+1))
	if m.Mode() != CardBack {
		t.Errorf("click right of the card should do nothing, got %v", m.Mode())
	}
	m, _ = m.Update(clickAt(right-1, cardBodyTop))
	if m.Mode() != CardFront {
		t.Errorf("click on the right border should flip, got %v", m.Mode())
	}
}

func TestCardErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"described", &llm.ServiceError{Message: "rate limited", Status: 429}, "rate limited"},
		{"undescribed", &llm.ServiceError{}, llm.FallbackMessage},
		{"empty error", errors.New(" "), llm.FallbackMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := readyCard(t, &stubGenerator{err: tt.err}, nil, &vocab.Entry{Word: "x", Meaning: "y"})
			if m.Mode() != CardError {
				t.Fatalf("expected error mode, got %v", m.Mode())
			}
			if !strings.Contains(m.View(), tt.want) {
				t.Errorf("error view missing %q:\n%s", tt.want, m.View())
			}
		})
	}
}

func TestCardErrorCloseOnce(t *testing.T) {
	entry := &vocab.Entry{Word: "x", Meaning: "y"}
	m := readyCard(t, &stubGenerator{err: errors.New("boom")}, nil, entry)

	// Activation does nothing in the error view.
	m, cmd := m.Update(key(" "))
	if cmd != nil || m.Mode() != CardError {
		t.Fatal("space should not act on an error card")
	}

	m, cmd = m.Update(key("c"))
	msgs := drain(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one close message, got %v", msgs)
	}
	closed, ok := msgs[0].(CardClosedMsg)
	if !ok || closed.Entry != entry {
		t.Fatalf("unexpected close message %#v", msgs[0])
	}
	if !m.Closed() {
		t.Error("card should report closed")
	}

	for _, k := range []string{"c", "esc", "enter"} {
		if _, cmd := m.Update(key(k)); cmd != nil {
			t.Errorf("%q after close produced a command", k)
		}
	}
}

func TestCardCloseWhileLoadingDropsResult(t *testing.T) {
	m, cmd := newCard(&stubGenerator{}, nil, &vocab.Entry{Word: "x", Meaning: "y"})

	m, closeCmd := m.Update(key("esc"))
	if len(drain(closeCmd)) != 1 {
		t.Fatal("expected a close message")
	}

	m, _ = m.Update(resultOf(t, cmd))
	if m.Mode() != CardLoading {
		t.Errorf("late result changed a closed card to %v", m.Mode())
	}
}

func TestCardStaleResultDiscarded(t *testing.T) {
	a := &vocab.Entry{Word: "alpha", Meaning: "first"}
	b := &vocab.Entry{Word: "beta", Meaning: "second"}
	m, cmdA := newCard(&stubGenerator{}, nil, a, b)

	resA := resultOf(t, cmdA)
	m, _ = m.Update(resA)
	if m.Mode() != CardFront {
		t.Fatalf("expected front, got %v", m.Mode())
	}

	m, cmdB := m.Update(key("n"))
	if m.Mode() != CardLoading || m.Entry() != b {
		t.Fatalf("expected loading for beta, got %v", m.Mode())
	}

	// A late answer for alpha must not land on beta's card.
	m, _ = m.Update(resA)
	if m.Mode() != CardLoading {
		t.Fatalf("stale result applied, mode %v", m.Mode())
	}

	m, _ = m.Update(resultOf(t, cmdB))
	if m.Mode() != CardFront || !strings.Contains(m.View(), "beta") {
		t.Fatalf("expected beta's card:\n%s", m.View())
	}

	m, _ = m.Update(key("n"))
	if m.Entry() != b {
		t.Error("next past the last entry should stay put")
	}
}
