package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f3rmion/memcard/internal/audio"
	"github.com/f3rmion/memcard/internal/clipboard"
	"github.com/f3rmion/memcard/internal/llm"
	"github.com/f3rmion/memcard/internal/logger"
	"github.com/f3rmion/memcard/internal/session"
	"github.com/f3rmion/memcard/internal/vocab"
)

// Card view styles
var (
	cardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	cardBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#ffe66d")).
			Padding(0, 2)

	cardErrorBoxStyle = cardBoxStyle.
				BorderForeground(lipgloss.Color("#ff6b6b"))

	cardWordStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffe66d"))

	cardPhoneticStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#4ecdc4")).
				Italic(true)

	cardBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1a1a2e")).
			Background(lipgloss.Color("#a8dadc")).
			Padding(0, 1)

	cardPronounceStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#4ecdc4")).
				Bold(true)

	cardMeaningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f1faee"))

	cardSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#a8dadc"))

	cardHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4")).
			Italic(true)
)

// Rows above the first line of card content: title, blank, top border.
const cardBodyTop = 3

const pronounceTimeout = 20 * time.Second

// CardClosedMsg reports that the user dismissed the card for Entry.
type CardClosedMsg struct {
	Entry *vocab.Entry
}

type cardResultMsg struct {
	res session.Result
}

type cardClearCopiedMsg struct{}

func cardClearCopiedAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return cardClearCopiedMsg{}
	})
}

// CardMode is what the card view is showing.
type CardMode int

const (
	CardLoading CardMode = iota
	CardError
	CardFront
	CardBack
)

func (m CardMode) String() string {
	switch m {
	case CardLoading:
		return "loading"
	case CardError:
		return "error"
	case CardFront:
		return "front"
	case CardBack:
		return "back"
	}
	return fmt.Sprintf("CardMode(%d)", int(m))
}

// CardDeps are the collaborators a card view needs.
type CardDeps struct {
	Generator  llm.Generator
	Pronouncer *audio.Pronouncer
	Timeout    time.Duration
	Log        *logger.Logger
}

// CardModel shows the memory card for one word list entry.
type CardModel struct {
	deps CardDeps

	entries []*vocab.Entry
	index   int

	session *session.Session
	handle  *session.Handle
	flipped bool
	closed  bool

	spinner spinner.Model

	copied  bool
	copyErr error

	width  int
	height int
}

// NewCardModel creates a card view for entries[index]. Call Start to issue
// the first request.
func NewCardModel(deps CardDeps, entries []*vocab.Entry, index int) CardModel {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = loadingStyle

	return CardModel{
		deps:    deps,
		entries: entries,
		index:   index,
		spinner: s,
	}
}

// SetSize updates the view dimensions.
func (m *CardModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Start opens a fresh session for the current entry.
func (m *CardModel) Start() tea.Cmd {
	m.handle.Dispose()

	m.session = session.New(m.deps.Log)
	handle, req := m.session.Start(m.entries[m.index])
	m.handle = handle
	m.flipped = false
	m.copied = false
	m.copyErr = nil

	gen := m.deps.Generator
	timeout := m.deps.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	run := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return cardResultMsg{res: req.Run(ctx, gen)}
	}

	return tea.Batch(m.spinner.Tick, run)
}

// Mode derives the visible mode from the session state and the flip toggle.
func (m CardModel) Mode() CardMode {
	switch m.session.State().(type) {
	case session.Ready:
		if m.flipped {
			return CardBack
		}
		return CardFront
	case session.Failed:
		return CardError
	default:
		return CardLoading
	}
}

// Entry returns the entry on screen.
func (m CardModel) Entry() *vocab.Entry {
	return m.entries[m.index]
}

// Closed reports whether the user dismissed the card.
func (m CardModel) Closed() bool {
	return m.closed
}

func (m CardModel) card() *vocab.MemoryCard {
	if r, ok := m.session.State().(session.Ready); ok {
		return r.Card
	}
	return nil
}

// Update handles messages.
func (m CardModel) Update(msg tea.Msg) (CardModel, tea.Cmd) {
	if m.closed || m.session == nil {
		return m, nil
	}

	switch msg := msg.(type) {
	case cardResultMsg:
		if m.session.Settle(msg.res) {
			m.flipped = false
		}
		return m, nil

	case spinner.TickMsg:
		if m.Mode() != CardLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case cardClearCopiedMsg:
		m.copied = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

func (m CardModel) handleKey(msg tea.KeyMsg) (CardModel, tea.Cmd) {
	key := msg.String()
	if key == "esc" || key == "q" {
		cmd := m.close()
		return m, cmd
	}

	switch m.Mode() {
	case CardError:
		switch key {
		case "enter", "c":
			cmd := m.close()
			return m, cmd
		}

	case CardFront, CardBack:
		switch key {
		case " ", "enter":
			m.flipped = !m.flipped
		case "p", "s":
			return m, m.pronounce()
		case "y":
			return m.copy()
		case "n":
			if m.index < len(m.entries)-1 {
				m.index++
				cmd := m.Start()
				return m, cmd
			}
		case "N":
			if m.index > 0 {
				m.index--
				cmd := m.Start()
				return m, cmd
			}
		}
	}

	return m, nil
}

func (m CardModel) handleMouse(msg tea.MouseMsg) (CardModel, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	mode := m.Mode()
	if mode != CardFront && mode != CardBack {
		return m, nil
	}

	lines, pronounceRow := m.body()
	row := msg.Y - cardBodyTop
	if row < 0 || row >= len(lines) || msg.X < 0 || msg.X >= boxWidth(lines) {
		return m, nil
	}
	if row == pronounceRow {
		return m, m.pronounce()
	}
	m.flipped = !m.flipped
	return m, nil
}

// close disposes the request and reports closure once.
func (m *CardModel) close() tea.Cmd {
	if m.closed {
		return nil
	}
	m.closed = true
	m.handle.Dispose()

	entry := m.Entry()
	return func() tea.Msg {
		return CardClosedMsg{Entry: entry}
	}
}

// pronounce plays the card word in the background. Failures are logged by
// the pronouncer and never reach the view.
func (m CardModel) pronounce() tea.Cmd {
	card := m.card()
	p := m.deps.Pronouncer
	if card == nil || !p.Enabled() {
		return nil
	}
	word := card.Word
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pronounceTimeout)
		defer cancel()
		p.Pronounce(ctx, word)
		return nil
	}
}

func (m CardModel) copy() (CardModel, tea.Cmd) {
	card := m.card()
	if card == nil {
		return m, nil
	}
	if err := clipboard.Write(card.Text()); err != nil {
		m.copyErr = err
		m.deps.Log.Warn("copying card failed", "word", card.Word, "error", err)
		return m, nil
	}
	m.copyErr = nil
	m.copied = true
	return m, cardClearCopiedAfter(2 * time.Second)
}

func (m CardModel) textWidth() int {
	w := m.width - 8
	if w > 70 {
		w = 70
	}
	if w < 30 {
		w = 30
	}
	return w
}

// boxWidth is the rendered width of the card box around lines, borders
// included. The box is drawn from column 0.
func boxWidth(lines []string) int {
	return lipgloss.Width(cardBoxStyle.Render(strings.Join(lines, "\n")))
}

// body returns the card content one line per element, and the index of the
// pronunciation row or -1.
func (m CardModel) body() ([]string, int) {
	width := m.textWidth()
	pronounceRow := -1
	var lines []string
	add := func(s string) {
		lines = append(lines, strings.Split(s, "\n")...)
	}

	switch m.Mode() {
	case CardLoading:
		add(m.spinner.View() + " " + loadingStyle.Render("Generating memory card…"))

	case CardError:
		msg := m.session.State().(session.Failed).Message
		add(errorStyle.Render("Could not create a memory card"))
		add("")
		for _, l := range strings.Split(wordWrap(msg, width), "\n") {
			add(cardMeaningStyle.Render(l))
		}

	case CardFront:
		card := m.card()
		head := cardWordStyle.Render(truncate(card.Word, width))
		if card.HasPhonetic() {
			head += "  " + cardPhoneticStyle.Render(strings.TrimSpace(card.Phonetic))
		}
		add(head)
		if card.HasPartOfSpeech() {
			add(cardBadgeStyle.Render(strings.TrimSpace(card.PartOfSpeech)))
		}
		if m.deps.Pronouncer.Enabled() {
			pronounceRow = len(lines)
			add(cardPronounceStyle.Render("▶ pronounce (p)"))
		}
		add("")
		for _, l := range strings.Split(wordWrap(card.Meaning, width), "\n") {
			add(cardMeaningStyle.Render(l))
		}

	case CardBack:
		card := m.card()
		add(cardWordStyle.Render(truncate(card.Word, width)))
		if card.HasEtymology() {
			add("")
			add(cardSectionStyle.Render("Etymology"))
			add(cardMeaningStyle.Render(wordWrap(strings.TrimSpace(card.Etymology), width)))
		}
		if card.HasExample() {
			add("")
			add(cardSectionStyle.Render("Example"))
			add(cardMeaningStyle.Render(wordWrap(strings.TrimSpace(card.ExampleSentence), width)))
		}
	}

	return lines, pronounceRow
}

func (m CardModel) hint() string {
	switch m.Mode() {
	case CardLoading:
		return "esc: close"
	case CardError:
		return "enter/c: close"
	case CardFront:
		return "space: more details"
	case CardBack:
		return "space: back to front"
	}
	return ""
}

func (m CardModel) help() string {
	switch m.Mode() {
	case CardFront, CardBack:
		parts := []string{}
		if m.deps.Pronouncer.Enabled() {
			parts = append(parts, "p: pronounce")
		}
		parts = append(parts, "y: copy", "n/N: next/prev", "esc: close")
		return strings.Join(parts, " • ")
	}
	return ""
}

// View renders the card.
func (m CardModel) View() string {
	if m.session == nil {
		return ""
	}

	var b strings.Builder

	title := cardTitleStyle.Render("Memory Card")
	if len(m.entries) > 1 {
		title += "  " + mutedStyle.Render(fmt.Sprintf("%d of %d", m.index+1, len(m.entries)))
	}
	if m.copied {
		title += "  " + copiedStyle.Render("Copied!")
	} else if m.copyErr != nil {
		title += "  " + errorStyle.Render(m.copyErr.Error())
	}
	b.WriteString(title)
	b.WriteString("\n\n")

	lines, _ := m.body()
	box := cardBoxStyle
	if m.Mode() == CardError {
		box = cardErrorBoxStyle
	}
	b.WriteString(box.Render(strings.Join(lines, "\n")))
	b.WriteString("\n\n")

	b.WriteString(cardHintStyle.Render(m.hint()))
	if help := m.help(); help != "" {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(help))
	}

	return b.String()
}
