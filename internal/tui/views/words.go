package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/f3rmion/memcard/internal/vocab"
)

// Word list styles
var (
	wordsSourceStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Italic(true)

	wordsCountStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	wordsWordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f1faee")).
			Bold(true)

	wordsMeaningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888"))

	wordsSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffe66d")).
				Background(lipgloss.Color("#2d3436"))

	wordsLevelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4"))

	wordsLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8dadc")).
			Bold(true)

	wordsSearchBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#ffe66d")).
				Padding(0, 1)
)

// OpenCardMsg asks the app to show the card for Entries[Index].
type OpenCardMsg struct {
	Entries []*vocab.Entry
	Index   int
}

// WordsModel lists saved words.
type WordsModel struct {
	entries  []*vocab.Entry
	filtered []*vocab.Entry
	source   string

	selected int
	offset   int

	searchInput textinput.Model
	searching   bool
	searchTerm  string

	width  int
	height int
}

// NewWordsModel creates an empty word list.
func NewWordsModel() WordsModel {
	si := textinput.New()
	si.Placeholder = "Search..."
	si.CharLimit = 50
	si.Width = 30

	return WordsModel{searchInput: si}
}

// SetEntries replaces the list. source names where the words came from.
func (m *WordsModel) SetEntries(entries []*vocab.Entry, source string) {
	m.entries = entries
	m.source = source
	m.searchTerm = ""
	m.searchInput.SetValue("")
	m.applyFilter()
}

// SetSize updates the view dimensions.
func (m *WordsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Searching reports whether the filter input has focus.
func (m WordsModel) Searching() bool {
	return m.searching
}

// Selected returns the highlighted entry, or nil.
func (m WordsModel) Selected() *vocab.Entry {
	if m.selected < len(m.filtered) {
		return m.filtered[m.selected]
	}
	return nil
}

// Select highlights e if it is visible.
func (m *WordsModel) Select(e *vocab.Entry) {
	for i, f := range m.filtered {
		if f == e {
			m.selected = i
			m.adjustScroll()
			return
		}
	}
}

// Update handles messages.
func (m WordsModel) Update(msg tea.Msg) (WordsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.searching {
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.searching {
		switch keyMsg.String() {
		case "enter":
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		case "esc":
			m.searching = false
			m.searchInput.Blur()
			m.searchInput.SetValue("")
			m.searchTerm = ""
			m.applyFilter()
			return m, nil
		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			m.searchTerm = strings.TrimSpace(m.searchInput.Value())
			m.applyFilter()
			return m, cmd
		}
	}

	switch keyMsg.String() {
	case "down", "j":
		if m.selected < len(m.filtered)-1 {
			m.selected++
			m.adjustScroll()
		}
	case "up", "k":
		if m.selected > 0 {
			m.selected--
			m.adjustScroll()
		}
	case "g":
		m.selected = 0
		m.offset = 0
	case "G":
		if len(m.filtered) > 0 {
			m.selected = len(m.filtered) - 1
			m.adjustScroll()
		}
	case "/":
		m.searching = true
		m.searchInput.Focus()
		return m, textinput.Blink
	case "c":
		m.searchTerm = ""
		m.searchInput.SetValue("")
		m.applyFilter()
	case "enter", " ":
		if len(m.filtered) == 0 {
			return m, nil
		}
		entries := m.filtered
		index := m.selected
		return m, func() tea.Msg {
			return OpenCardMsg{Entries: entries, Index: index}
		}
	}

	return m, nil
}

func (m *WordsModel) applyFilter() {
	if m.searchTerm == "" {
		m.filtered = m.entries
	} else {
		m.filtered = nil
		term := strings.ToLower(m.searchTerm)
		for _, e := range m.entries {
			if strings.Contains(strings.ToLower(e.Word), term) ||
				strings.Contains(strings.ToLower(e.Meaning), term) {
				m.filtered = append(m.filtered, e)
			}
		}
	}
	m.selected = 0
	m.offset = 0
}

func (m *WordsModel) visibleHeight() int {
	h := m.height - 12 // Header, details, help
	if h < 5 {
		h = 5
	}
	return h
}

func (m *WordsModel) adjustScroll() {
	visible := m.visibleHeight()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+visible {
		m.offset = m.selected - visible + 1
	}
}

// View renders the word list.
func (m WordsModel) View() string {
	if len(m.entries) == 0 {
		return m.renderEmpty()
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Saved Words"))
	b.WriteString("\n")
	if m.source != "" {
		b.WriteString(wordsSourceStyle.Render(m.source))
		b.WriteString("\n")
	}

	if m.searching {
		b.WriteString(wordsSearchBoxStyle.Render("Search: " + m.searchInput.View()))
		b.WriteString("\n")
	} else if m.searchTerm != "" {
		b.WriteString(helpStyle.Render(fmt.Sprintf("Filter: \"%s\" (press 'c' to clear)", m.searchTerm)))
		b.WriteString("\n")
	}

	b.WriteString(wordsCountStyle.Render(fmt.Sprintf("%d of %d words", len(m.filtered), len(m.entries))))
	b.WriteString("\n")
	b.WriteString(divider(m.width))
	b.WriteString("\n")

	if len(m.filtered) == 0 {
		b.WriteString(helpStyle.Render("  No words match your search"))
		b.WriteString("\n")
	}

	lineWidth := m.width - 6
	if lineWidth < 20 {
		lineWidth = 20
	}
	end := m.offset + m.visibleHeight()
	if end > len(m.filtered) {
		end = len(m.filtered)
	}
	for i := m.offset; i < end; i++ {
		e := m.filtered[i]
		if i == m.selected {
			line := truncate(e.Word+"  "+e.Meaning, lineWidth)
			b.WriteString("> " + wordsSelectedStyle.Render(line))
		} else {
			word := truncate(e.Word, lineWidth)
			meaning := truncate(e.Meaning, max(lineWidth-runewidth.StringWidth(word)-2, 1))
			b.WriteString("  " + wordsWordStyle.Render(word) + "  " + wordsMeaningStyle.Render(meaning))
		}
		b.WriteString("\n")
	}

	b.WriteString(divider(m.width))
	b.WriteString("\n")

	if e := m.Selected(); e != nil {
		b.WriteString(m.renderDetails(e, lineWidth))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓: select • enter: memory card • /: search"))

	return b.String()
}

func (m WordsModel) renderDetails(e *vocab.Entry, width int) string {
	var b strings.Builder
	if e.SourceSentence != "" {
		b.WriteString(wordsLabelStyle.Render("Sentence: "))
		b.WriteString(wordWrap(e.SourceSentence, width-10))
		b.WriteString("\n")
	}
	if e.Level != "" {
		b.WriteString(wordsLabelStyle.Render("Level: "))
		b.WriteString(wordsLevelStyle.Render(e.Level))
		b.WriteString("\n")
	}
	return b.String()
}

func (m WordsModel) renderEmpty() string {
	box := boxStyle.
		Padding(2, 4).
		Align(lipgloss.Center)

	content := noDataStyle.Render("No Saved Words") + "\n\n" +
		helpStyle.Render("Add words to your word list\nor open an Anki deck with \"Open Deck\"")

	return "\n\n" + box.Render(content)
}
