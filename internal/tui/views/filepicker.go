package views

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f3rmion/memcard/internal/vocab"
)

var (
	pickerDirStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ecdc4")).Bold(true)
	pickerSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffe66d")).Background(lipgloss.Color("#2d3436"))
	pickerPreviewStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true, false, false, false).BorderForeground(lipgloss.Color("#3d5a80")).PaddingTop(1)
)

// SourceLoader reads the vocabulary entries stored in a file.
type SourceLoader func(path string) ([]*vocab.Entry, error)

// FileSelectedMsg is sent when a word list or deck is chosen. Entries is
// set when the picker already read the file for its preview.
type FileSelectedMsg struct {
	Path    string
	Entries []*vocab.Entry
}

// SourcePreviewMsg carries the result of reading a highlighted file.
type SourcePreviewMsg struct {
	Path    string
	Entries []*vocab.Entry
	Err     error
}

type sourceKind int

const (
	kindDir sourceKind = iota
	kindWordList
	kindDeck
)

func kindOf(name string) (sourceKind, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return kindWordList, true
	case ".apkg":
		return kindDeck, true
	}
	return 0, false
}

type sourceItem struct {
	name string
	path string
	kind sourceKind
}

func (it sourceItem) label() string {
	switch it.kind {
	case kindDir:
		return it.name + "/"
	case kindDeck:
		return it.name + "  (anki deck)"
	default:
		return it.name
	}
}

// sourcePreview is what the picker learned about a file. A nil entry in
// the previews map means the read is still in flight.
type sourcePreview struct {
	entries []*vocab.Entry
	err     error
}

// SourcePickerModel browses directories for word lists and Anki decks and
// previews the words in the highlighted file before it is opened.
type SourcePickerModel struct {
	dir    string
	items  []sourceItem
	cursor int
	offset int

	load     SourceLoader
	previews map[string]*sourcePreview

	notice string
	err    error

	width  int
	height int
}

// NewSourcePickerModel starts in startDir, or the home directory when
// startDir is missing. load reads highlighted files for the preview.
func NewSourcePickerModel(startDir string, load SourceLoader) SourcePickerModel {
	home, _ := os.UserHomeDir()
	if home == "" {
		home = string(filepath.Separator)
	}
	if fi, err := os.Stat(startDir); startDir == "" || err != nil || !fi.IsDir() {
		startDir = home
	}

	m := SourcePickerModel{
		load:     load,
		previews: make(map[string]*sourcePreview),
	}
	m.chdir(startDir)
	return m
}

// SetSize updates the view dimensions.
func (m *SourcePickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Dir returns the directory being browsed.
func (m SourcePickerModel) Dir() string { return m.dir }

// chdir lists dir: parent link, subdirectories, then word lists and decks.
// Hidden entries and other files are skipped.
func (m *SourcePickerModel) chdir(dir string) tea.Cmd {
	listing, err := os.ReadDir(dir)
	if err != nil {
		m.err = err
		return nil
	}

	m.dir = dir
	m.items = nil
	m.cursor, m.offset = 0, 0
	m.err, m.notice = nil, ""

	if parent := filepath.Dir(dir); parent != dir {
		m.items = append(m.items, sourceItem{name: "..", path: parent, kind: kindDir})
	}

	var dirs, files []sourceItem
	for _, e := range listing {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		it := sourceItem{name: e.Name(), path: filepath.Join(dir, e.Name())}
		if e.IsDir() {
			it.kind = kindDir
			dirs = append(dirs, it)
			continue
		}
		kind, ok := kindOf(e.Name())
		if !ok {
			continue
		}
		it.kind = kind
		files = append(files, it)
	}

	byName := func(a, b sourceItem) int {
		return strings.Compare(strings.ToLower(a.name), strings.ToLower(b.name))
	}
	slices.SortFunc(dirs, byName)
	slices.SortFunc(files, byName)
	m.items = append(append(m.items, dirs...), files...)

	return m.preview()
}

func (m SourcePickerModel) current() (sourceItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return sourceItem{}, false
	}
	return m.items[m.cursor], true
}

// preview reads the highlighted file once in the background.
func (m *SourcePickerModel) preview() tea.Cmd {
	it, ok := m.current()
	if !ok || it.kind == kindDir || m.load == nil {
		return nil
	}
	if _, seen := m.previews[it.path]; seen {
		return nil
	}
	m.previews[it.path] = nil

	load, path := m.load, it.path
	return func() tea.Msg {
		entries, err := load(path)
		return SourcePreviewMsg{Path: path, Entries: entries, Err: err}
	}
}

func (m *SourcePickerModel) move(delta int) tea.Cmd {
	if len(m.items) == 0 {
		return nil
	}
	m.cursor = clamp(m.cursor+delta, 0, len(m.items)-1)
	m.notice = ""

	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	return m.preview()
}

// open enters a directory or selects a file. A file whose preview failed
// stays closed and the reason is shown instead.
func (m *SourcePickerModel) open() tea.Cmd {
	it, ok := m.current()
	if !ok {
		return nil
	}
	if it.kind == kindDir {
		return m.chdir(it.path)
	}

	msg := FileSelectedMsg{Path: it.path}
	if p := m.previews[it.path]; p != nil {
		if p.err != nil {
			m.notice = "Not a word list: " + p.err.Error()
			return nil
		}
		msg.Entries = p.entries
	}
	return func() tea.Msg { return msg }
}

// Update handles messages.
func (m SourcePickerModel) Update(msg tea.Msg) (SourcePickerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case SourcePreviewMsg:
		m.previews[msg.Path] = &sourcePreview{entries: msg.Entries, err: msg.Err}
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		switch msg.String() {
		case "j", "down":
			cmd = m.move(1)
		case "k", "up":
			cmd = m.move(-1)
		case "ctrl+d":
			cmd = m.move(m.visibleRows() / 2)
		case "ctrl+u":
			cmd = m.move(-m.visibleRows() / 2)
		case "g":
			cmd = m.move(-len(m.items))
		case "G":
			cmd = m.move(len(m.items))
		case "enter", "l", "right":
			cmd = m.open()
		case "backspace", "h":
			if parent := filepath.Dir(m.dir); parent != m.dir {
				cmd = m.chdir(parent)
			}
		case "~":
			if home, _ := os.UserHomeDir(); home != "" {
				cmd = m.chdir(home)
			}
		}
		return m, cmd
	}
	return m, nil
}

// visibleRows leaves room for the title, path, preview pane and help.
func (m SourcePickerModel) visibleRows() int {
	return max(m.height-14, 5)
}

// View renders the directory listing with a preview of the highlighted file.
func (m SourcePickerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Open Word List (.yaml) or Anki Deck (.apkg)"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Italic(true).Render(m.dir))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(divider(m.width))
	b.WriteString("\n")

	if len(m.items) == 0 || (len(m.items) == 1 && m.items[0].name == "..") {
		b.WriteString(helpStyle.Render("  (no word lists or decks here)"))
		b.WriteString("\n")
	}

	end := min(m.offset+m.visibleRows(), len(m.items))
	for i := m.offset; i < end; i++ {
		it := m.items[i]
		line := truncate(it.label(), max(m.width-4, 10))
		switch {
		case i == m.cursor:
			b.WriteString("> " + pickerSelectedStyle.Render(line))
		case it.kind == kindDir:
			b.WriteString("  " + pickerDirStyle.Render(line))
		default:
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if len(m.items) > m.visibleRows() {
		b.WriteString(helpStyle.Render(fmt.Sprintf("  %d/%d", m.cursor+1, len(m.items))))
		b.WriteString("\n")
	}

	if pane := m.renderPreview(); pane != "" {
		b.WriteString(pickerPreviewStyle.Width(max(m.width-4, 20)).Render(pane))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(errorStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(divider(m.width))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: open • backspace: parent • ~: home • tab: menu"))

	return b.String()
}

func (m SourcePickerModel) renderPreview() string {
	it, ok := m.current()
	if !ok || it.kind == kindDir {
		return ""
	}
	p, seen := m.previews[it.path]
	switch {
	case !seen || p == nil:
		return loadingStyle.Render("Reading " + it.name + "…")
	case p.err != nil:
		return errorStyle.Render("Not a word list") + "\n" + mutedStyle.Render(truncate(p.err.Error(), max(m.width-6, 20)))
	case len(p.entries) == 0:
		return noDataStyle.Render("No words with a meaning in this file")
	}

	n := len(p.entries)
	var b strings.Builder
	fmt.Fprintf(&b, "%d words\n", n)
	for _, e := range p.entries[:min(n, 3)] {
		b.WriteString("  " + truncate(e.Word+" · "+e.Meaning, max(m.width-8, 20)) + "\n")
	}
	if n > 3 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  …and %d more", n-3)))
	}
	return strings.TrimRight(b.String(), "\n")
}
