package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f3rmion/memcard/internal/anki"
	"github.com/f3rmion/memcard/internal/audio"
	"github.com/f3rmion/memcard/internal/config"
	"github.com/f3rmion/memcard/internal/llm"
	"github.com/f3rmion/memcard/internal/logger"
	"github.com/f3rmion/memcard/internal/tui/views"
	"github.com/f3rmion/memcard/internal/vocab"
)

// ViewType represents the current active view
type ViewType int

const (
	ViewWords ViewType = iota
	ViewOpen
	ViewSettings
)

// MenuItem represents a sidebar menu entry
type MenuItem struct {
	Label    string
	View     ViewType
	Shortcut string
}

// EntriesLoadedMsg is sent when a word list or deck has been read.
type EntriesLoadedMsg struct {
	Entries []*vocab.Entry
	Source  string
	Err     error
}

// Deps are the services the app hands to its views.
type Deps struct {
	Config     *config.Config
	Generator  llm.Generator
	Pronouncer *audio.Pronouncer
	Log        *logger.Logger
}

// AppModel is the main TUI model
type AppModel struct {
	deps Deps
	log  *logger.Logger

	// Layout state
	width        int
	height       int
	sidebarWidth int
	ready        bool

	// Navigation
	currentView   ViewType
	menuItems     []MenuItem
	selectedMenu  int
	sidebarActive bool

	// Sub-models (views)
	wordsView    views.WordsModel
	sourcePicker views.SourcePickerModel
	settingsView views.SettingsModel

	// Card overlay
	card     views.CardModel
	cardOpen bool

	status    string
	statusErr bool

	// Help overlay
	showHelp bool
}

// NewApp creates the TUI showing entries loaded from source.
func NewApp(deps Deps, entries []*vocab.Entry, source string) AppModel {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}

	menuItems := []MenuItem{
		{Label: "Words", View: ViewWords, Shortcut: "1"},
		{Label: "Open", View: ViewOpen, Shortcut: "2"},
		{Label: "Settings", View: ViewSettings, Shortcut: "3"},
	}

	app := AppModel{
		deps:         deps,
		log:          deps.Log.With("component", "tui"),
		sidebarWidth: 18,
		currentView:  ViewWords,
		menuItems:    menuItems,

		wordsView:    views.NewWordsModel(),
		sourcePicker: views.NewSourcePickerModel(config.GetConfigDir(), LoadEntries),
		settingsView: views.NewSettingsModel(deps.Config),
	}
	app.wordsView.SetEntries(entries, source)

	return app
}

// Init initializes the model
func (m AppModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *AppModel) switchView(v ViewType) {
	m.currentView = v
	for i, item := range m.menuItems {
		if item.View == v {
			m.selectedMenu = i
			break
		}
	}
	m.sidebarActive = false
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentWidth := m.width - m.sidebarWidth - 4
		contentHeight := m.height - 2

		m.wordsView.SetSize(contentWidth, contentHeight)
		m.sourcePicker.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)
		m.card.SetSize(m.width, m.height)
		return m, nil

	case views.OpenCardMsg:
		m.card = views.NewCardModel(views.CardDeps{
			Generator:  m.deps.Generator,
			Pronouncer: m.deps.Pronouncer,
			Timeout:    m.timeout(),
			Log:        m.deps.Log,
		}, msg.Entries, msg.Index)
		m.card.SetSize(m.width, m.height)
		m.cardOpen = true
		m.status = ""
		cmd := m.card.Start()
		return m, cmd

	case views.CardClosedMsg:
		m.cardOpen = false
		m.wordsView.Select(msg.Entry)
		return m, nil

	case views.SourcePreviewMsg:
		var cmd tea.Cmd
		m.sourcePicker, cmd = m.sourcePicker.Update(msg)
		return m, cmd

	case views.FileSelectedMsg:
		if msg.Entries != nil {
			return m.Update(EntriesLoadedMsg{Entries: msg.Entries, Source: msg.Path})
		}
		m.status = "Loading " + filepath.Base(msg.Path) + "…"
		m.statusErr = false
		return m, loadEntries(msg.Path)

	case EntriesLoadedMsg:
		if msg.Err != nil {
			m.log.Warn("loading words failed", "source", msg.Source, "error", msg.Err)
			m.status = msg.Err.Error()
			m.statusErr = true
			return m, nil
		}
		m.log.Info("words loaded", "source", msg.Source, "count", len(msg.Entries))
		m.wordsView.SetEntries(msg.Entries, msg.Source)
		m.status = fmt.Sprintf("Loaded %d words from %s", len(msg.Entries), filepath.Base(msg.Source))
		m.statusErr = false
		m.switchView(ViewWords)
		return m, nil
	}

	if m.cardOpen {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.card, cmd = m.card.Update(msg)
		return m, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		if next, cmd, handled := m.handleGlobalKey(key); handled {
			return next, cmd
		}
	}

	if m.sidebarActive {
		return m, nil
	}

	var cmd tea.Cmd
	switch m.currentView {
	case ViewWords:
		m.wordsView, cmd = m.wordsView.Update(msg)
	case ViewOpen:
		m.sourcePicker, cmd = m.sourcePicker.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	}
	return m, cmd
}

func (m AppModel) handleGlobalKey(msg tea.KeyMsg) (AppModel, tea.Cmd, bool) {
	// Help overlay - any key closes it
	if m.showHelp {
		m.showHelp = false
		return m, nil, true
	}

	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit, true
	}

	// The search box owns the keyboard while it has focus.
	if m.currentView == ViewWords && m.wordsView.Searching() && !m.sidebarActive {
		return m, nil, false
	}

	switch key {
	case "q":
		return m, tea.Quit, true
	case "?":
		m.showHelp = true
		return m, nil, true
	case "esc":
		if m.sidebarActive {
			return m, tea.Quit, true
		}
		m.sidebarActive = true
		return m, nil, true
	case "tab":
		m.sidebarActive = !m.sidebarActive
		return m, nil, true
	}

	for _, item := range m.menuItems {
		if key == item.Shortcut {
			m.switchView(item.View)
			return m, nil, true
		}
	}

	if m.sidebarActive {
		switch key {
		case "j", "down":
			if m.selectedMenu < len(m.menuItems)-1 {
				m.selectedMenu++
			}
			return m, nil, true
		case "k", "up":
			if m.selectedMenu > 0 {
				m.selectedMenu--
			}
			return m, nil, true
		case "enter", "l", "right":
			m.switchView(m.menuItems[m.selectedMenu].View)
			return m, nil, true
		}
	}

	return m, nil, false
}

func (m AppModel) timeout() time.Duration {
	if m.deps.Config != nil {
		return m.deps.Config.Timeout
	}
	return 0
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	// The card is drawn from the top-left corner so mouse rows map onto it.
	if m.cardOpen {
		return m.card.View()
	}

	sidebar := m.renderSidebar()

	var content string
	switch m.currentView {
	case ViewWords:
		content = m.wordsView.View()
	case ViewOpen:
		content = m.sourcePicker.View()
	case ViewSettings:
		content = m.settingsView.View()
	}

	if m.status != "" {
		style := StatusStyle
		if m.statusErr {
			style = StatusErrorStyle
		}
		content += "\n\n" + style.Render(m.status)
	}

	contentWidth := m.width - m.sidebarWidth - 4
	mainContent := ContentStyle.
		Width(contentWidth).
		Height(m.height - 2).
		Render(content)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, mainContent)
}

// renderSidebar renders the sidebar navigation
func (m AppModel) renderSidebar() string {
	var items []string

	items = append(items, SidebarTitleStyle.Render("  memcard  "))
	items = append(items, "")

	for i, item := range m.menuItems {
		label := item.Shortcut + ". " + item.Label

		var style lipgloss.Style
		if i == m.selectedMenu {
			if m.sidebarActive {
				style = SidebarItemActiveStyle
			} else {
				style = SidebarItemStyle.Bold(true).Foreground(ColorSecondary)
			}
		} else {
			style = SidebarItemStyle
		}

		items = append(items, style.Render(label))
	}

	usedHeight := len(items) + 4
	if m.height > usedHeight {
		for i := 0; i < m.height-usedHeight-2; i++ {
			items = append(items, "")
		}
	}

	items = append(items, SidebarHelpStyle.Render("? Help  q Quit"))

	content := lipgloss.JoinVertical(lipgloss.Left, items...)

	return SidebarStyle.
		Width(m.sidebarWidth).
		Height(m.height - 2).
		Render(content)
}

// loadEntries reads a word list or Anki deck in the background.
func loadEntries(path string) tea.Cmd {
	return func() tea.Msg {
		entries, err := LoadEntries(path)
		return EntriesLoadedMsg{Entries: entries, Source: path, Err: err}
	}
}

// LoadEntries reads vocabulary from a YAML word list or an .apkg deck.
func LoadEntries(path string) ([]*vocab.Entry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".apkg":
		pkg, err := anki.OpenPackage(path)
		if err != nil {
			return nil, err
		}
		defer pkg.Close()
		return pkg.Entries(), nil
	case ".yaml", ".yml":
		return vocab.LoadWordList(path)
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .yaml or .apkg)", filepath.Ext(path))
	}
}

// renderHelp renders the help overlay
func (m AppModel) renderHelp() string {
	row := func(k, desc string) string {
		return HelpKeyStyle.Render(k) + HelpDescStyle.Render(desc) + "\n"
	}

	helpText := HelpTitleStyle.Render("memcard - Memory Cards") + "\n\n"

	helpText += HelpSectionStyle.Render("Global Keys") + "\n"
	helpText += row("1-3", "Switch views")
	helpText += row("tab", "Toggle sidebar focus")
	helpText += row("?", "Show this help")
	helpText += row("q", "Quit")

	helpText += HelpSectionStyle.Render("Words") + "\n"
	helpText += row("j/k ↑/↓", "Select word")
	helpText += row("enter", "Open memory card")
	helpText += row("/", "Search")
	helpText += row("c", "Clear search")

	helpText += HelpSectionStyle.Render("Memory Card") + "\n"
	helpText += row("space", "Flip card")
	helpText += row("p", "Pronounce word")
	helpText += row("y", "Copy card text")
	helpText += row("n/N", "Next/previous word")
	helpText += row("esc", "Close card")

	helpText += HelpSectionStyle.Render("Open") + "\n"
	helpText += row("enter", "Open file/enter dir")
	helpText += row("backspace", "Go to parent dir")
	helpText += row("~", "Go to home dir")

	helpText += "\n" + lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true).
		Render("Press any key to close")

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, HelpBoxStyle.Render(helpText))
}
