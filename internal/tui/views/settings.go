package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f3rmion/memcard/internal/config"
)

// Settings view styles
var (
	settingsPathStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Italic(true).
				MarginBottom(1)

	settingsTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888")).
				Padding(0, 2)

	settingsTabActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffe66d")).
				Background(lipgloss.Color("#2d3436")).
				Padding(0, 2)

	settingsLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#a8dadc")).
				Width(16)

	settingsRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f1faee"))

	settingsMutedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666"))

	settingsHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				MarginTop(1)
)

type setting struct {
	label string
	value string
}

type settingsTab struct {
	name string
	rows func(*config.Config) []setting
}

var settingsTabs = []settingsTab{
	{"Generation", generationSettings},
	{"Cache", cacheSettings},
	{"Audio", audioSettings},
	{"Server", serverSettings},
	{"Logging", logSettings},
}

// SettingsModel shows the active configuration.
type SettingsModel struct {
	config    *config.Config
	configDir string

	tab     int
	scrollY int

	width  int
	height int
}

// NewSettingsModel creates a new settings model.
func NewSettingsModel(cfg *config.Config) SettingsModel {
	return SettingsModel{
		config:    cfg,
		configDir: config.GetConfigDir(),
	}
}

// SetSize updates the view dimensions.
func (m *SettingsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages.
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "right", "l":
			m.tab = (m.tab + 1) % len(settingsTabs)
			m.scrollY = 0
		case "left", "h":
			m.tab--
			if m.tab < 0 {
				m.tab = len(settingsTabs) - 1
			}
			m.scrollY = 0
		case "j", "down":
			m.scrollY++
		case "k", "up":
			if m.scrollY > 0 {
				m.scrollY--
			}
		case "g":
			m.scrollY = 0
		}
	}
	return m, nil
}

// View renders the settings view.
func (m SettingsModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("memcard Configuration"))
	b.WriteString("\n")
	b.WriteString(settingsPathStyle.Render("Config: " + m.configDir))
	b.WriteString("\n\n")

	var tabViews []string
	for i, t := range settingsTabs {
		style := settingsTabStyle
		if i == m.tab {
			style = settingsTabActiveStyle
		}
		tabViews = append(tabViews, style.Render(t.name))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabViews...))
	b.WriteString("\n")
	b.WriteString(divider(m.width))
	b.WriteString("\n\n")

	if m.config == nil {
		b.WriteString(settingsMutedStyle.Render("No configuration loaded"))
		b.WriteString("\n")
		b.WriteString(settingsMutedStyle.Render("Run 'memcard init' to create config files"))
	} else {
		b.WriteString(m.renderRows(settingsTabs[m.tab].rows(m.config)))
	}

	b.WriteString("\n")
	b.WriteString(settingsHelpStyle.Render("←/→: switch tabs • j/k: scroll"))

	return b.String()
}

func (m SettingsModel) renderRows(rows []setting) string {
	var b strings.Builder

	visibleHeight := m.height - 12
	if visibleHeight < 5 {
		visibleHeight = 5
	}
	start := m.scrollY
	if start > len(rows) {
		start = len(rows)
	}
	end := start + visibleHeight
	if end > len(rows) {
		end = len(rows)
	}

	for _, r := range rows[start:end] {
		value := r.value
		if value == "" {
			value = settingsMutedStyle.Render("(not set)")
		} else {
			value = settingsRowStyle.Render(truncate(value, m.width-22))
		}
		b.WriteString(settingsLabelStyle.Render(r.label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	if len(rows) > visibleHeight {
		b.WriteString("\n")
		b.WriteString(settingsMutedStyle.Render(fmt.Sprintf("Showing %d-%d of %d", start+1, end, len(rows))))
	}

	return b.String()
}

// maskKey hides all but the last four characters of a secret.
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return strings.Repeat("•", len(key))
	}
	return strings.Repeat("•", 8) + key[len(key)-4:]
}

func generationSettings(c *config.Config) []setting {
	model := c.Model
	if model == "" {
		model = "(provider default)"
	}
	return []setting{
		{"Provider", c.Provider},
		{"Model", model},
		{"API key", maskKey(c.APIKey())},
		{"Remote URL", c.Remote.URL},
		{"Timeout", c.Timeout.String()},
		{"Breaker", fmt.Sprintf("opens after %d failures for %s", c.Breaker.MaxFailures, c.Breaker.OpenTimeout)},
		{"Word list", c.Words},
	}
}

func cacheSettings(c *config.Config) []setting {
	rows := []setting{{"Backend", c.Cache.Backend}}
	switch c.Cache.Backend {
	case "sqlite":
		rows = append(rows, setting{"Path", c.Cache.Path})
	case "redis":
		rows = append(rows, setting{"Redis", c.Cache.RedisAddr})
	}
	return append(rows, setting{"TTL", c.Cache.TTL.String()})
}

func audioSettings(c *config.Config) []setting {
	rows := []setting{{"Source", c.Audio.Source}}
	switch c.Audio.Source {
	case "openai":
		rows = append(rows, setting{"Model", c.Audio.Model}, setting{"Voice", c.Audio.Voice})
	case "espeak":
		rows = append(rows, setting{"Voice", c.Audio.Voice})
	case "url":
		rows = append(rows, setting{"URL", c.Audio.URLTemplate})
	}
	return append(rows, setting{"Cache dir", c.Audio.CacheDir})
}

func serverSettings(c *config.Config) []setting {
	return []setting{{"Address", c.Server.Addr}}
}

func logSettings(c *config.Config) []setting {
	return []setting{
		{"Mode", c.Log.Mode},
		{"Level", c.Log.Level},
		{"File", c.Log.File},
	}
}
