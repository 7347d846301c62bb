package views

import (
	"strings"
	"testing"

	"github.com/f3rmion/memcard/internal/config"
	"github.com/f3rmion/memcard/internal/vocab"
)

func TestWordsFilterAndOpen(t *testing.T) {
	entries := []*vocab.Entry{
		{Word: "lucid", Meaning: "clear"},
		{Word: "terse", Meaning: "brief"},
		{Word: "brisk", Meaning: "quick"},
	}
	m := NewWordsModel()
	m.SetSize(80, 30)
	m.SetEntries(entries, "words.yaml")

	m, _ = m.Update(key("/"))
	if !m.Searching() {
		t.Fatal("expected search mode")
	}
	for _, r := range "bri" {
		m, _ = m.Update(key(string(r)))
	}
	m, _ = m.Update(key("enter"))

	// "bri" matches brisk by word and terse by meaning.
	if len(m.filtered) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(m.filtered))
	}
	if !strings.Contains(m.View(), `Filter: "bri"`) {
		t.Errorf("view missing filter:\n%s", m.View())
	}

	m, _ = m.Update(key("j"))
	_, cmd := m.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected an open card command")
	}
	open, ok := cmd().(OpenCardMsg)
	if !ok || open.Entries[open.Index] != entries[2] {
		t.Errorf("unexpected open message %#v", open)
	}

	m, _ = m.Update(key("c"))
	if len(m.filtered) != 3 {
		t.Errorf("clearing should show all words, got %d", len(m.filtered))
	}
}

func TestWordsEmptyView(t *testing.T) {
	m := NewWordsModel()
	if !strings.Contains(m.View(), "No Saved Words") {
		t.Errorf("unexpected empty view:\n%s", m.View())
	}
	if _, cmd := m.Update(key("enter")); cmd != nil {
		t.Error("enter on an empty list should do nothing")
	}
}

func TestSettingsMasksKeys(t *testing.T) {
	cfg := &config.Config{Provider: "openai", OpenAI: config.KeyConfig{APIKey: "sk-1234567890abcd"}}
	m := NewSettingsModel(cfg)
	m.SetSize(100, 40)

	view := m.View()
	if strings.Contains(view, "sk-1234567890abcd") {
		t.Error("settings view leaked the API key")
	}
	if !strings.Contains(view, "abcd") || !strings.Contains(view, "openai") {
		t.Errorf("unexpected settings view:\n%s", view)
	}

	m, _ = m.Update(key("l"))
	if !strings.Contains(m.View(), "Backend") {
		t.Errorf("expected the cache tab:\n%s", m.View())
	}
}
