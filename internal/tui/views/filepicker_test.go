package views

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/f3rmion/memcard/internal/vocab"
)

type stubLoader struct {
	calls map[string]int
}

func (l *stubLoader) load(path string) ([]*vocab.Entry, error) {
	l.calls[filepath.Base(path)]++
	if strings.HasSuffix(path, ".apkg") {
		return nil, errors.New("opening package: zip: not a valid zip file")
	}
	return []*vocab.Entry{
		{Word: "lucid", Meaning: "clear"},
		{Word: "terse", Meaning: "brief"},
	}, nil
}

func pickerDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"words.yaml", "deck.apkg", "notes.txt", ".hidden.yaml"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "decks"), 0755); err != nil {
		t.Fatal(err)
	}
	return dir
}

// pick sends a key and applies any preview the key started.
func pick(m SourcePickerModel, k string) (SourcePickerModel, tea.Cmd) {
	m, cmd := m.Update(key(k))
	if cmd == nil {
		return m, nil
	}
	if msg, ok := cmd().(SourcePreviewMsg); ok {
		m, _ = m.Update(msg)
		return m, nil
	}
	return m, cmd
}

func TestSourcePickerListsWordSources(t *testing.T) {
	dir := pickerDir(t)
	m := NewSourcePickerModel(dir, nil)

	var names []string
	for _, it := range m.items {
		names = append(names, it.name)
	}
	if got := strings.Join(names, ","); got != "..,decks,deck.apkg,words.yaml" {
		t.Errorf("unexpected entries %s", got)
	}

	m.SetSize(80, 30)
	view := m.View()
	if !strings.Contains(view, "decks/") || !strings.Contains(view, "deck.apkg  (anki deck)") {
		t.Errorf("unexpected listing:\n%s", view)
	}
}

func TestSourcePickerPreviewsHighlightedFile(t *testing.T) {
	dir := pickerDir(t)
	loader := &stubLoader{calls: map[string]int{}}
	m := NewSourcePickerModel(dir, loader.load)
	m.SetSize(80, 40)

	m, _ = pick(m, "j") // decks
	m, _ = pick(m, "j") // deck.apkg
	if !strings.Contains(m.View(), "Not a word list") {
		t.Errorf("expected the deck to be rejected:\n%s", m.View())
	}
	if _, cmd := m.Update(key("enter")); cmd != nil {
		t.Error("a file that failed to read should not open")
	}

	m, _ = pick(m, "j") // words.yaml
	view := m.View()
	if !strings.Contains(view, "2 words") || !strings.Contains(view, "lucid · clear") {
		t.Errorf("expected a preview of words.yaml:\n%s", view)
	}

	m, _ = pick(m, "k")
	m, _ = pick(m, "j")
	if loader.calls["words.yaml"] != 1 || loader.calls["deck.apkg"] != 1 {
		t.Errorf("each file should be read once, got %v", loader.calls)
	}

	_, cmd := m.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected a selection")
	}
	msg, ok := cmd().(FileSelectedMsg)
	if !ok || msg.Path != filepath.Join(dir, "words.yaml") || len(msg.Entries) != 2 {
		t.Errorf("unexpected selection %#v", msg)
	}
}

func TestSourcePickerEntersDirectories(t *testing.T) {
	dir := pickerDir(t)
	m := NewSourcePickerModel(dir, nil)

	m, _ = pick(m, "j")
	m, _ = pick(m, "enter")
	if m.Dir() != filepath.Join(dir, "decks") {
		t.Fatalf("expected to enter decks, in %s", m.Dir())
	}
	if !strings.Contains(m.View(), "no word lists or decks here") {
		t.Errorf("unexpected empty listing:\n%s", m.View())
	}

	m, _ = pick(m, "backspace")
	if m.Dir() != dir {
		t.Errorf("expected to return to %s, in %s", dir, m.Dir())
	}
}
