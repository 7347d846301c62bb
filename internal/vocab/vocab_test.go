package vocab

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadWordList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.yaml")
	content := `words:
  - word: harness
    meaning: "(v.) to make use of"
    sentence: "We harness the wind to make power."
    level: IELTS
  - word: "  leverage "
    meaning: to use to maximum advantage
  - word: ""
    meaning: dropped
  - word: orphan
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	entries, err := LoadWordList(path)
	if err != nil {
		t.Fatalf("LoadWordList: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].SourceSentence != "We harness the wind to make power." {
		t.Errorf("sentence not loaded: %q", entries[0].SourceSentence)
	}
	if entries[0].Level != "IELTS" {
		t.Errorf("level not loaded: %q", entries[0].Level)
	}
	if entries[1].Word != "leverage" {
		t.Errorf("word not trimmed: %q", entries[1].Word)
	}
}

func TestWriteWordListRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.yaml")
	in := []*Entry{{Word: "ubiquitous", Meaning: "found everywhere", SourceSentence: "Phones are ubiquitous."}}

	if err := WriteWordList(path, in); err != nil {
		t.Fatalf("WriteWordList: %v", err)
	}
	out, err := LoadWordList(path)
	if err != nil {
		t.Fatalf("LoadWordList: %v", err)
	}
	if len(out) != 1 || *out[0] != *in[0] {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestMemoryCardTextSkipsAbsentFields(t *testing.T) {
	card := MemoryCard{Word: "serendipity", Meaning: "a happy accident", Etymology: "   "}

	text := card.Text()
	if strings.Contains(text, "Etymology") {
		t.Errorf("blank etymology should be omitted: %q", text)
	}
	if strings.Contains(text, "Example") {
		t.Errorf("absent example should be omitted: %q", text)
	}
	if strings.Contains(text, "()") {
		t.Errorf("absent part of speech should be omitted: %q", text)
	}

	card.PartOfSpeech = "n."
	card.ExampleSentence = "Finding it was pure serendipity."
	text = card.Text()
	if !strings.Contains(text, "(n.) a happy accident") {
		t.Errorf("expected part of speech before meaning: %q", text)
	}
	if !strings.Contains(text, "Example: Finding it was pure serendipity.") {
		t.Errorf("expected example: %q", text)
	}
}
