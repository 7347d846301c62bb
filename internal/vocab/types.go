// Package vocab provides the core types for saved words and memory cards.
package vocab

import (
	"fmt"
	"strings"
)

// Entry is a saved word together with the sentence it was met in.
// An entry is never mutated once a card session has started for it;
// sessions compare entries by pointer.
type Entry struct {
	Word           string `yaml:"word" json:"word"`
	Meaning        string `yaml:"meaning" json:"meaning"`
	SourceSentence string `yaml:"sentence,omitempty" json:"source_sentence,omitempty"`
	// Level is a free-form tag such as "IELTS", "CET-4" or "daily".
	Level          string `yaml:"level,omitempty" json:"level,omitempty"`
	// SourceVideoID records where the word was saved from.
	SourceVideoID  string `yaml:"video_id,omitempty" json:"source_video_id,omitempty"`
}

// MemoryCard is the generated mnemonic artifact for one entry.
// Word and Meaning are always set; every other field may be empty,
// and an empty field means the generator had nothing to say.
type MemoryCard struct {
	Word            string `json:"word"`
	Phonetic        string `json:"phonetic,omitempty"`
	PartOfSpeech    string `json:"part_of_speech,omitempty"`
	Meaning         string `json:"meaning"`
	Etymology       string `json:"etymology,omitempty"`
	ExampleSentence string `json:"example_sentence,omitempty"`
}

// present reports whether an optional field carries content.
func present(s string) bool {
	return strings.TrimSpace(s) != ""
}

// HasPhonetic reports whether the card has a phonetic transcription.
func (c MemoryCard) HasPhonetic() bool { return present(c.Phonetic) }

// HasPartOfSpeech reports whether the card has a part-of-speech tag.
func (c MemoryCard) HasPartOfSpeech() bool { return present(c.PartOfSpeech) }

// HasEtymology reports whether the card has an etymology note.
func (c MemoryCard) HasEtymology() bool { return present(c.Etymology) }

// HasExample reports whether the card has an example sentence.
func (c MemoryCard) HasExample() bool { return present(c.ExampleSentence) }

// Text renders the card as plain text, skipping absent fields.
func (c MemoryCard) Text() string {
	var sb strings.Builder

	sb.WriteString(c.Word)
	if c.HasPhonetic() {
		sb.WriteString(" " + strings.TrimSpace(c.Phonetic))
	}
	sb.WriteString("\n")

	if c.HasPartOfSpeech() {
		sb.WriteString(fmt.Sprintf("(%s) ", strings.TrimSpace(c.PartOfSpeech)))
	}
	sb.WriteString(c.Meaning)
	sb.WriteString("\n")

	if c.HasEtymology() {
		sb.WriteString("\nEtymology: " + strings.TrimSpace(c.Etymology) + "\n")
	}
	if c.HasExample() {
		sb.WriteString("\nExample: " + strings.TrimSpace(c.ExampleSentence) + "\n")
	}

	return sb.String()
}
