package anki

import (
	"html"
	"regexp"
	"strings"

	"github.com/f3rmion/memcard/internal/vocab"
)

// Field names tried, in order, for each part of a vocabulary entry.
var (
	wordFieldNames     = []string{"Word", "Vocabulary", "Expression", "Term", "Front"}
	meaningFieldNames  = []string{"Meaning", "Definition", "Translation", "Gloss", "Back"}
	sentenceFieldNames = []string{"Sentence", "Example", "Context", "Source Sentence"}
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	soundPattern = regexp.MustCompile(`\[sound:[^\]]*\]`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// Entries maps notes to vocabulary entries. Notes without a word or meaning
// are skipped; the deck name becomes the entry level.
func (p *Package) Entries() []*vocab.Entry {
	var entries []*vocab.Entry
	for _, note := range p.Notes {
		if e := p.entryFor(note); e != nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func (p *Package) entryFor(note *Note) *vocab.Entry {
	word := p.firstField(note, wordFieldNames)
	meaning := p.firstField(note, meaningFieldNames)

	// Unknown note types: use the first two fields
	if word == "" && len(note.Fields) > 0 {
		word = cleanField(note.Fields[0])
	}
	if meaning == "" && len(note.Fields) > 1 {
		meaning = cleanField(note.Fields[1])
	}
	if word == "" || meaning == "" {
		return nil
	}

	return &vocab.Entry{
		Word:           word,
		Meaning:        meaning,
		SourceSentence: p.firstField(note, sentenceFieldNames),
		Level:          p.DeckName(note),
	}
}

func (p *Package) firstField(note *Note, names []string) string {
	for _, name := range names {
		if v := cleanField(p.GetFieldValue(note, name)); v != "" {
			return v
		}
	}
	return ""
}

// cleanField strips markup, sound tags and entities from a field value.
func cleanField(s string) string {
	s = strings.NewReplacer("<br>", " ", "<br/>", " ", "<br />", " ", "&nbsp;", " ").Replace(s)
	s = soundPattern.ReplaceAllString(s, "")
	s = tagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

// NoteForEntry finds the note an entry was read from.
func (p *Package) NoteForEntry(e *vocab.Entry) *Note {
	for _, note := range p.Notes {
		if ne := p.entryFor(note); ne != nil && ne.Word == e.Word && ne.Meaning == e.Meaning {
			return note
		}
	}
	return nil
}
