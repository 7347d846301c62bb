// Package prompt builds memory-card prompts and parses the model replies.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Generator renders memory-card prompts from a text/template.
type Generator struct {
	template *template.Template
	language string
}

// CardData holds everything the prompt template can reference.
type CardData struct {
	Word           string
	Meaning        string
	SourceSentence string
	Language       string // Language for the etymology and notes
}

// NewGenerator creates a prompt generator using the default template.
func NewGenerator() *Generator {
	return &Generator{
		template: template.Must(template.New("card").Parse(defaultTemplate)),
		language: "English",
	}
}

// SetLanguage sets the language explanations are written in.
func (g *Generator) SetLanguage(lang string) {
	if lang = strings.TrimSpace(lang); lang != "" {
		g.language = lang
	}
}

// SetTemplate replaces the prompt template.
func (g *Generator) SetTemplate(tmpl string) error {
	t, err := template.New("card").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}
	g.template = t
	return nil
}

// Generate renders the prompt for one vocabulary entry.
func (g *Generator) Generate(data CardData) (string, error) {
	if data.Language == "" {
		data.Language = g.language
	}

	var buf bytes.Buffer
	if err := g.template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Build renders the default prompt. It is what the providers call.
func Build(word, meaning, sentence string) string {
	p, err := NewGenerator().Generate(CardData{Word: word, Meaning: meaning, SourceSentence: sentence})
	if err != nil {
		// The default template only references CardData fields.
		panic(err)
	}
	return p
}

const defaultTemplate = `You are helping a language learner remember a vocabulary word.

Word: {{ .Word }}
Meaning: {{ .Meaning }}
{{- if .SourceSentence }}
The learner met it in this sentence: "{{ .SourceSentence }}"
{{- end }}

Create a memory card for this word. Write the etymology and notes in {{ .Language }}.
Return ONLY a JSON object with these keys:
{
  "word": "the word",
  "phonetic": "IPA transcription, e.g. /ˈhɑːnɪs/",
  "part_of_speech": "abbreviated part of speech, e.g. n., v., adj.",
  "meaning": "a short definition",
  "etymology": "roots and a memorable story linking them to the meaning",
  "example_sentence": "a short everyday example sentence"
}
Leave out any key you are not sure about. Do not wrap the JSON in markdown.`
