package vocab

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// WordList is the on-disk list of saved words.
type WordList struct {
	Words []*Entry `yaml:"words"`
}

// LoadWordList reads a YAML word list. Entries without a word or meaning
// are skipped since no card can be generated for them.
func LoadWordList(path string) ([]*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading word list: %w", err)
	}

	var list WordList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing word list: %w", err)
	}

	entries := make([]*Entry, 0, len(list.Words))
	for _, e := range list.Words {
		if e == nil {
			continue
		}
		e.Word = strings.TrimSpace(e.Word)
		e.Meaning = strings.TrimSpace(e.Meaning)
		e.SourceSentence = strings.TrimSpace(e.SourceSentence)
		if e.Word == "" || e.Meaning == "" {
			continue
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// WriteWordList writes entries as a YAML word list.
func WriteWordList(path string, entries []*Entry) error {
	out, err := yaml.Marshal(&WordList{Words: entries})
	if err != nil {
		return fmt.Errorf("marshaling word list: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing word list: %w", err)
	}

	return nil
}
