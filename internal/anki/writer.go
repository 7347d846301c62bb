package anki

import (
	"archive/zip"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/f3rmion/memcard/internal/vocab"
)

// Fields added to augmented note types.
const (
	FieldPhonetic     = "MC_Phonetic"
	FieldPartOfSpeech = "MC_PartOfSpeech"
	FieldEtymology    = "MC_Etymology"
	FieldExample      = "MC_Example"
)

// CardFields are the fields memcard adds to augmented notes.
var CardFields = []string{FieldPhonetic, FieldPartOfSpeech, FieldEtymology, FieldExample}

// AddCardFields adds the memory-card fields to a model if they don't exist.
func (p *Package) AddCardFields(modelID int64) error {
	model, ok := p.Models[modelID]
	if !ok {
		return fmt.Errorf("model %d not found", modelID)
	}

	existing := make(map[string]bool)
	for _, f := range model.Fields {
		existing[f.Name] = true
	}

	nextOrd := len(model.Fields)
	for _, name := range CardFields {
		if existing[name] {
			continue
		}
		model.Fields = append(model.Fields, Field{
			Name: name,
			Ord:  nextOrd,
			Font: "Arial",
			Size: 20,
		})
		nextOrd++
	}
	return nil
}

// SetNoteCard writes a generated card into the note's memory-card fields.
// Absent card fields leave the note field empty.
func (p *Package) SetNoteCard(note *Note, card *vocab.MemoryCard) error {
	model := p.GetModel(note)
	if model == nil {
		return fmt.Errorf("model not found for note %d", note.ID)
	}

	fieldIndex := make(map[string]int)
	for _, f := range model.Fields {
		fieldIndex[f.Name] = f.Ord
	}
	for len(note.Fields) < len(model.Fields) {
		note.Fields = append(note.Fields, "")
	}

	values := map[string]string{
		FieldPhonetic:     card.Phonetic,
		FieldPartOfSpeech: card.PartOfSpeech,
		FieldEtymology:    card.Etymology,
		FieldExample:      card.ExampleSentence,
	}
	for name, v := range values {
		idx, ok := fieldIndex[name]
		if !ok {
			return fmt.Errorf("note type %q has no %s field", model.Name, name)
		}
		note.Fields[idx] = html.EscapeString(strings.TrimSpace(v))
	}

	note.RawFlds = strings.Join(note.Fields, "\x1f")
	note.Mod = time.Now().Unix()
	return nil
}

// SaveAs writes the modified package to a new .apkg file.
func (p *Package) SaveAs(outputPath string) error {
	if err := p.updateDatabase(); err != nil {
		return fmt.Errorf("updating database: %w", err)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer outFile.Close()

	zipWriter := zip.NewWriter(outFile)
	err = filepath.Walk(p.tempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(p.tempDir, path)
		if err != nil {
			return err
		}
		writer, err := zipWriter.Create(filepath.ToSlash(relPath))
		if err != nil {
			return err
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = io.Copy(writer, file)
		return err
	})
	if err != nil {
		return fmt.Errorf("creating zip: %w", err)
	}
	if err := zipWriter.Close(); err != nil {
		return fmt.Errorf("finishing zip: %w", err)
	}
	return outFile.Close()
}

func (p *Package) updateDatabase() error {
	if err := p.updateModels(); err != nil {
		return err
	}
	return p.updateNotes()
}

// updateModels rewrites the models JSON in the col table, replacing only
// the field list of each model.
func (p *Package) updateModels() error {
	modelsMap := make(map[string]map[string]json.RawMessage)
	for id, model := range p.Models {
		raw := make(map[string]json.RawMessage, len(model.raw)+1)
		for k, v := range model.raw {
			raw[k] = v
		}
		flds, err := json.Marshal(model.Fields)
		if err != nil {
			return fmt.Errorf("marshaling fields: %w", err)
		}
		raw["flds"] = flds
		modelsMap[strconv.FormatInt(id, 10)] = raw
	}

	modelsJSON, err := json.Marshal(modelsMap)
	if err != nil {
		return fmt.Errorf("marshaling models: %w", err)
	}
	if _, err := p.db.Exec("UPDATE col SET models = ?", string(modelsJSON)); err != nil {
		return fmt.Errorf("updating models: %w", err)
	}
	return nil
}

// updateNotes writes every note back with a fresh checksum.
func (p *Package) updateNotes() error {
	for _, note := range p.Notes {
		note.CSum = fieldChecksum(note.SFLD)

		_, err := p.db.Exec(`
			UPDATE notes SET
				mod = ?,
				flds = ?,
				sfld = ?,
				csum = ?
			WHERE id = ?
		`, note.Mod, note.RawFlds, note.SFLD, note.CSum, note.ID)
		if err != nil {
			return fmt.Errorf("updating note %d: %w", note.ID, err)
		}
	}
	return nil
}

// fieldChecksum is Anki's csum: the first 8 hex digits of the SHA1 of the
// stripped sort field.
func fieldChecksum(sfld string) int64 {
	sum := sha1.Sum([]byte(cleanField(sfld)))
	csum, _ := strconv.ParseInt(hex.EncodeToString(sum[:])[:8], 16, 64)
	return csum
}
