// Package anki reads vocabulary from Anki .apkg decks and writes memory
// cards back into them.
package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Package represents an opened Anki .apkg file.
type Package struct {
	path    string
	tempDir string
	db      *sql.DB
	Models  map[int64]*Model
	Decks   map[int64]*Deck
	Notes   []*Note
	Cards   []*Card
}

// Model represents an Anki note type. Keys we don't touch are kept in raw
// so they survive a save.
type Model struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Fields []Field `json:"flds"`

	raw map[string]json.RawMessage
}

// Field represents a field in a note type.
type Field struct {
	Name   string `json:"name"`
	Ord    int    `json:"ord"`
	Sticky bool   `json:"sticky"`
	RTL    bool   `json:"rtl"`
	Font   string `json:"font"`
	Size   int    `json:"size"`
}

// Deck represents an Anki deck.
type Deck struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Note represents an Anki note.
type Note struct {
	ID      int64
	GUID    string
	ModelID int64
	Mod     int64
	Tags    string
	Fields  []string // Parsed from flds
	RawFlds string   // Original flds string
	SFLD    string   // Sort field
	CSum    int64
}

// Card links a note to a deck.
type Card struct {
	ID     int64
	NoteID int64
	DeckID int64
}

// OpenPackage opens an Anki .apkg file for reading.
func OpenPackage(path string) (*Package, error) {
	pkg := &Package{
		path:   path,
		Models: make(map[int64]*Model),
		Decks:  make(map[int64]*Deck),
	}

	tempDir, err := os.MkdirTemp("", "memcard-anki-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	pkg.tempDir = tempDir

	// .apkg is a zip file
	if err := pkg.extract(); err != nil {
		pkg.Close()
		return nil, err
	}

	dbPath := filepath.Join(tempDir, "collection.anki21")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		dbPath = filepath.Join(tempDir, "collection.anki2")
	}
	if _, err := os.Stat(dbPath); err != nil {
		pkg.Close()
		return nil, fmt.Errorf("no collection database in %s", path)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		pkg.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	pkg.db = db

	for _, load := range []func() error{pkg.loadCollection, pkg.loadNotes, pkg.loadCards} {
		if err := load(); err != nil {
			pkg.Close()
			return nil, err
		}
	}

	return pkg, nil
}

// extract unzips the .apkg file.
func (p *Package) extract() error {
	r, err := zip.OpenReader(p.path)
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		fpath := filepath.Join(p.tempDir, f.Name)

		// Prevent zip slip
		if !strings.HasPrefix(fpath, filepath.Clean(p.tempDir)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal file path: %s", fpath)
		}

		if f.FileInfo().IsDir() {
			os.MkdirAll(fpath, 0755)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(fpath), 0755); err != nil {
			return err
		}
		if err := extractFile(f, fpath); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}

	return nil
}

func extractFile(f *zip.File, dst string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// loadCollection loads models and decks from the col table.
func (p *Package) loadCollection() error {
	var models, decks string

	row := p.db.QueryRow("SELECT models, decks FROM col")
	if err := row.Scan(&models, &decks); err != nil {
		return fmt.Errorf("reading collection: %w", err)
	}

	var modelsMap map[string]json.RawMessage
	if err := json.Unmarshal([]byte(models), &modelsMap); err != nil {
		return fmt.Errorf("parsing models: %w", err)
	}
	for _, modelJSON := range modelsMap {
		var model Model
		if err := json.Unmarshal(modelJSON, &model); err != nil {
			continue // Skip malformed models
		}
		if err := json.Unmarshal(modelJSON, &model.raw); err != nil {
			continue
		}
		p.Models[model.ID] = &model
	}

	var decksMap map[string]json.RawMessage
	if err := json.Unmarshal([]byte(decks), &decksMap); err != nil {
		return fmt.Errorf("parsing decks: %w", err)
	}
	for _, deckJSON := range decksMap {
		var deck Deck
		if err := json.Unmarshal(deckJSON, &deck); err != nil {
			continue // Skip malformed decks
		}
		p.Decks[deck.ID] = &deck
	}

	return nil
}

// loadNotes loads all notes from the database.
func (p *Package) loadNotes() error {
	rows, err := p.db.Query(`SELECT id, guid, mid, mod, tags, flds, sfld, csum FROM notes ORDER BY id`)
	if err != nil {
		return fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var note Note
		if err := rows.Scan(
			&note.ID, &note.GUID, &note.ModelID, &note.Mod,
			&note.Tags, &note.RawFlds, &note.SFLD, &note.CSum,
		); err != nil {
			return fmt.Errorf("scanning note: %w", err)
		}

		// Fields are separated by ASCII 31
		note.Fields = strings.Split(note.RawFlds, "\x1f")
		p.Notes = append(p.Notes, &note)
	}

	return rows.Err()
}

// loadCards loads the note/deck links.
func (p *Package) loadCards() error {
	rows, err := p.db.Query(`SELECT id, nid, did FROM cards ORDER BY id`)
	if err != nil {
		return fmt.Errorf("querying cards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var card Card
		if err := rows.Scan(&card.ID, &card.NoteID, &card.DeckID); err != nil {
			return fmt.Errorf("scanning card: %w", err)
		}
		p.Cards = append(p.Cards, &card)
	}

	return rows.Err()
}

// GetModel returns the model for a note.
func (p *Package) GetModel(note *Note) *Model {
	return p.Models[note.ModelID]
}

// DeckName returns the name of the first deck holding a card of note.
func (p *Package) DeckName(note *Note) string {
	for _, c := range p.Cards {
		if c.NoteID == note.ID {
			if d := p.Decks[c.DeckID]; d != nil {
				return d.Name
			}
		}
	}
	return ""
}

// GetFieldValue returns a field value from a note by field name.
func (p *Package) GetFieldValue(note *Note, fieldName string) string {
	model := p.GetModel(note)
	if model == nil {
		return ""
	}
	for _, field := range model.Fields {
		if strings.EqualFold(field.Name, fieldName) && field.Ord < len(note.Fields) {
			return note.Fields[field.Ord]
		}
	}
	return ""
}

// Close cleans up resources.
func (p *Package) Close() error {
	if p.db != nil {
		p.db.Close()
	}
	if p.tempDir != "" {
		os.RemoveAll(p.tempDir)
	}
	return nil
}

// Summary returns a summary of the package contents.
func (p *Package) Summary() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Anki Package: %s\n", p.path)
	fmt.Fprintf(&sb, "  Decks: %d\n", len(p.Decks))
	for _, deck := range p.Decks {
		fmt.Fprintf(&sb, "    - %s\n", deck.Name)
	}
	fmt.Fprintf(&sb, "  Note types: %d\n", len(p.Models))
	for _, model := range p.Models {
		fmt.Fprintf(&sb, "    - %s (%d fields)\n", model.Name, len(model.Fields))
	}
	fmt.Fprintf(&sb, "  Notes: %d\n", len(p.Notes))
	fmt.Fprintf(&sb, "  Vocabulary entries: %d\n", len(p.Entries()))

	return sb.String()
}
