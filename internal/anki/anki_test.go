package anki

import (
	"archive/zip"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/f3rmion/memcard/internal/vocab"
)

const testModels = `{"1001":{"id":1001,"name":"Vocab","type":0,"css":".card{}",
"tmpls":[{"name":"Card 1","qfmt":"{{Word}}","afmt":"{{Meaning}}"}],
"flds":[{"name":"Word","ord":0},{"name":"Meaning","ord":1},{"name":"Sentence","ord":2}]},
"1002":{"id":1002,"name":"Basic","type":0,
"flds":[{"name":"Front","ord":0},{"name":"Back","ord":1}]}}`

const testDecks = `{"1":{"id":1,"name":"Default"},"77":{"id":77,"name":"IELTS"}}`

// writeTestPackage builds a minimal .apkg holding three notes.
func writeTestPackage(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "collection.anki2")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	stmts := []string{
		`CREATE TABLE col (id INTEGER PRIMARY KEY, models TEXT NOT NULL, decks TEXT NOT NULL)`,
		`CREATE TABLE notes (id INTEGER PRIMARY KEY, guid TEXT NOT NULL, mid INTEGER NOT NULL, mod INTEGER NOT NULL,
			usn INTEGER NOT NULL, tags TEXT NOT NULL, flds TEXT NOT NULL, sfld TEXT NOT NULL, csum INTEGER NOT NULL,
			flags INTEGER NOT NULL, data TEXT NOT NULL)`,
		`CREATE TABLE cards (id INTEGER PRIMARY KEY, nid INTEGER NOT NULL, did INTEGER NOT NULL, ord INTEGER NOT NULL)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("schema: %v", err)
		}
	}
	if _, err := db.Exec(`INSERT INTO col (id, models, decks) VALUES (1, ?, ?)`, testModels, testDecks); err != nil {
		t.Fatalf("insert col: %v", err)
	}

	notes := []struct {
		id   int64
		mid  int64
		flds []string
	}{
		{10, 1001, []string{"<b>harness</b>", "to make use of&nbsp;", "We <i>harness</i> the wind.[sound:harness.mp3]"}},
		{11, 1002, []string{"lucid", "clear<br>easy to understand"}},
		{12, 1002, []string{"orphan", ""}},
	}
	for _, n := range notes {
		_, err := db.Exec(`INSERT INTO notes VALUES (?, ?, ?, 0, 0, '', ?, ?, 0, 0, '')`,
			n.id, "g"+n.flds[0], n.mid, strings.Join(n.flds, "\x1f"), n.flds[0])
		if err != nil {
			t.Fatalf("insert note: %v", err)
		}
		if _, err := db.Exec(`INSERT INTO cards VALUES (?, ?, 77, 0)`, n.id+100, n.id); err != nil {
			t.Fatalf("insert card: %v", err)
		}
	}
	db.Close()

	apkg := filepath.Join(dir, "deck.apkg")
	out, err := os.Create(apkg)
	if err != nil {
		t.Fatalf("create apkg: %v", err)
	}
	zw := zip.NewWriter(out)
	w, _ := zw.Create("collection.anki2")
	in, _ := os.Open(dbPath)
	io.Copy(w, in)
	in.Close()
	zw.Close()
	out.Close()
	return apkg
}

func TestEntriesMapsFieldsAndStripsMarkup(t *testing.T) {
	pkg, err := OpenPackage(writeTestPackage(t))
	if err != nil {
		t.Fatalf("OpenPackage: %v", err)
	}
	defer pkg.Close()

	entries := pkg.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	want := vocab.Entry{
		Word:           "harness",
		Meaning:        "to make use of",
		SourceSentence: "We harness the wind.",
		Level:          "IELTS",
	}
	if *entries[0] != want {
		t.Errorf("got %+v, want %+v", *entries[0], want)
	}
	if entries[1].Word != "lucid" || entries[1].Meaning != "clear easy to understand" {
		t.Errorf("Front/Back note mapped wrong: %+v", *entries[1])
	}
	if !strings.Contains(pkg.Summary(), "Vocabulary entries: 2") {
		t.Errorf("summary missing entry count:\n%s", pkg.Summary())
	}
}

func TestAugmentRoundTrip(t *testing.T) {
	pkg, err := OpenPackage(writeTestPackage(t))
	if err != nil {
		t.Fatalf("OpenPackage: %v", err)
	}
	defer pkg.Close()

	entry := pkg.Entries()[0]
	note := pkg.NoteForEntry(entry)
	if note == nil {
		t.Fatal("note for entry not found")
	}

	card := &vocab.MemoryCard{Word: "harness", Meaning: "to use", Phonetic: "/ˈhɑːnɪs/", Etymology: "Old French <harneis>"}
	if err := pkg.SetNoteCard(note, card); err == nil {
		t.Fatal("expected error before fields are added")
	}
	if err := pkg.AddCardFields(note.ModelID); err != nil {
		t.Fatalf("AddCardFields: %v", err)
	}
	if err := pkg.AddCardFields(note.ModelID); err != nil {
		t.Fatalf("AddCardFields twice: %v", err)
	}
	if err := pkg.SetNoteCard(note, card); err != nil {
		t.Fatalf("SetNoteCard: %v", err)
	}

	out := filepath.Join(t.TempDir(), "augmented.apkg")
	if err := pkg.SaveAs(out); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}

	again, err := OpenPackage(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()

	model := again.Models[1001]
	if len(model.Fields) != 3+len(CardFields) {
		t.Fatalf("expected %d fields, got %d", 3+len(CardFields), len(model.Fields))
	}
	if _, ok := model.raw["tmpls"]; !ok {
		t.Error("templates must survive the save")
	}

	saved := again.NoteForEntry(entry)
	if got := again.GetFieldValue(saved, FieldPhonetic); got != "/ˈhɑːnɪs/" {
		t.Errorf("phonetic = %q", got)
	}
	if got := again.GetFieldValue(saved, FieldEtymology); got != "Old French &lt;harneis&gt;" {
		t.Errorf("etymology should be escaped, got %q", got)
	}
	if got := again.GetFieldValue(saved, FieldExample); got != "" {
		t.Errorf("absent example should stay empty, got %q", got)
	}
	if saved.CSum == 0 {
		t.Error("checksum should be recomputed")
	}
}

func TestOpenPackageRejectsNonZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.apkg")
	os.WriteFile(path, []byte("not a zip"), 0644)
	if _, err := OpenPackage(path); err == nil {
		t.Fatal("expected error")
	}
}
