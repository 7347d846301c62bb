package cmd

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/f3rmion/memcard/internal/anki"
	"github.com/f3rmion/memcard/internal/llm"
	"github.com/f3rmion/memcard/internal/vocab"
)

var ankiCmd = &cobra.Command{
	Use:   "anki",
	Short: "Work with Anki decks",
	Long:  `Commands for reading Anki .apkg files and adding memory-card fields to them.`,
}

var ankiInspectCmd = &cobra.Command{
	Use:   "inspect <file.apkg>",
	Short: "Inspect an Anki deck",
	Long: `Inspect an Anki .apkg file to see its structure:
  - Decks
  - Note types (models) and their fields
  - The vocabulary entries memcard reads from it

Example:
  memcard anki inspect english.apkg`,
	Args: cobra.ExactArgs(1),
	RunE: runAnkiInspect,
}

var ankiAugmentCmd = &cobra.Command{
	Use:   "augment <file.apkg>",
	Short: "Add memory-card fields to an Anki deck",
	Long: `Generate a memory card for every vocabulary note in a deck and write
the result to a new .apkg with these extra fields:

  MC_Phonetic, MC_PartOfSpeech, MC_Etymology, MC_Example

Notes whose card fails to generate are left unchanged and reported.

Examples:
  memcard anki augment english.apkg -o english-cards.apkg
  memcard anki augment english.apkg -o out.apkg --concurrency 2`,
	Args: cobra.ExactArgs(1),
	RunE: runAnkiAugment,
}

var (
	ankiInspectLimit      int
	ankiAugmentOutput     string
	ankiAugmentConcurrent int
)

func init() {
	rootCmd.AddCommand(ankiCmd)
	ankiCmd.AddCommand(ankiInspectCmd)
	ankiCmd.AddCommand(ankiAugmentCmd)

	ankiInspectCmd.Flags().IntVarP(&ankiInspectLimit, "limit", "n", 5, "Number of sample entries to show")

	ankiAugmentCmd.Flags().StringVarP(&ankiAugmentOutput, "output", "o", "", "Output .apkg file (required)")
	ankiAugmentCmd.Flags().IntVar(&ankiAugmentConcurrent, "concurrency", 4, "Cards generated in parallel")
	ankiAugmentCmd.MarkFlagRequired("output")
}

func runAnkiInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	fmt.Printf("Opening: %s\n\n", path)

	pkg, err := anki.OpenPackage(path)
	if err != nil {
		return fmt.Errorf("opening package: %w", err)
	}
	defer pkg.Close()

	fmt.Print(pkg.Summary())
	fmt.Println()

	fmt.Println("Field Details:")
	for _, model := range pkg.Models {
		fmt.Printf("  %s:\n", model.Name)
		for _, field := range model.Fields {
			fmt.Printf("    [%d] %s\n", field.Ord, field.Name)
		}
	}
	fmt.Println()

	entries := pkg.Entries()
	n := min(ankiInspectLimit, len(entries))
	fmt.Printf("Sample Entries (first %d):\n", n)
	for _, e := range entries[:n] {
		fmt.Printf("\n  %s: %s\n", e.Word, runewidth.Truncate(e.Meaning, 100, "..."))
		if e.SourceSentence != "" {
			fmt.Printf("    Sentence: %s\n", runewidth.Truncate(e.SourceSentence, 100, "..."))
		}
		if e.Level != "" {
			fmt.Printf("    Deck: %s\n", e.Level)
		}
	}

	return nil
}

func runAnkiAugment(cmd *cobra.Command, args []string) error {
	path := args[0]
	if ankiAugmentConcurrent < 1 {
		return fmt.Errorf("--concurrency must be at least 1")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	gen, cleanup, err := buildGenerator(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	pkg, err := anki.OpenPackage(path)
	if err != nil {
		return fmt.Errorf("opening package: %w", err)
	}
	defer pkg.Close()

	entries := pkg.Entries()
	if len(entries) == 0 {
		return fmt.Errorf("no vocabulary entries found in %s", path)
	}
	fmt.Fprintf(os.Stderr, "Opened: %s (%d entries)\n", path, len(entries))

	cards := make([]*vocab.MemoryCard, len(entries))
	var done, failed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ankiAugmentConcurrent)
	for i, e := range entries {
		g.Go(func() error {
			card, err := gen.Generate(gctx, llm.RequestFor(e))
			if err != nil {
				// A cancelled run stops everything; one bad word does not.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failed.Add(1)
				log.Warn("card generation failed", "word", e.Word, "error", llm.Describe(err))
				return nil
			}
			cards[i] = card
			fmt.Fprintf(os.Stderr, "\r  %d/%d", done.Add(1), len(entries))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("augmenting deck: %w", err)
	}
	fmt.Fprintln(os.Stderr)

	augmented := make(map[int64]bool)
	var missing []string
	for i, e := range entries {
		if cards[i] == nil {
			missing = append(missing, e.Word)
			continue
		}
		note := pkg.NoteForEntry(e)
		if note == nil {
			continue
		}
		if !augmented[note.ModelID] {
			if err := pkg.AddCardFields(note.ModelID); err != nil {
				return fmt.Errorf("adding fields: %w", err)
			}
			augmented[note.ModelID] = true
		}
		if err := pkg.SetNoteCard(note, cards[i]); err != nil {
			return fmt.Errorf("updating note %d: %w", note.ID, err)
		}
	}

	if err := pkg.SaveAs(ankiAugmentOutput); err != nil {
		return fmt.Errorf("saving package: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Wrote %s: %d cards, %d failed\n", ankiAugmentOutput, done.Load(), failed.Load())
	if len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "Failed: %s\n", strings.Join(missing, ", "))
	}
	return nil
}
