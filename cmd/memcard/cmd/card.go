package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/f3rmion/memcard/internal/llm"
	"github.com/f3rmion/memcard/internal/vocab"
)

var cardCmd = &cobra.Command{
	Use:   "card <word> <meaning>",
	Short: "Generate one memory card and print it",
	Long: `Generate a memory card for a single word without opening the TUI.

Examples:
  memcard card harness "to control and make use of"
  memcard card harness "to control" --sentence "We harness solar power."
  memcard card lucid clear --json
  memcard card lucid clear --regenerate --say`,
	Args: cobra.ExactArgs(2),
	RunE: runCard,
}

var (
	cardSentence   string
	cardRegenerate bool
	cardJSON       bool
	cardSay        bool
)

func init() {
	rootCmd.AddCommand(cardCmd)
	cardCmd.Flags().StringVarP(&cardSentence, "sentence", "s", "", "Sentence the word was found in")
	cardCmd.Flags().BoolVar(&cardRegenerate, "regenerate", false, "Ignore any cached card")
	cardCmd.Flags().BoolVar(&cardJSON, "json", false, "Print the card as JSON")
	cardCmd.Flags().BoolVar(&cardSay, "say", false, "Pronounce the word after printing")
}

func runCard(cmd *cobra.Command, args []string) error {
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

	entry := &vocab.Entry{
		Word:           strings.TrimSpace(args[0]),
		Meaning:        strings.TrimSpace(args[1]),
		SourceSentence: strings.TrimSpace(cardSentence),
	}
	if entry.Word == "" || entry.Meaning == "" {
		return fmt.Errorf("word and meaning must not be empty")
	}

	req := llm.RequestFor(entry)
	req.Regenerate = cardRegenerate

	card, err := gen.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("generating memory card: %s", llm.Describe(err))
	}

	if cardJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(card); err != nil {
			return fmt.Errorf("encoding card: %w", err)
		}
	} else {
		fmt.Print(card.Text())
	}

	if cardSay {
		p := buildPronouncer(cfg, log)
		if !p.Enabled() {
			fmt.Fprintln(os.Stderr, "Note: no audio source configured (set audio.source)")
			return nil
		}
		p.Pronounce(ctx, card.Word)
	}

	return nil
}
