package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/f3rmion/memcard/internal/config"
	"github.com/f3rmion/memcard/internal/vocab"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize memcard configuration",
	Long: `Initialize memcard configuration files in your config directory.

This creates:
  - config.yaml  (provider, cache, audio and logging settings)
  - words.yaml   (a starter word list)

Edit config.yaml to pick a provider, or export its API key
(GEMINI_API_KEY, ANTHROPIC_API_KEY or OPENAI_API_KEY).`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	configDir, err := config.EnsureConfigDir()
	if err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	fmt.Printf("Initializing memcard configuration in %s\n\n", configDir)

	configPath := filepath.Join(configDir, "config.yaml")
	created, err := writeIfAbsent(configPath, force, func(path string) error {
		return os.WriteFile(path, []byte(configTemplate), 0600)
	})
	if err != nil {
		return err
	}
	report("config.yaml", created)

	wordsPath := filepath.Join(configDir, "words.yaml")
	created, err = writeIfAbsent(wordsPath, force, func(path string) error {
		return vocab.WriteWordList(path, sampleWords)
	})
	if err != nil {
		return err
	}
	report("words.yaml", created)

	fmt.Println()
	fmt.Println("Configuration initialized!")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Set an API key in config.yaml or the environment")
	fmt.Println("  2. Run 'memcard card lucid clear' to test generation")
	fmt.Println("  3. Run 'memcard' to browse your words")

	return nil
}

// writeIfAbsent runs write unless path exists and force is unset.
func writeIfAbsent(path string, force bool, write func(string) error) (bool, error) {
	if _, err := os.Stat(path); err == nil && !force {
		return false, nil
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	if err := write(path); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

func report(name string, created bool) {
	if created {
		fmt.Printf("  Created %s\n", name)
	} else {
		fmt.Printf("  Kept %s (use --force to overwrite)\n", name)
	}
}

var sampleWords = []*vocab.Entry{
	{
		Word:           "harness",
		Meaning:        "to control and make use of",
		SourceSentence: "Engineers are learning to harness the wind more efficiently.",
		Level:          "IELTS",
	},
	{
		Word:           "lucid",
		Meaning:        "clearly expressed and easy to understand",
		SourceSentence: "She gave a lucid account of what had happened.",
	},
	{
		Word:    "meticulous",
		Meaning: "showing great attention to detail",
		Level:   "CET-6",
	},
}

const configTemplate = `# memcard configuration
#
# Every key can also be set from the environment with a MEMCARD_ prefix,
# e.g. MEMCARD_PROVIDER=openai or MEMCARD_CACHE_BACKEND=redis.

# gemini, anthropic, openai or remote
provider: gemini
# Empty uses the provider default.
model: ""
timeout: 30s
# words: ~/.config/memcard/words.yaml

gemini:
  api_key: ""      # or GEMINI_API_KEY
anthropic:
  api_key: ""      # or ANTHROPIC_API_KEY
openai:
  api_key: ""      # or OPENAI_API_KEY; also used by audio.source openai

# Used when provider is remote; points at 'memcard serve'.
remote:
  url: http://localhost:8080

breaker:
  max_failures: 3
  open_timeout: 30s

cache:
  backend: sqlite  # none, sqlite or redis
  # path: ~/.local/share/memcard/cards.db
  redis_addr: localhost:6379
  ttl: 720h

audio:
  source: url      # url, openai, espeak or none
  url_template: https://dict.youdao.com/dictvoice?audio=%s&type=2
  voice: alloy
  model: tts-1

server:
  addr: ":8080"

log:
  mode: dev        # dev or prod
  level: info
  # file: ~/.local/share/memcard/memcard.log
`
