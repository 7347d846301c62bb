// Package cmd contains all CLI commands for memcard.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/f3rmion/memcard/internal/config"
	"github.com/f3rmion/memcard/internal/tui"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "memcard [words.yaml | deck.apkg]",
	Short: "Memory cards for the words you save",
	Long: `memcard turns saved vocabulary into memory cards: phonetic, part of
speech, etymology and an example sentence, generated on demand by a
text-generation service.

Running 'memcard' without a subcommand opens the interactive TUI on your
word list (see 'memcard init'). Pass a .yaml word list or an Anki .apkg
deck to open that instead.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/memcard/config.yaml)")
	rootCmd.PersistentFlags().String("provider", "", "generation provider: gemini, anthropic, openai, remote")
	rootCmd.PersistentFlags().String("model", "", "model name (provider default if empty)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	viper.BindPFlag("provider", rootCmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(config.GetConfigDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MEMCARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())
}

// loadConfig decodes the merged configuration.
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// runTUI launches the TUI application.
func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// stdout belongs to the TUI, so logs go to a file.
	log, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer log.Sync()

	source := cfg.Words
	if len(args) == 1 {
		source = args[0]
	}
	entries, err := tui.LoadEntries(source)
	if err != nil {
		if len(args) == 1 || !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", source, err)
		}
		// No word list yet; the TUI starts empty.
		log.Info("no word list found", "path", source)
		entries = nil
	}

	ctx := cmd.Context()
	gen, cleanup, err := buildGenerator(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	app := tui.NewApp(tui.Deps{
		Config:     cfg,
		Generator:  gen,
		Pronouncer: buildPronouncer(cfg, log),
		Log:        log,
	}, entries, displayPath(source))

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	log.Info("starting TUI", "provider", gen.Name(), "words", len(entries))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

// displayPath shortens paths under the home directory.
func displayPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if rel, err := filepath.Rel(home, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.Join("~", rel)
	}
	return path
}
