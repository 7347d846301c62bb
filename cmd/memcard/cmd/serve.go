package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/f3rmion/memcard/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve memory-card generation over HTTP",
	Long: `Run an HTTP server exposing memory-card generation:

  POST /api/vocabulary/memory-card  {"word", "meaning", "source_sentence"}
  GET  /health

Other memcard installs can use it with provider "remote".

Examples:
  memcard serve
  memcard serve --addr :9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (default from server.addr)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Log.Mode == "prod" || cfg.Log.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen, cleanup, err := buildGenerator(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	log.Info("memory card service starting", "provider", gen.Name(), "cache", cfg.Cache.Backend)
	return server.NewServer(gen, log).Run(ctx, cfg.Server.Addr)
}
