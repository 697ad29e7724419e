package main

import (
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/emilythestrangee/querynet/backend/internal/config"
)

var (
	cfg *config.Config
	log *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "querynet",
		Short: "Question and answer API server",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = config.Load()
			log = newLogger(cfg)
			slog.SetDefault(log)
		},
		SilenceUsage: true,
	}
)

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd, reconcileCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
