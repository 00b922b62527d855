package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/use-agent/leading/config"
	"github.com/use-agent/leading/models"
)

// cfg is loaded from the environment before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "leading",
	Short: "leading scrapes the JRA leading sire leaderboard into dated JSON reports.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		initLogger(cfg.Log)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteContext runs the command line and returns the process exit code.
func ExecuteContext(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var scrapeErr *models.ScrapeError
		if errors.As(err, &scrapeErr) && scrapeErr.Code == models.ErrCodeInvalidInput {
			return 2
		}
		return 1
	}
	return 0
}

// initLogger configures slog based on the LogConfig. Logs go to stderr so
// tables printed by show and trend stay clean on stdout.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// variantsFor expands the --variant flag.
func variantsFor(name string) ([]models.Variant, error) {
	if name == "all" {
		return models.Variants(), nil
	}
	v, err := models.ParseVariant(name)
	if err != nil {
		return nil, err
	}
	return []models.Variant{v}, nil
}
