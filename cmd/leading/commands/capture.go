package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/use-agent/leading/leaderboard"
	"github.com/use-agent/leading/models"
	"github.com/use-agent/leading/store"
)

var (
	captureVariant *string
	captureOut     *string
)

func init() {
	captureVariant = captureCmd.Flags().String("variant", models.VariantDefault.Name, "Leaderboard to capture: default or 2sai.")
	captureOut = captureCmd.Flags().String("out", "", "Directory to write <n>.html snapshots to.")
	_ = captureCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(captureCmd)
}

var captureCmd = &cobra.Command{
	Use:   "capture --out <dir> [--variant default|2sai]",
	Short: "Walks the live leaderboard and saves each page as a numbered snapshot.",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := models.ParseVariant(*captureVariant)
		if err != nil {
			return err
		}

		browser := &lazyBrowser{}
		defer browser.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Leading.ScrapeTimeout)
		defer cancel()

		result, err := leaderboard.Run(ctx, leaderboard.RunOptions{
			Variant:        v,
			Opener:         browser.Open,
			StartURL:       cfg.Leading.StartURL,
			NextLabel:      cfg.Leading.NextLabel,
			PageDelay:      cfg.Leading.PageDelay,
			DriftThreshold: cfg.Leading.DriftThreshold,
			OnFragment: func(i int, f *leaderboard.Fragment) error {
				path, err := store.SaveSnapshot(*captureOut, i+1, f.Markup)
				if err != nil {
					return err
				}
				slog.Debug("snapshot saved", "page", i+1, "path", path)
				return nil
			},
		})
		if err != nil {
			return fmt.Errorf("capture %s: %w", v.Name, err)
		}

		slog.Info("capture finished",
			"variant", v.Name,
			"pages", result.Fragments,
			"records", len(result.Records),
			"outcome", result.Outcome,
			"dir", *captureOut,
		)
		return nil
	},
}
