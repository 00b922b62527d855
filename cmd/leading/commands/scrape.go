package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/use-agent/leading/leaderboard"
	"github.com/use-agent/leading/models"
	"github.com/use-agent/leading/store"
	"github.com/use-agent/leading/webhook"
)

var (
	scrapeVariant *string
	scrapeDir     *string
	scrapeDir2sai *string
	scrapeOut     *string
)

func init() {
	scrapeVariant = scrapeCmd.Flags().String("variant", "all", "Leaderboard to scrape: all, default or 2sai.")
	scrapeDir = scrapeCmd.Flags().String("dir", "", "Snapshot directory for the default leaderboard (overrides LEADING_DIR).")
	scrapeDir2sai = scrapeCmd.Flags().String("dir-2sai", "", "Snapshot directory for the 2sai leaderboard (overrides LEADING_DIR_2SAI).")
	scrapeOut = scrapeCmd.Flags().String("out", "", "Report directory (overrides LEADING_REPORT_DIR).")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--variant all|default|2sai] [--dir <path>] [--dir-2sai <path>] [--out <path>]",
	Short: "Scrapes the leaderboard from snapshots or the live site and writes <date>[_2sai].json.",
	RunE: func(cmd *cobra.Command, args []string) error {
		variants, err := variantsFor(*scrapeVariant)
		if err != nil {
			return err
		}

		out := *scrapeOut
		if out == "" {
			out = cfg.Output.ReportDir
		}
		st := store.New(out)

		browser := &lazyBrowser{}
		defer browser.Close()

		for _, v := range variants {
			if err := scrapeVariantTo(cmd.Context(), st, browser, v); err != nil {
				return err
			}
		}
		return nil
	},
}

// snapshotDir picks the flag override or the configured directory.
func snapshotDir(v models.Variant) string {
	flag := *scrapeDir
	if v.Name == models.VariantTwoYearOld.Name {
		flag = *scrapeDir2sai
	}
	if strings.TrimSpace(flag) != "" {
		return flag
	}
	return cfg.Leading.SnapshotDirFor(v.Name)
}

func scrapeVariantTo(ctx context.Context, st *store.Store, browser *lazyBrowser, v models.Variant) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Leading.ScrapeTimeout)
	defer cancel()

	start := time.Now()
	result, err := leaderboard.Run(ctx, leaderboard.RunOptions{
		Variant:        v,
		SnapshotDir:    snapshotDir(v),
		Opener:         browser.Open,
		StartURL:       cfg.Leading.StartURL,
		NextLabel:      cfg.Leading.NextLabel,
		PageDelay:      cfg.Leading.PageDelay,
		DriftThreshold: cfg.Leading.DriftThreshold,
	})
	if err != nil {
		return fmt.Errorf("scrape %s: %w", v.Name, err)
	}

	if !result.Writable() {
		slog.Warn("no report written", "variant", v.Name, "outcome", result.Outcome, "records", len(result.Records))
		return nil
	}

	path, err := st.SaveResult(result)
	if err != nil {
		return fmt.Errorf("write %s: %w", result.OutputKey(), err)
	}
	slog.Info("report written",
		"variant", v.Name,
		"key", result.OutputKey(),
		"records", len(result.Records),
		"path", path,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	notify(ctx, result, path)
	return nil
}

// notify delivers report.written synchronously; the process may exit right
// after, so background retries would be lost.
func notify(ctx context.Context, result *models.ScrapeResult, path string) {
	if cfg.Webhook.URL == "" {
		return
	}
	event := webhook.NewReportWritten(result.OutputKey(), webhook.ReportWritten{
		Variant:  result.Variant.Name,
		AsOfDate: result.AsOfDate.Format(time.DateOnly),
		Records:  len(result.Records),
		Path:     path,
	})
	if err := webhook.Deliver(ctx, cfg.Webhook.URL, cfg.Webhook.Secret, event); err != nil {
		slog.Warn("webhook delivery failed", "key", event.ReportKey, "error", err)
	}
}
