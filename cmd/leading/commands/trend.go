package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/use-agent/leading/models"
	"github.com/use-agent/leading/store"
	"github.com/use-agent/leading/trend"
)

var (
	trendTop     *int
	trendVariant *string
	trendDir     *string
)

func init() {
	trendTop = trendCmd.Flags().Int("top", 10, "Number of sires from the latest report to follow.")
	trendVariant = trendCmd.Flags().String("variant", models.VariantDefault.Name, "Leaderboard: default or 2sai.")
	trendDir = trendCmd.Flags().String("dir", "", "Report directory (overrides LEADING_REPORT_DIR).")
	rootCmd.AddCommand(trendCmd)
}

var trendCmd = &cobra.Command{
	Use:   "trend [--top <n>] [--variant default|2sai] [--dir <path>]",
	Short: "Prints the prize money of the top sires across every saved report.",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := models.ParseVariant(*trendVariant)
		if err != nil {
			return err
		}
		tr, err := trend.Load(store.New(reportDir(*trendDir)), v, *trendTop)
		if err != nil {
			return err
		}
		tr.Render(os.Stdout)
		return nil
	},
}

func reportDir(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Output.ReportDir
}
