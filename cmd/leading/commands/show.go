package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/use-agent/leading/store"
	"github.com/use-agent/leading/trend"
)

var showDir *string

func init() {
	showDir = showCmd.Flags().String("dir", "", "Report directory (overrides LEADING_REPORT_DIR).")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show [<key>]",
	Short: "Prints a saved report as a table; without a key, lists the saved reports.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := store.New(reportDir(*showDir))

		if len(args) == 0 {
			keys, err := st.List()
			if err != nil {
				return err
			}
			for _, key := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		}

		records, err := st.Read(args[0])
		if err != nil {
			return err
		}
		trend.RenderRecords(os.Stdout, args[0], records)
		return nil
	},
}
