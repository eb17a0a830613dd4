package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gold-price-alerts/internal/app"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Display recent schedule runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyLimit < 0 {
			return fmt.Errorf("--limit cannot be negative")
		}

		opts := app.HistoryOptions{
			Limit: historyLimit,
		}

		return getApp().History(cmd.Context(), opts)
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Number of runs to display (0 uses the configured default)")
}
