package cli

import (
	"github.com/spf13/cobra"

	"gold-price-alerts/internal/app"
)

var watchSession string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream agent activity events",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.WatchOptions{
			SessionID: watchSession,
		}
		return getApp().Watch(cmd.Context(), opts)
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchSession, "session", "", "Session identifier (defaults to the last check's session)")
}
