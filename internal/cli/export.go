package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gold-price-alerts/internal/app"
)

var (
	exportPNG       string
	exportCSV       string
	exportMaxPoints int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history as CSV and/or a PNG price chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportMaxPoints < 0 {
			return fmt.Errorf("--max-points cannot be negative")
		}

		opts := app.ExportOptions{
			PNGPath:   exportPNG,
			CSVPath:   exportCSV,
			MaxPoints: exportMaxPoints,
		}

		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportPNG, "png", "", "Write a price chart PNG to this path")
	exportCmd.Flags().StringVar(&exportCSV, "csv", "", "Write run history CSV to this path")
	exportCmd.Flags().IntVar(&exportMaxPoints, "max-points", 0, "Maximum data points (0 uses the configured default)")
}
