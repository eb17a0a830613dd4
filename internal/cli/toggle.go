package cli

import (
	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Pause an active schedule or resume a paused one",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Toggle(cmd.Context())
	},
}
