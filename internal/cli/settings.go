package cli

import (
	"github.com/spf13/cobra"

	"gold-price-alerts/internal/alert"
)

var (
	setAddEmails    []string
	setRemoveEmails []string
	setFrequency    string
	setTriggerTime  string
	setTimezone     string
	setThreshold    bool
	setAbove        string
	setBelow        string
	setUnit         string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect or change alert settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current alert settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().SettingsShow(cmd.Context())
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change alert settings and replace the schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		return getApp().SettingsSet(cmd.Context(), func(s *alert.Settings) {
			for _, email := range setAddEmails {
				s.AddRecipient(email)
			}
			for _, email := range setRemoveEmails {
				s.RemoveRecipient(email)
			}
			if flags.Changed("frequency") {
				s.Frequency = alert.Frequency(setFrequency)
			}
			if flags.Changed("time") {
				s.TriggerTime = setTriggerTime
			}
			if flags.Changed("timezone") {
				s.Timezone = setTimezone
			}
			if flags.Changed("threshold") {
				s.ThresholdEnabled = setThreshold
			}
			if flags.Changed("above") {
				s.ThresholdAbove = setAbove
			}
			if flags.Changed("below") {
				s.ThresholdBelow = setBelow
			}
			if flags.Changed("unit") {
				s.Unit = alert.Unit(setUnit)
			}
		})
	},
}

func init() {
	flags := settingsSetCmd.Flags()
	flags.StringSliceVar(&setAddEmails, "add-email", nil, "Recipient email to add (repeatable)")
	flags.StringSliceVar(&setRemoveEmails, "remove-email", nil, "Recipient email to remove (repeatable)")
	flags.StringVar(&setFrequency, "frequency", "", "Check cadence: hourly, daily, or weekly")
	flags.StringVar(&setTriggerTime, "time", "", "Time of day, HH:MM")
	flags.StringVar(&setTimezone, "timezone", "", "IANA timezone identifier")
	flags.BoolVar(&setThreshold, "threshold", false, "Enable or disable threshold alerting")
	flags.StringVar(&setAbove, "above", "", "Alert when the price rises above this value")
	flags.StringVar(&setBelow, "below", "", "Alert when the price falls below this value")
	flags.StringVar(&setUnit, "unit", "", "Price unit: ounce or gram")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}
