package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gold-price-alerts/internal/alert"
)

// SettingsShow prints the current alert settings without touching the
// backend.
func (a *App) SettingsShow(ctx context.Context) error {
	ctrl, _, _ := a.components(nil)
	settings := ctrl.Snapshot().Settings

	recipients := strings.Join(settings.RecipientEmails, ", ")
	if recipients == "" {
		recipients = "none"
	}
	fmt.Fprintf(os.Stdout, "Recipients: %s\n", recipients)
	fmt.Fprintf(os.Stdout, "Cadence:    %s at %s (%s)\n", settings.Frequency, settings.TriggerTime, settings.Timezone)
	fmt.Fprintf(os.Stdout, "Unit:       %s\n", settings.Unit)
	fmt.Fprintf(os.Stdout, "Threshold:  %s\n", thresholdSummary(settings))
	return nil
}

// SettingsSet applies mutations to the current settings and saves them,
// replacing the managed schedule.
func (a *App) SettingsSet(ctx context.Context, mutate func(*alert.Settings)) error {
	ctrl, _, _ := a.components(nil)

	settings := ctrl.Snapshot().Settings
	mutate(&settings)

	if err := ctrl.SaveSettings(ctx, settings); err != nil {
		return err
	}

	printNotification(ctrl.Snapshot())
	return nil
}
