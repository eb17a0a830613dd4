package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gold-price-alerts/internal/alert"
	"gold-price-alerts/internal/cronutil"
)

// Status prints the managed schedule and the current alert settings.
func (a *App) Status(ctx context.Context) error {
	ctrl, _, manager := a.components(nil)

	if err := ctrl.RefreshSchedule(ctx); err != nil {
		return err
	}

	snap := ctrl.Snapshot()
	settings := snap.Settings

	fmt.Fprintln(os.Stdout, "Alert settings:")
	recipients := strings.Join(settings.RecipientEmails, ", ")
	if recipients == "" {
		recipients = "none"
	}
	fmt.Fprintf(os.Stdout, "  Recipients: %s\n", recipients)
	fmt.Fprintf(os.Stdout, "  Cadence:    %s at %s (%s)\n", settings.Frequency, settings.TriggerTime, settings.Timezone)
	fmt.Fprintf(os.Stdout, "  Unit:       %s\n", settings.Unit)
	fmt.Fprintf(os.Stdout, "  Threshold:  %s\n", thresholdSummary(settings))

	fmt.Fprintln(os.Stdout, "Schedule:")
	if snap.Schedule == nil {
		if manager.ManagedID() != "" {
			fmt.Fprintf(os.Stdout, "  %s (not reachable right now)\n", manager.ManagedID())
		} else {
			fmt.Fprintln(os.Stdout, "  none; save settings to create one")
		}
		return nil
	}

	state := "paused"
	if snap.Schedule.IsActive {
		state = "active"
	}
	fmt.Fprintf(os.Stdout, "  ID:       %s (%s)\n", snap.Schedule.ID, state)
	fmt.Fprintf(os.Stdout, "  Cron:     %s — %s\n", snap.Schedule.CronExpression, cronutil.Describe(snap.Schedule.CronExpression))

	next := placeholder
	if snap.Schedule.NextRunTime != nil {
		next = snap.Schedule.NextRunTime.Format(time.RFC3339)
	} else if t, ok := cronutil.NextRun(snap.Schedule.CronExpression, settings.Timezone, time.Now()); ok {
		next = t.Format(time.RFC3339)
	}
	fmt.Fprintf(os.Stdout, "  Next run: %s\n", next)

	last := placeholder
	if snap.Schedule.LastRunAt != nil {
		last = snap.Schedule.LastRunAt.Format(time.RFC3339)
	}
	fmt.Fprintf(os.Stdout, "  Last run: %s\n", last)
	return nil
}

func thresholdSummary(settings alert.Settings) string {
	if !settings.ThresholdEnabled {
		return "disabled"
	}
	parts := make([]string, 0, 2)
	if settings.ThresholdAbove != "" {
		parts = append(parts, "above $"+settings.ThresholdAbove)
	}
	if settings.ThresholdBelow != "" {
		parts = append(parts, "below $"+settings.ThresholdBelow)
	}
	if len(parts) == 0 {
		return "enabled, no bounds set"
	}
	return strings.Join(parts, " or ")
}
