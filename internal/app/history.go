package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"gold-price-alerts/internal/agent"
)

// History prints the bounded most-recent-first run history.
func (a *App) History(ctx context.Context, opts HistoryOptions) error {
	a.Config.History.Limit = a.Config.ResolveHistoryLimit(opts.Limit)
	ctrl, _, manager := a.components(nil)

	if manager.ManagedID() == "" {
		fmt.Fprintln(os.Stdout, "no schedule managed yet; save settings first")
		return nil
	}

	if err := ctrl.RefreshLogs(ctx); err != nil {
		return err
	}

	snap := ctrl.Snapshot()
	printNotification(snap)
	if len(snap.Logs) == 0 {
		fmt.Fprintln(os.Stdout, "no runs recorded")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Executed (UTC)\tStatus\tAttempt\tPrice\tSummary\tError")

	for _, entry := range snap.Logs {
		status := "failed"
		if entry.Success {
			status = "ok"
		}

		price := placeholder
		summary := placeholder
		if result := agent.Normalize(entry.ResponseOutput); result != nil {
			if result.PriceData != nil {
				price = formatPrice(result.PriceData.PricePerOunce, "oz")
			}
			if result.Summary != "" {
				summary = sanitizeInline(result.Summary)
			}
		}

		fmt.Fprintf(
			writer,
			"%s\t%s\t%d/%d\t%s\t%s\t%s\n",
			entry.ExecutedAt.UTC().Format(time.RFC3339),
			status,
			entry.Attempt,
			entry.MaxAttempts,
			price,
			summary,
			sanitizeInline(entry.ErrorMessage),
		)
	}

	return writer.Flush()
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
