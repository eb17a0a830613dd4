package app

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"gold-price-alerts/internal/activity"
	"gold-price-alerts/internal/agent"
	"gold-price-alerts/internal/alert"
	"gold-price-alerts/internal/controller"
)

// Check runs an on-demand gold price check and prints the normalized result.
func (a *App) Check(ctx context.Context) error {
	sub := a.subscribeActivity(ctx, "")
	var processing controller.ProcessingSetter
	if sub != nil {
		processing = sub
		defer sub.Close()
		go func() {
			for evt := range sub.Events() {
				fmt.Fprintf(os.Stderr, "  agent: %s\n", evt.Content)
			}
		}()
	}

	ctrl, _, _ := a.components(processing)

	if err := ctrl.CheckNow(ctx); err != nil {
		return err
	}

	snap := ctrl.Snapshot()
	printNotification(snap)
	if snap.LastResult != nil {
		printResult(snap.LastResult, snap.Settings.Unit)
	}
	return nil
}

func (a *App) subscribeActivity(ctx context.Context, sessionID string) *activity.Subscription {
	if !a.Config.Activity.Enabled {
		return nil
	}
	sub, err := activity.Subscribe(ctx, activity.Options{
		WSURL:       a.Config.Activity.WSURL,
		DialTimeout: a.Config.Activity.DialTimeout,
	}, sessionID, a.Logger)
	if err != nil {
		// The stream is an optional collaborator; its absence never blocks.
		a.Logger.Debug().Err(err).Msg("activity stream unavailable")
		return nil
	}
	return sub
}

const placeholder = "—"

func printResult(result *agent.Result, unit alert.Unit) {
	fmt.Fprintln(os.Stdout, "Latest result:")

	price := placeholder
	change := placeholder
	high := placeholder
	low := placeholder
	trend := placeholder
	source := placeholder
	if pd := result.PriceData; pd != nil {
		if unit == alert.UnitGram {
			price = formatPrice(pd.PricePerGram, "g")
		} else {
			price = formatPrice(pd.PricePerOunce, "oz")
		}
		change = formatDecimal(pd.Change24h)
		high = formatDecimal(pd.DayHigh)
		low = formatDecimal(pd.DayLow)
		if pd.Trend != "" {
			trend = pd.Trend
		}
		if pd.Source != "" {
			source = pd.Source
		}
	}
	fmt.Fprintf(os.Stdout, "  Price:   %s\n", price)
	fmt.Fprintf(os.Stdout, "  24h:     %s  High: %s  Low: %s\n", change, high, low)
	fmt.Fprintf(os.Stdout, "  Trend:   %s  Source: %s\n", trend, source)

	threshold := placeholder
	if te := result.ThresholdEvaluation; te != nil {
		switch {
		case !te.Configured:
			threshold = "not configured"
		case te.Met:
			threshold = "MET"
		default:
			threshold = "not met"
		}
		if te.Explanation != "" {
			threshold += " (" + te.Explanation + ")"
		}
	}
	fmt.Fprintf(os.Stdout, "  Threshold: %s\n", threshold)

	email := placeholder
	if es := result.EmailStatus; es != nil {
		if es.Sent {
			email = fmt.Sprintf("sent to %d recipient(s)", len(es.Recipients))
		} else {
			email = "not sent"
		}
		if es.Message != "" {
			email += " (" + es.Message + ")"
		}
	}
	fmt.Fprintf(os.Stdout, "  Email:   %s\n", email)

	if result.Summary != "" {
		fmt.Fprintf(os.Stdout, "  Summary: %s\n", result.Summary)
	}
}

func formatPrice(v *decimal.Decimal, suffix string) string {
	if v == nil {
		return placeholder
	}
	return "$" + v.StringFixed(2) + "/" + suffix
}

func formatDecimal(v *decimal.Decimal) string {
	if v == nil {
		return placeholder
	}
	return v.StringFixed(2)
}
