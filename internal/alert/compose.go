package alert

import (
	"fmt"
	"strings"
)

const noThresholdText = "No price threshold is configured; report the current price only."

// ComposeMessage renders settings into the natural-language instruction sent
// to the agent. The output is byte-for-byte deterministic for equal settings
// so repeated checks with unchanged configuration are indistinguishable.
func ComposeMessage(s Settings) string {
	builder := strings.Builder{}
	builder.WriteString("Check the current gold price and prepare a price report.\n")
	builder.WriteString(fmt.Sprintf("Recipients: %s\n", recipientClause(s)))
	builder.WriteString(fmt.Sprintf("Threshold: %s\n", thresholdClause(s)))
	builder.WriteString(fmt.Sprintf("Report prices per %s.\n", s.Unit))
	builder.WriteString("If a configured threshold is met, send an email alert to the recipients.")
	return builder.String()
}

func recipientClause(s Settings) string {
	if len(s.RecipientEmails) == 0 {
		return "no recipients configured"
	}
	return strings.Join(s.RecipientEmails, ", ")
}

func thresholdClause(s Settings) string {
	if !s.ThresholdEnabled {
		return noThresholdText
	}

	suffix := unitSuffix(s.Unit)
	parts := make([]string, 0, 2)
	if s.ThresholdAbove != "" {
		parts = append(parts, fmt.Sprintf("above $%s/%s", s.ThresholdAbove, suffix))
	}
	if s.ThresholdBelow != "" {
		parts = append(parts, fmt.Sprintf("below $%s/%s", s.ThresholdBelow, suffix))
	}

	// Enabled with neither bound set degrades to the no-threshold text.
	if len(parts) == 0 {
		return noThresholdText
	}

	return fmt.Sprintf("alert if the price goes %s.", strings.Join(parts, " or "))
}

func unitSuffix(u Unit) string {
	if u == UnitGram {
		return "g"
	}
	return "oz"
}
