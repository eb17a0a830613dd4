package agent

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// PriceData is the market snapshot portion of an agent result. Every field
// is optional; the agent may omit any of them.
type PriceData struct {
	PricePerOunce *decimal.Decimal `json:"price_per_ounce,omitempty"`
	PricePerGram  *decimal.Decimal `json:"price_per_gram,omitempty"`
	Change24h     *decimal.Decimal `json:"change_24h,omitempty"`
	DayHigh       *decimal.Decimal `json:"day_high,omitempty"`
	DayLow        *decimal.Decimal `json:"day_low,omitempty"`
	Trend         string           `json:"trend,omitempty"`
	Source        string           `json:"source,omitempty"`
	Timestamp     string           `json:"timestamp,omitempty"`
}

// ThresholdEvaluation reports whether configured bounds were crossed.
type ThresholdEvaluation struct {
	Configured  bool   `json:"configured"`
	Met         bool   `json:"met"`
	Explanation string `json:"explanation,omitempty"`
}

// EmailStatus reports the outcome of the alert email.
type EmailStatus struct {
	Sent       bool     `json:"sent"`
	Recipients []string `json:"recipients,omitempty"`
	Message    string   `json:"message,omitempty"`
}

// Result is the canonical post-normalization agent result.
type Result struct {
	PriceData           *PriceData           `json:"price_data,omitempty"`
	ThresholdEvaluation *ThresholdEvaluation `json:"threshold_evaluation,omitempty"`
	EmailStatus         *EmailStatus         `json:"email_status,omitempty"`
	Summary             string               `json:"summary,omitempty"`
}

// Normalize parses an agent result payload into the canonical shape, or nil
// when nothing usable can be recovered. The agent may return a structured
// object, a JSON string, or prose with an embedded JSON object depending on
// model behaviour, so this is deliberately permissive and never panics:
// callers treat nil as "no usable result", not as an error to surface.
func Normalize(raw any) *Result {
	switch v := raw.(type) {
	case nil:
		return nil
	case *Result:
		return v
	case Result:
		return &v
	case json.RawMessage:
		return normalizeRaw(v)
	case []byte:
		return normalizeRaw(v)
	case map[string]any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		return decodeResult(encoded)
	case string:
		return normalizeString(v)
	default:
		return nil
	}
}

func normalizeRaw(raw []byte) *Result {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	// A JSON string value holds the agent's textual output; unwrap it first.
	if strings.HasPrefix(trimmed, `"`) {
		var text string
		if err := json.Unmarshal([]byte(trimmed), &text); err != nil {
			return nil
		}
		return normalizeString(text)
	}
	return normalizeString(trimmed)
}

func normalizeString(text string) *Result {
	if res := decodeResult([]byte(text)); res != nil {
		return res
	}

	// Fall back to the first outermost {...} span embedded in prose.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil
	}
	return decodeResult([]byte(text[start : end+1]))
}

func decodeResult(data []byte) *Result {
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "{") {
		return nil
	}
	var res Result
	if err := json.Unmarshal([]byte(trimmed), &res); err != nil {
		return nil
	}
	return &res
}
