package alert

import "strings"

// Frequency enumerates supported recurrence cadences.
type Frequency string

const (
	FrequencyHourly Frequency = "hourly"
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// Unit enumerates supported price units.
type Unit string

const (
	UnitOunce Unit = "ounce"
	UnitGram  Unit = "gram"
)

// Settings is the user's desired alert configuration.
type Settings struct {
	RecipientEmails  []string  `json:"recipient_emails"`
	Frequency        Frequency `json:"frequency"`
	TriggerTime      string    `json:"trigger_time"`
	Timezone         string    `json:"timezone"`
	ThresholdEnabled bool      `json:"threshold_enabled"`
	ThresholdAbove   string    `json:"threshold_above"`
	ThresholdBelow   string    `json:"threshold_below"`
	Unit             Unit      `json:"unit"`
}

// DefaultSettings returns the configuration used before the user saves anything.
func DefaultSettings() Settings {
	return Settings{
		RecipientEmails: []string{},
		Frequency:       FrequencyDaily,
		TriggerTime:     "09:00",
		Timezone:        "UTC",
		Unit:            UnitOunce,
	}
}

// AddRecipient appends a trimmed email, refusing empties and duplicates.
func (s *Settings) AddRecipient(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	for _, existing := range s.RecipientEmails {
		if existing == email {
			return false
		}
	}
	s.RecipientEmails = append(s.RecipientEmails, email)
	return true
}

// RemoveRecipient deletes an email, preserving the order of the rest.
func (s *Settings) RemoveRecipient(email string) bool {
	for i, existing := range s.RecipientEmails {
		if existing == email {
			s.RecipientEmails = append(s.RecipientEmails[:i], s.RecipientEmails[i+1:]...)
			return true
		}
	}
	return false
}

// Normalized returns a copy with recipients deduplicated in insertion order
// and enum fields coerced onto known values.
func (s Settings) Normalized() Settings {
	out := s
	out.RecipientEmails = make([]string, 0, len(s.RecipientEmails))
	seen := make(map[string]struct{}, len(s.RecipientEmails))
	for _, email := range s.RecipientEmails {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		out.RecipientEmails = append(out.RecipientEmails, email)
	}

	switch s.Frequency {
	case FrequencyHourly, FrequencyDaily, FrequencyWeekly:
	default:
		out.Frequency = FrequencyDaily
	}

	switch s.Unit {
	case UnitOunce, UnitGram:
	default:
		out.Unit = UnitOunce
	}

	return out
}
