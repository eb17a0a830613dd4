// Package cronutil translates between alert cadences and standard 5-field
// cron expressions (minute hour day-of-month month day-of-week, no seconds).
package cronutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"gold-price-alerts/internal/alert"
)

const (
	defaultHour   = 9
	defaultMinute = 0
)

var weekdayNames = map[int]string{
	0: "Sunday",
	1: "Monday",
	2: "Tuesday",
	3: "Wednesday",
	4: "Thursday",
	5: "Friday",
	6: "Saturday",
}

// ToCron maps a frequency and an HH:MM time-of-day onto a cron expression.
// Malformed time input never fails; missing fields default to 09:00.
func ToCron(frequency alert.Frequency, timeOfDay string) string {
	hour, minute := parseTimeOfDay(timeOfDay)

	switch frequency {
	case alert.FrequencyHourly:
		return fmt.Sprintf("%d * * * *", minute)
	case alert.FrequencyWeekly:
		return fmt.Sprintf("%d %d * * 1", minute, hour)
	default:
		// Daily, and the fallback for anything unrecognised.
		return fmt.Sprintf("%d %d * * *", minute, hour)
	}
}

func parseTimeOfDay(timeOfDay string) (hour, minute int) {
	hour, minute = defaultHour, defaultMinute

	parts := strings.Split(timeOfDay, ":")
	if len(parts) > 0 {
		if v, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil && v >= 0 && v <= 23 {
			hour = v
		}
	}
	if len(parts) > 1 {
		if v, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil && v >= 0 && v <= 59 {
			minute = v
		}
	}
	return hour, minute
}

// Describe renders a best-effort human-readable phrase for a cron expression.
// Expressions this system did not generate render literally rather than fail.
func Describe(expr string) string {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return expr
	}

	minute, minuteOK := atoiField(fields[0])
	hour, hourOK := atoiField(fields[1])

	switch {
	case minuteOK && fields[1] == "*" && allWild(fields[2:]):
		return fmt.Sprintf("Every hour at minute %02d", minute)
	case minuteOK && hourOK && allWild(fields[2:]):
		return fmt.Sprintf("Every day at %02d:%02d", hour, minute)
	case minuteOK && hourOK && fields[2] == "*" && fields[3] == "*":
		if day, ok := atoiField(fields[4]); ok {
			if name, known := weekdayNames[day]; known {
				return fmt.Sprintf("Every %s at %02d:%02d", name, hour, minute)
			}
		}
	}

	return expr
}

func atoiField(field string) (int, bool) {
	v, err := strconv.Atoi(field)
	if err != nil {
		return 0, false
	}
	return v, true
}

func allWild(fields []string) bool {
	for _, f := range fields {
		if f != "*" {
			return false
		}
	}
	return true
}

// NextRun computes the next firing time of a cron expression in the given
// IANA timezone after the supplied instant. It reports false when the
// expression or timezone cannot be interpreted.
func NextRun(expr, timezone string, after time.Time) (time.Time, bool) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return time.Time{}, false
	}

	loc := time.UTC
	if timezone != "" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			loc = parsed
		}
	}

	next := schedule.Next(after.In(loc))
	if next.IsZero() {
		return time.Time{}, false
	}
	return next, true
}
