// Package utils holds small shared helpers: the recurrence-rule subset
// used by recurring tasks and human-readable duration formatting.
package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RecurrenceRule is the parsed form of the RRULE subset persisted on
// recurring tasks (FREQ, INTERVAL, BYDAY, UNTIL).
type RecurrenceRule struct {
	Frequency string
	Interval  int
	ByDay     []string
	Until     *time.Time
}

// Supported frequencies.
const (
	FreqDaily   = "DAILY"
	FreqWeekly  = "WEEKLY"
	FreqMonthly = "MONTHLY"
	FreqYearly  = "YEARLY"
)

// BuildRecurrenceRule serializes a rule string, e.g.
// "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE".
func BuildRecurrenceRule(frequency string, interval int, byDay []string, until *time.Time) string {
	if interval < 1 {
		interval = 1
	}
	rule := fmt.Sprintf("FREQ=%s;INTERVAL=%d", frequency, interval)

	if len(byDay) > 0 {
		rule += ";BYDAY=" + strings.Join(byDay, ",")
	}
	if until != nil {
		rule += ";UNTIL=" + until.UTC().Format("20060102T150405Z")
	}

	return rule
}

// ParseRecurrenceRule parses a rule string back into its parts.
// Unknown keys are ignored.
func ParseRecurrenceRule(rule string) RecurrenceRule {
	result := RecurrenceRule{Interval: 1}

	for _, part := range strings.Split(rule, ";") {
		key, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		switch key {
		case "FREQ":
			result.Frequency = value
		case "INTERVAL":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				result.Interval = n
			}
		case "BYDAY":
			result.ByDay = strings.Split(value, ",")
		case "UNTIL":
			if t, err := time.Parse("20060102T150405Z", value); err == nil {
				result.Until = &t
			}
		}
	}

	return result
}

// NextOccurrence computes the next occurrence of a rule after fromDate.
func NextOccurrence(rule string, fromDate time.Time) time.Time {
	parsed := ParseRecurrenceRule(rule)

	switch parsed.Frequency {
	case FreqDaily:
		return fromDate.AddDate(0, 0, parsed.Interval)
	case FreqWeekly:
		return fromDate.AddDate(0, 0, 7*parsed.Interval)
	case FreqMonthly:
		return fromDate.AddDate(0, parsed.Interval, 0)
	case FreqYearly:
		return fromDate.AddDate(parsed.Interval, 0, 0)
	}

	return fromDate
}

// FormatDuration renders minutes as "2h 30m", "45m" or "3h".
func FormatDuration(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60

	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}
