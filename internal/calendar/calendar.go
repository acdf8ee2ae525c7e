// Package calendar finds candidate time slots for task work inside a
// category's weekly availability windows, avoiding events pulled from
// the user's external calendars.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/taskmasterpro/taskmaster-api/internal/constants"
)

// ErrNoAvailableSlots is returned by SuggestOptimalSchedule when no
// open slot exists anywhere in the horizon.
var ErrNoAvailableSlots = errors.New("no available time slots found for this task")

// Event is an externally-sourced calendar entry occupying [Start, End).
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	IsAllDay    bool      `json:"is_all_day"`
	Source      string    `json:"source"`
}

// TimeSlot is a candidate interval for scheduling a task.
type TimeSlot struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Duration    int       `json:"duration"` // minutes
	IsAvailable bool      `json:"is_available"`
	Conflicts   []Event   `json:"conflicts,omitempty"`
}

// Window is a weekly availability window (DayOfWeek 0 = Sunday).
type Window struct {
	DayOfWeek int `json:"day_of_week"`
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
}

// Suggestion is the outcome of optimal single-slot selection.
type Suggestion struct {
	SuggestedStart   time.Time  `json:"suggested_start_date"`
	SuggestedEnd     time.Time  `json:"suggested_end_date"`
	Reason           string     `json:"reason"`
	AlternativeSlots []TimeSlot `json:"alternative_slots"`
}

// EventSource fetches events from one external calendar provider.
type EventSource interface {
	Name() string
	FetchEvents(ctx context.Context, userID string, start, end time.Time) ([]Event, error)
}

// Manager computes availability for one user.
type Manager struct {
	userID  string
	sources []EventSource
}

// NewManager creates a Manager over the given event sources.
func NewManager(userID string, sources ...EventSource) *Manager {
	return &Manager{userID: userID, sources: sources}
}

// Events collects events from every source over [start, end]. A failing
// source is logged and skipped; the remaining sources still contribute.
func (m *Manager) Events(ctx context.Context, start, end time.Time) []Event {
	var events []Event
	for _, src := range m.sources {
		fetched, err := src.FetchEvents(ctx, m.userID, start, end)
		if err != nil {
			log.Printf("calendar: fetching %s events failed: %v", src.Name(), err)
			continue
		}
		events = append(events, fetched...)
	}
	return events
}

// FindAvailableTimeSlots enumerates candidate slots of requiredDuration
// minutes over each calendar day in [startDate, endDate] and returns
// the available ones in chronological order.
//
// When several windows share a weekday, slots are generated for every
// matching window (merged), not just the first. Slots whose end would
// cross a window's end hour are not generated.
func (m *Manager) FindAvailableTimeSlots(ctx context.Context, requiredDuration int, startDate, endDate time.Time, windows []Window) ([]TimeSlot, error) {
	if requiredDuration <= 0 {
		return nil, fmt.Errorf("required duration must be positive, got %d", requiredDuration)
	}

	events := m.Events(ctx, startDate, endDate)
	slots := EnumerateSlots(requiredDuration, startDate, endDate, windows, events)

	available := make([]TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.IsAvailable {
			available = append(available, slot)
		}
	}
	return available, nil
}

// EnumerateSlots generates every candidate slot, available or not, with
// conflicting events attached to the unavailable ones. Exposed for the
// availability computation to be testable without event sources.
func EnumerateSlots(requiredDuration int, startDate, endDate time.Time, windows []Window, events []Event) []TimeSlot {
	var slots []TimeSlot

	day := truncateToDay(startDate)
	last := truncateToDay(endDate)

	for !day.After(last) {
		weekday := int(day.Weekday())
		for _, w := range windows {
			if w.DayOfWeek != weekday {
				continue
			}
			slots = append(slots, slotsForWindow(day, w, requiredDuration, events)...)
		}
		day = day.AddDate(0, 0, 1)
	}

	return slots
}

// slotsForWindow generates slots at a 30-minute stride inside one
// window on one day. A window with StartHour >= EndHour yields nothing.
func slotsForWindow(day time.Time, w Window, requiredDuration int, events []Event) []TimeSlot {
	var slots []TimeSlot

	windowEnd := day.Add(time.Duration(w.EndHour) * time.Hour)

	for hour := w.StartHour; hour < w.EndHour; hour++ {
		for minute := 0; minute < 60; minute += constants.SlotIntervalMinutes {
			start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
			end := start.Add(time.Duration(requiredDuration) * time.Minute)

			if end.After(windowEnd) {
				continue
			}

			conflicts := conflictingEvents(start, end, events)
			slots = append(slots, TimeSlot{
				Start:       start,
				End:         end,
				Duration:    requiredDuration,
				IsAvailable: len(conflicts) == 0,
				Conflicts:   conflicts,
			})
		}
	}

	return slots
}

// conflictingEvents returns events overlapping [start, end) using the
// half-open interval test.
func conflictingEvents(start, end time.Time, events []Event) []Event {
	var conflicts []Event
	for _, ev := range events {
		if start.Before(ev.End) && end.After(ev.Start) {
			conflicts = append(conflicts, ev)
		}
	}
	return conflicts
}

// SuggestOptimalSchedule picks the best available slot for a task due
// at dueDate: the first slot falling in a preferred window when one
// matches, otherwise the first available slot overall. Up to three
// alternatives with distinct start times follow in order.
func (m *Manager) SuggestOptimalSchedule(ctx context.Context, taskDuration int, dueDate time.Time, windows []Window, preferred []Window) (*Suggestion, error) {
	available, err := m.FindAvailableTimeSlots(ctx, taskDuration, time.Now(), dueDate, windows)
	if err != nil {
		return nil, err
	}
	return SelectOptimalSlot(available, preferred)
}

// SelectOptimalSlot applies preference matching and alternative
// selection over an already-computed available-slot list.
func SelectOptimalSlot(available []TimeSlot, preferred []Window) (*Suggestion, error) {
	if len(available) == 0 {
		return nil, ErrNoAvailableSlots
	}

	optimal := available[0]
	matchedPreference := false

	if len(preferred) > 0 {
		for _, slot := range available {
			if inPreferredWindow(slot, preferred) {
				optimal = slot
				matchedPreference = true
				break
			}
		}
	}

	var alternatives []TimeSlot
	for _, slot := range available {
		if slot.Start.Equal(optimal.Start) {
			continue
		}
		alternatives = append(alternatives, slot)
		if len(alternatives) == constants.MaxAlternativeSlots {
			break
		}
	}

	return &Suggestion{
		SuggestedStart:   optimal.Start,
		SuggestedEnd:     optimal.End,
		Reason:           schedulingReason(optimal, matchedPreference),
		AlternativeSlots: alternatives,
	}, nil
}

func inPreferredWindow(slot TimeSlot, preferred []Window) bool {
	weekday := int(slot.Start.Weekday())
	hour := slot.Start.Hour()
	for _, pref := range preferred {
		if pref.DayOfWeek == weekday && hour >= pref.StartHour && hour < pref.EndHour {
			return true
		}
	}
	return false
}

func schedulingReason(slot TimeSlot, matchedPreference bool) string {
	dayName := slot.Start.Weekday().String()
	timeString := slot.Start.Format("3:04 PM")

	if matchedPreference {
		return fmt.Sprintf("Scheduled during your preferred work time on %s at %s", dayName, timeString)
	}
	return fmt.Sprintf("Scheduled on %s at %s based on available time and category constraints", dayName, timeString)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
