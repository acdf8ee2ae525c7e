package calendar

import (
	"context"
	"time"

	"github.com/taskmasterpro/taskmaster-api/internal/models"
	"github.com/taskmasterpro/taskmaster-api/internal/repository"
)

// SourcesForUser builds the event sources for the user's active
// calendar integrations.
func SourcesForUser(integrations []models.CalendarIntegration) []EventSource {
	var sources []EventSource
	for _, integration := range integrations {
		switch integration.Provider {
		case models.CalendarProviderGoogle:
			sources = append(sources, &googleSource{})
		case models.CalendarProviderOutlook:
			sources = append(sources, &outlookSource{})
		}
	}
	return sources
}

// ManagerForUser resolves the user's integrations and returns a Manager
// over the matching sources.
func ManagerForUser(userID string, integrations repository.CalendarIntegrationRepository) (*Manager, error) {
	active, err := integrations.ListActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	return NewManager(userID, SourcesForUser(active)...), nil
}

// googleSource will back onto the Google Calendar API; it currently
// returns representative fixture data.
// TODO: wire the real Google Calendar client once OAuth token refresh lands.
type googleSource struct{}

func (s *googleSource) Name() string { return "google" }

func (s *googleSource) FetchEvents(ctx context.Context, userID string, start, end time.Time) ([]Event, error) {
	return []Event{
		{
			ID:          "google-1",
			Title:       "Team Meeting",
			Start:       start.Add(2 * time.Hour),
			End:         start.Add(3 * time.Hour),
			Description: "Weekly team sync",
			IsAllDay:    false,
			Source:      "google",
		},
	}, nil
}

// outlookSource will back onto the Outlook Calendar API; it currently
// returns representative fixture data.
type outlookSource struct{}

func (s *outlookSource) Name() string { return "outlook" }

func (s *outlookSource) FetchEvents(ctx context.Context, userID string, start, end time.Time) ([]Event, error) {
	return []Event{
		{
			ID:          "outlook-1",
			Title:       "Client Call",
			Start:       start.Add(4 * time.Hour),
			End:         start.Add(5 * time.Hour),
			Description: "Project review call",
			IsAllDay:    false,
			Source:      "outlook",
		},
	}, nil
}
