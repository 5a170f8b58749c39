package calendar

import (
	"context"

	"calsheets/internal/core"
)

// Ports for calendar adapters.
type (
	// Lister reads calendars and their events.
	Lister interface {
		// ListCalendars returns every calendar visible to the credentials,
		// keyed by display name.
		ListCalendars(ctx context.Context) (map[string]string, error)
		// ListEvents returns the timed events of a calendar that overlap
		// the window, recurring events expanded, ordered by start time.
		ListEvents(ctx context.Context, calendarID string, w core.Window) ([]core.CalendarEvent, error)
	}
)
