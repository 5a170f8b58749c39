package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	ports "calsheets/internal/calendar"
	"calsheets/internal/core"

	gcalendar "google.golang.org/api/calendar/v3"
	goption "google.golang.org/api/option"
)

// pageSize is the largest page the Calendar API accepts for events.
const pageSize = 2500

type Client struct {
	svc    *gcalendar.Service
	logger *slog.Logger
}

// Ensure interface conformance
var _ ports.Lister = (*Client)(nil)

// New creates a Calendar client. Authentication comes from opts, usually
// goption.WithTokenSource.
func New(ctx context.Context, logger *slog.Logger, opts ...goption.ClientOption) (*Client, error) {
	svc, err := gcalendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return NewWithService(svc, logger), nil
}

func NewWithService(svc *gcalendar.Service, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{svc: svc, logger: logger}
}

func (c *Client) ListCalendars(ctx context.Context) (map[string]string, error) {
	if c.svc == nil {
		return nil, errors.New("calendar service not initialized")
	}

	out := map[string]string{}
	page := ""
	for {
		call := c.svc.CalendarList.List().Context(ctx)
		if page != "" {
			call.PageToken(page)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list calendars: %w", err)
		}
		for _, item := range resp.Items {
			if _, dup := out[item.Summary]; dup {
				c.logger.Warn("Two calendars share a name, keeping the first", "calendar", item.Summary, "calendar_id", item.Id)
				continue
			}
			out[item.Summary] = item.Id
		}
		if page = resp.NextPageToken; page == "" {
			break
		}
	}
	return out, nil
}

func (c *Client) ListEvents(ctx context.Context, calendarID string, w core.Window) ([]core.CalendarEvent, error) {
	if c.svc == nil {
		return nil, errors.New("calendar service not initialized")
	}

	var out []core.CalendarEvent
	page := ""
	for {
		call := c.svc.Events.List(calendarID).
			TimeMin(w.Start.Format(time.RFC3339)).
			TimeMax(w.End.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			MaxResults(pageSize).
			Context(ctx)
		if page != "" {
			call.PageToken(page)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list events of %s: %w", calendarID, err)
		}
		for _, item := range resp.Items {
			ev, ok, err := toEvent(item)
			if err != nil {
				return nil, fmt.Errorf("event %q: %w", item.Summary, err)
			}
			if !ok {
				c.logger.Debug("Skipping all-day event", "title", item.Summary, "calendar_id", calendarID)
				continue
			}
			out = append(out, ev)
		}
		if page = resp.NextPageToken; page == "" {
			break
		}
	}
	return out, nil
}

// toEvent converts an API event. All-day events carry a date instead of a
// timestamp and are reported with ok == false.
func toEvent(item *gcalendar.Event) (ev core.CalendarEvent, ok bool, err error) {
	if item.Start == nil || item.End == nil || item.Start.DateTime == "" || item.End.DateTime == "" {
		return core.CalendarEvent{}, false, nil
	}
	start, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return core.CalendarEvent{}, false, fmt.Errorf("parse start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, item.End.DateTime)
	if err != nil {
		return core.CalendarEvent{}, false, fmt.Errorf("parse end: %w", err)
	}
	return core.CalendarEvent{Title: item.Summary, Start: start, End: end}, true, nil
}
