package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	ports "calsheets/internal/calendar"
	"calsheets/internal/core"
)

var _ ports.Lister = (*Store)(nil)

// Store is an in-memory calendar account for tests and local runs.
type Store struct {
	mu        sync.Mutex
	calendars map[string]string // display name -> id
	events    map[string][]core.CalendarEvent
	failures  map[string]error
}

func New() *Store {
	return &Store{
		calendars: map[string]string{},
		events:    map[string][]core.CalendarEvent{},
		failures:  map[string]error{},
	}
}

// AddCalendar registers a calendar and its events.
func (s *Store) AddCalendar(name, id string, events ...core.CalendarEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calendars[name] = id
	s.events[id] = append(s.events[id], events...)
}

// FailEvents makes ListEvents return err for the calendar id.
func (s *Store) FailEvents(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[id] = err
}

func (s *Store) ListCalendars(_ context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.calendars))
	for k, v := range s.calendars {
		out[k] = v
	}
	return out, nil
}

// ListEvents returns the events overlapping w, ordered by start time.
func (s *Store) ListEvents(_ context.Context, calendarID string, w core.Window) ([]core.CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failures[calendarID]; err != nil {
		return nil, fmt.Errorf("list events of %s: %w", calendarID, err)
	}
	var out []core.CalendarEvent
	for _, ev := range s.events[calendarID] {
		if ev.End.After(w.Start) && ev.Start.Before(w.End) {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}
