package core

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"
)

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func event(title string, start time.Time, d time.Duration) CalendarEvent {
	return CalendarEvent{Title: title, Start: start, End: start.Add(d)}
}

func TestAggregateHours(t *testing.T) {
	logger, _ := bufferLogger()
	r := NewResolver([]CategoryConfig{
		{Name: "Dev", Aliases: []string{"Coding"}},
		{Name: "Gym"},
	})
	at := time.Date(2021, 3, 14, 9, 0, 0, 0, time.UTC)

	agg := AggregateHours(logger, r, []CalendarEvent{
		event("Dev", at, 90*time.Minute),
		event("Coding", at.Add(2*time.Hour), time.Hour),
		event("Gym", at.Add(5*time.Hour), 45*time.Minute),
		event("Lunch", at.Add(3*time.Hour), time.Hour),
	})

	if len(agg) != 2 {
		t.Fatalf("unexpected categories: %v", agg)
	}
	if agg["Dev"] != 2.5 {
		t.Errorf("Dev = %v, want 2.5", agg["Dev"])
	}
	if agg["Gym"] != 0.75 {
		t.Errorf("Gym = %v, want 0.75", agg["Gym"])
	}
	if _, ok := agg["Lunch"]; ok {
		t.Error("unresolved title should not create a category")
	}
}

func TestAggregateHours_OrderIndependent(t *testing.T) {
	logger, _ := bufferLogger()
	r := NewResolver([]CategoryConfig{{Name: "A"}, {Name: "B"}})
	at := time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC)
	events := []CalendarEvent{
		event("A", at, 20*time.Minute),
		event("B", at, 3*time.Hour),
		event("A", at, 7*time.Minute),
		event("B", at, 11*time.Minute),
		event("A", at, 2*time.Hour),
	}
	want := AggregateHours(logger, r, events)

	reversed := make([]CalendarEvent, len(events))
	for i, e := range events {
		reversed[len(events)-1-i] = e
	}
	rotated := append(append([]CalendarEvent{}, events[2:]...), events[:2]...)

	for _, perm := range [][]CalendarEvent{reversed, rotated} {
		got := AggregateHours(logger, r, perm)
		for k, v := range want {
			if math.Abs(got[k]-v) > 1e-9 {
				t.Errorf("%s = %v, want %v", k, got[k], v)
			}
		}
	}
}

func TestAggregateHours_OversizedWarning(t *testing.T) {
	r := NewResolver([]CategoryConfig{{Name: "Dev"}})
	at := time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC)

	logger, buf := bufferLogger()
	agg := AggregateHours(logger, r, []CalendarEvent{
		event("Dev", at, 12*time.Hour),
		event("Dev", at.Add(12*time.Hour), 12*time.Hour),
	})
	if agg["Dev"] != 24 {
		t.Fatalf("Dev = %v", agg["Dev"])
	}
	if !strings.Contains(buf.String(), "Hours exceeded for tab") {
		t.Errorf("expected warning at exactly 24h, log: %s", buf.String())
	}

	logger, buf = bufferLogger()
	AggregateHours(logger, r, []CalendarEvent{
		event("Dev", at, 12*time.Hour),
		event("Dev", at.Add(12*time.Hour), 11999*time.Hour/1000),
	})
	if strings.Contains(buf.String(), "Hours exceeded for tab") {
		t.Errorf("unexpected warning below 24h, log: %s", buf.String())
	}
}

func TestAggregateHours_InvertedEventCountsZero(t *testing.T) {
	logger, buf := bufferLogger()
	r := NewResolver([]CategoryConfig{{Name: "Dev"}})
	at := time.Date(2021, 3, 14, 10, 0, 0, 0, time.UTC)

	agg := AggregateHours(logger, r, []CalendarEvent{{Title: "Dev", Start: at, End: at.Add(-time.Hour)}})
	if h, ok := agg["Dev"]; !ok || h != 0 {
		t.Errorf("Dev = %v,%v want 0,true", h, ok)
	}
	if !strings.Contains(buf.String(), "ends before it starts") {
		t.Errorf("expected warning, log: %s", buf.String())
	}
}

func TestAggregator_AccumulatesAcrossCalendars(t *testing.T) {
	logger, _ := bufferLogger()
	all := NewResolver([]CategoryConfig{{Name: "Dev"}, {Name: "Gym"}})
	at := time.Date(2021, 3, 14, 10, 0, 0, 0, time.UTC)

	agg := NewAggregator(logger)
	agg.Add(all.Restrict([]string{"Dev"}), []CalendarEvent{event("Dev", at, time.Hour), event("Gym", at, time.Hour)})
	agg.Add(all, []CalendarEvent{event("Dev", at, 30*time.Minute), event("Gym", at, time.Hour)})

	got := agg.Result()
	if got["Dev"] != 1.5 || got["Gym"] != 1 {
		t.Errorf("unexpected totals %v", got)
	}
	if agg.Matched() != 3 {
		t.Errorf("Matched = %d, want 3", agg.Matched())
	}
}
