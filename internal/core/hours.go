package core

import (
	"log/slog"
)

// DayHours is the per-category total that triggers the oversized warning.
const DayHours = 24.0

// Aggregator sums event hours per category. The zero value is not usable;
// build one with NewAggregator.
type Aggregator struct {
	logger *slog.Logger
	totals Aggregate
	events int
}

func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger, totals: Aggregate{}}
}

// Add folds events into the running totals using resolver. Unresolved titles
// are skipped. A category reaching DayHours is logged but kept as is.
func (a *Aggregator) Add(resolver *Resolver, events []CalendarEvent) {
	for _, ev := range events {
		tab, ok := resolver.Resolve(ev.Title)
		if !ok {
			a.logger.Debug("Event outside tracked tabs", "title", ev.Title)
			continue
		}
		if ev.End.Before(ev.Start) {
			a.logger.Warn("Event ends before it starts, counting zero hours",
				"title", ev.Title, "tab", tab, "start", ev.Start, "end", ev.End)
		}
		a.totals[tab] += ev.Hours()
		a.events++
		if a.totals[tab] >= DayHours {
			a.logger.Warn("Hours exceeded for tab", "tab", tab, "hours", a.totals[tab])
		}
	}
}

// Result returns the accumulated totals. Only categories with at least one
// matched event are present.
func (a *Aggregator) Result() Aggregate {
	out := make(Aggregate, len(a.totals))
	for k, v := range a.totals {
		out[k] = v
	}
	return out
}

// Matched returns the number of events attributed to a category.
func (a *Aggregator) Matched() int {
	return a.events
}

// AggregateHours is a one-shot Aggregator for a single event list.
func AggregateHours(logger *slog.Logger, resolver *Resolver, events []CalendarEvent) Aggregate {
	agg := NewAggregator(logger)
	agg.Add(resolver, events)
	return agg.Result()
}
