package core

import "time"

// Window is the half-open time range [Start, End) fetched in one run.
type Window struct {
	Start time.Time
	End   time.Time
}

// Yesterday returns yesterday 00:00 to today 00:00 in loc.
func Yesterday(now time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	return Window{
		Start: time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, loc),
		End:   today,
	}
}

// Day is the calendar date the window covers.
func (w Window) Day() time.Time {
	return w.Start
}

type (
	CellWrite struct {
		Tab   string
		Range string
		Hours float64
		Err   error
	}

	// RunSummary describes one completed job invocation.
	RunSummary struct {
		RunID      string
		Day        time.Time
		StartedAt  time.Time
		FinishedAt time.Time
		Calendars  int
		Events     int
		Writes     []CellWrite
		Skipped    map[string]error
		Err        error // Run-level failure, nil when the run completed
	}
)

// Failed counts writes that returned an error.
func (s RunSummary) Failed() int {
	n := 0
	for _, w := range s.Writes {
		if w.Err != nil {
			n++
		}
	}
	return n
}

// Status is a short label for history and notifications.
func (s RunSummary) Status() string {
	switch {
	case len(s.Writes) == 0 && s.Err != nil:
		return "failed"
	case len(s.Writes) == 0:
		return "empty"
	case s.Failed() == len(s.Writes):
		return "failed"
	case s.Failed() > 0:
		return "partial"
	default:
		return "ok"
	}
}
