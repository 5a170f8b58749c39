package core

import (
	"errors"
	"testing"
	"time"
)

func TestYesterday(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	now := time.Date(2021, 3, 1, 7, 30, 0, 0, loc)

	w := Yesterday(now, loc)
	if !w.Start.Equal(time.Date(2021, 2, 28, 0, 0, 0, 0, loc)) {
		t.Errorf("Start = %v", w.Start)
	}
	if !w.End.Equal(time.Date(2021, 3, 1, 0, 0, 0, 0, loc)) {
		t.Errorf("End = %v", w.End)
	}
	if w.Day().Day() != 28 || w.Day().Month() != time.February {
		t.Errorf("Day = %v", w.Day())
	}
}

func TestYesterday_ConvertsToLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	// 20:00 UTC on Jan 1 is already Jan 2 at UTC+10.
	now := time.Date(2021, 1, 1, 20, 0, 0, 0, time.UTC)

	w := Yesterday(now, loc)
	if w.Day().Day() != 1 {
		t.Errorf("Day = %v, want Jan 1", w.Day())
	}
}

func TestRunSummaryStatus(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		writes []CellWrite
		err    error
		want   string
	}{
		{nil, nil, "empty"},
		{nil, boom, "failed"},
		{[]CellWrite{{Tab: "A"}}, nil, "ok"},
		{[]CellWrite{{Tab: "A"}, {Tab: "B", Err: boom}}, boom, "partial"},
		{[]CellWrite{{Tab: "A", Err: boom}}, boom, "failed"},
	}
	for _, tc := range cases {
		s := RunSummary{Writes: tc.writes, Err: tc.err}
		if got := s.Status(); got != tc.want {
			t.Errorf("Status() = %q, want %q", got, tc.want)
		}
	}
}
