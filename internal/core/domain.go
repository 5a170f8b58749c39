package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type (
	// StartCell anchors a tab: Cell is the address of day 1 of Month/Year.
	StartCell struct {
		Cell  string
		Year  int
		Month time.Month
	}

	CategoryConfig struct {
		Name    string
		Aliases []string // Alternate event titles, in configuration order
		Start   StartCell
	}

	// CalendarSource is a watched calendar. An empty Categories list accepts
	// every configured category.
	CalendarSource struct {
		DisplayName string
		Categories  []string
		ID          string // Resolved at runtime
	}

	CalendarEvent struct {
		Title string
		Start time.Time
		End   time.Time
	}

	// Aggregate maps a category name to the hours accumulated in one run.
	Aggregate map[string]float64

	CellAddress struct {
		Column string
		Row    int
	}
)

var (
	ErrInvalidCellFormat = errors.New("invalid cell format")
	ErrColumnOutOfRange  = errors.New("column out of range")
	ErrTargetBeforeStart = errors.New("target date before start month")
	ErrInvalidStart      = errors.New("invalid start year or month")
)

// Hours returns the elapsed hours of the event. Inverted events count as zero.
func (e CalendarEvent) Hours() float64 {
	d := e.End.Sub(e.Start)
	if d < 0 {
		return 0
	}
	return d.Hours()
}

func (a CellAddress) String() string {
	return fmt.Sprintf("%s%d", a.Column, a.Row)
}

// Range formats the address as an A1 range on the given tab.
func (a CellAddress) Range(tab string) string {
	return fmt.Sprintf("%s!%s", quoteTab(tab), a.String())
}

// quoteTab wraps tab names that A1 notation cannot take bare.
func quoteTab(tab string) string {
	for _, r := range tab {
		if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_') {
			return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
		}
	}
	return tab
}

// Total returns the sum of all categories.
func (a Aggregate) Total() float64 {
	var total float64
	for _, h := range a {
		total += h
	}
	return total
}
