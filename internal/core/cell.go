package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Two-letter columns are only produced as "A" + letter, so AZ is the last
// reachable column.
const maxColumn = 52

// ParseCell splits an A1 cell such as "B12" into its column letters and row.
// Columns past AZ cannot be addressed, so more than two letters is rejected.
func ParseCell(cell string) (string, int, error) {
	s := strings.TrimSpace(cell)
	i := 0
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	if i == 0 {
		return "", 0, fmt.Errorf("%w: %q has no column letters", ErrInvalidCellFormat, cell)
	}
	if i > 2 {
		return "", 0, fmt.Errorf("%w: %q has more than two column letters", ErrInvalidCellFormat, cell)
	}
	digits := s[i:]
	if digits == "" {
		return "", 0, fmt.Errorf("%w: %q has no row number", ErrInvalidCellFormat, cell)
	}
	for j := 0; j < len(digits); j++ {
		if digits[j] < '0' || digits[j] > '9' {
			return "", 0, fmt.Errorf("%w: %q is not letters followed by digits", ErrInvalidCellFormat, cell)
		}
	}
	row, err := strconv.Atoi(digits)
	if err != nil || row < 1 {
		return "", 0, fmt.Errorf("%w: %q has an invalid row", ErrInvalidCellFormat, cell)
	}
	return strings.ToUpper(s[:i]), row, nil
}

// ColumnIndex returns the 1-based position of a column: A=1, Z=26, AA=27.
func ColumnIndex(col string) int {
	n := 0
	for i := 0; i < len(col); i++ {
		c := col[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		n = n*26 + int(c-'A'+1)
	}
	return n
}

// ColumnName is the inverse of ColumnIndex for the range A..AZ.
func ColumnName(index int) (string, error) {
	switch {
	case index < 1 || index > maxColumn:
		return "", fmt.Errorf("%w: index %d is outside A..AZ", ErrColumnOutOfRange, index)
	case index <= 26:
		return string(rune('A' + index - 1)), nil
	default:
		return "A" + string(rune('A'+index-27)), nil
	}
}

// MonthsBetween counts whole calendar months from (fromYear, fromMonth) to
// the month of t. The day of month is ignored.
func MonthsBetween(fromYear int, fromMonth time.Month, t time.Time) int {
	return (t.Year()-fromYear)*12 + int(t.Month()-fromMonth)
}

// ComputeAddress returns the cell holding the hours of target for the tab.
// Columns advance one per day of the month from the start column, rows one
// per month from the start month.
func ComputeAddress(cfg CategoryConfig, target time.Time) (CellAddress, error) {
	col, row, err := ParseCell(cfg.Start.Cell)
	if err != nil {
		return CellAddress{}, err
	}

	if cfg.Start.Year < 1 || cfg.Start.Month < time.January || cfg.Start.Month > time.December {
		return CellAddress{}, fmt.Errorf("%w: tab %s has start %d-%d", ErrInvalidStart, cfg.Name, cfg.Start.Year, int(cfg.Start.Month))
	}

	name, err := ColumnName(ColumnIndex(col) + target.Day() - 1)
	if err != nil {
		return CellAddress{}, fmt.Errorf("tab %s day %d: %w", cfg.Name, target.Day(), err)
	}

	months := MonthsBetween(cfg.Start.Year, cfg.Start.Month, target)
	if months < 0 {
		return CellAddress{}, fmt.Errorf("%w: tab %s starts %04d-%02d, target %s",
			ErrTargetBeforeStart, cfg.Name, cfg.Start.Year, int(cfg.Start.Month), target.Format(time.DateOnly))
	}

	return CellAddress{Column: name, Row: row + months}, nil
}

func isLetter(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
}
