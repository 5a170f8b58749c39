package memory

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	ports "calsheets/internal/sheets"
)

var (
	_ ports.CellWriter = (*Store)(nil)
	_ ports.TabLister  = (*Store)(nil)
	_ ports.CellReader = (*Store)(nil)
)

// Store keeps cell values in memory. It backs dry runs and tests.
type Store struct {
	mu       sync.Mutex
	tabs     map[string]int64 // nil: every tab exists
	cells    map[string]float64
	order    []string
	failures map[string]error
	logger   *slog.Logger
}

// New returns a store that accepts writes to any tab.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{cells: map[string]float64{}, failures: map[string]error{}, logger: logger}
}

// WithTabs restricts the store to the named tabs; ranges on other tabs fail.
func (s *Store) WithTabs(names ...string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabs = make(map[string]int64, len(names))
	for i, n := range names {
		s.tabs[n] = int64(i)
	}
	return s
}

// Fail makes every write to rng return err.
func (s *Store) Fail(rng string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[rng] = err
}

func (s *Store) UpdateCell(_ context.Context, rng string, value float64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failures[rng]; err != nil {
		return 0, fmt.Errorf("update %s: %w", rng, err)
	}
	tab, _, ok := splitRange(rng)
	if !ok {
		return 0, fmt.Errorf("update %s: invalid range", rng)
	}
	if s.tabs != nil {
		if _, exists := s.tabs[tab]; !exists {
			return 0, fmt.Errorf("update %s: unknown tab %q", rng, tab)
		}
	}

	if _, seen := s.cells[rng]; !seen {
		s.order = append(s.order, rng)
	}
	s.cells[rng] = value
	s.logger.Info("Dry run: cell not written to the spreadsheet", "range", rng, "hours", value)
	return 1, nil
}

// Tabs lists the configured tabs. It returns nil when the store was built
// without WithTabs, as every tab is then accepted.
func (s *Store) Tabs(_ context.Context) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tabs == nil {
		return nil, nil
	}
	out := make(map[string]int64, len(s.tabs))
	for k, v := range s.tabs {
		out[k] = v
	}
	return out, nil
}

func (s *Store) ReadCell(_ context.Context, rng string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cells[rng]
	if !ok {
		return "", nil
	}
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}

// Cells returns a copy of every written cell.
func (s *Store) Cells() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.cells))
	for k, v := range s.cells {
		out[k] = v
	}
	return out
}

// Written returns the ranges in first-write order.
func (s *Store) Written() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// splitRange splits "Tab!A1" or "'My tab'!A1" into tab and cell.
func splitRange(rng string) (tab, cell string, ok bool) {
	i := strings.LastIndex(rng, "!")
	if i <= 0 || i == len(rng)-1 {
		return "", "", false
	}
	tab, cell = rng[:i], rng[i+1:]
	if len(tab) >= 2 && strings.HasPrefix(tab, "'") && strings.HasSuffix(tab, "'") {
		tab = strings.ReplaceAll(tab[1:len(tab)-1], "''", "'")
	}
	return tab, cell, true
}
