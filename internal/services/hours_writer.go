package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"calsheets/internal/core"
	"calsheets/internal/log"
	"calsheets/internal/sheets"
)

var ErrTabNotFound = errors.New("tab not found in spreadsheet")

// WriteReport lists what one Write did, per category.
type WriteReport struct {
	Writes  []core.CellWrite
	Skipped map[string]error // Categories excluded before any write
}

// HoursWriter writes a day's aggregate into the configured cells.
type HoursWriter struct {
	writer     sheets.CellWriter
	tabs       sheets.TabLister // nil when the backend cannot list tabs
	categories []core.CategoryConfig
	logger     *slog.Logger
}

// NewHoursWriter builds a writer for categories. When w also implements
// sheets.TabLister, categories whose tab is missing are skipped.
func NewHoursWriter(w sheets.CellWriter, categories []core.CategoryConfig, logger *slog.Logger) *HoursWriter {
	if logger == nil {
		logger = slog.Default()
	}
	hw := &HoursWriter{writer: w, categories: categories, logger: logger}
	if tl, ok := w.(sheets.TabLister); ok {
		hw.tabs = tl
	}
	return hw
}

// Addresses computes the A1 range of day for every category. Categories
// whose cell cannot be computed, or whose tab does not exist, are returned
// in skipped with the reason and logged.
func (w *HoursWriter) Addresses(ctx context.Context, day time.Time) (ranges map[string]string, skipped map[string]error) {
	ranges = make(map[string]string, len(w.categories))
	skipped = map[string]error{}

	existing := w.existingTabs(ctx)
	for _, c := range w.categories {
		addr, err := core.ComputeAddress(c, day)
		if err != nil {
			w.logger.Error("Skipping tab", log.FieldTab, c.Name, "cell", c.Start.Cell, log.FieldError, err)
			skipped[c.Name] = err
			continue
		}
		if existing != nil {
			if _, ok := existing[c.Name]; !ok {
				w.logger.Error("Skipping tab", log.FieldTab, c.Name, log.FieldError, ErrTabNotFound)
				skipped[c.Name] = ErrTabNotFound
				continue
			}
		}
		ranges[c.Name] = addr.Range(c.Name)
	}
	return ranges, skipped
}

// existingTabs returns nil when the check cannot be made.
func (w *HoursWriter) existingTabs(ctx context.Context) map[string]int64 {
	if w.tabs == nil {
		return nil
	}
	tabs, err := w.tabs.Tabs(ctx)
	if err != nil {
		w.logger.Warn("Cannot list spreadsheet tabs, writing without checking them", log.FieldError, err)
		return nil
	}
	return tabs
}

// Write sends one update per aggregated category, in configuration order.
// A failed update does not stop the others; the returned error joins every
// failure.
func (w *HoursWriter) Write(ctx context.Context, day time.Time, agg core.Aggregate) (WriteReport, error) {
	ranges, skipped := w.Addresses(ctx, day)
	report := WriteReport{Skipped: skipped}

	var errs []error
	for _, c := range w.categories {
		hours, ok := agg[c.Name]
		if !ok {
			continue
		}
		rng, ok := ranges[c.Name]
		if !ok {
			w.logger.Warn("Hours not written, tab was skipped", log.FieldTab, c.Name, log.FieldHours, hours)
			continue
		}

		start := time.Now()
		updated, err := w.writer.UpdateCell(ctx, rng, hours)
		report.Writes = append(report.Writes, core.CellWrite{Tab: c.Name, Range: rng, Hours: hours, Err: err})
		fields := log.NewFields().
			WithCell(c.Name, rng, hours).
			WithOperation(log.OpUpdate)
		fields[log.FieldDuration] = time.Since(start).Milliseconds()
		if err != nil {
			w.logger.Error("Failed to update cell", fields.WithError(err).ToSlice()...)
			errs = append(errs, fmt.Errorf("%s: %w", rng, err))
			continue
		}
		fields[log.FieldUpdated] = updated
		w.logger.Info("Cells in tab updated", fields.ToSlice()...)
	}
	return report, errors.Join(errs...)
}
