package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"calsheets/internal/calendar"
	"calsheets/internal/config"
	"calsheets/internal/core"
	"calsheets/internal/log"
)

// ErrNoCalendars means none of the configured calendars exists in the
// account. It is reported but is not a process failure.
var ErrNoCalendars = errors.New("no calendars were found matching any in the configuration")

type (
	// HistoryRecorder persists finished runs.
	HistoryRecorder interface {
		RecordRun(ctx context.Context, s core.RunSummary) error
	}

	// Notifier announces finished runs.
	Notifier interface {
		PublishRun(ctx context.Context, s core.RunSummary) error
	}
)

// Job is the daily run: read yesterday's events, aggregate and write.
type Job struct {
	calendars calendar.Lister
	writer    *HoursWriter
	sources   []core.CalendarSource
	resolver  *core.Resolver
	location  *time.Location

	history  HistoryRecorder
	notifier Notifier
	logger   *slog.Logger
	clock    func() time.Time
	newID    func() string
}

// finishTimeout bounds history and notification once the run is over.
const finishTimeout = 10 * time.Second

type JobOption func(*Job)

func WithHistory(h HistoryRecorder) JobOption {
	return func(j *Job) { j.history = h }
}

func WithNotifier(n Notifier) JobOption {
	return func(j *Job) { j.notifier = n }
}

func WithLogger(l *slog.Logger) JobOption {
	return func(j *Job) {
		if l != nil {
			j.logger = l
		}
	}
}

// WithClock overrides the clock used for the run start and finish times.
func WithClock(clock func() time.Time) JobOption {
	return func(j *Job) { j.clock = clock }
}

func NewJob(cal calendar.Lister, writer *HoursWriter, settings *config.Settings, opts ...JobOption) *Job {
	j := &Job{
		calendars: cal,
		writer:    writer,
		sources:   settings.Calendars,
		resolver:  core.NewResolver(settings.Categories),
		location:  settings.Location,
		logger:    slog.Default(),
		clock:     time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Run processes the day before now. The returned summary is filled in as
// far as the run got, including on error. Start and finish times come from
// the job clock; now only selects the window.
func (j *Job) Run(ctx context.Context, now time.Time) (summary core.RunSummary, err error) {
	window := core.Yesterday(now, j.location)
	summary = core.RunSummary{RunID: j.newID(), Day: window.Day(), StartedAt: j.clock()}
	logger := j.logger.With(log.NewFields().WithRun(summary.RunID, summary.Day).ToSlice()...)

	logger.Info("Run started", "window_start", window.Start, "window_end", window.End)
	defer func() {
		summary.FinishedAt = j.clock()
		summary.Err = err
		j.finish(ctx, logger, summary)
	}()

	sources, err := j.matchCalendars(ctx, logger)
	if err != nil {
		return summary, err
	}
	summary.Calendars = len(sources)

	agg := core.NewAggregator(logger.With(log.FieldComponent, log.ComponentAggregate))
	for _, src := range sources {
		events, err := j.calendars.ListEvents(ctx, src.ID, window)
		if err != nil {
			return summary, fmt.Errorf("calendar %q: %w", src.DisplayName, err)
		}
		before := agg.Matched()
		agg.Add(j.resolver.Restrict(src.Categories), events)
		logger.Info("Calendar read",
			log.FieldCalendar, src.DisplayName,
			log.FieldEvents, len(events),
			"matched", agg.Matched()-before)
	}
	summary.Events = agg.Matched()

	totals := agg.Result()
	if len(totals) == 0 {
		logger.Info("No tab-hours were found for yesterday")
		return summary, nil
	}

	report, err := j.writer.Write(ctx, window.Day(), totals)
	summary.Writes = report.Writes
	summary.Skipped = report.Skipped
	if err != nil {
		return summary, fmt.Errorf("write hours: %w", err)
	}
	return summary, nil
}

// matchCalendars keeps the configured calendars present in the account, in
// configuration order, with their ids filled in.
func (j *Job) matchCalendars(ctx context.Context, logger *slog.Logger) ([]core.CalendarSource, error) {
	all, err := j.calendars.ListCalendars(ctx)
	if err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}

	var matched []core.CalendarSource
	for _, src := range j.sources {
		id, ok := all[src.DisplayName]
		if !ok {
			logger.Warn("Configured calendar not found", log.FieldCalendar, src.DisplayName)
			continue
		}
		src.ID = id
		matched = append(matched, src)
	}
	if len(matched) == 0 {
		logger.Error("No calendars were found matching any in your configuration", "available", len(all))
		return nil, ErrNoCalendars
	}
	return matched, nil
}

// finish records and announces the run. Failures here only warn. It runs
// detached from ctx cancellation so a timed out or interrupted run is still
// recorded.
func (j *Job) finish(ctx context.Context, logger *slog.Logger, s core.RunSummary) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finishTimeout)
	defer cancel()

	logger.Info("Run finished",
		"status", s.Status(),
		log.FieldEvents, s.Events,
		"writes", len(s.Writes),
		"failed", s.Failed(),
		"skipped", len(s.Skipped),
		log.FieldDuration, s.FinishedAt.Sub(s.StartedAt).Milliseconds())

	if j.history != nil {
		if err := j.history.RecordRun(ctx, s); err != nil {
			logger.Warn("Failed to record run history", log.FieldError, err)
		}
	}
	if j.notifier != nil {
		if err := j.notifier.PublishRun(ctx, s); err != nil {
			logger.Warn("Failed to publish run notification", log.FieldError, err)
		}
	}
}
