package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"calsheets/internal/core"

	_ "modernc.org/sqlite"
)

var ErrRunNotFound = errors.New("run not found")

// RunRecord is a stored run as read back from history.
type RunRecord struct {
	ID         string
	Day        time.Time
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Calendars  int
	Events     int
	Error      string
}

// WriteRecord is one category outcome of a stored run.
type WriteRecord struct {
	Tab     string
	Range   string
	Hours   float64
	Skipped bool
	Error   string
}

// SQLiteRepository stores the history of runs.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *slog.Logger
}

// NewSQLiteRepository opens the history database at dbPath, creating its
// directory and migrating the schema. A nil logger uses slog.Default.
func NewSQLiteRepository(dbPath string, logger *slog.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		logger:  logger,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// RecordRun implements services.HistoryRecorder. The run and its cell
// outcomes are stored in one transaction.
func (r *SQLiteRepository) RecordRun(ctx context.Context, s core.RunSummary) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.CreateRun(ctx, Run{
		ID:         s.RunID,
		Day:        s.Day.Format(time.DateOnly),
		StartedAt:  s.StartedAt.UTC().Format(time.RFC3339Nano),
		FinishedAt: s.FinishedAt.UTC().Format(time.RFC3339Nano),
		Status:     s.Status(),
		Calendars:  int64(s.Calendars),
		Events:     int64(s.Events),
		Error:      errString(s.Err),
	}); err != nil {
		return fmt.Errorf("create run: %w", err)
	}

	for _, w := range s.Writes {
		if err := q.CreateCellWrite(ctx, CellWrite{
			RunID:     s.RunID,
			Tab:       w.Tab,
			CellRange: w.Range,
			Hours:     w.Hours,
			Error:     errString(w.Err),
		}); err != nil {
			return fmt.Errorf("create cell write for %s: %w", w.Tab, err)
		}
	}

	skipped := make([]string, 0, len(s.Skipped))
	for tab := range s.Skipped {
		skipped = append(skipped, tab)
	}
	sort.Strings(skipped)
	for _, tab := range skipped {
		if err := q.CreateCellWrite(ctx, CellWrite{
			RunID:   s.RunID,
			Tab:     tab,
			Skipped: true,
			Error:   errString(s.Skipped[tab]),
		}); err != nil {
			return fmt.Errorf("create skipped tab %s: %w", tab, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}

	r.logger.DebugContext(ctx, "Run recorded", "run_id", s.RunID, "writes", len(s.Writes), "skipped", len(skipped))
	return nil
}

// ListRuns returns the most recent runs first.
func (r *SQLiteRepository) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.queries.ListRuns(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	out := make([]RunRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := toRunRecord(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *SQLiteRepository) GetRun(ctx context.Context, id string) (RunRecord, error) {
	row, err := r.queries.GetRun(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run: %w", err)
	}
	return toRunRecord(row)
}

// ListWrites returns the outcomes of a run, written cells before skipped tabs.
func (r *SQLiteRepository) ListWrites(ctx context.Context, runID string) ([]WriteRecord, error) {
	rows, err := r.queries.ListCellWrites(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("list cell writes: %w", err)
	}

	out := make([]WriteRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, WriteRecord{
			Tab:     row.Tab,
			Range:   row.CellRange,
			Hours:   row.Hours,
			Skipped: row.Skipped,
			Error:   row.Error,
		})
	}
	return out, nil
}

// Prune deletes runs for days before the given date, with their writes.
func (r *SQLiteRepository) Prune(ctx context.Context, before time.Time) (int64, error) {
	n, err := r.queries.DeleteRunsBefore(ctx, before.Format(time.DateOnly))
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	r.logger.InfoContext(ctx, "Pruned run history", "before", before.Format(time.DateOnly), "runs", n)
	return n, nil
}

func toRunRecord(row Run) (RunRecord, error) {
	day, err := time.Parse(time.DateOnly, row.Day)
	if err != nil {
		return RunRecord{}, fmt.Errorf("run %s: parse day: %w", row.ID, err)
	}
	started, err := time.Parse(time.RFC3339Nano, row.StartedAt)
	if err != nil {
		return RunRecord{}, fmt.Errorf("run %s: parse start: %w", row.ID, err)
	}
	finished, err := time.Parse(time.RFC3339Nano, row.FinishedAt)
	if err != nil {
		return RunRecord{}, fmt.Errorf("run %s: parse finish: %w", row.ID, err)
	}
	return RunRecord{
		ID:         row.ID,
		Day:        day,
		StartedAt:  started,
		FinishedAt: finished,
		Status:     row.Status,
		Calendars:  int(row.Calendars),
		Events:     int(row.Events),
		Error:      row.Error,
	}, nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
