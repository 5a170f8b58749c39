package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Run is a row of the runs table.
type Run struct {
	ID         string
	Day        string
	StartedAt  string
	FinishedAt string
	Status     string
	Calendars  int64
	Events     int64
	Error      string
}

// CellWrite is a row of the cell_writes table.
type CellWrite struct {
	ID        int64
	RunID     string
	Tab       string
	CellRange string
	Hours     float64
	Skipped   bool
	Error     string
}

const createRun = `INSERT INTO runs (id, day, started_at, finished_at, status, calendars, events, error)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateRun(ctx context.Context, r Run) error {
	_, err := q.db.ExecContext(ctx, createRun,
		r.ID, r.Day, r.StartedAt, r.FinishedAt, r.Status, r.Calendars, r.Events, r.Error)
	return err
}

const createCellWrite = `INSERT INTO cell_writes (run_id, tab, cell_range, hours, skipped, error)
VALUES (?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateCellWrite(ctx context.Context, w CellWrite) error {
	_, err := q.db.ExecContext(ctx, createCellWrite,
		w.RunID, w.Tab, w.CellRange, w.Hours, w.Skipped, w.Error)
	return err
}

const listRuns = `SELECT id, day, started_at, finished_at, status, calendars, events, error
FROM runs ORDER BY started_at DESC, id LIMIT ?`

func (q *Queries) ListRuns(ctx context.Context, limit int64) ([]Run, error) {
	rows, err := q.db.QueryContext(ctx, listRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Day, &r.StartedAt, &r.FinishedAt, &r.Status, &r.Calendars, &r.Events, &r.Error); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const getRun = `SELECT id, day, started_at, finished_at, status, calendars, events, error
FROM runs WHERE id = ?`

func (q *Queries) GetRun(ctx context.Context, id string) (Run, error) {
	var r Run
	err := q.db.QueryRowContext(ctx, getRun, id).
		Scan(&r.ID, &r.Day, &r.StartedAt, &r.FinishedAt, &r.Status, &r.Calendars, &r.Events, &r.Error)
	return r, err
}

const listCellWrites = `SELECT id, run_id, tab, cell_range, hours, skipped, error
FROM cell_writes WHERE run_id = ? ORDER BY id`

func (q *Queries) ListCellWrites(ctx context.Context, runID string) ([]CellWrite, error) {
	rows, err := q.db.QueryContext(ctx, listCellWrites, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CellWrite
	for rows.Next() {
		var w CellWrite
		if err := rows.Scan(&w.ID, &w.RunID, &w.Tab, &w.CellRange, &w.Hours, &w.Skipped, &w.Error); err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	return items, rows.Err()
}

const deleteRunsBefore = `DELETE FROM runs WHERE day < ?`

func (q *Queries) DeleteRunsBefore(ctx context.Context, day string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteRunsBefore, day)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
