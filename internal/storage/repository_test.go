package storage

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calsheets/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "history", "runs.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func summaryFor(id string, day time.Time) core.RunSummary {
	return core.RunSummary{
		RunID:      id,
		Day:        day,
		StartedAt:  day.Add(30 * time.Hour),
		FinishedAt: day.Add(30*time.Hour + 2*time.Second),
		Calendars:  2,
		Events:     5,
	}
}

func TestRecordRun_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	day := time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC)

	s := summaryFor("run-1", day)
	s.Writes = []core.CellWrite{
		{Tab: "Work", Range: "Work!N3", Hours: 2.5},
		{Tab: "Dev", Range: "Dev!O3", Hours: 1, Err: errors.New("quota exceeded")},
	}
	s.Skipped = map[string]error{"Bad": core.ErrInvalidCellFormat}
	require.NoError(t, repo.RecordRun(ctx, s))

	run, err := repo.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "partial", run.Status)
	assert.Equal(t, "2021-03-14", run.Day.Format(time.DateOnly))
	assert.Equal(t, 2, run.Calendars)
	assert.Equal(t, 5, run.Events)
	assert.True(t, run.StartedAt.Equal(s.StartedAt))
	assert.Equal(t, 2*time.Second, run.FinishedAt.Sub(run.StartedAt))

	writes, err := repo.ListWrites(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, writes, 3)
	assert.Equal(t, WriteRecord{Tab: "Work", Range: "Work!N3", Hours: 2.5}, writes[0])
	assert.Equal(t, "quota exceeded", writes[1].Error)
	assert.True(t, writes[2].Skipped)
	assert.Equal(t, "Bad", writes[2].Tab)
	assert.Contains(t, writes[2].Error, "invalid cell format")
}

func TestRecordRun_FailedRun(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	s := summaryFor("run-err", time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC))
	s.Err = errors.New("no calendars")
	require.NoError(t, repo.RecordRun(ctx, s))

	run, err := repo.GetRun(ctx, "run-err")
	require.NoError(t, err)
	assert.Equal(t, "failed", run.Status)
	assert.Equal(t, "no calendars", run.Error)
}

func TestRecordRun_DuplicateID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := summaryFor("run-1", time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC))

	require.NoError(t, repo.RecordRun(ctx, s))
	assert.Error(t, repo.RecordRun(ctx, s))
}

func TestListRuns_NewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2021, 3, 10, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.RecordRun(ctx, summaryFor(id, base.AddDate(0, 0, i))))
	}

	runs, err := repo.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
}

func TestGetRun_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestPrune(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2021, 3, 10, 0, 0, 0, 0, time.UTC)

	old := summaryFor("old", base)
	old.Writes = []core.CellWrite{{Tab: "Work", Range: "Work!J3", Hours: 1}}
	require.NoError(t, repo.RecordRun(ctx, old))
	require.NoError(t, repo.RecordRun(ctx, summaryFor("new", base.AddDate(0, 0, 5))))

	n, err := repo.Prune(ctx, base.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	runs, err := repo.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "new", runs[0].ID)

	writes, err := repo.ListWrites(ctx, "old")
	require.NoError(t, err)
	assert.Empty(t, writes)
}

func TestNewSQLiteRepository_MigratesTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	first, err := NewSQLiteRepository(path, nil)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewSQLiteRepository(path, nil)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestRunMigrations_LogsSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	require.NoError(t, RunMigrations(path, logger))
	assert.Contains(t, buf.String(), "History schema ready")
	assert.Contains(t, buf.String(), "version=1")

	// Already at the latest version.
	buf.Reset()
	require.NoError(t, RunMigrations(path, logger))
	assert.Contains(t, buf.String(), "version=1")
}
