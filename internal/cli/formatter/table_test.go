package formatter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calsheets/internal/storage"
)

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable([]string{"TAB", "RANGE"}, [][]string{
		{"Work", "Work!N3"},
		{"Development", "Development!O12"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)

	// Second column starts at the same visible offset on every row.
	offset := strings.Index(lines[2], "Work!N3")
	assert.Equal(t, offset, strings.Index(lines[3], "Development!O12"))
	assert.Equal(t, len("Development")+colGap, offset)
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"x"}}))
}

func TestFormatCells(t *testing.T) {
	out := FormatCells("2021-03-14", []CellRow{
		{Tab: "Work", Range: "Work!N3", Value: "2.5"},
		{Tab: "Bad", Err: errors.New("invalid cell format")},
	}, true)

	assert.Contains(t, out, "Cells for 2021-03-14")
	assert.Contains(t, out, "VALUE")
	assert.Contains(t, out, "Work!N3")
	assert.Contains(t, out, "2.5")
	assert.Contains(t, out, "invalid cell format")
}

func TestFormatRuns_Empty(t *testing.T) {
	assert.Contains(t, FormatRuns(nil), "No runs recorded.")
}

func TestFormatWrites(t *testing.T) {
	run := storage.RunRecord{ID: "run-1", Day: time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC), Status: "partial"}
	out := FormatWrites(run, []storage.WriteRecord{
		{Tab: "Work", Range: "Work!N3", Hours: 2.5},
		{Tab: "Dev", Range: "Dev!O3", Hours: 1, Error: "quota exceeded"},
		{Tab: "Bad", Skipped: true, Error: "invalid cell format"},
	})

	assert.Contains(t, out, "Run run-1 for 2021-03-14")
	assert.Contains(t, out, "written")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "skipped")
	assert.Contains(t, out, "quota exceeded")
}
