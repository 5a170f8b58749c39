package formatter

import (
	"fmt"
	"strconv"
	"time"

	"calsheets/internal/storage"
)

// FormatRuns renders the run history list.
func FormatRuns(runs []storage.RunRecord) string {
	if len(runs) == 0 {
		return StyleDim.Render("No runs recorded.") + "\n"
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID,
			r.Day.Format(time.DateOnly),
			Status(r.Status),
			strconv.Itoa(r.Calendars),
			strconv.Itoa(r.Events),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String(),
			r.Error,
		})
	}
	return RenderTable([]string{"RUN", "DAY", "STATUS", "CALENDARS", "EVENTS", "TOOK", "ERROR"}, rows)
}

// FormatWrites renders the per-tab outcomes of one run.
func FormatWrites(run storage.RunRecord, writes []storage.WriteRecord) string {
	header := fmt.Sprintf("Run %s for %s: %s\n\n", run.ID, run.Day.Format(time.DateOnly), Status(run.Status))
	if len(writes) == 0 {
		return header + StyleDim.Render("No cells written.") + "\n"
	}
	rows := make([][]string, 0, len(writes))
	for _, w := range writes {
		outcome := StyleGreen.Render("written")
		hours := strconv.FormatFloat(w.Hours, 'f', -1, 64)
		switch {
		case w.Skipped:
			outcome = StyleYellow.Render("skipped")
			hours = ""
		case w.Error != "":
			outcome = StyleRed.Render("failed")
		}
		rows = append(rows, []string{w.Tab, w.Range, hours, outcome, w.Error})
	}
	return header + RenderTable([]string{"TAB", "RANGE", "HOURS", "OUTCOME", "ERROR"}, rows)
}
