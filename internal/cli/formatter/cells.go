package formatter

// CellRow is one tab of the cells command output.
type CellRow struct {
	Tab   string
	Range string
	Value string
	Err   error
}

// FormatCells renders the computed ranges for a day. The value column is
// shown only when values were read.
func FormatCells(day string, rows []CellRow, withValues bool) string {
	headers := []string{"TAB", "RANGE", "STATUS"}
	if withValues {
		headers = []string{"TAB", "RANGE", "VALUE", "STATUS"}
	}

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		status := StyleGreen.Render("ok")
		if r.Err != nil {
			status = StyleRed.Render(r.Err.Error())
		}
		row := []string{r.Tab, r.Range}
		if withValues {
			row = append(row, r.Value)
		}
		out = append(out, append(row, status))
	}
	return "Cells for " + day + "\n\n" + RenderTable(headers, out)
}
