package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"calsheets/internal/cli/formatter"
	"calsheets/internal/core"
	"calsheets/internal/log"
	"calsheets/internal/services"
	"calsheets/internal/sheets"
)

func newCellsCmd(app *App) *cobra.Command {
	var date string
	var read bool

	cmd := &cobra.Command{
		Use:   "cells",
		Short: "Show the cell each tab maps to for a day",
		Long: "Show the cell each tab maps to for a day, yesterday by default.\n" +
			"With --read the current value of each cell is fetched from the spreadsheet.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			settings, err := app.Settings()
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}

			day := core.Yesterday(app.Now(), settings.Location).Day()
			if date != "" {
				if day, err = time.ParseInLocation(time.DateOnly, date, settings.Location); err != nil {
					return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", date)
				}
			}

			var reader sheets.CellReader
			var cw sheets.CellWriter
			if read {
				result, err := app.Backend(ctx, settings, false)
				if err != nil {
					return fmt.Errorf("spreadsheet backend: %w", err)
				}
				if result.Cleanup != nil {
					defer result.Cleanup()
				}
				reader, cw = result.Backend, result.Backend
			}

			writer := services.NewHoursWriter(cw, settings.Categories,
				app.Logger.WithComponent(log.ComponentWriter).Logger)
			ranges, skipped := writer.Addresses(ctx, day)

			rows := make([]formatter.CellRow, 0, len(settings.Categories))
			for _, c := range settings.Categories {
				row := formatter.CellRow{Tab: c.Name, Range: ranges[c.Name], Err: skipped[c.Name]}
				if reader != nil && row.Err == nil {
					row.Value, row.Err = reader.ReadCell(ctx, row.Range)
				}
				rows = append(rows, row)
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCells(day.Format(time.DateOnly), rows, read))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to compute, YYYY-MM-DD (default yesterday)")
	cmd.Flags().BoolVar(&read, "read", false, "Read the current cell values from the spreadsheet")

	return cmd
}
