package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"calsheets/internal/cli/formatter"
	"calsheets/internal/storage"
)

var errHistoryDisabled = errors.New("run history is disabled, set HISTORY_DB_PATH")

func newHistoryCmd(app *App) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openHistory(app)
			if err != nil {
				return err
			}
			defer repo.Close()

			ctx := cmd.Context()
			if runID != "" {
				run, err := repo.GetRun(ctx, runID)
				if err != nil {
					return err
				}
				writes, err := repo.ListWrites(ctx, runID)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWrites(run, writes))
				return nil
			}

			runs, err := repo.ListRuns(ctx, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRuns(runs))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show the cells of one run")

	cmd.AddCommand(newHistoryPruneCmd(app))

	return cmd
}

func newHistoryPruneCmd(app *App) *cobra.Command {
	var keepDays int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete runs older than --keep-days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if keepDays < 1 {
				return fmt.Errorf("--keep-days must be at least 1, got %d", keepDays)
			}
			repo, err := openHistory(app)
			if err != nil {
				return err
			}
			defer repo.Close()

			now := app.Now()
			cutoff := time.Date(now.Year(), now.Month(), now.Day()-keepDays, 0, 0, 0, 0, time.UTC)
			n, err := repo.Prune(cmd.Context(), cutoff)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d runs before %s\n", n, cutoff.Format(time.DateOnly))
			return nil
		},
	}

	cmd.Flags().IntVar(&keepDays, "keep-days", 90, "Days of history to keep")

	return cmd
}

func openHistory(app *App) (*storage.SQLiteRepository, error) {
	repo, err := app.History()
	if err != nil {
		return nil, err
	}
	if repo == nil {
		return nil, errHistoryDisabled
	}
	return repo, nil
}
