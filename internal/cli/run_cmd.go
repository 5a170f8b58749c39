package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"calsheets/internal/log"
	"calsheets/internal/services"
)

func newRunCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Write yesterday's hours into the spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), app.Config.RunTimeout)
			defer cancel()
			return runJob(ctx, app, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute and log the cells without writing them")

	return cmd
}

func runJob(ctx context.Context, app *App, dryRun bool) error {
	logger := app.Logger

	settings, err := app.Settings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	cal, err := app.Calendars(ctx)
	if err != nil {
		return fmt.Errorf("calendar client: %w", err)
	}

	result, err := app.Backend(ctx, settings, dryRun)
	if err != nil {
		return fmt.Errorf("spreadsheet backend: %w", err)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	opts := []services.JobOption{
		services.WithLogger(logger.WithComponent(log.ComponentJob).Logger),
		services.WithClock(app.Now),
	}

	history, err := app.History()
	if err != nil {
		logger.Warn("Run history disabled", log.FieldError, err)
	} else if history != nil {
		defer history.Close()
		opts = append(opts, services.WithHistory(history))
	}

	notifier, closeNotifier, err := app.Notifier()
	if err != nil {
		logger.Warn("Run notifications disabled", log.FieldError, err)
	} else if notifier != nil {
		defer closeNotifier()
		opts = append(opts, services.WithNotifier(notifier))
	}

	writer := services.NewHoursWriter(result.Backend, settings.Categories,
		logger.WithComponent(log.ComponentWriter).Logger)
	job := services.NewJob(cal, writer, settings, opts...)

	if dryRun {
		logger.Info("Dry run, the spreadsheet will not be modified")
	}

	_, err = job.Run(ctx, app.Now())
	if errors.Is(err, services.ErrNoCalendars) {
		return nil
	}
	return err
}
