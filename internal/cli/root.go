package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level "calsheets" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "calsheets",
		Short:         "Copy yesterday's calendar hours into a Google Sheets timesheet",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&app.Config.SettingsFile, "config", app.Config.SettingsFile,
		"Path to the YAML settings file (env CALSHEETS_CONFIG)")

	root.AddCommand(
		newRunCmd(app),
		newCellsCmd(app),
		newHistoryCmd(app),
	)

	return root
}
