package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// app holds the state shared by all commands.
type app struct {
	gridFile      string
	query         string
	modesStore    string
	modesFallback string
	plain         bool
	verbose       bool

	logger *slog.Logger
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{logger: slog.New(slog.DiscardHandler)}

	rootCmd := &cobra.Command{
		Use:   "gridctl",
		Short: "Show, export and manage modes of data grids",
		Long: `gridctl renders JSON and CSV data files and SQLite queries
as paginated, sortable and filterable tables, exports them as CSV,
and manages the saved modes of a grid.

Data files contain a JSON array of objects, or are .csv files
with a header row whose encoding and separator are detected.
A data source sqlite://path reads the result rows of --query.
Columns are defined by a YAML grid definition (--grid)
or inferred from the top level keys of the objects
in the order of the CSV header.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.gridFile, "grid", "g", "", "YAML grid definition (default infers columns from the data)")
	flags.StringVarP(&a.query, "query", "q", "", "SQL query for sqlite:// data sources")
	flags.StringVar(&a.modesStore, "modes-store", "", "modes storage: bolt file path, bolt://path, sqlite://path, redis://url or memory: (default $XDG_CONFIG_HOME/gridctl/modes.db)")
	flags.StringVar(&a.modesFallback, "modes-fallback", "", "modes storage used when --modes-store is unavailable")
	flags.BoolVar(&a.plain, "plain", false, "print tables without colors")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log debug messages to stderr")

	rootCmd.AddCommand(newShowCmd(a))
	rootCmd.AddCommand(newExportCmd(a))
	rootCmd.AddCommand(newModesCmd(a))

	return rootCmd
}
