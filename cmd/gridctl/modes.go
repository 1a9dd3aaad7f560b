package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/domonda/go-datagrid"
	"github.com/domonda/go-datagrid/modes"
	"github.com/domonda/go-datagrid/termtable"
)

func newModesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modes",
		Short: "Manage the saved modes of a grid",
		Long: `Manage the saved modes of a grid.

A mode stores the column layout, sort and filter parameters of a grid.
The grid is identified by the key of the grid definition (--grid)
or the name of the data file. The data file is optional
if a grid definition is passed.`,
	}

	cmd.AddCommand(newModesListCmd(a))
	cmd.AddCommand(newModesSaveCmd(a))
	cmd.AddCommand(newModesSelectCmd(a))
	cmd.AddCommand(newModesUpdateCmd(a))
	cmd.AddCommand(newModesDeleteCmd(a))

	return cmd
}

// withManager loads the grid of the optional data file argument,
// opens the manager of its modes and calls do.
func (a *app) withManager(cmd *cobra.Command, args []string, do func(*modes.Manager, *datagrid.Grid[Record]) error) (err error) {
	var dataPath string
	if len(args) > 0 {
		dataPath = args[0]
	}
	grid, def, err := a.loadGrid(cmd.Context(), dataPath)
	if err != nil {
		return err
	}
	manager, closeModes, err := a.openManager(cmd.Context(), def.Key, grid)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeModes()) }()

	return do(manager, grid)
}

// modeRow is a row of the modes list.
type modeRow struct {
	modes.Mode
	Selected bool
}

func newModesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [DATA]",
		Short: "List the modes of a grid",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(cmd, args, func(manager *modes.Manager, _ *datagrid.Grid[Record]) error {
				all := manager.Modes()
				if len(all) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No modes saved for %s\n", manager.GridKey())
					return nil
				}
				rows := make([]modeRow, len(all))
				for i, mode := range all {
					rows[i] = modeRow{Mode: mode, Selected: mode.ID == manager.SelectedID()}
				}
				list, err := datagrid.New([]*datagrid.Column[modeRow]{
					datagrid.BooleanColumn("selected", "Selected", func(r modeRow) any { return r.Selected }),
					datagrid.TextColumn("id", "ID", func(r modeRow) any { return r.ID }),
					datagrid.TextColumn("name", "Name", func(r modeRow) any { return r.Name }),
					datagrid.TextColumn("sort", "Sort", func(r modeRow) any { return r.Configuration.Sort.String() }),
					datagrid.TextColumn("parameters", "Parameters", func(r modeRow) any { return formatParameters(r.Configuration.Parameters) }),
					datagrid.TextColumn("hidden", "Hidden", func(r modeRow) any { return hiddenColumns(r.Configuration) }),
				}, datagrid.WithPageSize[modeRow](500))
				if err != nil {
					return err
				}
				list.SetData(rows)
				r := newRenderer[modeRow](a, termtable.DefaultMaxColumnWidth).WithScrollInfo(false)
				fmt.Fprintln(cmd.OutOrStdout(), r.RenderPage(list))
				return nil
			})
		},
	}
}

func formatParameters(params datagrid.Parameters) string {
	keys := slices.Sorted(maps.Keys(params))
	pairs := make([]string, len(keys))
	for i, key := range keys {
		pairs[i] = key + "=" + params[key]
	}
	return strings.Join(pairs, " ")
}

func hiddenColumns(config datagrid.Configuration) string {
	var hidden []string
	for _, col := range config.Columns {
		if col.Hidden {
			hidden = append(hidden, col.Key)
		}
	}
	return strings.Join(hidden, ",")
}

func newModesSaveCmd(a *app) *cobra.Command {
	var view viewFlags

	cmd := &cobra.Command{
		Use:   "save NAME [DATA]",
		Short: "Save the grid configuration as new selected mode",
		Long: `Save the grid configuration as new selected mode.

The configuration is the one of the selected mode
changed by the view flags.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(cmd, args[1:], func(manager *modes.Manager, grid *datagrid.Grid[Record]) error {
				if err := view.apply(grid); err != nil {
					return err
				}
				mode, err := manager.Save(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved mode %q with ID %s\n", mode.Name, mode.ID)
				return nil
			})
		},
	}
	view.register(cmd.Flags())

	return cmd
}

func newModesSelectCmd(a *app) *cobra.Command {
	var none bool

	cmd := &cobra.Command{
		Use:   "select ID|NAME [DATA]",
		Short: "Select the mode applied by show and export",
		Args: func(cmd *cobra.Command, args []string) error {
			if none {
				return cobra.MaximumNArgs(1)(cmd, args)
			}
			return cobra.RangeArgs(1, 2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if none {
				return a.withManager(cmd, args, func(manager *modes.Manager, _ *datagrid.Grid[Record]) error {
					if err := manager.Deselect(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "No mode selected")
					return nil
				})
			}
			return a.withManager(cmd, args[1:], func(manager *modes.Manager, _ *datagrid.Grid[Record]) error {
				mode, err := findMode(manager, args[0])
				if err != nil {
					return err
				}
				if err := manager.Select(cmd.Context(), mode.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Selected mode %q\n", mode.Name)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&none, "none", false, "select no mode")

	return cmd
}

func newModesUpdateCmd(a *app) *cobra.Command {
	var (
		view viewFlags
		name string
	)

	cmd := &cobra.Command{
		Use:   "update ID|NAME [DATA]",
		Short: "Change a mode with the view flags or rename it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(cmd, args[1:], func(manager *modes.Manager, grid *datagrid.Grid[Record]) error {
				mode, err := findMode(manager, args[0])
				if err != nil {
					return err
				}
				if err := grid.ApplyConfiguration(mode.Configuration); err != nil {
					return err
				}
				if err := view.apply(grid); err != nil {
					return err
				}
				if mode, err = manager.Update(cmd.Context(), mode.ID); err != nil {
					return err
				}
				if name != "" {
					if mode, err = manager.Rename(cmd.Context(), mode.ID, name); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated mode %q\n", mode.Name)
				return nil
			})
		},
	}
	view.register(cmd.Flags())
	cmd.Flags().StringVar(&name, "name", "", "new name of the mode")

	return cmd
}

func newModesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID|NAME [DATA]",
		Short: "Delete a mode",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(cmd, args[1:], func(manager *modes.Manager, _ *datagrid.Grid[Record]) error {
				mode, err := findMode(manager, args[0])
				if err != nil {
					return err
				}
				if err := manager.Delete(cmd.Context(), mode.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted mode %q\n", mode.Name)
				return nil
			})
		},
	}
}
