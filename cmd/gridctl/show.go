package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/domonda/go-datagrid"
	"github.com/domonda/go-datagrid/termtable"
)

// applyMode applies the stored mode ref to the grid
// without selecting it. An empty ref keeps the selected mode,
// "none" the configuration of the grid definition.
func (a *app) applyMode(cmd *cobra.Command, grid *datagrid.Grid[Record], gridKey, ref string) (err error) {
	if ref == "none" {
		return nil
	}
	manager, closeModes, err := a.openManager(cmd.Context(), gridKey, grid)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeModes()) }()

	if ref == "" {
		if mode, ok := manager.Selected(); ok {
			a.logger.Debug("using selected mode", "grid", gridKey, "mode", mode.ID)
		}
		return nil
	}
	mode, err := findMode(manager, ref)
	if err != nil {
		return err
	}
	return grid.ApplyConfiguration(mode.Configuration)
}

func newRenderer[T any](a *app, maxWidth int) *termtable.Renderer[T] {
	r := termtable.NewRenderer[T]().WithMaxColumnWidth(maxWidth)
	if a.plain {
		r = r.WithStyles(termtable.PlainStyles)
	}
	return r
}

func newShowCmd(a *app) *cobra.Command {
	var (
		view     viewFlags
		paging   pageFlags
		mode     string
		maxWidth int
		scroll   int
		height   int
	)

	cmd := &cobra.Command{
		Use:   "show DATA",
		Short: "Print a page of records as table",
		Long: `Print a page of records as table.

The selected mode of the grid is applied first,
then the --mode and the view flags.
With --height only the rows of the page that are
visible at the --scroll line are printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Lines are the scroll unit of terminals
			grid, def, err := a.loadGrid(cmd.Context(), args[0],
				datagrid.WithRowHeight[Record](1),
				datagrid.WithOverscan[Record](0),
			)
			if err != nil {
				return err
			}
			if err := a.applyMode(cmd, grid, def.Key, mode); err != nil {
				return err
			}
			if err := view.apply(grid); err != nil {
				return err
			}
			if err := paging.apply(grid); err != nil {
				return err
			}

			r := newRenderer[Record](a, maxWidth)
			var table string
			if height > 0 {
				table = r.RenderWindow(grid, float64(scroll), float64(height))
			} else {
				table = r.RenderPage(grid)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, table)
			fmt.Fprintf(out, "Page %d of %d, %d rows\n", grid.Pagination().Page+1, grid.PageCount(), grid.Len())
			return nil
		},
	}

	view.register(cmd.Flags())
	paging.register(cmd.Flags())
	cmd.Flags().StringVarP(&mode, "mode", "m", "", `apply a stored mode by ID or name, "none" ignores the selected mode`)
	cmd.Flags().IntVar(&maxWidth, "max-width", termtable.DefaultMaxColumnWidth, "maximum column width, wider cells are truncated")
	cmd.Flags().IntVar(&scroll, "scroll", 0, "first visible line of the page")
	cmd.Flags().IntVar(&height, "height", 0, "number of visible lines, 0 prints the whole page")

	return cmd
}
