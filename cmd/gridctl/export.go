package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	fs "github.com/ungerik/go-fs"

	"github.com/domonda/go-datagrid/csvtable"
)

var newlines = map[string]string{
	"crlf": "\r\n",
	"lf":   "\n",
	"lfcr": "\n\r",
}

var paddings = map[string]csvtable.Padding{
	"none":   csvtable.NoPadding,
	"left":   csvtable.AlignLeft,
	"right":  csvtable.AlignRight,
	"center": csvtable.AlignCenter,
}

func newExportCmd(a *app) *cobra.Command {
	var (
		view     viewFlags
		paging   pageFlags
		mode     string
		out      string
		pageOnly bool
		noHeader bool
		quoteAll bool
		bom      bool
		padding  string
		newline  string
		format   = csvtable.NewFormat(",")
	)

	cmd := &cobra.Command{
		Use:   "export DATA",
		Short: "Export the filtered and sorted records as CSV",
		Long: `Export the filtered and sorted records as CSV.
Use --delimiter '\t' for tab separated values.

The file name defaults to "<application>Export.csv"
using the application of the grid definition.
Use --out - to write to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			grid, def, err := a.loadGrid(cmd.Context(), args[0])
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

			pad, ok := paddings[padding]
			if !ok {
				return fmt.Errorf("invalid padding %q", padding)
			}
			if format.Newline, ok = newlines[newline]; !ok {
				return fmt.Errorf("invalid newline %q", newline)
			}
			if format.Separator == `\t` {
				format.Separator = "\t"
			}
			writer, err := csvtable.NewWriter[Record]().
				WithHeaderRow(!noHeader).
				WithPageOnly(pageOnly).
				WithQuoteAllFields(quoteAll).
				WithPadding(pad).
				WithBOM(bom).
				WithFormat(format)
			if err != nil {
				return err
			}

			if out == "-" {
				return writer.Write(cmd.Context(), cmd.OutOrStdout(), grid)
			}
			file := fs.File(out)
			if out == "" || file.IsDir() {
				application := def.Application
				if application == "" {
					application = def.Key
				}
				file = fs.File(filepath.Join(out, csvtable.FileName(application)))
			}
			if err := writer.ExportFile(cmd.Context(), file, grid); err != nil {
				return err
			}
			rows := grid.Len()
			if pageOnly {
				rows = len(grid.Page())
			}
			a.logger.Info("exported", "grid", def.Key, "file", string(file))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", rows, string(file))
			return nil
		},
	}

	view.register(cmd.Flags())
	paging.register(cmd.Flags())
	flags := cmd.Flags()
	flags.StringVarP(&mode, "mode", "m", "", `apply a stored mode by ID or name, "none" ignores the selected mode`)
	flags.StringVarP(&out, "out", "o", "", "output file or directory, - for stdout")
	flags.BoolVar(&pageOnly, "page-only", false, "export only the current page")
	flags.BoolVar(&noHeader, "no-header", false, "don't write the header row")
	flags.BoolVar(&quoteAll, "quote-all", false, "quote all fields")
	flags.BoolVar(&bom, "bom", false, "write a UTF-8 byte order mark")
	flags.StringVar(&padding, "padding", "none", "pad fields to column width: none, left, right or center")
	flags.StringVar(&format.Separator, "delimiter", format.Separator, "field delimiter")
	flags.StringVar(&format.Encoding, "charset", format.Encoding, `character encoding like "UTF-8" or "ISO 8859-1"`)
	flags.StringVar(&newline, "newline", "crlf", "line ending: crlf, lf or lfcr")

	return cmd
}
