// Package htmltable paints the rows of a datagrid.Grid as HTML table.
//
// A page of the grid can be written completely with WritePage,
// or only the rows within a scroll window with WriteWindow,
// in which case spacer rows before and after the rendered rows
// keep the total height of the table for the browser's scroll bar.
//
// Example usage:
//
//	writer := htmltable.NewWriter[Person]().
//	    WithTableClass("my-table")
//
//	err := writer.WriteWindow(ctx, w, grid, scrollTop, clientHeight, "People")
package htmltable

import (
	"context"
	"html/template"
	"io"
	"strings"

	"github.com/domonda/go-datagrid"
	"github.com/domonda/go-datagrid/virtual"
)

// Writer writes the rows of a grid as HTML table elements.
//
// Writer is immutable after creation - all With* methods return
// a new Writer instance with the modified configuration.
//
// HTML Escaping:
// Cell text is HTML-escaped unless the column renders raw content.
type Writer[T any] struct {
	tableClass     string
	selectedClass  string
	headerRow      bool
	sumRow         bool
	headerTemplate *template.Template
	rowTemplate    *template.Template
	footerTemplate *template.Template
}

// NewWriter creates a new HTML table writer for grids of type T
// writing a header row and, if the grid has summable columns,
// a sum row.
func NewWriter[T any]() *Writer[T] {
	return &Writer[T]{
		tableClass:     "",
		selectedClass:  "selected",
		headerRow:      true,
		sumRow:         true,
		headerTemplate: HeaderTemplate,
		rowTemplate:    RowTemplate,
		footerTemplate: FooterTemplate,
	}
}

// WritePage writes all rows of the current page of the grid.
func (w *Writer[T]) WritePage(ctx context.Context, dest io.Writer, grid *datagrid.Grid[T], caption ...string) error {
	return w.write(ctx, dest, grid, virtual.Window{}, grid.Page(), caption)
}

// WriteWindow writes the rows of the current page of the grid
// that are within the viewport at scrollOffset plus overscan,
// with spacer rows for the rows before and after.
func (w *Writer[T]) WriteWindow(ctx context.Context, dest io.Writer, grid *datagrid.Grid[T], scrollOffset, viewportHeight float64, caption ...string) error {
	scroller := datagrid.NewScroller(grid, virtual.Renderer[datagrid.Row[T], *datagrid.Row[T]]{
		Create: func(row datagrid.Row[T], _ int) *datagrid.Row[T] { return &row },
	}, new(virtual.ManualScheduler))
	defer scroller.Close()

	scroller.Resize(viewportHeight)
	scroller.Scroll(scrollOffset)
	scroller.Flush()

	var rows []datagrid.Row[T]
	for _, row := range scroller.Elements() {
		rows = append(rows, *row)
	}
	return w.write(ctx, dest, grid, scroller.Window(), rows, caption)
}

func (w *Writer[T]) write(ctx context.Context, dest io.Writer, grid *datagrid.Grid[T], window virtual.Window, rows []datagrid.Row[T], caption []string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var (
		columns, layout = grid.VisibleLayout()
		templData       = &RowTemplateContext{
			TemplateContext: TemplateContext{
				TableClass: w.tableClass,
				Caption:    strings.Join(caption, " "),
			},
			RowIndex: -1,
			Cells:    make([]CellTemplateContext, len(columns)),
		}
	)

	err := w.headerTemplate.Execute(dest, templData.TemplateContext)
	if err != nil {
		return err
	}

	if w.headerRow {
		templData.IsHeaderRow = true
		for i, col := range columns {
			templData.Cells[i] = CellTemplateContext{
				Class: alignClass(col.Align),
				Width: layout[i].Width,
				HTML:  template.HTML(template.HTMLEscapeString(col.Heading)), //#nosec G203
			}
		}
		if err = w.rowTemplate.Execute(dest, templData); err != nil {
			return err
		}
		templData.IsHeaderRow = false
	}

	if err = w.writeSpacer(dest, templData, window.Leading); err != nil {
		return err
	}
	for _, row := range rows {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		templData.RowIndex = row.Index
		templData.Class = ""
		if grid.IsSelected(row.Index) {
			templData.Class = w.selectedClass
		}
		for i, col := range columns {
			templData.Cells[i] = CellTemplateContext{
				Class: alignClass(col.Align),
				HTML:  ContentHTML(col.Render(row.Record)),
			}
		}
		if err = w.rowTemplate.Execute(dest, templData); err != nil {
			return err
		}
	}
	templData.RowIndex = -1
	templData.Class = ""
	if err = w.writeSpacer(dest, templData, window.Trailing); err != nil {
		return err
	}

	if w.sumRow && grid.HasSums() {
		templData.Class = "sums"
		for i, sum := range grid.Sums() {
			html := ContentHTML(sum)
			if heading := columns[i].SumHeading; heading != "" && html != "" {
				html = template.HTML(template.HTMLEscapeString(heading)) + " " + html //#nosec G203
			}
			templData.Cells[i] = CellTemplateContext{
				Class: alignClass(columns[i].Align),
				HTML:  html,
			}
		}
		if err = w.rowTemplate.Execute(dest, templData); err != nil {
			return err
		}
	}

	return w.footerTemplate.Execute(dest, templData.TemplateContext)
}

func (w *Writer[T]) writeSpacer(dest io.Writer, templData *RowTemplateContext, height float64) error {
	if height <= 0 {
		return nil
	}
	templData.IsSpacerRow = true
	templData.Height = height
	defer func() { templData.IsSpacerRow = false }()
	return w.rowTemplate.Execute(dest, templData)
}

func alignClass(align datagrid.Alignment) string {
	switch align {
	case datagrid.AlignCenter:
		return "align-center"
	case datagrid.AlignEnd:
		return "align-end"
	}
	return ""
}

func (w *Writer[T]) clone() *Writer[T] {
	c := new(Writer[T])
	*c = *w
	return c
}

func (w *Writer[T]) WithHeaderRow(headerRow bool) *Writer[T] {
	mod := w.clone()
	mod.headerRow = headerRow
	return mod
}

// WithSumRow returns a writer that writes the sum row
// of the grid if sumRow is true and the grid has summable columns.
func (w *Writer[T]) WithSumRow(sumRow bool) *Writer[T] {
	mod := w.clone()
	mod.sumRow = sumRow
	return mod
}

func (w *Writer[T]) WithTableClass(tableClass string) *Writer[T] {
	mod := w.clone()
	mod.tableClass = tableClass
	return mod
}

// WithSelectedClass returns a writer using selectedClass
// as class of selected rows.
func (w *Writer[T]) WithSelectedClass(selectedClass string) *Writer[T] {
	mod := w.clone()
	mod.selectedClass = selectedClass
	return mod
}

func (w *Writer[T]) WithTemplate(tableTemplate, rowTemplate, footerTemplate *template.Template) *Writer[T] {
	mod := w.clone()
	mod.headerTemplate = tableTemplate
	mod.rowTemplate = rowTemplate
	mod.footerTemplate = footerTemplate
	return mod
}
