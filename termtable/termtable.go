// Package termtable paints the rows of a datagrid.Grid for terminals.
//
// Column widths are measured in terminal cells with go-runewidth,
// so wide characters like CJK or emoji don't break the alignment,
// and cells wider than the maximum column width are truncated.
// Layout widths set with Grid.SetColumnWidth that are plain
// numbers are used as fixed widths in terminal cells.
package termtable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/domonda/go-datagrid"
	"github.com/domonda/go-datagrid/virtual"
)

// Styles of the rendered table parts.
type Styles struct {
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style
	Sum      lipgloss.Style
	Dim      lipgloss.Style
}

// DefaultStyles are colored styles for dark terminals.
var DefaultStyles = Styles{
	Header: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7B61FF")),
	Cell: lipgloss.NewStyle(),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#73F59F")).
		Bold(true),
	Sum: lipgloss.NewStyle().
		Bold(true),
	Dim: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666666")),
}

// PlainStyles don't change the text.
var PlainStyles = Styles{
	Header:   lipgloss.NewStyle(),
	Cell:     lipgloss.NewStyle(),
	Selected: lipgloss.NewStyle(),
	Sum:      lipgloss.NewStyle(),
	Dim:      lipgloss.NewStyle(),
}

// DefaultMaxColumnWidth is the default maximum width of a column
// in terminal cells.
const DefaultMaxColumnWidth = 40

// Renderer renders grids as text tables.
// Like the writers of the csvtable and htmltable packages
// it is immutable, With* methods return a modified copy.
type Renderer[T any] struct {
	styles         Styles
	maxColumnWidth int
	separator      string
	ellipsis       string
	scrollInfo     bool
}

// NewRenderer returns a Renderer using DefaultStyles.
func NewRenderer[T any]() *Renderer[T] {
	return &Renderer[T]{
		styles:         DefaultStyles,
		maxColumnWidth: DefaultMaxColumnWidth,
		separator:      " | ",
		ellipsis:       "…",
		scrollInfo:     true,
	}
}

// RenderPage renders all rows of the current page of the grid.
func (r *Renderer[T]) RenderPage(grid *datagrid.Grid[T]) string {
	columns, layout := grid.VisibleLayout()
	rows := grid.Page()
	body := make([]renderedRow[T], len(rows))
	for i, row := range rows {
		body[i] = renderedRow[T]{row: row, cells: renderCells(columns, row)}
	}
	window := virtual.Window{End: len(rows)}
	return r.render(grid, columns, layout, window, body, len(rows))
}

// RenderWindow renders the rows of the current page of the grid
// within the viewport at scrollOffset, both in units of the
// grid's row height. Use datagrid.WithRowHeight(1) to scroll by lines.
func (r *Renderer[T]) RenderWindow(grid *datagrid.Grid[T], scrollOffset, viewportHeight float64) string {
	columns, layout := grid.VisibleLayout()
	scroller := datagrid.NewScroller(grid, virtual.Renderer[datagrid.Row[T], *renderedRow[T]]{
		Create: func(row datagrid.Row[T], _ int) *renderedRow[T] {
			return &renderedRow[T]{row: row, cells: renderCells(columns, row)}
		},
	}, new(virtual.ManualScheduler))
	defer scroller.Close()

	scroller.Resize(viewportHeight)
	scroller.Scroll(scrollOffset)
	scroller.Flush()

	var body []renderedRow[T]
	for _, row := range scroller.Elements() {
		body = append(body, *row)
	}
	return r.render(grid, columns, layout, scroller.Window(), body, len(scroller.Items()))
}

// renderedRow is a row with the terminal text of its visible cells.
type renderedRow[T any] struct {
	row   datagrid.Row[T]
	cells []string
}

func renderCells[T any](columns []*datagrid.Column[T], row datagrid.Row[T]) []string {
	cells := make([]string, len(columns))
	for i, col := range columns {
		cells[i] = ContentText(col.Render(row.Record))
	}
	return cells
}

// render sizes columns with a layout width that is a number
// of terminal cells to exactly that width, other columns are
// measured and limited to the maximum column width.
func (r *Renderer[T]) render(grid *datagrid.Grid[T], columns []*datagrid.Column[T], layout []datagrid.ColumnState, window virtual.Window, body []renderedRow[T], pageLen int) string {
	if len(columns) == 0 {
		return ""
	}

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Heading
	}
	var sums []string
	if grid.HasSums() {
		sums = make([]string, len(columns))
		for i, sum := range grid.Sums() {
			sums[i] = ContentText(sum)
			if sums[i] != "" && columns[i].SumHeading != "" {
				sums[i] = columns[i].SumHeading + " " + sums[i]
			}
		}
	}

	widths := make([]int, len(columns))
	measure := func(cells []string) {
		for i, cell := range cells {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	measure(header)
	for _, row := range body {
		measure(row.cells)
	}
	measure(sums)
	for i := range widths {
		if fixed, err := strconv.Atoi(strings.TrimSpace(layout[i].Width)); err == nil && fixed > 0 {
			widths[i] = fixed
		} else {
			widths[i] = min(widths[i], r.maxColumnWidth)
		}
	}

	var b strings.Builder
	b.WriteString(r.line(columns, widths, header, r.styles.Header))
	b.WriteByte('\n')
	sepParts := make([]string, len(widths))
	for i, w := range widths {
		sepParts[i] = strings.Repeat("─", w)
	}
	b.WriteString(r.styles.Dim.Render(strings.Join(sepParts, "─┼─")))
	for _, row := range body {
		style := r.styles.Cell
		if grid.IsSelected(row.row.Index) {
			style = r.styles.Selected
		}
		b.WriteByte('\n')
		b.WriteString(r.line(columns, widths, row.cells, style))
	}
	if sums != nil {
		b.WriteByte('\n')
		b.WriteString(r.line(columns, widths, sums, r.styles.Sum))
	}
	if r.scrollInfo && (window.Start > 0 || window.End < pageLen) {
		b.WriteByte('\n')
		b.WriteString(r.styles.Dim.Render(fmt.Sprintf("[%d-%d of %d]", window.Start+1, window.End, pageLen)))
	}
	return b.String()
}

func (r *Renderer[T]) line(columns []*datagrid.Column[T], widths []int, cells []string, style lipgloss.Style) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		cell = runewidth.Truncate(cell, widths[i], r.ellipsis)
		parts[i] = style.Width(widths[i]).Align(position(columns[i].Align)).Render(cell)
	}
	return strings.Join(parts, r.separator)
}

func position(align datagrid.Alignment) lipgloss.Position {
	switch align {
	case datagrid.AlignCenter:
		return lipgloss.Center
	case datagrid.AlignEnd:
		return lipgloss.Right
	}
	return lipgloss.Left
}

// ContentText returns the terminal text of a cell's content.
func ContentText(content datagrid.Content) string {
	switch content.Kind {
	case datagrid.ContentCheck:
		if content.Text == "true" {
			return "✓"
		}
		return ""
	case datagrid.ContentAction:
		if content.Text == "" {
			return ""
		}
		return "[" + content.Text + "]"
	}
	return content.Text
}

func (r *Renderer[T]) clone() *Renderer[T] {
	c := new(Renderer[T])
	*c = *r
	return c
}

func (r *Renderer[T]) WithStyles(styles Styles) *Renderer[T] {
	mod := r.clone()
	mod.styles = styles
	return mod
}

// WithMaxColumnWidth returns a renderer truncating cells
// wider than width terminal cells.
func (r *Renderer[T]) WithMaxColumnWidth(width int) *Renderer[T] {
	mod := r.clone()
	mod.maxColumnWidth = max(width, 1)
	return mod
}

func (r *Renderer[T]) WithSeparator(separator string) *Renderer[T] {
	mod := r.clone()
	mod.separator = separator
	return mod
}

// WithScrollInfo returns a renderer that appends a
// "[first-last of total]" line if not all rows of the page are shown.
func (r *Renderer[T]) WithScrollInfo(scrollInfo bool) *Renderer[T] {
	mod := r.clone()
	mod.scrollInfo = scrollInfo
	return mod
}
