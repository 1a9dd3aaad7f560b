package htmltable

import "html/template"

var (
	HeaderTemplate = template.Must(template.New("header").Parse(
		"<table{{if .TableClass}} class='{{.TableClass}}'{{end}}>\n" +
			"{{if .Caption}}  <caption>{{.Caption}}</caption>\n{{end}}",
	))

	RowTemplate = template.Must(template.New("row").Parse("" +
		"{{if .IsHeaderRow}}" +
		"  <tr>{{range $cell := .Cells}}<th{{if $cell.Class}} class='{{$cell.Class}}'{{end}}{{if $cell.Width}} style='width: {{$cell.Width}}'{{end}}>{{$cell.HTML}}</th>{{end}}</tr>\n" +
		"{{else if .IsSpacerRow}}" +
		"  <tr class='spacer' style='height: {{.Height}}px'><td colspan='{{len .Cells}}'></td></tr>\n" +
		"{{else}}" +
		"  <tr{{if .Class}} class='{{.Class}}'{{end}}{{if ge .RowIndex 0}} data-row='{{.RowIndex}}'{{end}}>{{range $cell := .Cells}}<td{{if $cell.Class}} class='{{$cell.Class}}'{{end}}>{{$cell.HTML}}</td>{{end}}</tr>\n" +
		"{{end}}",
	))

	FooterTemplate = template.Must(template.New("footer").Parse(
		"</table>",
	))
)

type TemplateContext struct {
	TableClass string
	Caption    string
}

type CellTemplateContext struct {
	Class string
	Width string
	HTML  template.HTML
}

type RowTemplateContext struct {
	TemplateContext

	IsHeaderRow bool
	IsSpacerRow bool
	// Class of the row, "selected" for selected rows
	// and "sums" for the sum row.
	Class string
	// RowIndex is the index of the row within the
	// filtered and sorted rows of the grid, -1 for other rows.
	RowIndex int
	// Height of a spacer row.
	Height float64
	Cells  []CellTemplateContext
}
