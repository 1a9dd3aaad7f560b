package htmltable

import (
	"html/template"
	"strings"

	"github.com/domonda/go-datagrid"
)

// CellData is passed to the templates of TemplateContent.
type CellData[T any] struct {
	Value  any
	Record T
}

// TemplateContent returns a Column.Content function that renders
// cells with tmpl as raw HTML. The template is executed with
// a CellData holding the value and record of the cell,
// html/template escapes them according to their context.
// Execution errors are rendered as escaped text.
//
// Example:
//
//	col.Content = htmltable.TemplateContent[Invoice](template.Must(template.New("").Parse(
//	    `<a href='/invoices/{{.Record.ID}}'>{{.Value}}</a>`,
//	)))
func TemplateContent[T any](tmpl *template.Template) func(value any, record T) datagrid.Content {
	return func(value any, record T) datagrid.Content {
		var b strings.Builder
		if err := tmpl.Execute(&b, CellData[T]{Value: value, Record: record}); err != nil {
			return datagrid.TextContent(err.Error())
		}
		return datagrid.RawContent(b.String())
	}
}

// Raw returns a Column.Content function that renders
// every cell as the same raw HTML.
func Raw[T any](html template.HTML) func(value any, record T) datagrid.Content {
	return func(any, T) datagrid.Content {
		return datagrid.RawContent(string(html))
	}
}
