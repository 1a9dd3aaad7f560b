package htmltable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/domonda/go-datagrid"
)

// ContentHTML returns the HTML of a cell's content.
// Raw content is used as is, text is escaped.
func ContentHTML(content datagrid.Content) template.HTML {
	if content.Raw {
		return template.HTML(content.Text) //#nosec G203
	}
	text := template.HTMLEscapeString(content.Text)
	switch content.Kind {
	case datagrid.ContentImage:
		if text == "" {
			return ""
		}
		return template.HTML("<img src='" + text + "'>") //#nosec G203
	case datagrid.ContentCheck:
		if content.Text == "true" {
			return "&#x2713;"
		}
		return ""
	case datagrid.ContentAction:
		return template.HTML("<button type='button'>" + text + "</button>") //#nosec G203
	}
	return template.HTML(text) //#nosec G203
}

// PreContent renders the value as preformatted text.
// It can be used as datagrid.Column.Content.
func PreContent[T any](value any, _ T) datagrid.Content {
	return datagrid.RawContent("<pre>" + template.HTMLEscapeString(datagrid.AsText(value)) + "</pre>")
}

// CodeContent renders the value as code.
// It can be used as datagrid.Column.Content.
func CodeContent[T any](value any, _ T) datagrid.Content {
	return datagrid.RawContent("<code>" + template.HTMLEscapeString(datagrid.AsText(value)) + "</code>")
}

// AnchorContent renders the value as HTML anchor element
// with the value as id and inner text.
// It can be used as datagrid.Column.Content.
func AnchorContent[T any](value any, _ T) datagrid.Content {
	text := template.HTMLEscapeString(datagrid.AsText(value))
	return datagrid.RawContent(fmt.Sprintf("<a id='%[1]s'>%[1]s</a>", text))
}

// SpanClassContent returns a renderer putting the value
// into a span element with the passed class.
func SpanClassContent[T any](class string) func(value any, record T) datagrid.Content {
	class = template.HTMLEscapeString(class)
	return func(value any, _ T) datagrid.Content {
		text := template.HTMLEscapeString(datagrid.AsText(value))
		return datagrid.RawContent(fmt.Sprintf("<span class='%s'>%s</span>", class, text))
	}
}

// JSONContent returns a renderer showing JSON values
// indented with indent as preformatted text,
// an empty indent compacts the JSON.
// Values that are not valid JSON are shown as escaped text.
func JSONContent[T any](indent string) func(value any, record T) datagrid.Content {
	return func(value any, _ T) datagrid.Content {
		var src []byte
		switch v := value.(type) {
		case json.RawMessage:
			src = v
		case []byte:
			src = v
		default:
			src = []byte(datagrid.AsText(value))
		}
		if len(bytes.TrimSpace(src)) == 0 {
			return datagrid.Blank
		}
		var (
			buf bytes.Buffer
			err error
		)
		if indent == "" {
			err = json.Compact(&buf, src)
		} else {
			err = json.Indent(&buf, src, "", indent)
		}
		if err != nil {
			return datagrid.TextContent(string(src))
		}
		return datagrid.RawContent("<pre>" + template.HTMLEscapeString(buf.String()) + "</pre>")
	}
}
