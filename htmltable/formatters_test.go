package htmltable

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/domonda/go-datagrid"
)

func TestJSONContent(t *testing.T) {
	tests := []struct {
		name   string
		indent string
		value  any
		want   datagrid.Content
	}{
		{name: "empty string", value: "", want: datagrid.Blank},
		{name: "empty RawMessage", value: json.RawMessage(nil), want: datagrid.Blank},
		{name: "compact string JSON", value: `{"1": 1}`, want: datagrid.RawContent(`<pre>{&#34;1&#34;:1}</pre>`)},
		{name: "compact []byte JSON", value: []byte(`{"1": 1}`), want: datagrid.RawContent(`<pre>{&#34;1&#34;:1}</pre>`)},
		{name: "indented RawMessage JSON", indent: "  ", value: json.RawMessage(`[1]`), want: datagrid.RawContent("<pre>[\n  1\n]</pre>")},
		{name: "invalid JSON", value: `<not json>`, want: datagrid.TextContent(`<not json>`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, JSONContent[any](tt.indent)(tt.value, nil))
		})
	}
}

func TestContentRenderers(t *testing.T) {
	require.Equal(t, datagrid.RawContent(`<pre>a&lt;b</pre>`), PreContent[any]("a<b", nil))
	require.Equal(t, datagrid.RawContent(`<code>x := 1</code>`), CodeContent[any]("x := 1", nil))
	require.Equal(t, datagrid.RawContent(`<a id='42'>42</a>`), AnchorContent[any](42, nil))
	require.Equal(t, datagrid.RawContent(`<span class='status'>open</span>`), SpanClassContent[any]("status")("open", nil))
}
