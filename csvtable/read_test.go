package csvtable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domonda/go-datagrid"
)

func TestParseDetectFormat(t *testing.T) {
	tests := []struct {
		name       string
		csv        string
		wantFormat Format
		wantRows   [][]string
	}{
		{
			name:       "semicolon CRLF",
			csv:        "Name;Age\r\nJohn;30\r\nJane;25",
			wantFormat: Format{Encoding: "UTF-8", Separator: ";", Newline: "\r\n"},
			wantRows:   [][]string{{"Name", "Age"}, {"John", "30"}, {"Jane", "25"}},
		},
		{
			name:       "tabs",
			csv:        "a\tb\n1\t2\n",
			wantFormat: Format{Encoding: "UTF-8", Separator: "\t", Newline: "\n"},
			wantRows:   [][]string{{"a", "b"}, {"1", "2"}, nil},
		},
		{
			name:       "separator declaration",
			csv:        "\"sep=;\"\na,b;c\n",
			wantFormat: Format{Encoding: "UTF-8", Separator: ";", Newline: "\n"},
			wantRows:   [][]string{{"a,b", "c"}, nil},
		},
		{
			name:       "multi-line field",
			csv:        "id;note\n1;\"first\nsecond\"\n2;plain",
			wantFormat: Format{Encoding: "UTF-8", Separator: ";", Newline: "\n"},
			wantRows:   [][]string{{"id", "note"}, {"1", "first\nsecond"}, nil, {"2", "plain"}},
		},
		{
			name:       "quoted separator and quotes",
			csv:        "\"Coffee, beans\",12.5\n\"Say \"\"Hi\"\"\",-3",
			wantFormat: Format{Encoding: "UTF-8", Separator: ",", Newline: "\n"},
			wantRows:   [][]string{{"Coffee, beans", "12.5"}, {`Say "Hi"`, "-3"}},
		},
		{
			name:       "latin-1 with no-break space",
			csv:        "Name;Stadt\nM\xFCller;Sankt\xA0P\xF6lten",
			wantFormat: Format{Encoding: "ISO 8859-1", Separator: ";", Newline: "\n"},
			wantRows:   [][]string{{"Name", "Stadt"}, {"Müller", "Sankt Pölten"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, format, err := ParseDetectFormat([]byte(tt.csv), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, *format)
			assert.Equal(t, tt.wantRows, rows)
		})
	}
}

func TestParseWithFormat(t *testing.T) {
	rows, err := ParseWithFormat([]byte("\xEF\xBB\xBFsep=,\r\nx,y\r\n"), NewFormat(","))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x", "y"}, nil}, rows)

	rows, err = ParseWithFormat([]byte("M\xFCller"), &Format{Encoding: "Windows 1252", Separator: ";", Newline: "\n"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Müller"}}, rows)

	_, err = ParseWithFormat([]byte("sep=;\r\nx;y"), NewFormat(","))
	require.Error(t, err, "declared separator differs")

	_, err = ParseWithFormat([]byte(`x,""a"`), NewFormat(","))
	require.Error(t, err, "unbalanced quotes")

	_, err = ParseWithFormat(nil, &Format{Encoding: "UTF-8"})
	require.Error(t, err, "invalid format")
}

func TestReadDetectFormat_WrittenByWriter(t *testing.T) {
	data, err := NewWriter[booking]().Bytes(context.Background(), newBookingGrid(t))
	require.NoError(t, err)

	table, err := ReadDetectFormat(data, nil)
	require.NoError(t, err)
	assert.Equal(t, NewFormat(","), table.Format)
	assert.Equal(t, []string{"Text", "Amount", "Period Start", "Period End"}, table.Header)
	assert.Equal(t, []map[string]any{
		{"Text": "Rent", "Amount": 1200.0, "Period Start": "2024-01-01", "Period End": "2024-01-31"},
		{"Text": "Coffee, beans", "Amount": 12.5, "Period Start": nil, "Period End": nil},
		{"Text": `Say "Hi"`, "Amount": -3.0, "Period Start": nil, "Period End": nil},
	}, table.Records)
}

func TestReadWithFormat(t *testing.T) {
	grid, err := datagrid.New([]*datagrid.Column[string]{
		datagrid.TextColumn("name", "Name", func(s string) any { return s }),
	})
	require.NoError(t, err)
	grid.SetData([]string{"Müller"})

	format := &Format{Encoding: "ISO 8859-1", Separator: ";", Newline: "\n"}
	writer, err := NewWriter[string]().WithFormat(format)
	require.NoError(t, err)
	data, err := writer.Bytes(context.Background(), grid)
	require.NoError(t, err)

	table, err := ReadWithFormat(data, format)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"Name": "Müller"}}, table.Records)

	detected, err := ReadDetectFormat(data, nil)
	require.NoError(t, err)
	assert.Equal(t, "ISO 8859-1", detected.Format.Encoding)
	assert.Equal(t, table.Records, detected.Records)
}

func TestReadDetectFormat_Rows(t *testing.T) {
	table, err := ReadDetectFormat([]byte("a;;a;a\n1;2\n;;;\n3;4;5;6;;\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "column2", "a_2", "a_3"}, table.Header)
	assert.Equal(t, []map[string]any{
		{"a": 1.0, "column2": 2.0, "a_2": nil, "a_3": nil},
		{"a": 3.0, "column2": 4.0, "a_2": 5.0, "a_3": 6.0},
	}, table.Records, "empty rows removed, short rows padded, empty extra fields ignored")

	_, err = ReadDetectFormat([]byte("a;b\n1;2;3\n"), nil)
	require.Error(t, err, "more fields than header")

	table, err = ReadDetectFormat(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, table.Records)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		field string
		want  any
	}{
		{field: "", want: nil},
		{field: "  ", want: nil},
		{field: "true", want: true},
		{field: "false", want: false},
		{field: "TRUE", want: "TRUE"},
		{field: " 42 ", want: 42.0},
		{field: "-1.5", want: -1.5},
		{field: "1,5", want: 1.5},
		{field: "1.234,56", want: 1234.56},
		{field: "0.25", want: 0.25},
		{field: "0", want: 0.0},
		{field: "01234", want: "01234"},
		{field: "2024-01-31", want: "2024-01-31"},
		{field: "Inf", want: "Inf"},
		{field: "12 Monkeys", want: "12 Monkeys"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseValue(tt.field))
		})
	}
}

func TestRemoveEmptyRows(t *testing.T) {
	rows := [][]string{nil, {"a"}, {"", " "}, {}, {"", "b"}}
	assert.Equal(t, [][]string{{"a"}, {"", "b"}}, RemoveEmptyRows(rows))
	assert.Empty(t, RemoveEmptyRows(nil))
}
