package datagrid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrings(t *testing.T) {
	type rec struct {
		Name string
		Age  int
	}
	columns := []*Column[rec]{
		TextColumn("name", "Name", KeyPath[rec]("Name")),
		NumberColumn("age", "Age", KeyPath[rec]("Age")),
	}
	rows := []Row[rec]{
		{Record: rec{Name: "John", Age: 30}},
		{Record: rec{Name: "Alice", Age: 2500}},
	}
	tests := []struct {
		name      string
		columns   []*Column[rec]
		rows      []Row[rec]
		headerRow bool
		want      [][]string
	}{
		{name: "no columns", columns: nil, rows: rows, headerRow: true, want: nil},
		{name: "no rows, no header", columns: columns, rows: nil, headerRow: false, want: [][]string{}},
		{name: "no rows, header", columns: columns, rows: nil, headerRow: true, want: [][]string{{"Name", "Age"}}},
		{
			name:      "rows with header",
			columns:   columns,
			rows:      rows,
			headerRow: true,
			want: [][]string{
				{"Name", "Age"},
				{"John", "30"},
				{"Alice", "2,500"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Strings(tt.columns, tt.rows, tt.headerRow)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestStringColumnWidths(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]string
		numCols int
		want    []int
	}{
		{name: "nil", rows: nil, numCols: -1, want: nil},
		{name: "ragged", rows: [][]string{{"a", "bbb"}, {"cc"}}, numCols: -1, want: []int{2, 3}},
		{name: "runes", rows: [][]string{{"äöü", "x"}}, numCols: 2, want: []int{3, 1}},
		{name: "fixed cols", rows: [][]string{{"a", "b", "c"}}, numCols: 1, want: []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, StringColumnWidths(tt.rows, tt.numCols))
		})
	}
}
