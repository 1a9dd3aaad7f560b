package datagrid

import "unicode/utf8"

// Strings returns the visible columns of the rows as text.
// Each row is rendered through the column's Content renderer,
// if headerRow is true, then the column headings
// are returned as first row.
//
// Example:
//
//	rows := datagrid.Strings(grid.VisibleColumns(), grid.Page(), true)
//	// rows[0] = ["Name", "Age"]  // header row
//	// rows[1] = ["John", "30"]   // data row
func Strings[T any](columns []*Column[T], rows []Row[T], headerRow bool) [][]string {
	if len(columns) == 0 {
		return nil
	}
	table := make([][]string, 0, len(rows)+1)
	if headerRow {
		header := make([]string, len(columns))
		for col, column := range columns {
			header[col] = column.Heading
		}
		table = append(table, header)
	}
	for _, row := range rows {
		rowStrs := make([]string, len(columns))
		for col, column := range columns {
			rowStrs[col] = column.Render(row.Record).Text
		}
		table = append(table, rowStrs)
	}
	return table
}

// StringColumnWidths returns the column widths of the passed
// table as count of UTF-8 runes.
// If numCols is negative, then the maximum
// number of columns of all rows is used.
func StringColumnWidths(rows [][]string, numCols int) []int {
	if numCols < 0 {
		for _, row := range rows {
			numCols = max(numCols, len(row))
		}
		if numCols <= 0 {
			return nil
		}
	}
	colWidths := make([]int, numCols)
	for _, row := range rows {
		for col := 0; col < numCols && col < len(row); col++ {
			colWidths[col] = max(colWidths[col], utf8.RuneCountInString(row[col]))
		}
	}
	return colWidths
}
