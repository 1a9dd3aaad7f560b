package csvtable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/domonda/go-types/float"
)

// Table holds the records of a CSV file with a header row.
type Table struct {
	// Format of the parsed CSV data.
	Format *Format
	// Header holds the record keys in the order of the CSV fields.
	Header []string
	// Records map the header keys to the values of the rows
	// converted with ParseValue.
	Records []map[string]any
}

// ReadDetectFormat reads csv with a header row
// parsed with ParseDetectFormat.
func ReadDetectFormat(csv []byte, config *FormatDetectionConfig) (*Table, error) {
	rows, format, err := ParseDetectFormat(csv, config)
	if err != nil {
		return nil, err
	}
	return newTable(format, RemoveEmptyRows(rows))
}

// ReadWithFormat reads csv with a header row
// parsed with ParseWithFormat.
func ReadWithFormat(csv []byte, format *Format) (*Table, error) {
	rows, err := ParseWithFormat(csv, format)
	if err != nil {
		return nil, err
	}
	return newTable(format, RemoveEmptyRows(rows))
}

func newTable(format *Format, rows [][]string) (*Table, error) {
	table := &Table{Format: format}
	if len(rows) == 0 {
		return table, nil
	}
	table.Header = headerKeys(rows[0])
	table.Records = make([]map[string]any, len(rows)-1)
	for i, row := range rows[1:] {
		for _, extra := range row[min(len(row), len(table.Header)):] {
			if strings.TrimSpace(extra) != "" {
				return nil, fmt.Errorf("record %d has %d fields but the header only %d", i+1, len(row), len(table.Header))
			}
		}
		record := make(map[string]any, len(table.Header))
		for c, key := range table.Header {
			if c < len(row) {
				record[key] = ParseValue(row[c])
			} else {
				record[key] = nil
			}
		}
		table.Records[i] = record
	}
	return table, nil
}

// headerKeys returns the trimmed header fields as keys.
// Empty fields are named after their column number
// and repeated keys get a number suffix.
func headerKeys(header []string) []string {
	keys := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, field := range header {
		key := strings.TrimSpace(field)
		if key == "" {
			key = "column" + strconv.Itoa(i+1)
		}
		if n := seen[key]; n > 0 {
			seen[key]++
			key += "_" + strconv.Itoa(n+1)
		}
		seen[key]++
		keys[i] = key
	}
	return keys
}

// ParseValue converts a CSV field to a record value.
// Empty fields are nil, "true" and "false" are booleans
// and numbers parsed with float.Parse are float64,
// except for digits with leading zeros like postal codes
// or account numbers. Everything else is the trimmed text.
func ParseValue(field string) any {
	field = strings.TrimSpace(field)
	switch field {
	case "":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if len(field) > 1 && field[0] == '0' && field[1] >= '0' && field[1] <= '9' {
		return field
	}
	if f, err := float.Parse(field); err == nil && float.Valid(f) {
		return f
	}
	return field
}

// RemoveEmptyRows returns the rows that have
// at least one field that is not only whitespace.
func RemoveEmptyRows(rows [][]string) [][]string {
	nonEmpty := rows[:0:0]
	for _, row := range rows {
		for _, field := range row {
			if strings.TrimSpace(field) != "" {
				nonEmpty = append(nonEmpty, row)
				break
			}
		}
	}
	return nonEmpty
}
