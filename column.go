package datagrid

import (
	"fmt"
	"iter"
)

// Column describes how a grid presents one field of records of type T.
//
// A Column is a capability object: Content is mandatory,
// all other renderers are optional and their absence disables
// the corresponding feature of the column without error:
//   - EditContent nil: the column is read only
//   - SumContent nil: the column is excluded from the sum row
//   - CSVValues nil: the column is excluded from CSV exports
//   - Action nil: the column can't be activated
//
// See the TextColumn, NumberColumn, CurrencyColumn and other
// constructor functions for the built-in column variants.
type Column[T any] struct {
	// Key identifies the column in layouts, sort states and events.
	Key string
	// Heading is the title shown in the header row.
	Heading string
	Align   Alignment
	// Width is a painter specific width like "120px" or "1fr".
	Width string
	// Hidden columns are not visible by default.
	Hidden   bool
	Sortable bool
	// Editable decides per record if the column can be edited.
	// Columns with a nil Editable or EditContent are read only.
	// Use Always to make all records editable.
	Editable func(record T) bool
	// SumHeading is shown in front of the sum in the footer row.
	SumHeading string

	// Value selects the value of the column from a record.
	// See KeyPath for a reflection based selector.
	Value func(record T) any
	// SortValue selects the value used for ordering if not nil,
	// for example the raw number of a formatted display value.
	SortValue func(record T) any

	// Content renders the read only presentation of a value.
	// It is never called with a nil value.
	Content func(value any, record T) Content
	// EditContent renders an inline edit control for a value.
	EditContent func(value any, record T) EditControl
	// SumContent renders the aggregated sum of the column.
	SumContent func(sum float64) Content

	// CSVHeadings returns the single use sequence of CSV headings.
	// If nil, then Heading is used as the only CSV heading.
	CSVHeadings func() iter.Seq[string]
	// CSVValues returns the single use sequence of CSV fields of a value,
	// one per CSV heading. It is also called with nil values.
	CSVValues func(value any, record T) iter.Seq[string]

	// Action is called when a cell of the column is activated.
	Action func(record T)
}

// Validate returns an error if the column is misconfigured.
func (c *Column[T]) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil column", ErrMissingContent)
	}
	if c.Key == "" {
		return fmt.Errorf("%w (heading %q)", ErrMissingKey, c.Heading)
	}
	if c.Content == nil {
		return fmt.Errorf("%w: column %q", ErrMissingContent, c.Key)
	}
	return nil
}

// ValueOf returns the value of the column for a record
// or nil if the column has no Value selector.
func (c *Column[T]) ValueOf(record T) any {
	if c.Value == nil {
		return nil
	}
	return c.Value(record)
}

// SortValueOf returns the value used to order records by the column.
func (c *Column[T]) SortValueOf(record T) any {
	if c.SortValue != nil {
		return c.SortValue(record)
	}
	return c.ValueOf(record)
}

// Render returns the read only Content for a record.
// Records without a value for the column render as Blank.
func (c *Column[T]) Render(record T) Content {
	value := c.ValueOf(record)
	if ValueIsNil(value) {
		return Blank
	}
	return c.Content(value, record)
}

// CanEdit returns true if the column supports editing the record.
func (c *Column[T]) CanEdit(record T) bool {
	if c.EditContent == nil || c.Editable == nil {
		return false
	}
	return c.Editable(record)
}

// Always can be used as Column.Editable
// to make every record of a column editable.
func Always[T any](T) bool { return true }

// CanSum returns true if the column takes part in the sum row.
func (c *Column[T]) CanSum() bool { return c.SumContent != nil }

// CanExportCSV returns true if the column takes part in CSV exports.
func (c *Column[T]) CanExportCSV() bool { return c.CSVValues != nil }

// CSVHeadingsOf returns the CSV headings of the column.
func (c *Column[T]) CSVHeadingsOf() iter.Seq[string] {
	if c.CSVHeadings != nil {
		return c.CSVHeadings()
	}
	return single(c.Heading)
}

// CSVValuesOf returns the CSV fields of the column for a record.
func (c *Column[T]) CSVValuesOf(record T) iter.Seq[string] {
	if c.CSVValues == nil {
		return func(func(string) bool) {}
	}
	return c.CSVValues(c.ValueOf(record), record)
}

func single(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		yield(s)
	}
}

func pair(a, b string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if !yield(a) {
			return
		}
		yield(b)
	}
}
