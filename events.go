package datagrid

import "fmt"

// EventKind identifies what happened in a grid.
type EventKind int

const (
	// RowClicked is emitted for every row click.
	RowClicked EventKind = iota
	// SelectionChanged carries the new selection in Records.
	SelectionChanged
	// SortChanged carries the new SortState.
	SortChanged
	// PageChanged carries the new Pagination.
	PageChanged
	// CellEditCommitted carries the parsed NewValue of an edit.
	CellEditCommitted
	// RowAction is emitted when a column action was called for a record.
	RowAction
	// DataChanged is emitted after data was set or fetched.
	DataChanged
)

// String implements the fmt.Stringer interface.
func (k EventKind) String() string {
	switch k {
	case RowClicked:
		return "RowClicked"
	case SelectionChanged:
		return "SelectionChanged"
	case SortChanged:
		return "SortChanged"
	case PageChanged:
		return "PageChanged"
	case CellEditCommitted:
		return "CellEditCommitted"
	case RowAction:
		return "RowAction"
	case DataChanged:
		return "DataChanged"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is passed to the EventHandler of a grid.
// Only the fields relevant for the Kind are set.
type Event[T any] struct {
	Kind EventKind
	// Record of RowClicked, CellEditCommitted and RowAction
	Record T
	// Row is the index into the filtered and sorted rows.
	Row int
	// Column key of CellEditCommitted and RowAction
	Column string

	OldValue any
	NewValue any

	// Records of SelectionChanged
	Records    []T
	Sort       SortState
	Pagination Pagination
}

// EventHandler receives grid events.
// It is called without the grid being locked
// so it may call methods of the grid.
type EventHandler[T any] func(Event[T])
