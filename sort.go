package datagrid

import (
	"fmt"
	"slices"
)

// Direction of a sort.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// String implements the fmt.Stringer interface.
func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// MarshalText implements the encoding.TextMarshaler interface.
func (d Direction) MarshalText() ([]byte, error) {
	switch d {
	case Ascending, Descending:
		return []byte(d.String()), nil
	}
	return nil, fmt.Errorf("invalid sort direction %d", int(d))
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (d *Direction) UnmarshalText(text []byte) error {
	switch string(text) {
	case "asc", "":
		*d = Ascending
	case "desc":
		*d = Descending
	default:
		return fmt.Errorf("invalid sort direction %q", text)
	}
	return nil
}

// SortState names the column a grid is sorted by.
// The zero value means unsorted.
type SortState struct {
	Column    string    `json:"column,omitempty" yaml:"column,omitempty"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// IsSorted returns true if a column is set.
func (s SortState) IsSorted() bool {
	return s.Column != ""
}

// Toggle returns the next state when the header of column is activated:
// unsorted, then ascending, then descending, then unsorted again.
// Activating a different column starts with ascending.
func (s SortState) Toggle(column string) SortState {
	switch {
	case s.Column != column:
		return SortState{Column: column, Direction: Ascending}
	case s.Direction == Ascending:
		return SortState{Column: column, Direction: Descending}
	default:
		return SortState{}
	}
}

// String implements the fmt.Stringer interface.
func (s SortState) String() string {
	if !s.IsSorted() {
		return "unsorted"
	}
	return s.Column + " " + s.Direction.String()
}

// SortRecords returns the indices of records in the order
// of the column and direction. The sort is stable,
// records without a value are placed last in both directions.
func SortRecords[T any](records []T, column *Column[T], direction Direction) []int {
	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	if column == nil {
		return order
	}
	keys := make([]any, len(records))
	for i, record := range records {
		keys[i] = column.SortValueOf(record)
	}
	slices.SortStableFunc(order, func(a, b int) int {
		aMissing, bMissing := isMissing(keys[a]), isMissing(keys[b])
		switch {
		case aMissing && bMissing:
			return 0
		case aMissing:
			return 1
		case bMissing:
			return -1
		}
		c := CompareValues(keys[a], keys[b])
		if direction == Descending {
			return -c
		}
		return c
	})
	return order
}
