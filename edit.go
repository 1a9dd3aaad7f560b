package datagrid

import (
	"fmt"
	"sync"
)

// EditSession is an active inline edit of a cell
// started with Grid.BeginEdit.
type EditSession[T any] struct {
	grid *Grid[T]

	Row     Row[T]
	Column  *Column[T]
	Control EditControl

	oldValue any
	mu       sync.Mutex
	closed   bool
}

// CanEdit returns true if the cell of the column with key
// in the row at index is editable. Both the column and
// the row predicate passed with WithRowEditable must allow it.
func (g *Grid[T]) CanEdit(index int, key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, _, err := g.editableCellLocked(index, key)
	return err == nil
}

func (g *Grid[T]) editableCellLocked(index int, key string) (Row[T], *Column[T], error) {
	col, err := g.Column(key)
	if err != nil {
		return Row[T]{}, nil, err
	}
	row, err := g.rowLocked(index)
	if err != nil {
		return Row[T]{}, nil, err
	}
	if !col.CanEdit(row.Record) || (g.rowEditable != nil && !g.rowEditable(row.Record)) {
		return Row[T]{}, nil, fmt.Errorf("%w: row %d column %q", ErrNotEditable, index, key)
	}
	return row, col, nil
}

// BeginEdit starts editing the cell of the column with key
// in the row at index. It returns ErrNotEditable if the column
// or the row does not allow editing.
func (g *Grid[T]) BeginEdit(index int, key string) (*EditSession[T], error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	row, col, err := g.editableCellLocked(index, key)
	if err != nil {
		return nil, err
	}
	value := col.ValueOf(row.Record)
	return &EditSession[T]{
		grid:     g,
		Row:      row,
		Column:   col,
		Control:  col.EditContent(value, row.Record),
		oldValue: value,
	}, nil
}

// Commit parses input with the edit control and emits
// a CellEditCommitted event with the old and new value.
// The record is not modified, applying the new value
// is up to the EventHandler.
// If input can't be parsed, the error is returned
// and the session stays open.
// The event is dispatched after the session is closed,
// so handlers may call Closed or Cancel.
func (s *EditSession[T]) Commit(input string) (newValue any, err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrEditClosed
	}
	newValue = input
	if s.Control.Parse != nil {
		newValue, err = s.Control.Parse(input)
		if err != nil {
			s.mu.Unlock()
			return nil, fmt.Errorf("column %q: %w", s.Column.Key, err)
		}
	}
	s.closed = true
	s.mu.Unlock()

	s.grid.dispatch([]Event[T]{{
		Kind:     CellEditCommitted,
		Record:   s.Row.Record,
		Row:      s.Row.Index,
		Column:   s.Column.Key,
		OldValue: s.oldValue,
		NewValue: newValue,
	}})
	return newValue, nil
}

// Cancel ends the session without emitting an event.
func (s *EditSession[T]) Cancel() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Closed returns true after Commit succeeded or Cancel was called.
func (s *EditSession[T]) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}
