package datagrid

import (
	"fmt"
	"slices"
)

// SelectionMode of a grid.
type SelectionMode int

const (
	SelectNone SelectionMode = iota
	SelectSingle
	SelectMultiple
)

// String implements the fmt.Stringer interface.
func (m SelectionMode) String() string {
	switch m {
	case SelectNone:
		return "none"
	case SelectSingle:
		return "single"
	case SelectMultiple:
		return "multiple"
	}
	return fmt.Sprintf("SelectionMode(%d)", int(m))
}

// selection is an insertion ordered set of record identities.
type selection struct {
	keys []string
}

func (s *selection) has(key string) bool {
	return slices.Contains(s.keys, key)
}

func (s *selection) len() int { return len(s.keys) }

func (s *selection) clear() bool {
	if len(s.keys) == 0 {
		return false
	}
	s.keys = nil
	return true
}

// apply changes the selection for a click on key
// and returns true if the selection changed.
func (s *selection) apply(mode SelectionMode, key string) bool {
	switch mode {
	case SelectSingle:
		if len(s.keys) == 1 && s.keys[0] == key {
			return false
		}
		s.keys = []string{key}
		return true
	case SelectMultiple:
		if i := slices.Index(s.keys, key); i >= 0 {
			s.keys = slices.Delete(s.keys, i, i+1)
		} else {
			s.keys = append(s.keys, key)
		}
		return true
	}
	return false
}

// retain removes all keys not in present
// and returns true if the selection changed.
func (s *selection) retain(present map[string]struct{}) bool {
	n := len(s.keys)
	s.keys = slices.DeleteFunc(s.keys, func(key string) bool {
		_, ok := present[key]
		return !ok
	})
	return len(s.keys) != n
}
