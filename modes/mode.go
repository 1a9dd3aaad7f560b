// Package modes persists named grid configurations, called modes,
// and manages which mode is selected for a grid.
//
// Modes are stored per grid key through an Adapter.
// The package provides an in memory adapter, a key value adapter
// over any StoreProvider (see the boltstore and redisstore packages),
// and an adapter falling back to a second adapter
// when the first one is unavailable.
// See the sqlstore package for relational storage.
package modes

import (
	"errors"

	"github.com/google/uuid"

	"github.com/domonda/go-datagrid"
)

var (
	// ErrNotFound is returned by a StoreProvider
	// for a key that does not exist.
	ErrNotFound = errors.New("modes: key not found")

	// ErrModeNotFound is returned for a mode id that does not exist,
	// for example because the mode was deleted elsewhere.
	ErrModeNotFound = errors.New("modes: mode not found")
)

// Mode is a named snapshot of a grid configuration.
type Mode struct {
	ID            string                 `json:"id" yaml:"id"`
	Name          string                 `json:"name" yaml:"name"`
	Configuration datagrid.Configuration `json:"configuration" yaml:"configuration"`
}

// NewMode returns a mode with a new random ID.
func NewMode(name string, config datagrid.Configuration) Mode {
	return Mode{
		ID:            uuid.NewString(),
		Name:          name,
		Configuration: config.Clone(),
	}
}

// Clone returns a deep copy of the mode.
func (m Mode) Clone() Mode {
	m.Configuration = m.Configuration.Clone()
	return m
}

func cloneModes(modes []Mode) []Mode {
	if modes == nil {
		return nil
	}
	clone := make([]Mode, len(modes))
	for i, m := range modes {
		clone[i] = m.Clone()
	}
	return clone
}

func indexOfMode(modes []Mode, id string) int {
	for i, m := range modes {
		if m.ID == id {
			return i
		}
	}
	return -1
}
