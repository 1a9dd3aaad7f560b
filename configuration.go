package datagrid

import (
	"maps"
	"slices"
)

// Parameters is an opaque set of named filter values.
// How parameters filter records is up to the
// ParameterFilter passed with WithParameterFilter.
type Parameters map[string]string

// Clone returns a copy or nil for empty parameters.
func (p Parameters) Clone() Parameters {
	if len(p) == 0 {
		return nil
	}
	return maps.Clone(p)
}

// Equal returns true if both have the same entries.
func (p Parameters) Equal(other Parameters) bool {
	return maps.Equal(p, other)
}

// ColumnState is the layout of a column within a Configuration.
type ColumnState struct {
	Key    string `json:"key" yaml:"key"`
	Hidden bool   `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Width  string `json:"width,omitempty" yaml:"width,omitempty"`
}

// Configuration is the serializable state of a grid
// that modes persist: the column layout in display order,
// the sort state and the filter parameters.
type Configuration struct {
	Columns    []ColumnState `json:"columns" yaml:"columns"`
	Sort       SortState     `json:"sort" yaml:"sort"`
	Parameters Parameters    `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Clone returns a deep copy of the configuration.
func (c Configuration) Clone() Configuration {
	return Configuration{
		Columns:    slices.Clone(c.Columns),
		Sort:       c.Sort,
		Parameters: c.Parameters.Clone(),
	}
}

// Equal returns true if both configurations are the same.
func (c Configuration) Equal(other Configuration) bool {
	return slices.Equal(c.Columns, other.Columns) &&
		c.Sort == other.Sort &&
		c.Parameters.Equal(other.Parameters)
}

// ColumnKeys returns the keys of the columns in display order.
func (c Configuration) ColumnKeys() []string {
	keys := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		keys[i] = col.Key
	}
	return keys
}
