package datagrid

import (
	"fmt"
	"reflect"
	"strings"
)

// DefaultStructFieldNaming uses "col" as title tag,
// ignores "-" titled fields, and uses SpacePascalCase
// for untagged fields.
var DefaultStructFieldNaming = StructFieldNaming{
	Tag:      "col",
	Ignore:   "-",
	Untagged: SpacePascalCase,
}

// StructFieldNaming defines how struct fields
// are mapped to column headings and key path segments.
//
// nil is a valid value for *StructFieldNaming
// and is equal to the zero value
// which will use all exported struct fields
// with their field name as column heading.
type StructFieldNaming struct {
	// Tag is the struct field tag to be used as column heading.
	// If Tag is empty, then every struct field will be treated as untagged.
	Tag string
	// Ignore is the heading of fields that
	// don't get a column from StructColumns.
	Ignore string
	// Untagged will be called with the struct field name to
	// return a heading in case the struct field has no tag named Tag.
	// If Untagged is nil, then the struct field name will be used.
	Untagged func(fieldName string) (column string)
}

// String implements the fmt.Stringer interface for StructFieldNaming.
func (n *StructFieldNaming) String() string {
	if n == nil {
		return `StructFieldNaming{Tag: "", Ignore: ""}`
	}
	return fmt.Sprintf("StructFieldNaming{Tag: %#v, Ignore: %#v}", n.Tag, n.Ignore)
}

// StructFieldColumn returns the column heading for a struct field.
func (n *StructFieldNaming) StructFieldColumn(structField reflect.StructField) string {
	if n == nil {
		return structField.Name
	}
	if n.Tag != "" {
		if tag, ok := structField.Tag.Lookup(n.Tag); ok {
			if i := strings.IndexByte(tag, ','); i != -1 {
				tag = tag[:i]
			}
			if tag != "" {
				return tag
			}
		}
	}
	if n.Untagged == nil {
		return structField.Name
	}
	return n.Untagged(structField.Name)
}

// IsIgnored returns true if the struct field has the Ignore heading.
func (n *StructFieldNaming) IsIgnored(structField reflect.StructField) bool {
	if n == nil || n.Ignore == "" {
		return false
	}
	return n.StructFieldColumn(structField) == n.Ignore
}

// Columns returns the column headings of the struct fields
// of strct that are not ignored.
func (n *StructFieldNaming) Columns(strct any) []string {
	fields := StructFieldTypes(reflect.TypeOf(strct))
	columns := make([]string, 0, len(fields))
	for _, field := range fields {
		if n.IsIgnored(field) {
			continue
		}
		columns = append(columns, n.StructFieldColumn(field))
	}
	return columns
}
