package gridconfig

import (
	"cmp"
	"slices"
	"time"

	"github.com/domonda/go-datagrid"
)

// Infer returns a definition with one column per top level key
// of records, sorted by key. Column types are derived from the values:
// numbers, booleans and ISO 8601 date strings get their own type
// if all non nil values of a key agree, everything else is text.
// Every column gets a filter with the column key as parameter.
func Infer(key string, records []Record) *Definition {
	types := make(map[string]string)
	for _, record := range records {
		for k, v := range record {
			if v == nil {
				if _, ok := types[k]; !ok {
					types[k] = ""
				}
				continue
			}
			t := typeOfValue(v)
			switch prev, ok := types[k]; {
			case !ok || prev == "":
				types[k] = t
			case prev != t:
				types[k] = TypeText
			}
		}
	}
	keys := make([]string, 0, len(types))
	for k := range types {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	def := &Definition{
		Key:     key,
		Columns: make([]ColumnDefinition, len(keys)),
		Filters: make([]FilterDefinition, len(keys)),
	}
	for i, k := range keys {
		def.Columns[i] = ColumnDefinition{Key: k, Type: types[k]}
		def.Filters[i] = FilterDefinition{Parameter: k}
	}
	def.setDefaults()
	return def
}

func typeOfValue(v any) string {
	switch v := v.(type) {
	case bool:
		return TypeBoolean
	case time.Time:
		return TypeDateTime
	case string:
		if _, err := time.Parse(time.DateOnly, v); err == nil {
			return TypeDate
		}
		if _, err := time.Parse(time.RFC3339, v); err == nil {
			return TypeDateTime
		}
	}
	if _, ok := datagrid.AsFloat(v); ok {
		return TypeNumber
	}
	return TypeText
}

// OrderColumns stably sorts the columns and filters of def
// by the position of their keys in keys.
// Columns and filters with keys not in keys keep their order after those.
func (def *Definition) OrderColumns(keys []string) {
	if len(keys) == 0 {
		return
	}
	position := func(key string) int {
		if i := slices.Index(keys, key); i >= 0 {
			return i
		}
		return len(keys)
	}
	slices.SortStableFunc(def.Columns, func(a, b ColumnDefinition) int {
		return cmp.Compare(position(a.Key), position(b.Key))
	})
	slices.SortStableFunc(def.Filters, func(a, b FilterDefinition) int {
		return cmp.Compare(position(a.Parameter), position(b.Parameter))
	})
}
