package datagrid

import (
	"reflect"
	"strings"
)

// KeyPath returns a column value selector for a dot separated path
// like "Address.City" through struct fields and string keyed maps.
//
// Struct field segments match the Go field name or the column title
// of the field according to DefaultStructFieldNaming,
// pointers and interfaces are dereferenced on the way.
// Any missing link in the path results in a nil value,
// sparse records are expected and render as blank cells.
func KeyPath[T any](path string) func(record T) any {
	return KeyPathWithNaming[T](path, &DefaultStructFieldNaming)
}

// KeyPathWithNaming is like KeyPath but uses the passed naming
// to match struct fields by column title.
func KeyPathWithNaming[T any](path string, naming *StructFieldNaming) func(record T) any {
	segments := strings.Split(path, ".")
	return func(record T) any {
		return resolveKeyPath(reflect.ValueOf(&record).Elem(), segments, naming)
	}
}

func resolveKeyPath(val reflect.Value, segments []string, naming *StructFieldNaming) any {
	for _, segment := range segments {
		val = indirect(val)
		if !val.IsValid() {
			return nil
		}
		switch val.Kind() {
		case reflect.Struct:
			val = structFieldByName(val, segment, naming)

		case reflect.Map:
			keyType := val.Type().Key()
			if keyType.Kind() != reflect.String {
				return nil
			}
			val = val.MapIndex(reflect.ValueOf(segment).Convert(keyType))

		default:
			return nil
		}
		if !val.IsValid() {
			return nil
		}
	}
	if !val.CanInterface() {
		return nil
	}
	return val.Interface()
}
