package datagrid

import (
	"go/token"
	"reflect"
	"strings"
	"unicode"
)

// StructFieldTypes returns the exported fields of a struct type
// including the inlined fields of any anonymously embedded structs.
func StructFieldTypes(structType reflect.Type) (fields []reflect.StructField) {
	for structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return nil
	}
	for i := range structType.NumField() {
		field := structType.Field(i)
		switch {
		case field.Anonymous && indirectType(field.Type).Kind() == reflect.Struct:
			fields = append(fields, StructFieldTypes(field.Type)...)
		case token.IsExported(field.Name):
			fields = append(fields, field)
		}
	}
	return fields
}

// structFieldByName returns the exported field of a struct value
// named name or with the column title name according to naming,
// including the inlined fields of anonymously embedded structs.
// Embedded nil pointers yield an invalid reflect.Value.
func structFieldByName(structValue reflect.Value, name string, naming *StructFieldNaming) reflect.Value {
	structType := structValue.Type()
	for i := range structType.NumField() {
		field := structType.Field(i)
		if field.Anonymous && indirectType(field.Type).Kind() == reflect.Struct {
			embedded := indirect(structValue.Field(i))
			if !embedded.IsValid() {
				continue
			}
			if v := structFieldByName(embedded, name, naming); v.IsValid() {
				return v
			}
			continue
		}
		if !token.IsExported(field.Name) {
			continue
		}
		if field.Name == name || (naming != nil && naming.StructFieldColumn(field) == name) {
			return structValue.Field(i)
		}
	}
	return reflect.Value{}
}

// SpacePascalCase inserts spaces before upper case
// characters within PascalCase like names.
// It also replaces underscore '_' characters with spaces.
// Usable for StructFieldNaming.Untagged
func SpacePascalCase(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	lastWasUpper := true
	lastWasSpace := true
	for _, r := range name {
		if r == '_' {
			if !lastWasSpace {
				b.WriteByte(' ')
			}
			lastWasUpper = false
			lastWasSpace = true
			continue
		}
		isUpper := unicode.IsUpper(r)
		if isUpper && !lastWasUpper && !lastWasSpace {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		lastWasUpper = isUpper
		lastWasSpace = unicode.IsSpace(r)
	}
	return strings.TrimSpace(b.String())
}

// UseTitle returns a function that
// always returns the passed columnTitle.
func UseTitle(columnTitle string) func(fieldName string) (columnTitle string) {
	return func(string) string { return columnTitle }
}

// ValueIsNil returns true if the passed value is nil,
// a nil pointer, interface, slice, map, channel or function,
// or of type struct{}.
func ValueIsNil(value any) bool {
	if value == nil {
		return true
	}
	return reflectValueIsNil(reflect.ValueOf(value))
}

func reflectValueIsNil(val reflect.Value) bool {
	if !val.IsValid() {
		return true
	}
	switch val.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return val.IsNil()
	case reflect.Struct:
		if t := val.Type(); t.NumField() == 0 && t.NumMethod() == 0 {
			// Treat a value of type struct{} like nil
			return true
		}
	}
	return false
}

// indirect dereferences pointers and interfaces
// and returns an invalid reflect.Value for nil.
func indirect(val reflect.Value) reflect.Value {
	for val.IsValid() && (val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface) {
		if val.IsNil() {
			return reflect.Value{}
		}
		val = val.Elem()
	}
	return val
}

func indirectType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
