package datagrid

import (
	"fmt"
	"reflect"

	"github.com/domonda/go-types/money"
)

var typeOfAmount = reflect.TypeOf(money.Amount(0))

// DefaultStructFieldNamingIgnoreUntagged uses "col" as title tag
// and ignores "-" titled as well as untagged fields.
var DefaultStructFieldNamingIgnoreUntagged = StructFieldNaming{
	Tag:      "col",
	Ignore:   "-",
	Untagged: UseTitle("-"),
}

// StructColumns returns one column per exported field of the struct type T
// or the struct type T points to, including the fields of embedded structs.
//
// The column key is the field name, the heading is determined by naming.
// Fields with the Ignore heading of naming get no column.
// The column variant is selected by the field type:
//   - time.Time: DateTimeColumn
//   - date.Date: DateColumn
//   - DateRange: DateRangeColumn
//   - money.Amount: FormattedNumberColumn with two decimals
//   - other numbers: NumberColumn
//   - bool: BooleanColumn
//   - everything else: TextColumn
//
// Example:
//
//	type Person struct {
//	    Name     string    `col:"Full Name"`
//	    Birthday date.Date
//	    Internal string    `col:"-"`
//	}
//	columns, err := StructColumns[Person](&DefaultStructFieldNaming)
//	// columns: "Full Name" (text), "Birthday" (date)
func StructColumns[T any](naming *StructFieldNaming) ([]*Column[T], error) {
	structType := indirectType(reflect.TypeFor[T]())
	if structType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("record type must be a struct but is %s", reflect.TypeFor[T]())
	}
	var columns []*Column[T]
	for _, field := range StructFieldTypes(structType) {
		if naming.IsIgnored(field) {
			continue
		}
		heading := naming.StructFieldColumn(field)
		value := KeyPathWithNaming[T](field.Name, nil)
		columns = append(columns, structFieldColumn(field.Name, heading, indirectType(field.Type), value))
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: struct %s", ErrNoColumns, structType)
	}
	return columns, nil
}

func structFieldColumn[T any](key, heading string, fieldType reflect.Type, value func(T) any) *Column[T] {
	switch fieldType {
	case typeOfTime:
		return DateTimeColumn(key, heading, value)
	case typeOfDate:
		return DateColumn(key, heading, value)
	case typeOfDateRange:
		return DateRangeColumn(key, heading, value)
	case typeOfAmount:
		return FormattedNumberColumn(key, heading, DefaultNumberFormat.WithDecimals(2), value)
	}
	switch fieldType.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return NumberColumn(key, heading, value)
	case reflect.Bool:
		return BooleanColumn(key, heading, value)
	}
	return TextColumn(key, heading, value)
}
