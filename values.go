package datagrid

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/domonda/go-types/date"
)

var (
	typeOfTime      = reflect.TypeOf(time.Time{})
	typeOfDate      = reflect.TypeOf(date.Date(""))
	typeOfDateRange = reflect.TypeOf(DateRange{})
)

// DateRange is the value type of DateRangeColumn.
type DateRange struct {
	Start date.Date `json:"start"`
	End   date.Date `json:"end"`
}

// IsZero returns true if both dates are zero.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// AsFloat converts numeric values, pointers to numeric values,
// and types with a numeric underlying type like money.Amount to float64.
func AsFloat(value any) (float64, bool) {
	val := indirect(reflect.ValueOf(value))
	if !val.IsValid() {
		return 0, false
	}
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(val.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(val.Uint()), true
	case reflect.Float32, reflect.Float64:
		return val.Float(), true
	}
	return 0, false
}

// AsTime converts time.Time, date.Date and pointers to them
// to time.Time. Dates are interpreted as midnight UTC.
func AsTime(value any) (time.Time, bool) {
	val := indirect(reflect.ValueOf(value))
	if !val.IsValid() {
		return time.Time{}, false
	}
	switch val.Type() {
	case typeOfTime:
		return val.Interface().(time.Time), true
	case typeOfDate:
		return parseDate(val.Interface().(date.Date))
	case typeOfDateRange:
		return parseDate(val.Interface().(DateRange).Start)
	}
	return time.Time{}, false
}

// AsDate converts date.Date, time.Time, ISO 8601 date strings
// and pointers to them to date.Date.
func AsDate(value any) (date.Date, bool) {
	val := indirect(reflect.ValueOf(value))
	if !val.IsValid() {
		return "", false
	}
	switch val.Type() {
	case typeOfDate:
		d := val.Interface().(date.Date)
		return d, !d.IsZero()
	case typeOfTime:
		t := val.Interface().(time.Time)
		if t.IsZero() {
			return "", false
		}
		return date.OfTime(t), true
	}
	if val.Kind() == reflect.String {
		t, err := time.Parse(time.DateOnly, strings.TrimSpace(val.String()))
		if err != nil {
			return "", false
		}
		return date.OfTime(t), true
	}
	return "", false
}

// AsDateRange converts DateRange and *DateRange values.
func AsDateRange(value any) (DateRange, bool) {
	val := indirect(reflect.ValueOf(value))
	if !val.IsValid() || val.Type() != typeOfDateRange {
		return DateRange{}, false
	}
	r := val.Interface().(DateRange)
	return r, !r.IsZero()
}

// AsBool converts bool values, pointers to bool
// and types with bool as underlying type.
func AsBool(value any) (b, ok bool) {
	val := indirect(reflect.ValueOf(value))
	if !val.IsValid() || val.Kind() != reflect.Bool {
		return false, false
	}
	return val.Bool(), true
}

// AsText formats any value as text,
// dereferencing pointers and returning "" for nil.
func AsText(value any) string {
	val := indirect(reflect.ValueOf(value))
	if !val.IsValid() || reflectValueIsNil(val) {
		return ""
	}
	if val.Kind() == reflect.String {
		return val.String()
	}
	return fmt.Sprint(val.Interface())
}

func parseDate(d date.Date) (time.Time, bool) {
	if d.IsZero() {
		return time.Time{}, false
	}
	t, err := time.Parse(time.DateOnly, string(d))
	return t, err == nil
}

// CompareValues compares two non nil values in their natural order:
// chronologically for times and dates, numerically for numbers,
// false before true for booleans, and lexicographically for
// strings and all other values formatted as text.
func CompareValues(a, b any) int {
	if ta, ok := AsTime(a); ok {
		if tb, ok := AsTime(b); ok {
			return ta.Compare(tb)
		}
	}
	if fa, ok := AsFloat(a); ok {
		if fb, ok := AsFloat(b); ok {
			return cmp.Compare(fa, fb)
		}
	}
	if ba, ok := AsBool(a); ok {
		if bb, ok := AsBool(b); ok {
			switch {
			case ba == bb:
				return 0
			case !ba:
				return -1
			default:
				return 1
			}
		}
	}
	return strings.Compare(AsText(a), AsText(b))
}

// isMissing returns true for values that sort to the end.
func isMissing(value any) bool {
	if ValueIsNil(value) {
		return true
	}
	switch v := value.(type) {
	case date.Date:
		return v.IsZero()
	case DateRange:
		return v.IsZero()
	}
	return false
}
