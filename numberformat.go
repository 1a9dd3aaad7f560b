package datagrid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/domonda/go-types/float"
)

// DefaultNumberFormat prints the shortest representation
// with '.' as decimal and ',' as thousands separator.
var DefaultNumberFormat = NumberFormat{
	Decimals:     -1,
	DecimalSep:   '.',
	ThousandsSep: ',',
}

// NumberFormat formats and parses float64 numbers
// using the functions of the go-types float package.
type NumberFormat struct {
	// Decimals is the number of digits after the decimal separator.
	// A negative value uses the smallest number of digits
	// necessary to represent the value exactly.
	Decimals int
	// DecimalSep is '.' or ',' and defaults to '.' if zero.
	DecimalSep rune
	// ThousandsSep groups the integer digits if not zero.
	// Valid are '.', ',', ' ' and '\'' different from DecimalSep.
	ThousandsSep rune
}

// WithDecimals returns a copy of the format with the passed decimals.
func (f NumberFormat) WithDecimals(decimals int) NumberFormat {
	f.Decimals = decimals
	return f
}

// Validate returns an error if the separators
// are not supported by float.Format.
func (f NumberFormat) Validate() error {
	if f.DecimalSep != 0 && f.DecimalSep != '.' && f.DecimalSep != ',' {
		return fmt.Errorf("invalid decimal separator %q", f.DecimalSep)
	}
	switch f.ThousandsSep {
	case 0, '.', ',', ' ', '\'':
	default:
		return fmt.Errorf("invalid thousands separator %q", f.ThousandsSep)
	}
	if f.ThousandsSep != 0 && f.ThousandsSep == f.decimalSep() {
		return fmt.Errorf("thousands separator %q equals decimal separator", f.ThousandsSep)
	}
	return nil
}

func (f NumberFormat) decimalSep() rune {
	if f.DecimalSep == 0 {
		return '.'
	}
	return f.DecimalSep
}

// Format returns the number as text.
// Numbers rounding to zero are formatted without sign,
// NaN and infinite numbers as "NaN", "+Inf" and "-Inf".
// An invalid format formats like DefaultNumberFormat
// with the decimals of the format.
func (f NumberFormat) Format(number float64) string {
	if !float.Valid(number) {
		return strconv.FormatFloat(number, 'f', -1, 64)
	}
	if f.Validate() != nil {
		f = DefaultNumberFormat.WithDecimals(f.Decimals)
	}
	decimals := max(f.Decimals, -1)
	if decimals >= 0 && float.RoundToDecimals(number, decimals) == 0 {
		number = 0
	}
	return float.Format(number, f.ThousandsSep, f.decimalSep(), decimals, true)
}

// Parse reads a number formatted with the separators of the format.
// After the separators are normalized the text is parsed
// with float.Parse, which also accepts a trailing sign,
// exponents and "NaN" or "Inf".
func (f NumberFormat) Parse(str string) (float64, error) {
	normalized := strings.TrimSpace(str)
	if f.ThousandsSep != 0 {
		normalized = strings.ReplaceAll(normalized, string(f.ThousandsSep), "")
	}
	if sep := f.decimalSep(); sep != '.' {
		normalized = strings.ReplaceAll(normalized, string(sep), ".")
	}
	number, err := float.Parse(normalized)
	if err != nil {
		return 0, fmt.Errorf("can't parse %q as number: %w", str, err)
	}
	return number, nil
}

// PrintfContent returns a Column.Content renderer calling
// fmt.Sprintf with format and the value of the cell.
func PrintfContent[T any](format string) func(value any, record T) Content {
	return func(value any, _ T) Content {
		return TextContent(fmt.Sprintf(format, value))
	}
}

// PrintfRawContent is like PrintfContent
// but marks the result as raw markup of the painter.
func PrintfRawContent[T any](format string) func(value any, record T) Content {
	return func(value any, _ T) Content {
		return RawContent(fmt.Sprintf(format, value))
	}
}
