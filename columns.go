package datagrid

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/domonda/go-types/date"
	"github.com/domonda/go-types/money"
)

// Layouts used by the date and time columns.
var (
	DateLayout     = time.DateOnly
	DateTimeLayout = "2006-01-02 15:04"
)

// TextColumn returns a sortable column showing values as text.
func TextColumn[T any](key, heading string, value func(T) any) *Column[T] {
	return &Column[T]{
		Key:      key,
		Heading:  heading,
		Sortable: true,
		Value:    value,
		Content: func(v any, _ T) Content {
			return TextContent(AsText(v))
		},
		EditContent: func(v any, _ T) EditControl {
			return EditControl{
				Kind:  EditText,
				Value: AsText(v),
				Parse: func(input string) (any, error) { return input, nil },
			}
		},
		CSVValues: func(v any, _ T) iter.Seq[string] {
			return single(AsText(v))
		},
	}
}

// NumberColumn returns a sortable, summable column
// formatting numbers with DefaultNumberFormat.
func NumberColumn[T any](key, heading string, value func(T) any) *Column[T] {
	return FormattedNumberColumn(key, heading, DefaultNumberFormat, value)
}

// FormattedNumberColumn returns a sortable, summable column
// formatting numbers with the passed format.
func FormattedNumberColumn[T any](key, heading string, format NumberFormat, value func(T) any) *Column[T] {
	return numericColumn(key, heading, value, format.Format, format.Parse, func(f float64) any { return f })
}

// CurrencyColumn returns a sortable, summable column for money amounts
// formatted with two decimals followed by the currency code.
// Edited values are parsed with money.ParseAmount,
// which detects the separators, optionally followed by the currency code.
func CurrencyColumn[T any](key, heading string, currency money.Currency, value func(T) any) *Column[T] {
	format := DefaultNumberFormat.WithDecimals(2)
	formatAmount := func(f float64) string {
		if currency == "" {
			return format.Format(f)
		}
		return format.Format(f) + " " + string(currency)
	}
	parseAmount := func(s string) (float64, error) {
		s = strings.TrimSpace(s)
		if currency != "" {
			s = strings.TrimSpace(strings.TrimSuffix(s, string(currency)))
		}
		amount, err := money.ParseAmount(s)
		if err != nil {
			return 0, err
		}
		if !amount.Valid() {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		return float64(amount), nil
	}
	return numericColumn(key, heading, value, formatAmount, parseAmount, func(f float64) any { return money.Amount(f) })
}

// PercentColumn returns a sortable, summable column
// for values already scaled to percent.
func PercentColumn[T any](key, heading string, value func(T) any) *Column[T] {
	formatPercent := func(f float64) string {
		return DefaultNumberFormat.Format(f) + " %"
	}
	parsePercent := func(s string) (float64, error) {
		return DefaultNumberFormat.Parse(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	}
	return numericColumn(key, heading, value, formatPercent, parsePercent, func(f float64) any { return f })
}

func numericColumn[T any](key, heading string, value func(T) any, format func(float64) string, parse func(string) (float64, error), typed func(float64) any) *Column[T] {
	return &Column[T]{
		Key:      key,
		Heading:  heading,
		Align:    AlignEnd,
		Sortable: true,
		Value:    value,
		Content: func(v any, _ T) Content {
			f, ok := AsFloat(v)
			if !ok {
				return TextContent(AsText(v))
			}
			return TextContent(format(f))
		},
		EditContent: func(v any, _ T) EditControl {
			var text string
			if f, ok := AsFloat(v); ok {
				text = strconv.FormatFloat(f, 'f', -1, 64)
			}
			return EditControl{
				Kind:  EditNumber,
				Value: text,
				Parse: func(input string) (any, error) {
					f, err := parse(input)
					if err != nil {
						return nil, err
					}
					return typed(f), nil
				},
			}
		},
		SumContent: func(sum float64) Content {
			return TextContent(format(sum))
		},
		CSVValues: func(v any, _ T) iter.Seq[string] {
			f, ok := AsFloat(v)
			if !ok {
				return single("")
			}
			return single(strconv.FormatFloat(f, 'f', -1, 64))
		},
	}
}

// BooleanColumn returns a sortable column showing a check mark.
func BooleanColumn[T any](key, heading string, value func(T) any) *Column[T] {
	return &Column[T]{
		Key:      key,
		Heading:  heading,
		Align:    AlignCenter,
		Sortable: true,
		Value:    value,
		Content: func(v any, _ T) Content {
			b, _ := AsBool(v)
			return Content{Kind: ContentCheck, Text: strconv.FormatBool(b)}
		},
		EditContent: func(v any, _ T) EditControl {
			b, _ := AsBool(v)
			return EditControl{
				Kind:  EditCheckbox,
				Value: strconv.FormatBool(b),
				Parse: func(input string) (any, error) {
					return strconv.ParseBool(strings.TrimSpace(input))
				},
			}
		},
		CSVValues: func(v any, _ T) iter.Seq[string] {
			b, ok := AsBool(v)
			if !ok {
				return single("")
			}
			return single(strconv.FormatBool(b))
		},
	}
}

// DateColumn returns a sortable column for date.Date values,
// time.Time values are shown by their date.
// Edited values are parsed as date.Date.
func DateColumn[T any](key, heading string, value func(T) any) *Column[T] {
	formatDate := func(v any) string {
		d, ok := AsDate(v)
		if !ok {
			return ""
		}
		t, ok := parseDate(d)
		if !ok {
			return string(d)
		}
		return t.Format(DateLayout)
	}
	return &Column[T]{
		Key:      key,
		Heading:  heading,
		Sortable: true,
		Value:    value,
		Content: func(v any, _ T) Content {
			return TextContent(formatDate(v))
		},
		EditContent: func(v any, _ T) EditControl {
			d, _ := AsDate(v)
			return EditControl{
				Kind:  EditDate,
				Value: string(d),
				Parse: func(input string) (any, error) {
					return parseDateInput(input)
				},
			}
		},
		CSVValues: func(v any, _ T) iter.Seq[string] {
			d, _ := AsDate(v)
			return single(string(d))
		},
	}
}

// DateTimeColumn returns a sortable column for time.Time values.
// Edited values are parsed as time.Time.
func DateTimeColumn[T any](key, heading string, value func(T) any) *Column[T] {
	asTime := func(v any) (time.Time, bool) {
		t, ok := AsTime(v)
		return t, ok && !t.IsZero()
	}
	return &Column[T]{
		Key:      key,
		Heading:  heading,
		Sortable: true,
		Value:    value,
		Content: func(v any, _ T) Content {
			t, ok := asTime(v)
			if !ok {
				return Blank
			}
			return TextContent(t.Format(DateTimeLayout))
		},
		EditContent: func(v any, _ T) EditControl {
			var text string
			if t, ok := asTime(v); ok {
				text = t.Format(time.RFC3339)
			}
			return EditControl{
				Kind:  EditDateTime,
				Value: text,
				Parse: func(input string) (any, error) {
					input = strings.TrimSpace(input)
					for _, layout := range []string{time.RFC3339, DateTimeLayout, time.DateTime} {
						if t, err := time.Parse(layout, input); err == nil {
							return t, nil
						}
					}
					return nil, fmt.Errorf("can't parse %q as date time", input)
				},
			}
		},
		CSVValues: func(v any, _ T) iter.Seq[string] {
			t, ok := asTime(v)
			if !ok {
				return single("")
			}
			return single(t.Format(time.RFC3339))
		},
	}
}

// DateRangeColumn returns a column for DateRange values
// sorted by start date. It exports two CSV fields,
// "<heading> Start" and "<heading> End".
// Edited values are parsed from "start/end" ISO 8601 intervals.
func DateRangeColumn[T any](key, heading string, value func(T) any) *Column[T] {
	return &Column[T]{
		Key:      key,
		Heading:  heading,
		Sortable: true,
		Value:    value,
		Content: func(v any, _ T) Content {
			r, ok := AsDateRange(v)
			if !ok {
				return Blank
			}
			return TextContent(formatDateRange(r, " - "))
		},
		EditContent: func(v any, _ T) EditControl {
			var text string
			if r, ok := AsDateRange(v); ok {
				text = formatDateRange(r, "/")
			}
			return EditControl{
				Kind:  EditDateRange,
				Value: text,
				Parse: func(input string) (any, error) {
					startStr, endStr, ok := strings.Cut(input, "/")
					if !ok {
						return nil, fmt.Errorf("date range %q is not of the form start/end", input)
					}
					var (
						r   DateRange
						err error
					)
					if r.Start, err = parseDateInput(startStr); err != nil {
						return nil, err
					}
					if r.End, err = parseDateInput(endStr); err != nil {
						return nil, err
					}
					if r.End < r.Start {
						return nil, fmt.Errorf("date range end %s is before start %s", r.End, r.Start)
					}
					return r, nil
				},
			}
		},
		CSVHeadings: func() iter.Seq[string] {
			return pair(heading+" Start", heading+" End")
		},
		CSVValues: func(v any, _ T) iter.Seq[string] {
			r, _ := AsDateRange(v)
			return pair(string(r.Start), string(r.End))
		},
	}
}

// ImageColumn returns a column showing the value as image source URL.
func ImageColumn[T any](key, heading string, value func(T) any) *Column[T] {
	return &Column[T]{
		Key:     key,
		Heading: heading,
		Align:   AlignCenter,
		Value:   value,
		Content: func(v any, _ T) Content {
			return Content{Kind: ContentImage, Text: AsText(v)}
		},
		CSVValues: func(v any, _ T) iter.Seq[string] {
			return single(AsText(v))
		},
	}
}

// DeletionColumn returns a column with a "Delete" action per row
// calling onDelete with the record. It is not exported to CSV.
func DeletionColumn[T any](key string, onDelete func(T)) *Column[T] {
	return &Column[T]{
		Key:   key,
		Align: AlignCenter,
		Value: func(record T) any { return record },
		Content: func(any, T) Content {
			return Content{Kind: ContentAction, Text: "Delete"}
		},
		Action: onDelete,
	}
}

func formatDateRange(r DateRange, sep string) string {
	return string(r.Start) + sep + string(r.End)
}

func parseDateInput(input string) (date.Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(input))
	if err != nil {
		return "", fmt.Errorf("can't parse %q as date: %w", input, err)
	}
	return date.OfTime(t), nil
}
