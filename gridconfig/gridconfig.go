// Package gridconfig loads declarative grid definitions from YAML files.
//
// A definition describes the columns of a grid over records of type
// Record, a generic map as decoded from JSON, together with defaults
// for paging, scrolling and parameter filters.
//
// Example definition:
//
//	key: invoices
//	application: Invoices
//	page_size: 50
//	selection: multiple
//	columns:
//	  - key: number
//	    heading: Invoice
//	  - key: total
//	    type: currency
//	    currency: EUR
//	    path: amounts.total
//	filters:
//	  - parameter: customer
//	    path: customer.name
package gridconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/domonda/go-types/money"
	"github.com/gobwas/glob"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/domonda/go-datagrid"
	"github.com/domonda/go-datagrid/virtual"
)

// Record is the record type of grids defined by a Definition.
type Record = map[string]any

// Column types of ColumnDefinition.Type.
const (
	TypeText      = "text"
	TypeNumber    = "number"
	TypeCurrency  = "currency"
	TypePercent   = "percent"
	TypeBoolean   = "boolean"
	TypeDate      = "date"
	TypeDateTime  = "datetime"
	TypeDateRange = "daterange"
	TypeImage     = "image"
)

// ColumnDefinition describes one column.
type ColumnDefinition struct {
	Key     string `yaml:"key"`
	Heading string `yaml:"heading"`
	// Type is one of the Type constants, defaults to TypeText.
	Type string `yaml:"type"`
	// Path is the dot separated key path of the value
	// within a record, defaults to Key.
	Path string `yaml:"path"`
	// SortPath is the key path of the value used for sorting if set.
	SortPath string `yaml:"sort_path"`
	// Currency code of TypeCurrency columns.
	Currency string `yaml:"currency"`
	// Decimals of TypeNumber columns, shortest representation if nil.
	Decimals   *int   `yaml:"decimals"`
	Width      string `yaml:"width"`
	Hidden     bool   `yaml:"hidden"`
	Editable   bool   `yaml:"editable"`
	Unsortable bool   `yaml:"unsortable"`
	SumHeading string `yaml:"sum_heading"`
}

// FilterDefinition filters records by the glob pattern
// in the value of a grid parameter.
// Records match if the text of the value at Path matches the pattern,
// an empty or missing parameter matches all records.
type FilterDefinition struct {
	Parameter string `yaml:"parameter"`
	// Path of the filtered value, defaults to Parameter.
	Path string `yaml:"path"`
	// CaseSensitive matching, the default is case insensitive.
	CaseSensitive bool `yaml:"case_sensitive"`
}

// Definition of a grid.
type Definition struct {
	// Key identifies the grid, for example as key of its modes.
	Key string `yaml:"key"`
	// Application is the name of the application
	// used for export file names.
	Application string             `yaml:"application"`
	Columns     []ColumnDefinition `yaml:"columns"`
	// PageSize is "auto" or one of datagrid.PageSizes.
	PageSize      string              `yaml:"page_size"`
	RowHeight     float64             `yaml:"row_height"`
	Overscan      *int                `yaml:"overscan"`
	FrameInterval time.Duration       `yaml:"frame_interval"`
	Selection     string              `yaml:"selection"`
	KeyPath       string              `yaml:"key_path"`
	Filters       []FilterDefinition  `yaml:"filters"`
	Parameters    datagrid.Parameters `yaml:"parameters"`
	Sort          *datagrid.SortState `yaml:"sort"`
}

// Load reads and parses the definition file at path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read grid definition: %w", err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid grid definition %s: %w", path, err)
	}
	return def, nil
}

// Parse parses a YAML definition, applies defaults and validates it.
// Unknown fields are errors to catch misspelled settings.
func Parse(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	def := new(Definition)
	if err := dec.Decode(def); err != nil {
		return nil, err
	}
	def.setDefaults()
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

func (def *Definition) setDefaults() {
	if def.PageSize == "" {
		def.PageSize = datagrid.DefaultPageSize.String()
	}
	if def.RowHeight <= 0 {
		def.RowHeight = datagrid.DefaultRowHeight
	}
	if def.Overscan == nil {
		overscan := virtual.DefaultOverscan
		def.Overscan = &overscan
	}
	if def.FrameInterval <= 0 {
		def.FrameInterval = virtual.DefaultFrameInterval
	}
	if def.Selection == "" {
		def.Selection = datagrid.SelectNone.String()
	}
	for i := range def.Columns {
		col := &def.Columns[i]
		if col.Type == "" {
			col.Type = TypeText
		}
		if col.Path == "" {
			col.Path = col.Key
		}
		if col.Heading == "" {
			col.Heading = headingOf(col.Key)
		}
	}
	for i := range def.Filters {
		if def.Filters[i].Path == "" {
			def.Filters[i].Path = def.Filters[i].Parameter
		}
	}
}

// Validate returns all problems of the definition combined.
func (def *Definition) Validate() (err error) {
	if len(def.Columns) == 0 {
		err = multierr.Append(err, datagrid.ErrNoColumns)
	}
	keys := make(map[string]bool, len(def.Columns))
	for i, col := range def.Columns {
		switch {
		case col.Key == "":
			err = multierr.Append(err, fmt.Errorf("column %d: %w", i, datagrid.ErrMissingKey))
		case keys[col.Key]:
			err = multierr.Append(err, fmt.Errorf("%w: %q", datagrid.ErrDuplicateColumn, col.Key))
		}
		keys[col.Key] = true
		if _, e := newColumn(col); e != nil {
			err = multierr.Append(err, e)
		}
	}
	if _, e := datagrid.ParsePageSize(def.PageSize); e != nil {
		err = multierr.Append(err, e)
	}
	if _, e := parseSelectionMode(def.Selection); e != nil {
		err = multierr.Append(err, e)
	}
	for _, f := range def.Filters {
		if f.Parameter == "" {
			err = multierr.Append(err, errors.New("filter without parameter"))
		}
	}
	if def.Sort != nil && def.Sort.IsSorted() && !keys[def.Sort.Column] {
		err = multierr.Append(err, fmt.Errorf("sort %w: %q", datagrid.ErrUnknownColumn, def.Sort.Column))
	}
	return err
}

// GridColumns returns the columns of the definition.
func (def *Definition) GridColumns() ([]*datagrid.Column[Record], error) {
	columns := make([]*datagrid.Column[Record], len(def.Columns))
	for i, col := range def.Columns {
		var err error
		if columns[i], err = newColumn(col); err != nil {
			return nil, err
		}
	}
	return columns, nil
}

// Options returns the grid options of the definition.
// The scheduler of the grid calls frames on timer goroutines,
// pass WithScheduler(def.Scheduler(post)) to NewGrid
// to run them on the goroutine of an event loop.
func (def *Definition) Options() ([]datagrid.Option[Record], error) {
	pageSize, err := datagrid.ParsePageSize(def.PageSize)
	if err != nil {
		return nil, err
	}
	selection, err := parseSelectionMode(def.Selection)
	if err != nil {
		return nil, err
	}
	options := []datagrid.Option[Record]{
		datagrid.WithPageSize[Record](pageSize),
		datagrid.WithRowHeight[Record](def.RowHeight),
		datagrid.WithSelectionMode[Record](selection),
		datagrid.WithScheduler[Record](def.Scheduler(nil)),
	}
	if def.Overscan != nil {
		options = append(options, datagrid.WithOverscan[Record](*def.Overscan))
	}
	if def.KeyPath != "" {
		key := datagrid.KeyPath[Record](def.KeyPath)
		options = append(options, datagrid.WithKey(func(r Record) string {
			return datagrid.AsText(key(r))
		}))
	}
	if len(def.Filters) > 0 {
		options = append(options, datagrid.WithParameterFilter(def.ParameterFilter()))
	}
	if len(def.Parameters) > 0 {
		options = append(options, datagrid.WithParameters[Record](def.Parameters))
	}
	return options, nil
}

// NewGrid returns a new grid with the columns and options of the definition.
// Additional options are applied after the ones of the definition.
func (def *Definition) NewGrid(options ...datagrid.Option[Record]) (*datagrid.Grid[Record], error) {
	columns, err := def.GridColumns()
	if err != nil {
		return nil, err
	}
	defOptions, err := def.Options()
	if err != nil {
		return nil, err
	}
	grid, err := datagrid.New(columns, append(defOptions, options...)...)
	if err != nil {
		return nil, err
	}
	if def.Sort != nil && def.Sort.IsSorted() {
		if err := grid.SetSort(*def.Sort); err != nil {
			return nil, err
		}
	}
	return grid, nil
}

// Scheduler returns a frame scheduler for grids and their scrollers
// using the frame interval of the definition.
func (def *Definition) Scheduler(post func(frame func())) *virtual.TimerScheduler {
	return &virtual.TimerScheduler{Interval: def.FrameInterval, Post: post}
}

// ParameterFilter returns a filter matching records
// against the glob patterns in the filter parameters.
// Invalid patterns match no records.
func (def *Definition) ParameterFilter() datagrid.ParameterFilter[Record] {
	type filter struct {
		FilterDefinition
		value func(Record) any
	}
	filters := make([]filter, len(def.Filters))
	for i, f := range def.Filters {
		filters[i] = filter{FilterDefinition: f, value: datagrid.KeyPath[Record](f.Path)}
	}
	var patterns sync.Map // compiled glob.Glob or error by pattern
	compile := func(pattern string) (glob.Glob, error) {
		if cached, ok := patterns.Load(pattern); ok {
			if g, ok := cached.(glob.Glob); ok {
				return g, nil
			}
			return nil, cached.(error)
		}
		g, err := glob.Compile(pattern)
		if err != nil {
			patterns.Store(pattern, err)
			return nil, err
		}
		patterns.Store(pattern, g)
		return g, nil
	}

	return func(record Record, params datagrid.Parameters) bool {
		for _, f := range filters {
			pattern := params[f.Parameter]
			if pattern == "" {
				continue
			}
			text := datagrid.AsText(f.value(record))
			if !f.CaseSensitive {
				pattern = strings.ToLower(pattern)
				text = strings.ToLower(text)
			}
			g, err := compile(pattern)
			if err != nil || !g.Match(text) {
				return false
			}
		}
		return true
	}
}

// headingOf returns keys like "dueDate" as "Due Date".
func headingOf(key string) string {
	heading := datagrid.SpacePascalCase(key)
	if heading == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(heading)
	return string(unicode.ToUpper(r)) + heading[size:]
}

func parseSelectionMode(str string) (datagrid.SelectionMode, error) {
	for _, mode := range []datagrid.SelectionMode{datagrid.SelectNone, datagrid.SelectSingle, datagrid.SelectMultiple} {
		if str == mode.String() {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("invalid selection mode %q", str)
}

func newColumn(def ColumnDefinition) (*datagrid.Column[Record], error) {
	value := datagrid.KeyPath[Record](def.Path)
	var col *datagrid.Column[Record]
	switch def.Type {
	case TypeText:
		col = datagrid.TextColumn(def.Key, def.Heading, value)
	case TypeNumber:
		format := datagrid.DefaultNumberFormat
		if def.Decimals != nil {
			format = format.WithDecimals(*def.Decimals)
		}
		col = datagrid.FormattedNumberColumn(def.Key, def.Heading, format, value)
	case TypeCurrency:
		if def.Currency != "" && len(def.Currency) != 3 {
			return nil, fmt.Errorf("column %q has invalid currency %q", def.Key, def.Currency)
		}
		col = datagrid.CurrencyColumn(def.Key, def.Heading, money.Currency(strings.ToUpper(def.Currency)), value)
	case TypePercent:
		col = datagrid.PercentColumn(def.Key, def.Heading, value)
	case TypeBoolean:
		col = datagrid.BooleanColumn(def.Key, def.Heading, value)
	case TypeDate:
		col = datagrid.DateColumn(def.Key, def.Heading, value)
	case TypeDateTime:
		col = datagrid.DateTimeColumn(def.Key, def.Heading, convert(value, asTime))
	case TypeDateRange:
		col = datagrid.DateRangeColumn(def.Key, def.Heading, convert(value, asDateRange))
	case TypeImage:
		col = datagrid.ImageColumn(def.Key, def.Heading, value)
	default:
		return nil, fmt.Errorf("column %q has invalid type %q", def.Key, def.Type)
	}
	col.Width = def.Width
	col.Hidden = def.Hidden
	col.SumHeading = def.SumHeading
	if def.Unsortable {
		col.Sortable = false
	}
	if def.SortPath != "" {
		col.SortValue = datagrid.KeyPath[Record](def.SortPath)
	}
	if def.Editable {
		col.Editable = datagrid.Always[Record]
	}
	return col, nil
}

// convert wraps value to convert decoded JSON values
// that are not already of the column's value type.
func convert(value func(Record) any, conv func(any) any) func(Record) any {
	return func(r Record) any {
		v := value(r)
		if v == nil {
			return nil
		}
		return conv(v)
	}
}

func asTime(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, time.DateTime, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return nil
}

// asDateRange converts "start/end" strings
// and maps with "start" and "end" keys.
func asDateRange(v any) any {
	var start, end any
	switch v := v.(type) {
	case string:
		s, e, ok := strings.Cut(v, "/")
		if !ok {
			return nil
		}
		start, end = s, e
	case map[string]any:
		start, end = v["start"], v["end"]
	default:
		return v
	}
	var r datagrid.DateRange
	r.Start, _ = datagrid.AsDate(start)
	r.End, _ = datagrid.AsDate(end)
	return r
}
