package csvtable

import (
	"bytes"
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/domonda/go-types/charset"
	fs "github.com/ungerik/go-fs"

	"github.com/domonda/go-datagrid"
)

// Encoder is an interface to encode byte strings.
type Encoder interface {
	Bytes([]byte) ([]byte, error)
}

// EncoderFunc implements the Encoder interface for a function.
type EncoderFunc func([]byte) ([]byte, error)

func (f EncoderFunc) Bytes(data []byte) ([]byte, error) {
	return f(data)
}

// CharsetEncoder returns an Encoder converting UTF-8
// to the named charset like "ISO 8859-1" or "Windows 1252".
func CharsetEncoder(name string) (Encoder, error) {
	enc, err := charset.GetEncoding(name)
	if err != nil {
		return nil, err
	}
	return EncoderFunc(enc.Encode), nil
}

type Padding int

const (
	NoPadding Padding = iota
	AlignLeft
	AlignRight
	AlignCenter
)

// FileName returns the name of the CSV export file
// of an application.
func FileName(applicationName string) string {
	return applicationName + "Export.csv"
}

// Writer writes the rows of a datagrid.Grid as CSV.
//
// Only visible columns with CSV support are written,
// each contributing one field per CSV heading.
// The rows are the filtered and sorted records of the grid
// or only the records of the current page.
type Writer[T any] struct {
	padding          Padding
	headerRow        bool
	pageOnly         bool
	quoteAllFields   bool
	quoteEmptyFields bool
	escapeQuotes     string
	delimiter        rune
	newLine          string
	encoder          Encoder
	bom              bool
}

// NewWriter returns a Writer for comma separated values
// with a header row and CRLF line endings.
func NewWriter[T any]() *Writer[T] {
	return &Writer[T]{
		padding:          NoPadding,
		headerRow:        true,
		pageOnly:         false,
		quoteAllFields:   false,
		quoteEmptyFields: false,
		escapeQuotes:     `""`,
		delimiter:        ',',
		newLine:          "\r\n",
		encoder:          nil,
		bom:              false,
	}
}

func (w *Writer[T]) clone() *Writer[T] {
	c := new(Writer[T])
	*c = *w
	return c
}

// Write writes the grid to dest formatted as CSV.
func (w *Writer[T]) Write(ctx context.Context, dest io.Writer, grid *datagrid.Grid[T]) error {
	rows, err := w.Strings(ctx, grid)
	if err != nil {
		return err
	}
	if w.bom {
		if _, err = dest.Write([]byte(charset.BOMUTF8)); err != nil {
			return err
		}
	}

	for _, row := range rows {
		for col, str := range row {
			row[col] = w.escapeString(str)
		}
	}
	var colRuneCount []int
	if w.padding != NoPadding && len(rows) > 0 {
		colRuneCount = datagrid.StringColumnWidths(rows, len(rows[0]))
	}

	rowBuf := bytes.NewBuffer(make([]byte, 0, 1024))
	for _, row := range rows {
		for col, str := range row {
			if col > 0 {
				rowBuf.WriteRune(w.delimiter)
			}
			if colRuneCount == nil {
				rowBuf.WriteString(str)
				continue
			}
			var (
				padTotal = colRuneCount[col] - utf8.RuneCountInString(str)
				padLeft  = 0
				padRight = 0
			)
			switch w.padding {
			case AlignLeft:
				padRight = padTotal
			case AlignRight:
				padLeft = padTotal
			case AlignCenter:
				padLeft = padTotal / 2
				padRight = (padTotal + 1) / 2
			}
			rowBuf.WriteString(strings.Repeat(" ", max(padLeft, 0)))
			rowBuf.WriteString(str)
			rowBuf.WriteString(strings.Repeat(" ", max(padRight, 0)))
		}
		rowBuf.WriteString(w.newLine)

		if w.encoder != nil {
			// Read, encode, and write back the buffered row
			encoded, err := w.encoder.Bytes(rowBuf.Bytes())
			if err != nil {
				return err
			}
			rowBuf.Reset()
			rowBuf.Write(encoded)
		}

		if _, err = dest.Write(rowBuf.Bytes()); err != nil {
			return err
		}
		rowBuf.Reset()
	}
	return nil
}

// Bytes returns the grid formatted as CSV.
func (w *Writer[T]) Bytes(ctx context.Context, grid *datagrid.Grid[T]) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Write(ctx, &buf, grid); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFile writes the grid as CSV to file.
func (w *Writer[T]) ExportFile(ctx context.Context, file fs.File, grid *datagrid.Grid[T]) error {
	data, err := w.Bytes(ctx, grid)
	if err != nil {
		return err
	}
	return file.WriteAll(data)
}

// Strings returns the unescaped CSV fields of the grid
// including the header row if enabled.
func (w *Writer[T]) Strings(ctx context.Context, grid *datagrid.Grid[T]) ([][]string, error) {
	var columns []*datagrid.Column[T]
	for _, col := range grid.VisibleColumns() {
		if col.CanExportCSV() {
			columns = append(columns, col)
		}
	}
	records := grid.Rows()
	if w.pageOnly {
		records = grid.Page()
	}

	rows := make([][]string, 0, len(records)+1)
	if w.headerRow {
		var header []string
		for _, col := range columns {
			for heading := range col.CSVHeadingsOf() {
				header = append(header, heading)
			}
		}
		rows = append(rows, header)
	}
	for _, record := range records {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var row []string
		for _, col := range columns {
			for field := range col.CSVValuesOf(record.Record) {
				row = append(row, field)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (w *Writer[T]) escapeString(str string) string {
	// Just in case remove all \r,
	// \n alone is valid within quotes
	str = strings.ReplaceAll(str, "\r", "")
	switch {
	case w.quoteAllFields || strings.ContainsRune(str, w.delimiter) || strings.ContainsRune(str, '\n') || strings.ContainsRune(str, '"'):
		return `"` + strings.ReplaceAll(str, `"`, w.escapeQuotes) + `"`
	case w.quoteEmptyFields && str == "":
		return `""`
	}
	return str
}

func (w *Writer[T]) WithHeaderRow(headerRow bool) *Writer[T] {
	mod := w.clone()
	mod.headerRow = headerRow
	return mod
}

// WithPageOnly returns a writer that only writes
// the records of the current page if pageOnly is true.
func (w *Writer[T]) WithPageOnly(pageOnly bool) *Writer[T] {
	mod := w.clone()
	mod.pageOnly = pageOnly
	return mod
}

func (w *Writer[T]) WithPadding(padding Padding) *Writer[T] {
	mod := w.clone()
	mod.padding = padding
	return mod
}

func (w *Writer[T]) WithQuoteAllFields(quoteAllFields bool) *Writer[T] {
	mod := w.clone()
	mod.quoteAllFields = quoteAllFields
	return mod
}

func (w *Writer[T]) WithQuoteEmptyFields(quoteEmptyFields bool) *Writer[T] {
	mod := w.clone()
	mod.quoteEmptyFields = quoteEmptyFields
	return mod
}

func (w *Writer[T]) WithEscapeQuotes(escapeQuotes string) *Writer[T] {
	mod := w.clone()
	mod.escapeQuotes = escapeQuotes
	return mod
}

func (w *Writer[T]) WithDelimiter(delimiter rune) *Writer[T] {
	mod := w.clone()
	mod.delimiter = delimiter
	return mod
}

func (w *Writer[T]) WithNewLine(newLine string) *Writer[T] {
	mod := w.clone()
	mod.newLine = newLine
	return mod
}

func (w *Writer[T]) WithEncoder(encoder Encoder) *Writer[T] {
	mod := w.clone()
	mod.encoder = encoder
	return mod
}

// WithBOM returns a writer that starts the output
// with a UTF-8 byte order mark if bom is true.
func (w *Writer[T]) WithBOM(bom bool) *Writer[T] {
	mod := w.clone()
	mod.bom = bom
	return mod
}

// WithFormat returns a writer using the separator,
// newline and encoding of a validated Format.
func (w *Writer[T]) WithFormat(format *Format) (*Writer[T], error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	mod := w.clone()
	mod.delimiter, _ = utf8.DecodeRuneInString(format.Separator)
	mod.newLine = format.Newline
	mod.encoder = nil
	if !strings.EqualFold(format.Encoding, "UTF-8") {
		enc, err := CharsetEncoder(format.Encoding)
		if err != nil {
			return nil, err
		}
		mod.encoder = enc
	}
	return mod, nil
}

func (w *Writer[T]) Delimiter() rune {
	return w.delimiter
}

func (w *Writer[T]) NewLine() string {
	return w.newLine
}

func (w *Writer[T]) Encoder() Encoder {
	return w.encoder
}
