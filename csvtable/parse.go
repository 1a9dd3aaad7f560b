package csvtable

import (
	"bytes"
	"cmp"
	"fmt"

	"github.com/domonda/go-types/charset"
)

// ParseDetectFormat parses csv into rows of fields after detecting
// its encoding, newline and separator.
//
// The encoding is taken from a BOM or else is the one of
// config.Encodings whose decoded text contains most config.EncodingTests,
// defaulting to UTF-8. CRLF newlines win over LF if present.
// The separator is declared by a first line like "sep=;"
// or is the most frequent of comma, semicolon and tab.
// A nil config uses NewDefaultFormatDetectionConfig.
//
// Empty lines and lines that continue a multi-line field
// result in nil rows, see RemoveEmptyRows.
func ParseDetectFormat(csv []byte, config *FormatDetectionConfig) (rows [][]string, format *Format, err error) {
	if config == nil {
		config = NewDefaultFormatDetectionConfig()
	}
	format, lines, err := detectFormat(csv, config)
	if err != nil {
		return nil, nil, err
	}
	rows, err = parseLines(lines, format.Separator)
	if err != nil {
		return nil, format, err
	}
	return rows, format, nil
}

// ParseWithFormat parses csv encoded and separated as described by format.
// A first line declaring a separator with "sep=" is skipped,
// it is an error if it declares another separator than format.
func ParseWithFormat(csv []byte, format *Format) (rows [][]string, err error) {
	if err = format.Validate(); err != nil {
		return nil, err
	}
	if format.Encoding == "UTF-8" {
		csv = charset.TrimBOM(csv, charset.BOMUTF8)
	} else {
		enc, err := charset.GetEncoding(format.Encoding)
		if err != nil {
			return nil, err
		}
		if csv, err = enc.Decode(csv); err != nil {
			return nil, err
		}
	}
	csv = sanitizeUTF8(csv)

	lines := bytes.Split(csv, []byte(format.Newline))
	if sep, ok := sepDeclaration(lines[0]); ok {
		if sep != format.Separator {
			return nil, fmt.Errorf("first line declares separator %q, format has %q", sep, format.Separator)
		}
		lines = lines[1:]
	}
	return parseLines(lines, format.Separator)
}

func detectFormat(csv []byte, config *FormatDetectionConfig) (*Format, [][]byte, error) {
	encodings := make([]charset.Encoding, len(config.Encodings))
	for i, name := range config.Encodings {
		enc, err := charset.GetEncoding(name)
		if err != nil {
			return nil, nil, err
		}
		encodings[i] = enc
	}
	csv, encoding, err := charset.AutoDecode(csv, encodings, config.EncodingTests)
	if err != nil {
		return nil, nil, err
	}
	csv = sanitizeUTF8(csv)

	format := &Format{
		Encoding:  cmp.Or(encoding, "UTF-8"),
		Separator: ",",
		Newline:   "\n",
	}
	if bytes.Contains(csv, []byte("\r\n")) {
		format.Newline = "\r\n"
	}

	lines := bytes.Split(csv, []byte(format.Newline))
	if sep, ok := sepDeclaration(lines[0]); ok {
		format.Separator = sep
		return format, lines[1:], nil
	}

	var commas, semicolons, tabs int
	for i, line := range lines {
		// Stray CR or LF of mixed newlines
		line = bytes.Trim(line, "\r\n")
		lines[i] = line
		commas += bytes.Count(line, []byte{','})
		semicolons += bytes.Count(line, []byte{';'})
		tabs += bytes.Count(line, []byte{'\t'})
	}
	switch {
	case semicolons > commas && semicolons > tabs:
		format.Separator = ";"
	case tabs > commas && tabs > semicolons:
		format.Separator = "\t"
	}
	return format, lines, nil
}

// sepDeclaration parses a line like sep=; or "SEP=,"
// as written by spreadsheet applications.
func sepDeclaration(line []byte) (sep string, ok bool) {
	if len(line) > 2 && line[0] == '"' && line[len(line)-1] == '"' {
		line = line[1 : len(line)-1]
	}
	if len(line) != 5 || !(bytes.HasPrefix(line, []byte("sep=")) || bytes.HasPrefix(line, []byte("SEP="))) {
		return "", false
	}
	return string(line[4:]), true
}

// parseLines splits lines into fields at separator.
//
// Quoted fields may contain the separator, doubled quotes
// and newlines. When the last field of a line opens a quote
// the following lines up to the one whose first field closes
// it are joined into the field, and their rows stay nil
// so row indices keep matching line indices.
// An opening quote without closing one in the same line
// and without closing line is matched with a following field
// of the same line that closes the quote.
func parseLines(lines [][]byte, separator string) ([][]string, error) {
	sep := []byte(separator)
	rows := make([][]string, len(lines))
	for l := 0; l < len(lines); l++ {
		if len(lines[l]) == 0 {
			continue
		}
		fields := bytes.Split(lines[l], sep)
		for i := 0; i < len(fields); i++ {
			field := fields[i]
			if len(field) < 2 {
				continue
			}
			left, right := countQuotes(field)
			switch {
			case left == 0:
				// Unquoted, quotes inside are unescaped below

			case isQuoted(left, right):
				field = field[1 : len(field)-1]

			case right == 0 && left == 2:
				// Starts with an escaped quote

			case right == 0:
				joined := false
				if i == len(fields)-1 {
					field, fields, joined = joinLines(lines, l, sep, fields)
				}
				if !joined {
					field, fields = joinFields(fields, i, sep, left)
				}

			default:
				return nil, fmt.Errorf("can't parse CSV field `%s` in line %d", field, l+1)
			}
			fields[i] = bytes.ReplaceAll(field, []byte(`""`), []byte(`"`))
		}

		row := make([]string, len(fields))
		for i, field := range fields {
			row[i] = string(field)
		}
		rows[l] = row
	}
	return rows, nil
}

// joinLines joins the last of fields of line l with the
// following lines up to the first field closing its quote.
// The joined lines are set to nil and the remaining fields
// of the closing line are appended to fields.
func joinLines(lines [][]byte, l int, sep []byte, fields [][]byte) (field []byte, joinedFields [][]byte, joined bool) {
	last := len(fields) - 1
	for end := l + 1; end < len(lines); end++ {
		endFields := bytes.Split(lines[end], sep)
		if !bytes.HasSuffix(endFields[0], []byte{'"'}) {
			continue
		}
		parts := make([][]byte, 0, end-l+1)
		parts = append(parts, fields[last])
		parts = append(parts, lines[l+1:end]...)
		parts = append(parts, endFields[0])
		field = bytes.Join(parts, []byte{'\n'})
		for i := l + 1; i <= end; i++ {
			lines[i] = nil
		}
		return field[1 : len(field)-1], append(fields, endFields[1:]...), true
	}
	return fields[last], fields, false
}

// joinFields joins fields[i] opening a quote with the following
// fields up to one that closes the quote.
// fields is returned unchanged if there is no such field.
func joinFields(fields [][]byte, i int, sep []byte, left int) ([]byte, [][]byte) {
	if left != 1 && left != 3 {
		return fields[i], fields
	}
	for r := i + 1; r < len(fields); r++ {
		if len(fields[r]) < 2 {
			continue
		}
		rLeft, rRight := countQuotes(fields[r])
		if (rLeft == 0 || rLeft == 2) && (rRight == 1 || rRight == 3) {
			field := bytes.Join(fields[i:r+1], sep)
			fields = append(fields[:i+1], fields[r+1:]...)
			return field[1 : len(field)-1], fields
		}
	}
	return fields[i], fields
}

// isQuoted returns if a field with left leading and right
// trailing quotes is enclosed in quotes.
func isQuoted(left, right int) bool {
	switch {
	case left == 2 && right == 2:
		// Escaped quotes at both ends of an unquoted field
		return true
	case left != 1 && left != 3:
		return false
	}
	return right == 1 || right == 3
}

// countQuotes returns the number of leading and trailing quotes.
// A field of only quotes is split in half with the odd one left.
func countQuotes(field []byte) (left, right int) {
	left = len(field) - len(bytes.TrimLeft(field, `"`))
	if left == len(field) {
		left = (len(field) + 1) / 2
		return left, len(field) - left
	}
	right = len(field) - len(bytes.TrimRight(field, `"`))
	return left, right
}

// sanitizeUTF8 replaces the Unicode replacement character
// of undecodable bytes and no-break spaces with spaces.
func sanitizeUTF8(csv []byte) []byte {
	return bytes.Map(
		func(r rune) rune {
			if r == '\uFFFD' || r == '\u00a0' {
				return ' '
			}
			return r
		},
		csv,
	)
}
