package datagrid

import "fmt"

// ContentKind tells a painter how to present Content.
type ContentKind int

const (
	// ContentText is plain text.
	ContentText ContentKind = iota
	// ContentImage has an image source URL as Text.
	ContentImage
	// ContentCheck has "true" or "false" as Text.
	ContentCheck
	// ContentAction is an activatable control labeled with Text.
	ContentAction
)

// String implements the fmt.Stringer interface.
func (k ContentKind) String() string {
	switch k {
	case ContentText:
		return "text"
	case ContentImage:
		return "image"
	case ContentCheck:
		return "check"
	case ContentAction:
		return "action"
	}
	return fmt.Sprintf("ContentKind(%d)", int(k))
}

// Content is the renderable result of a column template.
// How it is painted is up to the painter,
// see the htmltable and termtable packages.
type Content struct {
	Kind ContentKind
	Text string
	// Raw indicates that Text is already in the markup
	// of the painter and must be used as is
	// instead of being escaped.
	Raw bool
}

// Blank is the Content of cells without a value.
var Blank Content

// TextContent returns Content of ContentText kind.
func TextContent(text string) Content {
	return Content{Kind: ContentText, Text: text}
}

// RawContent returns Content of ContentText kind
// that painters must not escape.
func RawContent(text string) Content {
	return Content{Kind: ContentText, Text: text, Raw: true}
}

// IsBlank returns true if the Content has no text.
func (c Content) IsBlank() bool {
	return c.Text == ""
}

// String returns the text of the Content.
func (c Content) String() string { return c.Text }

// Alignment of a column.
type Alignment int

const (
	AlignStart Alignment = iota
	AlignCenter
	AlignEnd
)

// String implements the fmt.Stringer interface.
func (a Alignment) String() string {
	switch a {
	case AlignStart:
		return "start"
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	}
	return fmt.Sprintf("Alignment(%d)", int(a))
}

// EditKind tells a painter which inline control to show.
type EditKind int

const (
	EditText EditKind = iota
	EditNumber
	EditCheckbox
	EditDate
	EditDateTime
	EditDateRange
)

// String implements the fmt.Stringer interface.
func (k EditKind) String() string {
	switch k {
	case EditText:
		return "text"
	case EditNumber:
		return "number"
	case EditCheckbox:
		return "checkbox"
	case EditDate:
		return "date"
	case EditDateTime:
		return "datetime"
	case EditDateRange:
		return "daterange"
	}
	return fmt.Sprintf("EditKind(%d)", int(k))
}

// EditControl is the result of a column edit template:
// an inline control bound to the current value.
type EditControl struct {
	Kind EditKind
	// Value is the current value as input text.
	Value string
	// Parse validates input text and returns the typed new value.
	Parse func(input string) (any, error)
}
