package datagrid

import (
	"slices"
	"testing"
	"time"

	"github.com/domonda/go-types/date"
	"github.com/domonda/go-types/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testInvoice struct {
	Number   string
	Amount   money.Amount
	Share    float64
	Paid     bool
	Due      date.Date
	Period   DateRange
	Created  time.Time
	Logo     string
	Comments *string
}

func testInvoiceValue(field string) func(testInvoice) any {
	return KeyPath[testInvoice](field)
}

func TestBuiltinColumns_Content(t *testing.T) {
	created := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	inv := testInvoice{
		Number:  "INV-1",
		Amount:  1234.5,
		Share:   12.5,
		Paid:    true,
		Due:     "2024-04-01",
		Period:  DateRange{Start: "2024-03-01", End: "2024-03-31"},
		Created: created,
		Logo:    "https://example.com/logo.png",
	}
	tests := []struct {
		name   string
		column *Column[testInvoice]
		want   Content
	}{
		{name: "text", column: TextColumn("n", "Number", testInvoiceValue("Number")), want: TextContent("INV-1")},
		{name: "currency", column: CurrencyColumn("a", "Amount", "EUR", testInvoiceValue("Amount")), want: TextContent("1,234.50 EUR")},
		{name: "percent", column: PercentColumn("s", "Share", testInvoiceValue("Share")), want: TextContent("12.5 %")},
		{name: "boolean", column: BooleanColumn("p", "Paid", testInvoiceValue("Paid")), want: Content{Kind: ContentCheck, Text: "true"}},
		{name: "date", column: DateColumn("d", "Due", testInvoiceValue("Due")), want: TextContent("2024-04-01")},
		{name: "date range", column: DateRangeColumn("r", "Period", testInvoiceValue("Period")), want: TextContent("2024-03-01 - 2024-03-31")},
		{name: "date time", column: DateTimeColumn("c", "Created", testInvoiceValue("Created")), want: TextContent("2024-03-05 14:30")},
		{name: "image", column: ImageColumn("l", "Logo", testInvoiceValue("Logo")), want: Content{Kind: ContentImage, Text: "https://example.com/logo.png"}},
		{name: "nil pointer is blank", column: TextColumn("x", "Comments", testInvoiceValue("Comments")), want: Blank},
		{name: "missing field is blank", column: TextColumn("x", "Nope", testInvoiceValue("Nope")), want: Blank},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.column.Validate())
			assert.Equal(t, tt.want, tt.column.Render(inv))
		})
	}
}

func TestBuiltinColumns_CSV(t *testing.T) {
	inv := testInvoice{
		Number: "INV-2",
		Amount: 99.9,
		Paid:   false,
		Period: DateRange{Start: "2024-01-01", End: "2024-01-31"},
	}
	tests := []struct {
		name         string
		column       *Column[testInvoice]
		wantHeadings []string
		wantValues   []string
	}{
		{
			name:         "currency",
			column:       CurrencyColumn("a", "Amount", "EUR", testInvoiceValue("Amount")),
			wantHeadings: []string{"Amount"},
			wantValues:   []string{"99.9"},
		},
		{
			name:         "boolean",
			column:       BooleanColumn("p", "Paid", testInvoiceValue("Paid")),
			wantHeadings: []string{"Paid"},
			wantValues:   []string{"false"},
		},
		{
			name:         "date range has two fields",
			column:       DateRangeColumn("r", "Period", testInvoiceValue("Period")),
			wantHeadings: []string{"Period Start", "Period End"},
			wantValues:   []string{"2024-01-01", "2024-01-31"},
		},
		{
			name:         "zero date",
			column:       DateColumn("d", "Due", testInvoiceValue("Due")),
			wantHeadings: []string{"Due"},
			wantValues:   []string{""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, tt.column.CanExportCSV())
			assert.Equal(t, tt.wantHeadings, slices.Collect(tt.column.CSVHeadingsOf()))
			assert.Equal(t, tt.wantValues, slices.Collect(tt.column.CSVValuesOf(inv)))
		})
	}

	t.Run("deletion column is not exported", func(t *testing.T) {
		col := DeletionColumn("del", func(testInvoice) {})
		assert.False(t, col.CanExportCSV())
		assert.Empty(t, slices.Collect(col.CSVValuesOf(inv)))
	})
}

func TestBuiltinColumns_Capabilities(t *testing.T) {
	value := testInvoiceValue("Number")
	assert.True(t, NumberColumn("n", "N", value).CanSum())
	assert.True(t, CurrencyColumn("c", "C", "USD", value).CanSum())
	assert.True(t, PercentColumn("p", "P", value).CanSum())
	assert.False(t, TextColumn("t", "T", value).CanSum())
	assert.False(t, DateColumn("d", "D", value).CanSum())
	assert.False(t, ImageColumn("i", "I", value).Sortable)

	sum := CurrencyColumn("c", "C", "USD", value).SumContent(1000)
	assert.Equal(t, TextContent("1,000.00 USD"), sum)

	text := TextColumn("t", "T", value)
	assert.False(t, text.CanEdit(testInvoice{}), "read only without Editable")
	text.Editable = Always[testInvoice]
	assert.True(t, text.CanEdit(testInvoice{}))
}

func TestBuiltinColumns_EditParse(t *testing.T) {
	tests := []struct {
		name    string
		column  *Column[testInvoice]
		input   string
		want    any
		wantErr bool
	}{
		{name: "currency", column: CurrencyColumn("a", "Amount", "EUR", testInvoiceValue("Amount")), input: "1,000.25", want: money.Amount(1000.25)},
		{name: "currency invalid", column: CurrencyColumn("a", "Amount", "EUR", testInvoiceValue("Amount")), input: "lots", wantErr: true},
		{name: "currency code", column: CurrencyColumn("a", "Amount", "EUR", testInvoiceValue("Amount")), input: " 12.50 EUR", want: money.Amount(12.5)},
		{name: "currency german", column: CurrencyColumn("a", "Amount", "EUR", testInvoiceValue("Amount")), input: "1.000,25", want: money.Amount(1000.25)},
		{name: "currency trailing minus", column: CurrencyColumn("a", "Amount", "", testInvoiceValue("Amount")), input: "99.90-", want: money.Amount(-99.9)},
		{name: "currency infinite", column: CurrencyColumn("a", "Amount", "EUR", testInvoiceValue("Amount")), input: "Inf", wantErr: true},
		{name: "percent", column: PercentColumn("s", "Share", testInvoiceValue("Share")), input: "7.5 %", want: 7.5},
		{name: "boolean", column: BooleanColumn("p", "Paid", testInvoiceValue("Paid")), input: "true", want: true},
		{name: "date", column: DateColumn("d", "Due", testInvoiceValue("Due")), input: "2024-02-29", want: date.Date("2024-02-29")},
		{name: "date invalid", column: DateColumn("d", "Due", testInvoiceValue("Due")), input: "2024-02-30", wantErr: true},
		{
			name:   "date range",
			column: DateRangeColumn("r", "Period", testInvoiceValue("Period")),
			input:  "2024-01-01/2024-01-31",
			want:   DateRange{Start: "2024-01-01", End: "2024-01-31"},
		},
		{name: "date range reversed", column: DateRangeColumn("r", "Period", testInvoiceValue("Period")), input: "2024-02-01/2024-01-31", wantErr: true},
		{
			name:   "date time",
			column: DateTimeColumn("c", "Created", testInvoiceValue("Created")),
			input:  "2024-03-05 14:30",
			want:   time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			control := tt.column.EditContent(nil, testInvoice{})
			got, err := control.Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStructColumns(t *testing.T) {
	type embedded struct {
		Note string `col:"Remark"`
	}
	type record struct {
		Name   string
		Amount money.Amount
		Count  int
		Active bool
		Due    date.Date
		Seen   time.Time
		Secret string `col:"-"`
		embedded
	}
	columns, err := StructColumns[*record](&DefaultStructFieldNaming)
	require.NoError(t, err)

	var headings []string
	for _, col := range columns {
		headings = append(headings, col.Heading)
	}
	assert.Equal(t, []string{"Name", "Amount", "Count", "Active", "Due", "Seen", "Remark"}, headings)
	assert.Equal(t, "Note", columns[6].Key)

	r := &record{Name: "x", Amount: 5, Active: true, embedded: embedded{Note: "hi"}}
	assert.Equal(t, TextContent("5.00"), columns[1].Render(r))
	assert.Equal(t, ContentCheck, columns[3].Render(r).Kind)
	assert.Equal(t, TextContent("hi"), columns[6].Render(r))
	assert.Equal(t, Blank, columns[1].Render(nil))

	_, err = StructColumns[int](nil)
	require.Error(t, err)
}
