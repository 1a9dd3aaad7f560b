package datagrid

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAddress struct {
	City string `col:"Town"`
}

type testPerson struct {
	ID      string
	Name    string
	Age     int
	Salary  float64
	Address *testAddress
}

func testPeople() []testPerson {
	return []testPerson{
		{ID: "a", Name: "Carol", Age: 41, Salary: 1200, Address: &testAddress{City: "Vienna"}},
		{ID: "b", Name: "alice", Age: 29, Salary: 800},
		{ID: "c", Name: "Bob", Age: 35, Salary: 1000, Address: &testAddress{City: "Graz"}},
		{ID: "d", Name: "Dave", Age: 0, Salary: 0.5},
	}
}

func testColumns() []*Column[testPerson] {
	return []*Column[testPerson]{
		TextColumn("name", "Name", KeyPath[testPerson]("Name")),
		NumberColumn("age", "Age", KeyPath[testPerson]("Age")),
		NumberColumn("salary", "Salary", KeyPath[testPerson]("Salary")),
		TextColumn("city", "City", KeyPath[testPerson]("Address.Town")),
	}
}

type eventRecorder[T any] struct {
	events []Event[T]
}

func (r *eventRecorder[T]) handle(e Event[T]) { r.events = append(r.events, e) }

func (r *eventRecorder[T]) kinds() []EventKind {
	kinds := make([]EventKind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind
	}
	return kinds
}

func names(rows []Row[testPerson]) []string {
	n := make([]string, len(rows))
	for i, row := range rows {
		n[i] = row.Record.Name
	}
	return n
}

func newTestGrid(t *testing.T, options ...Option[testPerson]) *Grid[testPerson] {
	t.Helper()
	grid, err := New(testColumns(), options...)
	require.NoError(t, err)
	grid.SetData(testPeople())
	return grid
}

func TestNew(t *testing.T) {
	t.Run("no columns", func(t *testing.T) {
		_, err := New[testPerson](nil)
		require.ErrorIs(t, err, ErrNoColumns)
	})
	t.Run("missing content", func(t *testing.T) {
		_, err := New([]*Column[testPerson]{{Key: "x", Heading: "X"}})
		require.ErrorIs(t, err, ErrMissingContent)
	})
	t.Run("missing key", func(t *testing.T) {
		col := TextColumn("", "X", KeyPath[testPerson]("Name"))
		_, err := New([]*Column[testPerson]{col})
		require.ErrorIs(t, err, ErrMissingKey)
	})
	t.Run("duplicate key", func(t *testing.T) {
		col := TextColumn("x", "X", KeyPath[testPerson]("Name"))
		_, err := New([]*Column[testPerson]{col, col})
		require.ErrorIs(t, err, ErrDuplicateColumn)
	})
	t.Run("invalid page size", func(t *testing.T) {
		_, err := New(testColumns(), WithPageSize[testPerson](7))
		require.ErrorIs(t, err, ErrInvalidPageSize)
	})
	t.Run("MustNew panics", func(t *testing.T) {
		require.Panics(t, func() { MustNew[testPerson](nil) })
	})
}

func TestGrid_ToggleSort(t *testing.T) {
	rec := new(eventRecorder[testPerson])
	grid := newTestGrid(t, WithEventHandler(rec.handle))
	original := names(grid.Rows())
	require.Equal(t, []string{"Carol", "alice", "Bob", "Dave"}, original)

	require.NoError(t, grid.ToggleSort("age"))
	assert.Equal(t, SortState{Column: "age", Direction: Ascending}, grid.Sort())
	assert.Equal(t, []string{"Dave", "alice", "Bob", "Carol"}, names(grid.Rows()))

	require.NoError(t, grid.ToggleSort("age"))
	assert.Equal(t, SortState{Column: "age", Direction: Descending}, grid.Sort())
	assert.Equal(t, []string{"Carol", "Bob", "alice", "Dave"}, names(grid.Rows()))

	require.NoError(t, grid.ToggleSort("age"))
	assert.Equal(t, SortState{}, grid.Sort())
	assert.Equal(t, original, names(grid.Rows()), "three toggles restore the original order")

	assert.Equal(t, []EventKind{SortChanged, SortChanged, SortChanged}, rec.kinds()[len(rec.kinds())-3:])

	t.Run("other column starts ascending", func(t *testing.T) {
		require.NoError(t, grid.ToggleSort("age"))
		require.NoError(t, grid.ToggleSort("name"))
		assert.Equal(t, SortState{Column: "name", Direction: Ascending}, grid.Sort())
		assert.Equal(t, []string{"Bob", "Carol", "Dave", "alice"}, names(grid.Rows()))
	})
	t.Run("unknown column", func(t *testing.T) {
		require.ErrorIs(t, grid.ToggleSort("nope"), ErrUnknownColumn)
	})
	t.Run("concurrent toggles", func(t *testing.T) {
		var changes atomic.Int64
		grid := newTestGrid(t, WithEventHandler(func(e Event[testPerson]) {
			if e.Kind == SortChanged {
				changes.Add(1)
			}
		}))
		var wg sync.WaitGroup
		for range 30 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, grid.ToggleSort("age"))
			}()
		}
		wg.Wait()
		assert.Equal(t, int64(30), changes.Load(), "every toggle advances the sort")
		assert.Equal(t, SortState{}, grid.Sort(), "30 toggles are 10 full cycles")
	})
}

func TestGrid_SetSort_Idempotent(t *testing.T) {
	grid := newTestGrid(t)
	state := SortState{Column: "salary", Direction: Descending}
	require.NoError(t, grid.SetSort(state))
	first := names(grid.Rows())
	require.NoError(t, grid.SetSort(state))
	require.Equal(t, first, names(grid.Rows()))
}

func TestGrid_SortValueOverride(t *testing.T) {
	type item struct {
		Display string
		Raw     float64
	}
	col := TextColumn("price", "Price", KeyPath[item]("Display"))
	col.SortValue = KeyPath[item]("Raw")
	grid := MustNew([]*Column[item]{col})
	grid.SetData([]item{
		{Display: "9.00", Raw: 9},
		{Display: "10.00", Raw: 10},
		{Display: "100.00", Raw: 100},
	})
	require.NoError(t, grid.ToggleSort("price"))

	var got []string
	for _, row := range grid.Rows() {
		got = append(got, row.Record.Display)
	}
	// Lexicographic order would be 10.00, 100.00, 9.00
	require.Equal(t, []string{"9.00", "10.00", "100.00"}, got)
}

func TestGrid_MissingValuesSortLast(t *testing.T) {
	grid := newTestGrid(t)
	require.NoError(t, grid.ToggleSort("city"))
	assert.Equal(t, []string{"Bob", "Carol", "alice", "Dave"}, names(grid.Rows()))
	require.NoError(t, grid.ToggleSort("city"))
	assert.Equal(t, []string{"Carol", "Bob", "alice", "Dave"}, names(grid.Rows()))
}

func TestGrid_Pagination(t *testing.T) {
	people := make([]testPerson, 57)
	for i := range people {
		people[i] = testPerson{ID: strconv.Itoa(i), Name: fmt.Sprintf("P%02d", i), Age: i}
	}
	rec := new(eventRecorder[testPerson])
	grid := MustNew(testColumns(), WithPageSize[testPerson](10), WithEventHandler(rec.handle))
	grid.SetData(people)

	assert.Equal(t, 6, grid.PageCount())
	grid.SetPage(5)
	assert.Equal(t, Pagination{Page: 5, Size: 10}, grid.Pagination())
	assert.Len(t, grid.Page(), 7)

	t.Run("out of range clamps to last page", func(t *testing.T) {
		grid.SetPage(99)
		assert.Equal(t, 5, grid.Pagination().Page)
		assert.NotEmpty(t, grid.Page())
		grid.SetPage(-1)
		assert.Equal(t, 0, grid.Pagination().Page)
	})

	t.Run("page size change resets to first page", func(t *testing.T) {
		grid.SetPage(3)
		require.NoError(t, grid.SetPageSize(50))
		assert.Equal(t, Pagination{Page: 0, Size: 50}, grid.Pagination())
		assert.Equal(t, PageChanged, rec.events[len(rec.events)-1].Kind)
		require.ErrorIs(t, grid.SetPageSize(42), ErrInvalidPageSize)
	})

	t.Run("shrinking data clamps page", func(t *testing.T) {
		require.NoError(t, grid.SetPageSize(10))
		grid.SetPage(5)
		grid.SetData(people[:15])
		assert.Equal(t, 1, grid.Pagination().Page)
		assert.Len(t, grid.Page(), 5)
	})

	t.Run("empty data has one empty page", func(t *testing.T) {
		grid.SetData(nil)
		assert.Equal(t, 1, grid.PageCount())
		assert.Equal(t, 0, grid.Pagination().Page)
		assert.Empty(t, grid.Page())
	})
}

func TestGrid_AutoPageSize(t *testing.T) {
	people := make([]testPerson, 30)
	for i := range people {
		people[i] = testPerson{Name: strconv.Itoa(i)}
	}
	grid := MustNew(testColumns(), WithPageSize[testPerson](PageSizeAuto), WithRowHeight[testPerson](20))
	grid.SetData(people)

	assert.Equal(t, 1, grid.Pagination().Size, "no height yet")

	grid.SetAvailableHeight(205)
	assert.Equal(t, 10, grid.Pagination().Size)
	grid.SetPage(2)

	grid.SetAvailableHeight(400)
	assert.Equal(t, Pagination{Page: 1, Size: 20}, grid.Pagination())

	t.Run("fixed page size ignores height", func(t *testing.T) {
		require.NoError(t, grid.SetPageSize(25))
		grid.SetAvailableHeight(40)
		assert.Equal(t, 25, grid.Pagination().Size)
	})
}

func TestGrid_Selection(t *testing.T) {
	people := make([]testPerson, 8)
	for i := range people {
		people[i] = testPerson{ID: strconv.Itoa(i * 10), Name: strconv.Itoa(i)}
	}

	t.Run("single", func(t *testing.T) {
		grid := MustNew(testColumns(), WithSelectionMode[testPerson](SelectSingle))
		grid.SetData(people)
		require.NoError(t, grid.ClickRow(2))
		require.NoError(t, grid.ClickRow(5))
		assert.Equal(t, []testPerson{people[5]}, grid.Selection())
		assert.True(t, grid.IsSelected(5))
		assert.False(t, grid.IsSelected(2))
	})

	t.Run("multiple", func(t *testing.T) {
		rec := new(eventRecorder[testPerson])
		grid := MustNew(testColumns(), WithSelectionMode[testPerson](SelectMultiple), WithEventHandler(rec.handle))
		grid.SetData(people)
		require.NoError(t, grid.ClickRow(2))
		require.NoError(t, grid.ClickRow(5))
		assert.Equal(t, []testPerson{people[2], people[5]}, grid.Selection())
		assert.Equal(t, []string{"2", "5"}, grid.SelectedKeys())

		require.NoError(t, grid.ClickRow(2))
		assert.Equal(t, []testPerson{people[5]}, grid.Selection(), "toggled off")

		last := rec.events[len(rec.events)-1]
		assert.Equal(t, SelectionChanged, last.Kind)
		assert.Equal(t, []testPerson{people[5]}, last.Records)
	})

	t.Run("none", func(t *testing.T) {
		rec := new(eventRecorder[testPerson])
		grid := MustNew(testColumns(), WithEventHandler(rec.handle))
		grid.SetData(people)
		require.NoError(t, grid.ClickRow(1))
		assert.Empty(t, grid.Selection())
		assert.Equal(t, []EventKind{DataChanged, RowClicked}, rec.kinds())
		assert.Equal(t, people[1], rec.events[1].Record)
	})

	t.Run("out of range", func(t *testing.T) {
		grid := MustNew(testColumns())
		grid.SetData(people)
		require.ErrorIs(t, grid.ClickRow(8), ErrRowOutOfRange)
	})

	t.Run("keyed selection survives sorting and reloads", func(t *testing.T) {
		grid := MustNew(testColumns(),
			WithSelectionMode[testPerson](SelectMultiple),
			WithKey(func(p testPerson) string { return p.ID }),
		)
		grid.SetData(people)
		require.NoError(t, grid.ClickRow(3))
		require.NoError(t, grid.SetSort(SortState{Column: "name", Direction: Descending}))
		assert.Equal(t, []testPerson{people[3]}, grid.Selection())

		grid.SetData(people[4:])
		assert.Empty(t, grid.Selection(), "removed record is deselected")
	})
}

func TestGrid_ContextMenu(t *testing.T) {
	grid := newTestGrid(t, WithSelectionMode[testPerson](SelectMultiple))
	people := testPeople()

	menu, err := grid.ContextMenu(1)
	require.NoError(t, err)
	assert.Equal(t, ContextMenu[testPerson]{Records: []testPerson{people[1]}}, menu)

	require.NoError(t, grid.ClickRow(0))
	menu, err = grid.ContextMenu(3)
	require.NoError(t, err)
	assert.Equal(t, []testPerson{people[0]}, menu.Records, "selection wins over clicked row")
	assert.Empty(t, menu.Label)

	require.NoError(t, grid.ClickRow(2))
	menu, err = grid.ContextMenu(3)
	require.NoError(t, err)
	assert.Equal(t, []testPerson{people[0], people[2]}, menu.Records)
	assert.Equal(t, "2 selected", menu.Label)

	grid.ClearSelection()
	assert.Empty(t, grid.Selection())
}

func TestGrid_CellAndSums(t *testing.T) {
	grid := newTestGrid(t, WithPageSize[testPerson](10))

	content, err := grid.Cell(0, "city")
	require.NoError(t, err)
	assert.Equal(t, TextContent("Vienna"), content)

	content, err = grid.Cell(1, "city")
	require.NoError(t, err)
	assert.True(t, content.IsBlank(), "missing key path renders blank")

	_, err = grid.Cell(0, "nope")
	require.ErrorIs(t, err, ErrUnknownColumn)

	sum, err := grid.Sum("salary")
	require.NoError(t, err)
	assert.Equal(t, 3000.5, sum)

	_, err = grid.Sum("name")
	require.ErrorIs(t, err, errors.ErrUnsupported)

	assert.True(t, grid.HasSums())
	assert.Equal(t, []Content{Blank, TextContent("105"), TextContent("3,000.5"), Blank}, grid.Sums())

	t.Run("page scope", func(t *testing.T) {
		grid := newTestGrid(t, WithPageSize[testPerson](10), WithSumScope[testPerson](SumPage))
		require.NoError(t, grid.SetSort(SortState{Column: "salary", Direction: Descending}))
		grid.SetFilter(func(p testPerson) bool { return p.Salary >= 1000 })
		sum, err := grid.Sum("salary")
		require.NoError(t, err)
		assert.Equal(t, 2200.0, sum)
	})
}

func TestGrid_Filter(t *testing.T) {
	grid := newTestGrid(t,
		WithParameterFilter(func(p testPerson, params Parameters) bool {
			city := params["city"]
			return city == "" || (p.Address != nil && p.Address.City == city)
		}),
	)
	grid.SetParameters(Parameters{"city": "Graz"})
	assert.Equal(t, []string{"Bob"}, names(grid.Rows()))
	assert.Equal(t, Parameters{"city": "Graz"}, grid.Parameters())

	grid.SetFilter(func(p testPerson) bool { return p.Age > 100 })
	assert.Equal(t, 0, grid.Len())

	grid.SetFilter(nil)
	grid.SetParameters(nil)
	assert.Equal(t, 4, grid.Len())
}

func TestGrid_ColumnLayout(t *testing.T) {
	grid := newTestGrid(t)

	require.NoError(t, grid.MoveColumn("city", 0))
	require.NoError(t, grid.SetColumnHidden("age", true))
	require.NoError(t, grid.SetColumnWidth("name", "200px"))
	require.ErrorIs(t, grid.MoveColumn("nope", 0), ErrUnknownColumn)

	var keys []string
	for _, col := range grid.VisibleColumns() {
		keys = append(keys, col.Key)
	}
	assert.Equal(t, []string{"city", "name", "salary"}, keys)
	assert.Equal(t, []ColumnState{
		{Key: "city"},
		{Key: "name", Width: "200px"},
		{Key: "age", Hidden: true},
		{Key: "salary"},
	}, grid.Layout())

	columns, layout := grid.VisibleLayout()
	require.Len(t, columns, 3)
	assert.Equal(t, []ColumnState{
		{Key: "city"},
		{Key: "name", Width: "200px"},
		{Key: "salary"},
	}, layout)
	for i, col := range columns {
		assert.Equal(t, col.Key, layout[i].Key)
	}
	assert.Empty(t, columns[1].Width, "column definition keeps its width")

	require.NoError(t, grid.MoveColumn("city", 100))
	assert.Equal(t, "city", grid.Layout()[3].Key)
}

func TestGrid_Configuration(t *testing.T) {
	grid := newTestGrid(t)
	require.NoError(t, grid.SetColumnHidden("salary", true))
	require.NoError(t, grid.SetSort(SortState{Column: "age", Direction: Descending}))
	grid.SetParameters(Parameters{"q": "x"})
	saved := grid.Configuration()

	other := newTestGrid(t)
	require.NoError(t, other.ApplyConfiguration(saved))
	require.True(t, saved.Equal(other.Configuration()))

	t.Run("invalid configuration is not applied", func(t *testing.T) {
		before := other.Configuration()
		err := other.ApplyConfiguration(Configuration{
			Columns: []ColumnState{{Key: "name", Hidden: true}, {Key: "gone"}},
			Sort:    SortState{Column: "missing"},
		})
		require.ErrorIs(t, err, ErrUnknownColumn)
		require.Equal(t, before, other.Configuration())
	})

	t.Run("missing columns are appended", func(t *testing.T) {
		require.NoError(t, other.ApplyConfiguration(Configuration{
			Columns: []ColumnState{{Key: "city"}, {Key: "name"}},
		}))
		assert.Equal(t, []string{"city", "name", "age", "salary"}, other.Configuration().ColumnKeys())
		assert.Equal(t, SortState{}, other.Sort())
		assert.Nil(t, other.Parameters())
	})

	t.Run("unsortable sort column", func(t *testing.T) {
		img := ImageColumn("img", "Image", KeyPath[testPerson]("Name"))
		grid := MustNew(append(testColumns(), img))
		err := grid.ApplyConfiguration(Configuration{Sort: SortState{Column: "img"}})
		require.ErrorIs(t, err, ErrNotSortable)
	})
}

func TestGrid_Activate(t *testing.T) {
	var deleted []testPerson
	rec := new(eventRecorder[testPerson])
	columns := append(testColumns(), DeletionColumn("delete", func(p testPerson) { deleted = append(deleted, p) }))
	grid := MustNew(columns, WithEventHandler(rec.handle))
	grid.SetData(testPeople())

	content, err := grid.Cell(2, "delete")
	require.NoError(t, err)
	assert.Equal(t, Content{Kind: ContentAction, Text: "Delete"}, content)

	require.NoError(t, grid.Activate(2, "delete"))
	assert.Equal(t, []testPerson{testPeople()[2]}, deleted)
	last := rec.events[len(rec.events)-1]
	assert.Equal(t, RowAction, last.Kind)
	assert.Equal(t, "delete", last.Column)

	require.ErrorIs(t, grid.Activate(0, "name"), ErrNoAction)
	require.ErrorIs(t, grid.Activate(9, "delete"), ErrRowOutOfRange)
}

func TestGrid_Window(t *testing.T) {
	people := make([]testPerson, 100)
	for i := range people {
		people[i] = testPerson{Name: strconv.Itoa(i)}
	}
	grid := MustNew(testColumns(),
		WithPageSize[testPerson](50),
		WithRowHeight[testPerson](10),
		WithOverscan[testPerson](2),
	)
	grid.SetData(people)
	grid.SetPage(1)

	window, rows := grid.Window(100, 50)
	assert.Equal(t, 8, window.Start)
	assert.Equal(t, 17, window.End)
	assert.Equal(t, 80.0, window.Leading)
	assert.Equal(t, 330.0, window.Trailing)
	require.Len(t, rows, window.Len())
	assert.Equal(t, "58", rows[0].Record.Name)
	assert.Equal(t, 58, rows[0].Index)
}
