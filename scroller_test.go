package datagrid

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domonda/go-datagrid/virtual"
)

type testRowElement struct {
	name string
}

func testRowRenderer(created *int) virtual.Renderer[Row[testPerson], *testRowElement] {
	return virtual.Renderer[Row[testPerson], *testRowElement]{
		Create: func(row Row[testPerson], index int) *testRowElement {
			*created++
			return &testRowElement{name: row.Record.Name}
		},
		Recycle: func(e *testRowElement, row Row[testPerson], index int) *testRowElement {
			e.name = row.Record.Name
			return e
		},
	}
}

func renderedNames(s *Scroller[testPerson, *testRowElement]) []string {
	var n []string
	for _, e := range s.Elements() {
		n = append(n, e.name)
	}
	return n
}

func numberedPeople(n int) []testPerson {
	people := make([]testPerson, n)
	for i := range people {
		people[i] = testPerson{Name: strconv.Itoa(i), Age: i}
	}
	return people
}

func TestScroller_FollowsGrid(t *testing.T) {
	sched := new(virtual.ManualScheduler)
	grid := MustNew(testColumns(),
		WithPageSize[testPerson](25),
		WithRowHeight[testPerson](10),
		WithOverscan[testPerson](0),
		WithScheduler[testPerson](sched),
	)
	grid.SetData(numberedPeople(30))

	var created int
	s := NewScroller(grid, testRowRenderer(&created), nil)
	defer s.Close()
	s.Resize(30)
	assert.Equal(t, 1, sched.RunFrame(), "construction and resize coalesce into one frame")
	assert.Equal(t, []string{"0", "1", "2"}, renderedNames(s))
	assert.Equal(t, virtual.Idle, s.State())

	for offset := range 10 {
		s.Scroll(float64(offset * 5))
	}
	assert.Equal(t, 1, sched.Pending())
	frames := s.Frames()
	sched.RunFrame()
	assert.Equal(t, frames+1, s.Frames())
	assert.Equal(t, []string{"4", "5", "6", "7"}, renderedNames(s))
	assert.Equal(t, s.Window().Len(), s.Len())

	require.NoError(t, grid.SetSort(SortState{Column: "age", Direction: Descending}))
	assert.Equal(t, 0, s.Len(), "new rows invalidate all elements")
	sched.RunFrame()
	assert.Equal(t, "29", s.Items()[0].Record.Name)
	assert.Equal(t, []string{"25", "24", "23", "22"}, renderedNames(s))

	grid.SetPage(1)
	sched.RunFrame()
	require.Len(t, s.Items(), 5)
	assert.Equal(t, []string{"2", "1", "0"}, renderedNames(s), "offset clamped to the shorter page")

	grid.SetFilter(func(p testPerson) bool { return p.Age >= 27 })
	sched.RunFrame()
	assert.Equal(t, []string{"29", "28", "27"}, renderedNames(s), "filter clamps to the only page")
}

func TestScroller_Close(t *testing.T) {
	sched := new(virtual.ManualScheduler)
	grid := MustNew(testColumns(), WithScheduler[testPerson](sched))
	grid.SetData(numberedPeople(3))

	var created int
	s := NewScroller(grid, testRowRenderer(&created), nil)
	s.Resize(100)
	sched.RunFrame()
	assert.Len(t, s.Items(), 3)

	s.Close()
	s.Close()
	grid.SetData(numberedPeople(5))
	assert.Len(t, s.Items(), 3)
	assert.Zero(t, sched.Pending())
}

func TestGrid_ScheduledAvailableHeight(t *testing.T) {
	sched := new(virtual.ManualScheduler)
	rec := new(eventRecorder[testPerson])
	grid := MustNew(testColumns(),
		WithPageSize[testPerson](PageSizeAuto),
		WithRowHeight[testPerson](10),
		WithScheduler[testPerson](sched),
		WithEventHandler(rec.handle),
	)
	grid.SetData(numberedPeople(30))

	var created int
	s := NewScroller(grid, testRowRenderer(&created), nil)
	defer s.Close()
	s.Resize(100)
	sched.RunFrame()
	require.Len(t, s.Items(), 1, "no height yet")

	grid.SetAvailableHeight(30)
	grid.SetAvailableHeight(80)
	grid.SetAvailableHeight(50)
	assert.Equal(t, 1, grid.Pagination().Size, "applied with the next frame")
	assert.Equal(t, 1, sched.Pending())

	rec.events = nil
	sched.RunFrame()
	assert.Equal(t, 5, grid.Pagination().Size)
	assert.Equal(t, 50.0, grid.AvailableHeight())
	assert.Equal(t, []EventKind{PageChanged}, rec.kinds())

	sched.RunFrame()
	assert.Len(t, s.Items(), 5)
	assert.Equal(t, []string{"0", "1", "2", "3", "4"}, renderedNames(s))
}
