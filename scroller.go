package datagrid

import (
	"sync"

	"github.com/domonda/go-datagrid/virtual"
)

// Scroller is a virtual.Scroller over the rows of the current page of a Grid.
// The grid passes the rows of the page to the scroller
// whenever its data, filter, sort, page or page size change.
type Scroller[T any, E comparable] struct {
	*virtual.Scroller[Row[T], E]

	grid      *Grid[T]
	id        uint64
	closeOnce sync.Once
}

// NewScroller returns a Scroller rendering the rows of the current page
// of grid through renderer with the row height and overscan of the grid.
// Frames are requested from scheduler, or if nil from the scheduler
// set with WithScheduler, or else from a virtual.TimerScheduler.
//
// Call Close to stop following the grid.
func NewScroller[T any, E comparable](grid *Grid[T], renderer virtual.Renderer[Row[T], E], scheduler virtual.Scheduler) *Scroller[T, E] {
	grid.mu.Lock()
	if scheduler == nil {
		scheduler = grid.scheduler
	}
	rowHeight, overscan := grid.rowHeight, grid.overscan
	grid.mu.Unlock()

	s := &Scroller[T, E]{
		Scroller: virtual.NewScroller(renderer, virtual.FixedExtent(rowHeight), scheduler),
		grid:     grid,
	}
	s.SetOverscan(overscan)
	s.id = grid.observePage(s.SetItems)
	return s
}

// Close stops passing page changes of the grid to the scroller.
// Rendered elements stay until the scroller is dropped.
func (s *Scroller[T, E]) Close() {
	s.closeOnce.Do(func() { s.grid.unobservePage(s.id) })
}
