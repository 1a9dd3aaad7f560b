package datagrid

import (
	"fmt"
	"log/slog"

	"github.com/domonda/go-datagrid/virtual"
)

// Option configures a Grid created with New.
type Option[T any] func(*Grid[T])

// SumScope selects the records summed up for the sum row.
type SumScope int

const (
	// SumFiltered sums over all filtered records.
	SumFiltered SumScope = iota
	// SumPage sums over the records of the current page.
	SumPage
)

// String implements the fmt.Stringer interface.
func (s SumScope) String() string {
	switch s {
	case SumFiltered:
		return "filtered"
	case SumPage:
		return "page"
	}
	return fmt.Sprintf("SumScope(%d)", int(s))
}

// ParameterFilter returns true if a record
// matches the filter parameters of a grid.
type ParameterFilter[T any] func(record T, params Parameters) bool

// DefaultRowHeight is used for PageSizeAuto
// and virtualization if not set with WithRowHeight.
const DefaultRowHeight float64 = 32

// WithKey sets the function returning the identity of a record.
// Without a key function records are identified by their
// index into the data, so selections don't survive SetData
// with reordered data.
func WithKey[T any](key func(T) string) Option[T] {
	return func(g *Grid[T]) { g.key = key }
}

// WithSelectionMode sets the selection mode, default is SelectNone.
func WithSelectionMode[T any](mode SelectionMode) Option[T] {
	return func(g *Grid[T]) { g.selectionMode = mode }
}

// WithPageSize sets the initial page size, default is DefaultPageSize.
// Invalid page sizes make New fail with ErrInvalidPageSize.
func WithPageSize[T any](size PageSize) Option[T] {
	return func(g *Grid[T]) { g.pageSize = size }
}

// WithRowHeight sets the height of a row in the unit
// passed to SetAvailableHeight and Window.
func WithRowHeight[T any](height float64) Option[T] {
	return func(g *Grid[T]) {
		if height > 0 {
			g.rowHeight = height
		}
	}
}

// WithOverscan sets the number of rows rendered
// before and after the visible rows of a Window.
func WithOverscan[T any](overscan int) Option[T] {
	return func(g *Grid[T]) { g.overscan = max(overscan, 0) }
}

// WithRowEditable sets a predicate deciding if a record is editable at all.
// A cell is only editable if both the column and this predicate allow it.
func WithRowEditable[T any](editable func(T) bool) Option[T] {
	return func(g *Grid[T]) { g.rowEditable = editable }
}

// WithSumScope selects the records summed up for the sum row.
func WithSumScope[T any](scope SumScope) Option[T] {
	return func(g *Grid[T]) { g.sumScope = scope }
}

// WithEventHandler sets the receiver of grid events.
func WithEventHandler[T any](handler EventHandler[T]) Option[T] {
	return func(g *Grid[T]) { g.handler = handler }
}

// WithFilter sets an external record filter.
func WithFilter[T any](filter func(T) bool) Option[T] {
	return func(g *Grid[T]) { g.filter = filter }
}

// WithParameterFilter sets the filter applying the grid's Parameters.
func WithParameterFilter[T any](filter ParameterFilter[T]) Option[T] {
	return func(g *Grid[T]) { g.paramFilter = filter }
}

// WithParameters sets the initial filter parameters.
func WithParameters[T any](params Parameters) Option[T] {
	return func(g *Grid[T]) { g.params = params.Clone() }
}

// WithLogger sets the logger of the grid, default is discarding.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(g *Grid[T]) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithScheduler sets the scheduler coalescing SetAvailableHeight calls
// to one recomputation of the auto page size per frame.
// Scrollers created by NewScroller without own scheduler use it too.
func WithScheduler[T any](scheduler virtual.Scheduler) Option[T] {
	return func(g *Grid[T]) { g.scheduler = scheduler }
}
