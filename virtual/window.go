// Package virtual computes which items of a scrollable list
// have to be materialized for a viewport and keeps the
// materialized elements addressable while the window slides.
//
// ComputeWindow is the pure calculation, Scroller owns the live
// index to element mapping and drives recomputation on scroll
// and resize events, coalesced to one recomputation per frame.
//
// Example usage:
//
//	w := virtual.ComputeWindow(10000, virtual.FixedExtent(24), scrollY, 480, virtual.DefaultOverscan)
//	for i := w.Start; i < w.End; i++ {
//	    // render item i
//	}
//	// pad with w.Leading before and w.Trailing after the rendered items
package virtual

import (
	"math"
	"sort"
)

// DefaultOverscan is the number of extra items rendered
// before and after the visible band.
const DefaultOverscan = 3

// Extent provides the extent (height for vertical lists)
// of the item at an index.
type Extent interface {
	ItemExtent(index int) float64
}

// FixedExtent implements Extent for uniform items.
type FixedExtent float64

// ItemExtent implements Extent. Negative values are treated as 0.
func (e FixedExtent) ItemExtent(int) float64 {
	return nonNegative(float64(e))
}

// EstimatedExtent implements Extent with a per index estimator
// for variable sized items.
type EstimatedExtent func(index int) float64

// ItemExtent implements Extent. Negative values are treated as 0.
func (f EstimatedExtent) ItemExtent(index int) float64 {
	if f == nil {
		return 0
	}
	return nonNegative(f(index))
}

// Window is the contiguous range of items to render
// plus the spacer extents before and after that range.
//
// Invariant: 0 <= Start <= End <= itemCount and
// Leading + rendered extent + Trailing == total extent.
type Window struct {
	// Start is the index of the first rendered item.
	Start int
	// End is the index after the last rendered item.
	End int
	// Leading is the summed extent of all items before Start.
	Leading float64
	// Trailing is the summed extent of all items from End on.
	Trailing float64
}

// Len returns the number of items in the window.
func (w Window) Len() int { return w.End - w.Start }

// IsEmpty returns true if the window contains no items.
func (w Window) IsEmpty() bool { return w.End <= w.Start }

// Contains returns true if index is within [Start, End).
func (w Window) Contains(index int) bool {
	return index >= w.Start && index < w.End
}

// ComputeWindow returns the window of items that have to be rendered
// for a viewport of viewportExtent at scrollOffset.
//
// Invalid (negative or NaN) inputs are clamped to 0,
// a scrollOffset beyond the scrollable range is clamped
// to the last valid offset. A viewportExtent of 0 results
// in an empty window whose spacers still add up to the
// total extent of all items. If all items have an extent of 0,
// the window starts at the first item and holds it plus overscan.
// ComputeWindow never panics.
func ComputeWindow(itemCount int, extent Extent, scrollOffset, viewportExtent float64, overscan int) Window {
	itemCount = max(itemCount, 0)
	overscan = max(overscan, 0)
	scrollOffset = nonNegative(scrollOffset)
	viewportExtent = nonNegative(viewportExtent)
	if itemCount == 0 {
		return Window{}
	}

	l := newLayout(itemCount, extent)
	total := l.total()
	if total == 0 {
		// Unmeasured items all sit at offset 0
		if viewportExtent == 0 {
			return Window{}
		}
		return Window{End: min(1+overscan, itemCount)}
	}
	scrollOffset = min(scrollOffset, nonNegative(total-viewportExtent))

	// First item whose end lies after the scroll offset
	first := sort.Search(itemCount, func(i int) bool { return l.offset(i+1) > scrollOffset })
	first = min(first, itemCount-1)

	if viewportExtent == 0 {
		leading := l.offset(first)
		return Window{
			Start:    first,
			End:      first,
			Leading:  leading,
			Trailing: total - leading,
		}
	}

	// Items starting before the end of the viewport
	end := sort.Search(itemCount, func(i int) bool { return l.offset(i) >= scrollOffset+viewportExtent })
	end = max(end, first+1)

	start := max(first-overscan, 0)
	end = min(end+overscan, itemCount)
	return Window{
		Start:    start,
		End:      end,
		Leading:  l.offset(start),
		Trailing: total - l.offset(end),
	}
}

// TotalExtent returns the summed extent of itemCount items.
func TotalExtent(itemCount int, extent Extent) float64 {
	if itemCount <= 0 {
		return 0
	}
	return newLayout(itemCount, extent).total()
}

// OffsetOf returns the start offset of the item at index.
// The index is clamped to [0, itemCount].
func OffsetOf(itemCount int, extent Extent, index int) float64 {
	if itemCount <= 0 {
		return 0
	}
	index = min(max(index, 0), itemCount)
	return newLayout(itemCount, extent).offset(index)
}

// ScrollToIndex returns the scroll offset needed to make the item
// at index fully visible in a viewport of viewportExtent.
// If the item is already visible or the index is out of range,
// then currentOffset is returned unchanged.
func ScrollToIndex(itemCount int, extent Extent, index int, currentOffset, viewportExtent float64) float64 {
	if index < 0 || index >= itemCount {
		return currentOffset
	}
	l := newLayout(itemCount, extent)
	top := l.offset(index)
	bottom := l.offset(index + 1)
	switch {
	case top < currentOffset:
		return top
	case bottom > currentOffset+viewportExtent:
		return nonNegative(bottom - viewportExtent)
	}
	return currentOffset
}

// layout answers offset queries either arithmetically
// for fixed extents or from running prefix sums.
type layout struct {
	count  int
	fixed  float64
	prefix []float64 // nil for fixed extents, else len(count+1)
}

func newLayout(count int, extent Extent) *layout {
	switch e := extent.(type) {
	case nil:
		return &layout{count: count}
	case FixedExtent:
		return &layout{count: count, fixed: e.ItemExtent(0)}
	}
	prefix := make([]float64, count+1)
	for i := range count {
		prefix[i+1] = prefix[i] + nonNegative(extent.ItemExtent(i))
	}
	return &layout{count: count, prefix: prefix}
}

// offset returns the start offset of item i for i in [0, count],
// where offset(count) is the total extent.
func (l *layout) offset(i int) float64 {
	i = min(max(i, 0), l.count)
	if l.prefix == nil {
		return float64(i) * l.fixed
	}
	return l.prefix[i]
}

func (l *layout) total() float64 { return l.offset(l.count) }

func nonNegative(f float64) float64 {
	if !(f > 0) { // also catches NaN
		return 0
	}
	if math.IsInf(f, 1) {
		return math.MaxFloat64
	}
	return f
}
