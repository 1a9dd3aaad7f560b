package virtual

import (
	"fmt"
	"iter"
	"sync"
	"sync/atomic"
)

// State of a Scroller.
type State int32

const (
	// Idle means the window is up to date or a frame is pending.
	Idle State = iota
	// Measuring means the next window is being computed.
	Measuring
	// Rendering means elements are being created and destroyed
	// to match the next window.
	Rendering
)

// String implements the fmt.Stringer interface.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Measuring:
		return "measuring"
	case Rendering:
		return "rendering"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Renderer holds the callbacks a Scroller uses to
// materialize items as elements of type E.
//
// Elements must be distinct values for distinct indices,
// because they are also used as keys for the inverse lookup.
// Callbacks are called while the Scroller is locked
// and must not call methods of the Scroller.
type Renderer[T any, E comparable] struct {
	// Create renders the item at index. Mandatory.
	Create func(item T, index int) E
	// Destroy is called for elements whose index left the window.
	// Optional.
	Destroy func(element E, index int)
	// Recycle re-renders a freed element for another item.
	// If nil, then freed elements are destroyed
	// and new ones are created.
	Recycle func(element E, item T, index int) E
	// Measure returns the rendered extent of an element.
	// If not nil, then measured extents override the
	// estimated extents from the next frame on.
	Measure func(element E) float64
}

// Scroller owns the live mapping from rendered index to element
// for a backing slice of items and keeps it in sync with the
// window of the current scroll offset and viewport extent.
//
// Scroll and Resize events only mark the scroller dirty and request
// a frame from the Scheduler; the window is recomputed once per frame.
// The number of live elements always equals the length of the window.
type Scroller[T any, E comparable] struct {
	mu        sync.Mutex
	renderer  Renderer[T, E]
	extent    Extent
	scheduler Scheduler
	overscan  int

	items    []T
	offset   float64
	viewport float64
	measured map[int]float64

	window   Window
	elements map[int]E
	indices  map[E]int

	state   atomic.Int32
	dirty   bool
	pending bool
	frames  int
}

// NewScroller returns a Scroller rendering through renderer.
// A nil extent is treated as FixedExtent(0), a nil scheduler
// as a NewTimerScheduler.
func NewScroller[T any, E comparable](renderer Renderer[T, E], extent Extent, scheduler Scheduler) *Scroller[T, E] {
	if renderer.Create == nil {
		panic("virtual.NewScroller: Renderer.Create must not be nil")
	}
	if extent == nil {
		extent = FixedExtent(0)
	}
	if scheduler == nil {
		scheduler = NewTimerScheduler()
	}
	return &Scroller[T, E]{
		renderer:  renderer,
		extent:    extent,
		scheduler: scheduler,
		overscan:  DefaultOverscan,
		measured:  make(map[int]float64),
		elements:  make(map[int]E),
		indices:   make(map[E]int),
	}
}

// SetOverscan sets the number of extra items rendered
// before and after the visible band.
func (s *Scroller[T, E]) SetOverscan(overscan int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.overscan = max(overscan, 0)
	s.invalidateLocked()
}

// SetItems replaces the backing items.
// Item identity is not assumed to be stable,
// so all live elements are destroyed and the
// window is recomputed with the next frame.
func (s *Scroller[T, E]) SetItems(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for index, element := range s.elements {
		s.destroyLocked(element, index)
	}
	clear(s.elements)
	clear(s.indices)
	clear(s.measured)
	s.items = items
	s.window = Window{}
	s.invalidateLocked()
}

// SetExtent replaces the item extent estimation.
func (s *Scroller[T, E]) SetExtent(extent Extent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if extent == nil {
		extent = FixedExtent(0)
	}
	s.extent = extent
	s.invalidateLocked()
}

// Scroll sets the scroll offset.
func (s *Scroller[T, E]) Scroll(offset float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offset = nonNegative(offset)
	s.invalidateLocked()
}

// Resize sets the viewport extent.
func (s *Scroller[T, E]) Resize(viewportExtent float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.viewport = nonNegative(viewportExtent)
	s.invalidateLocked()
}

// ScrollToIndex scrolls the minimal distance to make
// the item at index fully visible.
func (s *Scroller[T, E]) ScrollToIndex(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offset = ScrollToIndex(len(s.items), s.extentLocked(), index, s.offset, s.viewport)
	s.invalidateLocked()
}

// Flush runs a pending frame immediately.
// It returns false if the window was already up to date.
func (s *Scroller[T, E]) Flush() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return false
	}
	s.frameLocked()
	return true
}

// frame is the callback handed to the Scheduler.
func (s *Scroller[T, E]) frame() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = false
	if s.dirty {
		s.frameLocked()
	}
}

func (s *Scroller[T, E]) invalidateLocked() {
	s.dirty = true
	if s.pending {
		return
	}
	s.pending = true
	s.scheduler.Schedule(s.frame)
}

func (s *Scroller[T, E]) frameLocked() {
	s.dirty = false
	s.frames++

	s.state.Store(int32(Measuring))
	next := ComputeWindow(len(s.items), s.extentLocked(), s.offset, s.viewport, s.overscan)

	s.state.Store(int32(Rendering))
	s.renderLocked(next)

	s.state.Store(int32(Idle))
}

// renderLocked diffs the current against the next window:
// elements of indices that left are freed, indices that
// entered get new or recycled elements, the rest stay.
func (s *Scroller[T, E]) renderLocked(next Window) {
	var freed []E
	for index, element := range s.elements {
		if next.Contains(index) {
			continue
		}
		delete(s.elements, index)
		delete(s.indices, element)
		if s.renderer.Recycle != nil {
			freed = append(freed, element)
		} else {
			s.destroyLocked(element, index)
		}
	}

	for index := next.Start; index < next.End; index++ {
		if _, ok := s.elements[index]; ok {
			continue
		}
		var element E
		if n := len(freed); n > 0 {
			element = s.renderer.Recycle(freed[n-1], s.items[index], index)
			freed = freed[:n-1]
		} else {
			element = s.renderer.Create(s.items[index], index)
		}
		s.elements[index] = element
		s.indices[element] = index
		if s.renderer.Measure != nil {
			s.measured[index] = nonNegative(s.renderer.Measure(element))
		}
	}

	for _, element := range freed {
		s.destroyLocked(element, -1)
	}
	s.window = next
}

func (s *Scroller[T, E]) destroyLocked(element E, index int) {
	if s.renderer.Destroy != nil {
		s.renderer.Destroy(element, index)
	}
}

func (s *Scroller[T, E]) extentLocked() Extent {
	if len(s.measured) == 0 {
		return s.extent
	}
	return measuredExtent{base: s.extent, measured: s.measured}
}

// Items returns the backing items.
func (s *Scroller[T, E]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.items
}

// Window returns the window of the last frame.
func (s *Scroller[T, E]) Window() Window {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.window
}

// Element returns the rendered element for index
// or false if the index is outside of the window.
func (s *Scroller[T, E]) Element(index int) (element E, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	element, ok = s.elements[index]
	return element, ok
}

// IndexOf returns the item index of a rendered element
// or false if the element is not rendered.
func (s *Scroller[T, E]) IndexOf(element E) (index int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, ok = s.indices[element]
	return index, ok
}

// Len returns the number of live rendered elements.
func (s *Scroller[T, E]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.elements)
}

// Elements iterates the rendered elements in index order.
// The elements are copied before iteration starts.
func (s *Scroller[T, E]) Elements() iter.Seq2[int, E] {
	s.mu.Lock()
	window := s.window
	elements := make([]E, 0, window.Len())
	for index := window.Start; index < window.End; index++ {
		elements = append(elements, s.elements[index])
	}
	s.mu.Unlock()

	return func(yield func(int, E) bool) {
		for i, element := range elements {
			if !yield(window.Start+i, element) {
				return
			}
		}
	}
}

// State returns the current state.
// It can be called from Renderer callbacks.
func (s *Scroller[T, E]) State() State {
	return State(s.state.Load())
}

// Frames returns the number of recomputed windows.
func (s *Scroller[T, E]) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.frames
}

// Offset returns the scroll offset.
func (s *Scroller[T, E]) Offset() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.offset
}

// TotalExtent returns the summed extent of all items,
// using measured extents where available.
func (s *Scroller[T, E]) TotalExtent() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return TotalExtent(len(s.items), s.extentLocked())
}

type measuredExtent struct {
	base     Extent
	measured map[int]float64
}

func (e measuredExtent) ItemExtent(index int) float64 {
	if m, ok := e.measured[index]; ok {
		return m
	}
	return e.base.ItemExtent(index)
}
