package datagrid

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"sync"

	"go.uber.org/multierr"

	"github.com/domonda/go-datagrid/virtual"
)

// Row is a record at a position of the filtered and sorted rows of a Grid.
type Row[T any] struct {
	// Index is the position within the filtered and sorted rows.
	Index int
	// DataIndex is the index into the data passed to SetData.
	DataIndex int
	// Key is the identity of the record.
	Key    string
	Record T
}

// ContextMenu is the target of a context menu opened on a row.
type ContextMenu[T any] struct {
	// Records is the current selection or the
	// clicked record if nothing was selected.
	Records []T
	// Label is "N selected" for more than one record.
	Label string
}

type columnLayout[T any] struct {
	column *Column[T]
	hidden bool
	width  string
}

// Grid presents records of type T as sortable, paginated,
// editable rows of columns.
//
// The records flow through the pipeline
// data, filter, sort, paginate, window.
// The grid never mutates records, edits are reported
// as CellEditCommitted events to the EventHandler.
//
// A Grid is safe for concurrent use,
// events are dispatched after its lock was released.
type Grid[T any] struct {
	mu sync.Mutex

	layout []columnLayout[T]
	byKey  map[string]*Column[T]

	records  []T
	key      func(T) string
	keyIndex map[string]int
	// rows holds the data indices of the filtered and sorted records,
	// nil means they have to be recomputed.
	rows []int

	filter      func(T) bool
	paramFilter ParameterFilter[T]
	params      Parameters
	sort        SortState

	pageSize        PageSize
	page            int
	rowHeight       float64
	availableHeight float64
	overscan        int

	selectionMode SelectionMode
	selection     selection
	rowEditable   func(T) bool
	sumScope      SumScope

	// generation is incremented by every SetData and Fetch
	// so that results of older fetches can be discarded.
	generation uint64

	// scheduler coalesces SetAvailableHeight calls
	// if set with WithScheduler, nil applies them immediately.
	scheduler     virtual.Scheduler
	pendingHeight float64
	heightPending bool

	// pageDirty is set when the rows of the current page
	// may have changed and pageObservers have to be notified.
	pageDirty     bool
	pageObservers map[uint64]func([]Row[T])
	observerID    uint64

	handler EventHandler[T]
	logger  *slog.Logger
}

// New returns a Grid for the passed columns in display order.
//
// It fails fast with ErrNoColumns, ErrMissingKey,
// ErrMissingContent or ErrDuplicateColumn
// for misconfigured columns.
func New[T any](columns []*Column[T], options ...Option[T]) (*Grid[T], error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	g := &Grid[T]{
		byKey:     make(map[string]*Column[T], len(columns)),
		pageSize:  DefaultPageSize,
		rowHeight: DefaultRowHeight,
		overscan:  virtual.DefaultOverscan,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, col := range columns {
		if err := col.Validate(); err != nil {
			return nil, err
		}
		if _, exists := g.byKey[col.Key]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col.Key)
		}
		g.byKey[col.Key] = col
		g.layout = append(g.layout, columnLayout[T]{column: col, hidden: col.Hidden, width: col.Width})
	}
	for _, option := range options {
		option(g)
	}
	if !g.pageSize.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, g.pageSize)
	}
	return g, nil
}

// MustNew is like New but panics on error.
func MustNew[T any](columns []*Column[T], options ...Option[T]) *Grid[T] {
	g, err := New(columns, options...)
	if err != nil {
		panic(err)
	}
	return g
}

// update calls fn with the grid locked
// and dispatches the returned events after unlocking.
func (g *Grid[T]) update(fn func() ([]Event[T], error)) error {
	g.mu.Lock()
	events, err := fn()
	g.unlockAndDispatch(events)
	return err
}

// unlockAndDispatch unlocks the grid, passes the rows of the
// current page to the page observers if they changed,
// and dispatches events.
func (g *Grid[T]) unlockAndDispatch(events []Event[T]) {
	var (
		observers []func([]Row[T])
		rows      []Row[T]
	)
	if g.pageDirty && len(g.pageObservers) > 0 {
		rows = g.pageLocked()
		observers = slices.Collect(maps.Values(g.pageObservers))
	}
	g.pageDirty = false
	g.mu.Unlock()

	for _, observe := range observers {
		observe(rows)
	}
	g.dispatch(events)
}

// observePage calls observe with the rows of the current page
// and registers it for later changes of the page.
// observe must not call methods of the grid.
func (g *Grid[T]) observePage(observe func([]Row[T])) (id uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	observe(g.pageLocked())
	if g.pageObservers == nil {
		g.pageObservers = make(map[uint64]func([]Row[T]))
	}
	g.observerID++
	g.pageObservers[g.observerID] = observe
	return g.observerID
}

func (g *Grid[T]) unobservePage(id uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.pageObservers, id)
}

// invalidateRowsLocked makes the filtered and sorted rows
// be recomputed with the next access.
func (g *Grid[T]) invalidateRowsLocked() {
	g.rows = nil
	g.pageDirty = true
}

func (g *Grid[T]) dispatch(events []Event[T]) {
	if g.handler == nil {
		return
	}
	for _, event := range events {
		g.handler(event)
	}
}

// SetData replaces the records of the grid.
// It supersedes any fetch started before.
// Selected records that are no longer part of the data
// are removed from the selection.
func (g *Grid[T]) SetData(records []T) {
	_ = g.update(func() ([]Event[T], error) {
		g.generation++
		return g.setDataLocked(records), nil
	})
}

func (g *Grid[T]) setDataLocked(records []T) []Event[T] {
	before := g.paginationLocked()
	g.records = records
	g.keyIndex = nil
	if g.key != nil {
		g.keyIndex = make(map[string]int, len(records))
		for i, record := range records {
			g.keyIndex[g.key(record)] = i
		}
	}
	g.invalidateRowsLocked()
	g.page = g.paginationLocked().Clamp(len(g.rowsLocked())).Page

	events := []Event[T]{{Kind: DataChanged}}
	if g.selection.len() > 0 {
		present := make(map[string]struct{}, len(records))
		for i := range records {
			present[g.keyOfLocked(i)] = struct{}{}
		}
		if g.selection.retain(present) {
			events = append(events, g.selectionEventLocked())
		}
	}
	if after := g.paginationLocked(); after != before {
		events = append(events, Event[T]{Kind: PageChanged, Pagination: after})
	}
	return events
}

// Data returns the records passed to SetData or applied by a Fetch.
func (g *Grid[T]) Data() []T {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.records
}

func (g *Grid[T]) keyOfLocked(dataIndex int) string {
	if g.key == nil {
		return strconv.Itoa(dataIndex)
	}
	return g.key(g.records[dataIndex])
}

func (g *Grid[T]) dataIndexOfKeyLocked(key string) (int, bool) {
	if g.key == nil {
		i, err := strconv.Atoi(key)
		return i, err == nil && i >= 0 && i < len(g.records)
	}
	i, ok := g.keyIndex[key]
	return i, ok
}

// rowsLocked returns the data indices of the filtered and sorted records.
func (g *Grid[T]) rowsLocked() []int {
	if g.rows != nil {
		return g.rows
	}
	var sortCol *Column[T]
	if g.sort.IsSorted() {
		sortCol = g.byKey[g.sort.Column]
	}
	order := SortRecords(g.records, sortCol, g.sort.Direction)
	rows := make([]int, 0, len(order))
	for _, i := range order {
		record := g.records[i]
		if g.filter != nil && !g.filter(record) {
			continue
		}
		if g.paramFilter != nil && len(g.params) > 0 && !g.paramFilter(record, g.params) {
			continue
		}
		rows = append(rows, i)
	}
	g.rows = rows
	return rows
}

func (g *Grid[T]) rowLocked(index int) (Row[T], error) {
	rows := g.rowsLocked()
	if index < 0 || index >= len(rows) {
		return Row[T]{}, fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, index, len(rows))
	}
	dataIndex := rows[index]
	return Row[T]{
		Index:     index,
		DataIndex: dataIndex,
		Key:       g.keyOfLocked(dataIndex),
		Record:    g.records[dataIndex],
	}, nil
}

func (g *Grid[T]) rowRangeLocked(start, end int) []Row[T] {
	rows := make([]Row[T], 0, end-start)
	for i := start; i < end; i++ {
		row, _ := g.rowLocked(i)
		rows = append(rows, row)
	}
	return rows
}

// Len returns the number of filtered records.
func (g *Grid[T]) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.rowsLocked())
}

// Row returns the row at index of the filtered and sorted records.
func (g *Grid[T]) Row(index int) (Row[T], error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.rowLocked(index)
}

// Rows returns all filtered and sorted rows.
func (g *Grid[T]) Rows() []Row[T] {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.rowRangeLocked(0, len(g.rowsLocked()))
}

// Page returns the rows of the current page.
func (g *Grid[T]) Page() []Row[T] {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.pageLocked()
}

func (g *Grid[T]) pageLocked() []Row[T] {
	start, end := g.paginationLocked().Bounds(len(g.rowsLocked()))
	return g.rowRangeLocked(start, end)
}

// Window returns the virtualization window of the current page
// for a scroll offset and viewport height in the unit of the row height,
// and the rows of the page within the window.
// It is a stateless query, use NewScroller to keep
// rendered elements of the page in sync with the grid.
func (g *Grid[T]) Window(scrollOffset, viewportHeight float64) (virtual.Window, []Row[T]) {
	g.mu.Lock()
	defer g.mu.Unlock()

	start, end := g.paginationLocked().Bounds(len(g.rowsLocked()))
	window := virtual.ComputeWindow(end-start, virtual.FixedExtent(g.rowHeight), scrollOffset, viewportHeight, g.overscan)
	return window, g.rowRangeLocked(start+window.Start, start+window.End)
}

// RowHeight returns the height of a row.
func (g *Grid[T]) RowHeight() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.rowHeight
}

// SetFilter replaces the external record filter,
// nil disables filtering. The page is clamped to the
// last page of the filtered records.
func (g *Grid[T]) SetFilter(filter func(T) bool) {
	_ = g.update(func() ([]Event[T], error) {
		g.filter = filter
		return g.refilterLocked(false), nil
	})
}

// Parameters returns a copy of the filter parameters.
func (g *Grid[T]) Parameters() Parameters {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.params.Clone()
}

// SetParameters replaces the filter parameters
// and resets to the first page.
func (g *Grid[T]) SetParameters(params Parameters) {
	_ = g.update(func() ([]Event[T], error) {
		g.params = params.Clone()
		return g.refilterLocked(true), nil
	})
}

func (g *Grid[T]) refilterLocked(firstPage bool) []Event[T] {
	before := g.paginationLocked()
	g.invalidateRowsLocked()
	if firstPage {
		g.page = 0
	}
	g.page = g.paginationLocked().Clamp(len(g.rowsLocked())).Page
	if after := g.paginationLocked(); after != before {
		return []Event[T]{{Kind: PageChanged, Pagination: after}}
	}
	return nil
}

// Columns returns all columns in display order.
func (g *Grid[T]) Columns() []*Column[T] {
	g.mu.Lock()
	defer g.mu.Unlock()

	cols := make([]*Column[T], len(g.layout))
	for i, l := range g.layout {
		cols[i] = l.column
	}
	return cols
}

// VisibleColumns returns the columns that are not hidden in display order.
func (g *Grid[T]) VisibleColumns() []*Column[T] {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.visibleColumnsLocked()
}

func (g *Grid[T]) visibleColumnsLocked() []*Column[T] {
	cols := make([]*Column[T], 0, len(g.layout))
	for _, l := range g.layout {
		if !l.hidden {
			cols = append(cols, l.column)
		}
	}
	return cols
}

// VisibleLayout returns the columns that are not hidden in display order
// and their current layout states, aligned by index.
// The widths of the states are the ones set with SetColumnWidth
// or restored with ApplyConfiguration.
func (g *Grid[T]) VisibleLayout() ([]*Column[T], []ColumnState) {
	g.mu.Lock()
	defer g.mu.Unlock()

	cols := make([]*Column[T], 0, len(g.layout))
	states := make([]ColumnState, 0, len(g.layout))
	for _, l := range g.layout {
		if !l.hidden {
			cols = append(cols, l.column)
			states = append(states, ColumnState{Key: l.column.Key, Width: l.width})
		}
	}
	return cols, states
}

// Column returns the column with key.
func (g *Grid[T]) Column(key string) (*Column[T], error) {
	col, ok := g.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, key)
	}
	return col, nil
}

// Layout returns the current column layout in display order.
func (g *Grid[T]) Layout() []ColumnState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.layoutLocked()
}

func (g *Grid[T]) layoutLocked() []ColumnState {
	states := make([]ColumnState, len(g.layout))
	for i, l := range g.layout {
		states[i] = ColumnState{Key: l.column.Key, Hidden: l.hidden, Width: l.width}
	}
	return states
}

func (g *Grid[T]) layoutIndexLocked(key string) (int, error) {
	i := slices.IndexFunc(g.layout, func(l columnLayout[T]) bool { return l.column.Key == key })
	if i < 0 {
		return -1, fmt.Errorf("%w: %q", ErrUnknownColumn, key)
	}
	return i, nil
}

// MoveColumn moves the column with key to the display position index.
// Indices out of range are clamped.
func (g *Grid[T]) MoveColumn(key string, index int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	from, err := g.layoutIndexLocked(key)
	if err != nil {
		return err
	}
	l := g.layout[from]
	g.layout = slices.Delete(g.layout, from, from+1)
	index = min(max(index, 0), len(g.layout))
	g.layout = slices.Insert(g.layout, index, l)
	return nil
}

// SetColumnHidden hides or shows the column with key.
func (g *Grid[T]) SetColumnHidden(key string, hidden bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	i, err := g.layoutIndexLocked(key)
	if err != nil {
		return err
	}
	g.layout[i].hidden = hidden
	return nil
}

// SetColumnWidth sets the painter specific width of the column with key.
func (g *Grid[T]) SetColumnWidth(key, width string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	i, err := g.layoutIndexLocked(key)
	if err != nil {
		return err
	}
	g.layout[i].width = width
	return nil
}

// Sort returns the current sort state.
func (g *Grid[T]) Sort() SortState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.sort
}

// ToggleSort cycles the sort of the column with key
// from unsorted to ascending to descending to unsorted.
// Sorting by a column clears the sort of any other column.
func (g *Grid[T]) ToggleSort(key string) error {
	return g.update(func() ([]Event[T], error) {
		return g.setSortLocked(g.sort.Toggle(key))
	})
}

// SetSort sets the sort state, the zero SortState means unsorted.
func (g *Grid[T]) SetSort(state SortState) error {
	return g.update(func() ([]Event[T], error) {
		return g.setSortLocked(state)
	})
}

func (g *Grid[T]) setSortLocked(state SortState) ([]Event[T], error) {
	if err := g.validateSortLocked(state); err != nil {
		return nil, err
	}
	if state == g.sort {
		return nil, nil
	}
	g.sort = state
	g.invalidateRowsLocked()
	return []Event[T]{{Kind: SortChanged, Sort: state}}, nil
}

func (g *Grid[T]) validateSortLocked(state SortState) error {
	if !state.IsSorted() {
		return nil
	}
	col, ok := g.byKey[state.Column]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, state.Column)
	}
	if !col.Sortable {
		return fmt.Errorf("%w: %q", ErrNotSortable, state.Column)
	}
	if state.Direction != Ascending && state.Direction != Descending {
		return fmt.Errorf("invalid sort direction %d", int(state.Direction))
	}
	return nil
}

// Pagination returns the current page and effective page size.
func (g *Grid[T]) Pagination() Pagination {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.paginationLocked()
}

func (g *Grid[T]) paginationLocked() Pagination {
	size := int(g.pageSize)
	if g.pageSize == PageSizeAuto {
		size = AutoPageSize(g.availableHeight, g.rowHeight)
	}
	return Pagination{Page: g.page, Size: size}
}

// PageCount returns the number of pages, at least 1.
func (g *Grid[T]) PageCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.paginationLocked().PageCount(len(g.rowsLocked()))
}

// PageSize returns the configured page size which may be PageSizeAuto.
func (g *Grid[T]) PageSize() PageSize {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.pageSize
}

// SetPage changes to the zero based page index.
// Pages out of range are clamped to the first or last page.
func (g *Grid[T]) SetPage(page int) {
	_ = g.update(func() ([]Event[T], error) {
		before := g.paginationLocked()
		g.page = Pagination{Page: page, Size: before.Size}.Clamp(len(g.rowsLocked())).Page
		if after := g.paginationLocked(); after != before {
			g.pageDirty = true
			return []Event[T]{{Kind: PageChanged, Pagination: after}}, nil
		}
		return nil, nil
	})
}

// SetPageSize changes the page size and resets to the first page.
func (g *Grid[T]) SetPageSize(size PageSize) error {
	return g.update(func() ([]Event[T], error) {
		if !size.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, size)
		}
		before := g.paginationLocked()
		g.pageSize = size
		g.page = 0
		if after := g.paginationLocked(); after != before {
			g.pageDirty = true
			return []Event[T]{{Kind: PageChanged, Pagination: after}}, nil
		}
		return nil, nil
	})
}

// SetAvailableHeight sets the height available for rows.
// With PageSizeAuto the page size is recomputed
// and the page clamped to the last valid page.
//
// With a scheduler set by WithScheduler the height is applied
// with the next frame, so only the last of multiple heights
// set within one frame is applied.
func (g *Grid[T]) SetAvailableHeight(height float64) {
	g.mu.Lock()
	if g.scheduler == nil {
		g.mu.Unlock()
		g.applyAvailableHeight(height)
		return
	}
	g.pendingHeight = height
	schedule := !g.heightPending
	g.heightPending = true
	g.mu.Unlock()

	if schedule {
		g.scheduler.Schedule(g.availableHeightFrame)
	}
}

func (g *Grid[T]) availableHeightFrame() {
	g.mu.Lock()
	height := g.pendingHeight
	g.heightPending = false
	g.mu.Unlock()

	g.applyAvailableHeight(height)
}

// AvailableHeight returns the height available for rows.
// A height set with a scheduler is returned after its frame ran.
func (g *Grid[T]) AvailableHeight() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.availableHeight
}

func (g *Grid[T]) applyAvailableHeight(height float64) {
	_ = g.update(func() ([]Event[T], error) {
		if height == g.availableHeight {
			return nil, nil
		}
		before := g.paginationLocked()
		g.availableHeight = height
		if g.pageSize != PageSizeAuto {
			return nil, nil
		}
		g.page = g.paginationLocked().Clamp(len(g.rowsLocked())).Page
		if after := g.paginationLocked(); after != before {
			g.pageDirty = true
			g.logger.Debug("auto page size changed", "size", after.Size, "height", height)
			return []Event[T]{{Kind: PageChanged, Pagination: after}}, nil
		}
		return nil, nil
	})
}

// SelectionMode returns the selection mode of the grid.
func (g *Grid[T]) SelectionMode() SelectionMode {
	return g.selectionMode
}

// ClickRow handles a click on the row at index:
// it emits RowClicked and updates the selection according
// to the selection mode. In single mode the clicked row
// replaces the selection, in multiple mode it is toggled.
func (g *Grid[T]) ClickRow(index int) error {
	return g.update(func() ([]Event[T], error) {
		row, err := g.rowLocked(index)
		if err != nil {
			return nil, err
		}
		events := []Event[T]{{Kind: RowClicked, Record: row.Record, Row: row.Index}}
		if g.selection.apply(g.selectionMode, row.Key) {
			events = append(events, g.selectionEventLocked())
		}
		return events, nil
	})
}

// ClearSelection removes all records from the selection.
func (g *Grid[T]) ClearSelection() {
	_ = g.update(func() ([]Event[T], error) {
		if !g.selection.clear() {
			return nil, nil
		}
		return []Event[T]{g.selectionEventLocked()}, nil
	})
}

func (g *Grid[T]) selectionEventLocked() Event[T] {
	return Event[T]{Kind: SelectionChanged, Records: g.selectionLocked()}
}

// Selection returns the selected records in the order they were selected.
func (g *Grid[T]) Selection() []T {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.selectionLocked()
}

func (g *Grid[T]) selectionLocked() []T {
	records := make([]T, 0, g.selection.len())
	for _, key := range g.selection.keys {
		if i, ok := g.dataIndexOfKeyLocked(key); ok {
			records = append(records, g.records[i])
		}
	}
	return records
}

// SelectedKeys returns the identities of the selected records.
func (g *Grid[T]) SelectedKeys() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return slices.Clone(g.selection.keys)
}

// IsSelected returns true if the row at index is selected.
func (g *Grid[T]) IsSelected(index int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	row, err := g.rowLocked(index)
	return err == nil && g.selection.has(row.Key)
}

// ContextMenu returns the target of a context menu opened on the row at index:
// the current selection, or the row's record if nothing is selected.
func (g *Grid[T]) ContextMenu(index int) (ContextMenu[T], error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	row, err := g.rowLocked(index)
	if err != nil {
		return ContextMenu[T]{}, err
	}
	menu := ContextMenu[T]{Records: g.selectionLocked()}
	if len(menu.Records) == 0 {
		menu.Records = []T{row.Record}
	}
	if n := len(menu.Records); n > 1 {
		menu.Label = fmt.Sprintf("%d selected", n)
	}
	return menu, nil
}

// Cell returns the rendered content of the column with key
// for the row at index. Missing values render as Blank.
func (g *Grid[T]) Cell(index int, key string) (Content, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	col, err := g.Column(key)
	if err != nil {
		return Blank, err
	}
	row, err := g.rowLocked(index)
	if err != nil {
		return Blank, err
	}
	return col.Render(row.Record), nil
}

// Sum returns the sum of the values of the column with key
// over the records of the sum scope.
// Values that are not numbers are skipped.
func (g *Grid[T]) Sum(key string) (float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	col, err := g.Column(key)
	if err != nil {
		return 0, err
	}
	if !col.CanSum() {
		return 0, fmt.Errorf("column %q has no sum: %w", key, errors.ErrUnsupported)
	}
	return g.sumLocked(col), nil
}

func (g *Grid[T]) sumLocked(col *Column[T]) float64 {
	rows := g.rowsLocked()
	if g.sumScope == SumPage {
		start, end := g.paginationLocked().Bounds(len(rows))
		rows = rows[start:end]
	}
	var sum float64
	for _, i := range rows {
		if f, ok := AsFloat(col.ValueOf(g.records[i])); ok {
			sum += f
		}
	}
	return sum
}

// HasSums returns true if any visible column can be summed.
func (g *Grid[T]) HasSums() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return slices.ContainsFunc(g.visibleColumnsLocked(), (*Column[T]).CanSum)
}

// Sums returns the rendered sum row aligned with VisibleColumns.
// Columns without SumContent have Blank content.
func (g *Grid[T]) Sums() []Content {
	g.mu.Lock()
	defer g.mu.Unlock()

	cols := g.visibleColumnsLocked()
	sums := make([]Content, len(cols))
	for i, col := range cols {
		if col.CanSum() {
			sums[i] = col.SumContent(g.sumLocked(col))
		}
	}
	return sums
}

// Activate calls the Action of the column with key
// for the record of the row at index and emits RowAction.
func (g *Grid[T]) Activate(index int, key string) error {
	var (
		action func(T)
		record T
	)
	err := g.update(func() ([]Event[T], error) {
		col, err := g.Column(key)
		if err != nil {
			return nil, err
		}
		if col.Action == nil {
			return nil, fmt.Errorf("%w: %q", ErrNoAction, key)
		}
		row, err := g.rowLocked(index)
		if err != nil {
			return nil, err
		}
		action, record = col.Action, row.Record
		return nil, nil
	})
	if err != nil {
		return err
	}
	action(record)
	g.dispatch([]Event[T]{{Kind: RowAction, Record: record, Row: index, Column: key}})
	return nil
}

// Configuration returns a snapshot of the column layout,
// sort state and filter parameters.
func (g *Grid[T]) Configuration() Configuration {
	g.mu.Lock()
	defer g.mu.Unlock()

	return Configuration{
		Columns:    g.layoutLocked(),
		Sort:       g.sort,
		Parameters: g.params.Clone(),
	}
}

// ApplyConfiguration validates the configuration against the columns
// of the grid and applies it completely or not at all.
// Columns of the grid missing in the configuration
// are appended in their current order and state.
func (g *Grid[T]) ApplyConfiguration(config Configuration) error {
	return g.update(func() ([]Event[T], error) {
		var err error
		seen := make(map[string]bool, len(config.Columns))
		for _, state := range config.Columns {
			if _, ok := g.byKey[state.Key]; !ok {
				err = multierr.Append(err, fmt.Errorf("%w: %q", ErrUnknownColumn, state.Key))
			}
			if seen[state.Key] {
				err = multierr.Append(err, fmt.Errorf("%w: %q", ErrDuplicateColumn, state.Key))
			}
			seen[state.Key] = true
		}
		err = multierr.Append(err, g.validateSortLocked(config.Sort))
		if err != nil {
			return nil, err
		}

		layout := make([]columnLayout[T], 0, len(g.layout))
		for _, state := range config.Columns {
			layout = append(layout, columnLayout[T]{column: g.byKey[state.Key], hidden: state.Hidden, width: state.Width})
		}
		for _, l := range g.layout {
			if !seen[l.column.Key] {
				layout = append(layout, l)
			}
		}
		g.layout = layout

		var events []Event[T]
		if config.Sort != g.sort {
			g.sort = config.Sort
			events = append(events, Event[T]{Kind: SortChanged, Sort: config.Sort})
		}
		firstPage := !g.params.Equal(config.Parameters)
		g.params = config.Parameters.Clone()
		events = append(events, g.refilterLocked(firstPage)...)
		return events, nil
	})
}
