package datagrid

import (
	"fmt"
	"math"
	"slices"
	"strconv"
)

// PageSize is the number of rows per page
// or PageSizeAuto to fit the available height.
type PageSize int

// PageSizeAuto computes the page size from the available height
// and the row height of the grid.
const PageSizeAuto PageSize = 0

// PageSizes are the selectable fixed page sizes.
var PageSizes = []PageSize{10, 25, 50, 100, 250, 500}

// DefaultPageSize is the page size of new grids.
const DefaultPageSize PageSize = 25

// Valid returns true for PageSizeAuto and the sizes in PageSizes.
func (s PageSize) Valid() bool {
	return s == PageSizeAuto || slices.Contains(PageSizes, s)
}

// String implements the fmt.Stringer interface.
func (s PageSize) String() string {
	if s == PageSizeAuto {
		return "auto"
	}
	return strconv.Itoa(int(s))
}

// ParsePageSize parses "auto" or a number from PageSizes.
func ParsePageSize(str string) (PageSize, error) {
	if str == "auto" {
		return PageSizeAuto, nil
	}
	n, err := strconv.Atoi(str)
	if err != nil || !PageSize(n).Valid() || n == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPageSize, str)
	}
	return PageSize(n), nil
}

// AutoPageSize returns how many rows of rowHeight fit into height,
// at least 1.
func AutoPageSize(height, rowHeight float64) int {
	if rowHeight <= 0 || math.IsNaN(height) || math.IsNaN(rowHeight) {
		return 1
	}
	n := math.Floor(height / rowHeight)
	if n < 1 || math.IsNaN(n) {
		return 1
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// Pagination is the current page of a grid.
type Pagination struct {
	// Page is the zero based page index.
	Page int
	// Size is the effective number of rows per page.
	Size int
}

// PageCount returns the number of pages for total rows,
// at least 1 so that an empty grid still has a page.
func (p Pagination) PageCount(total int) int {
	if p.Size <= 0 || total <= 0 {
		return 1
	}
	return (total + p.Size - 1) / p.Size
}

// Clamp returns the pagination with Page limited to the valid pages.
func (p Pagination) Clamp(total int) Pagination {
	p.Page = min(max(p.Page, 0), p.PageCount(total)-1)
	return p
}

// Bounds returns the half open range of row indices of the page.
func (p Pagination) Bounds(total int) (start, end int) {
	if p.Size <= 0 {
		return 0, total
	}
	start = min(p.Page*p.Size, total)
	end = min(start+p.Size, total)
	return start, end
}
