package virtual

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeWindow(t *testing.T) {
	tests := []struct {
		name      string
		itemCount int
		extent    Extent
		offset    float64
		viewport  float64
		overscan  int
		want      Window
	}{
		{
			name:      "no items",
			itemCount: 0,
			extent:    FixedExtent(10),
			offset:    50,
			viewport:  100,
			want:      Window{},
		},
		{
			name:      "top without overscan",
			itemCount: 100,
			extent:    FixedExtent(10),
			offset:    0,
			viewport:  35,
			want:      Window{Start: 0, End: 4, Leading: 0, Trailing: 960},
		},
		{
			name:      "scrolled without overscan",
			itemCount: 100,
			extent:    FixedExtent(10),
			offset:    10,
			viewport:  35,
			want:      Window{Start: 1, End: 5, Leading: 10, Trailing: 950},
		},
		{
			name:      "partially visible first item",
			itemCount: 100,
			extent:    FixedExtent(10),
			offset:    15,
			viewport:  30,
			want:      Window{Start: 1, End: 5, Leading: 10, Trailing: 950},
		},
		{
			name:      "overscan clamped at start",
			itemCount: 100,
			extent:    FixedExtent(10),
			offset:    0,
			viewport:  30,
			overscan:  3,
			want:      Window{Start: 0, End: 6, Leading: 0, Trailing: 940},
		},
		{
			name:      "overscan in the middle",
			itemCount: 100,
			extent:    FixedExtent(10),
			offset:    500,
			viewport:  30,
			overscan:  2,
			want:      Window{Start: 48, End: 55, Leading: 480, Trailing: 450},
		},
		{
			name:      "offset beyond end clamps to last window",
			itemCount: 100,
			extent:    FixedExtent(10),
			offset:    1e9,
			viewport:  35,
			want:      Window{Start: 96, End: 100, Leading: 960, Trailing: 0},
		},
		{
			name:      "empty viewport keeps total extent in spacers",
			itemCount: 100,
			extent:    FixedExtent(10),
			offset:    0,
			viewport:  0,
			overscan:  3,
			want:      Window{Start: 0, End: 0, Leading: 0, Trailing: 1000},
		},
		{
			name:      "negative inputs clamp to zero",
			itemCount: 10,
			extent:    FixedExtent(10),
			offset:    -100,
			viewport:  20,
			overscan:  -5,
			want:      Window{Start: 0, End: 2, Leading: 0, Trailing: 80},
		},
		{
			name:      "viewport larger than content",
			itemCount: 5,
			extent:    FixedExtent(10),
			offset:    20,
			viewport:  1000,
			overscan:  3,
			want:      Window{Start: 0, End: 5, Leading: 0, Trailing: 0},
		},
		{
			name:      "variable extents",
			itemCount: 5,
			extent:    EstimatedExtent(func(i int) float64 { return float64(10 * (i + 1)) }), // 10,20,30,40,50
			offset:    25,
			viewport:  30,
			want:      Window{Start: 1, End: 3, Leading: 10, Trailing: 90},
		},
		{
			name:      "unmeasured items start at the top",
			itemCount: 100,
			extent:    FixedExtent(0),
			offset:    0,
			viewport:  480,
			overscan:  3,
			want:      Window{Start: 0, End: 4},
		},
		{
			name:      "unmeasured items ignore scroll offset",
			itemCount: 2,
			extent:    nil,
			offset:    300,
			viewport:  480,
			overscan:  3,
			want:      Window{Start: 0, End: 2},
		},
		{
			name:      "unmeasured items with empty viewport",
			itemCount: 100,
			extent:    FixedExtent(0),
			viewport:  0,
			overscan:  3,
			want:      Window{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeWindow(tt.itemCount, tt.extent, tt.offset, tt.viewport, tt.overscan)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestComputeWindowInvariant(t *testing.T) {
	extents := map[string]Extent{
		"fixed":    FixedExtent(17),
		"zero":     FixedExtent(0),
		"variable": EstimatedExtent(func(i int) float64 { return float64(5 + i%7*3) }),
		"nil":      nil,
	}
	for name, extent := range extents {
		for _, itemCount := range []int{-1, 0, 1, 2, 7, 100, 1000} {
			for _, offset := range []float64{-10, 0, 3, 17, 500, 16999, 1e12, math.NaN(), math.Inf(1)} {
				for _, viewport := range []float64{-1, 0, 1, 40, 1000, math.Inf(1)} {
					for _, overscan := range []int{0, 1, DefaultOverscan, 50} {
						w := ComputeWindow(itemCount, extent, offset, viewport, overscan)
						require.LessOrEqual(t, 0, w.Start, "%s count=%d offset=%v viewport=%v", name, itemCount, offset, viewport)
						require.LessOrEqual(t, w.Start, w.End, "%s count=%d offset=%v viewport=%v", name, itemCount, offset, viewport)
						require.LessOrEqual(t, w.End, max(itemCount, 0), "%s count=%d offset=%v viewport=%v", name, itemCount, offset, viewport)

						rendered := 0.0
						for i := w.Start; i < w.End; i++ {
							if extent != nil {
								rendered += extent.ItemExtent(i)
							}
						}
						total := TotalExtent(itemCount, extent)
						require.InDelta(t, total, w.Leading+rendered+w.Trailing, 1e-6, "%s count=%d offset=%v viewport=%v", name, itemCount, offset, viewport)
					}
				}
			}
		}
	}
}

func TestScrollToIndex(t *testing.T) {
	extent := FixedExtent(10)
	require.Equal(t, 30.0, ScrollToIndex(100, extent, 3, 50, 40), "above the viewport")
	require.Equal(t, 60.0, ScrollToIndex(100, extent, 9, 0, 40), "below the viewport")
	require.Equal(t, 50.0, ScrollToIndex(100, extent, 6, 50, 40), "already visible")
	require.Equal(t, 50.0, ScrollToIndex(100, extent, 100, 50, 40), "out of range")
	require.Equal(t, 50.0, ScrollToIndex(100, extent, -1, 50, 40), "negative index")
}

func TestOffsetOf(t *testing.T) {
	extent := EstimatedExtent(func(i int) float64 { return float64(i) })
	require.Equal(t, 0.0, OffsetOf(5, extent, 0))
	require.Equal(t, 0.0+1+2, OffsetOf(5, extent, 3))
	require.Equal(t, 0.0+1+2+3+4, OffsetOf(5, extent, 99), "clamped to total")
	require.Equal(t, 0.0, OffsetOf(0, extent, 3))
}
