package scanline

import "github.com/gogpu/pixflow/tile"

// Run calls fn exactly height times, advancing every non-nil iterator by one
// scanline after each call. The iterators must already be positioned on
// their first row and span at least width pixels.
func Run(fn Func, o any, its []*tile.Iterator, width, height int) {
	for range height {
		fn(o, its, width)
		for _, it := range its {
			if it != nil {
				it.Next()
			}
		}
	}
}
