package geom

// Region is a set of pixels stored as disjoint rectangles.
//
// Region backs the valid area of a node cache: computed chunks are added,
// invalidated areas are subtracted, and a request is served from the cache
// only when the region contains it completely.
//
// The zero value is an empty region. Region is not safe for concurrent use.
type Region struct {
	rects []Rect
}

// NewRegion returns a region covering the given rectangles.
func NewRegion(rects ...Rect) *Region {
	g := &Region{}
	for _, r := range rects {
		g.Add(r)
	}
	return g
}

// Add includes r in the region. Only the parts of r not already covered
// are stored, which keeps the rectangles disjoint.
func (g *Region) Add(r Rect) {
	if r.IsEmpty() {
		return
	}
	pieces := []Rect{r}
	for _, have := range g.rects {
		next := pieces[:0:0]
		for _, p := range pieces {
			next = append(next, p.Subtract(have)...)
		}
		pieces = next
		if len(pieces) == 0 {
			return
		}
	}
	g.rects = append(g.rects, pieces...)
}

// Subtract removes r from the region.
func (g *Region) Subtract(r Rect) {
	if r.IsEmpty() || len(g.rects) == 0 {
		return
	}
	out := g.rects[:0:0]
	for _, have := range g.rects {
		out = append(out, have.Subtract(r)...)
	}
	g.rects = out
}

// Contains reports whether every pixel of r is in the region.
func (g *Region) Contains(r Rect) bool {
	if r.IsEmpty() {
		return true
	}
	rest := []Rect{r}
	for _, have := range g.rects {
		next := rest[:0:0]
		for _, p := range rest {
			next = append(next, p.Subtract(have)...)
		}
		rest = next
		if len(rest) == 0 {
			return true
		}
	}
	return false
}

// Overlaps reports whether any pixel of r is in the region.
func (g *Region) Overlaps(r Rect) bool {
	for _, have := range g.rects {
		if have.Overlaps(r) {
			return true
		}
	}
	return false
}

// Extents returns the bounding box of the region.
func (g *Region) Extents() Rect {
	var out Rect
	for _, r := range g.rects {
		out = out.Union(r)
	}
	return out
}

// Area returns the number of pixels in the region.
func (g *Region) Area() int {
	n := 0
	for _, r := range g.rects {
		n += r.Area()
	}
	return n
}

// IsEmpty reports whether the region has no pixels.
func (g *Region) IsEmpty() bool {
	return len(g.rects) == 0
}

// Rects returns a copy of the disjoint rectangles making up the region.
func (g *Region) Rects() []Rect {
	out := make([]Rect, len(g.rects))
	copy(out, g.rects)
	return out
}

// Clear empties the region.
func (g *Region) Clear() {
	g.rects = nil
}
