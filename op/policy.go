package op

import "github.com/gogpu/pixflow/geom"

// Halo is the border an AreaFilter reads around each output pixel.
type Halo struct {
	Left, Right, Top, Bottom int
}

// Uniform returns a halo of n pixels on every side.
func Uniform(n int) Halo {
	return Halo{Left: n, Right: n, Top: n, Bottom: n}
}

// Expand grows r by the halo.
func (h Halo) Expand(r geom.Rect) geom.Rect {
	return r.Expand(h.Left, h.Right, h.Top, h.Bottom)
}

// HaloOf returns the halo of an AreaFilter, or the zero halo.
func HaloOf(o Operation) Halo {
	if o.Kind() != AreaFilter {
		return Halo{}
	}
	if h, ok := o.(Haloer); ok {
		return h.Halo()
	}
	return Halo{}
}

// BoundingBox returns the bounding box of o given its producers.
//
// Sources without a Bounder cover the infinite canvas. Filters and sinks
// mirror "input". Composers take the union of "input" and "aux", which is
// "input" alone when "aux" is unconnected.
func BoundingBox(o Operation, src Sources) geom.Rect {
	if b, ok := o.(Bounder); ok {
		return b.BoundingBox(src)
	}
	switch o.Kind() {
	case Source:
		return geom.Infinite()
	case Composer, PointComposer:
		in, _ := src.BoundingBox(PadInput)
		aux, _ := src.BoundingBox(PadAux)
		return in.Union(aux)
	default:
		in, _ := src.BoundingBox(PadInput)
		return in
	}
}

// RequiredForOutput returns the rectangle o needs on pad to produce roi.
//
// The default is roi itself on every pad; AreaFilters expand it by their
// halo. The result is not clipped to the producer; the engine does that.
func RequiredForOutput(o Operation, pad string, roi geom.Rect) geom.Rect {
	if r, ok := o.(Requirer); ok {
		return r.RequiredForOutput(pad, roi)
	}
	if o.Kind() == AreaFilter {
		return HaloOf(o).Expand(roi)
	}
	return roi
}

// CachedRegion returns the rectangle o computes when roi is requested.
func CachedRegion(o Operation, roi geom.Rect) geom.Rect {
	if c, ok := o.(CachedRegioner); ok {
		return c.CachedRegion(roi)
	}
	return roi
}

// InvalidatedByChange returns the output rectangle made stale when r
// changes on pad. AreaFilters spread the change by their halo, mirrored:
// a pixel changed at x affects outputs from x-Right to x+Left.
func InvalidatedByChange(o Operation, pad string, r geom.Rect) geom.Rect {
	if inv, ok := o.(Invalidator); ok {
		return inv.InvalidatedByChange(pad, r)
	}
	if o.Kind() == AreaFilter {
		h := HaloOf(o)
		return r.Expand(h.Right, h.Left, h.Bottom, h.Top)
	}
	return r
}
