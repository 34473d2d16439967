// Package geom provides the integer rectangle algebra used by the pixflow
// engine to describe requested, available and cached pixel regions.
//
// All rectangles are axis-aligned and expressed in canvas coordinates.
// A rectangle with a non-positive width or height is empty; every operation
// in this package is total and well-defined on empty inputs.
package geom

import (
	"fmt"
	"image"
	"math"
)

// Rect is an axis-aligned integer rectangle.
//
// The zero value is an empty rectangle at the origin.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Bounds of the infinite canvas. The origin sits at half the int32 range so
// that X+Width never exceeds int32 limits even after a union.
const (
	infiniteOrigin = math.MinInt32 / 2
	infiniteSize   = math.MaxInt32
)

// R is shorthand for Rect{X: x, Y: y, Width: w, Height: h}.
func R(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Infinite returns the sentinel used by sources that produce pixels
// everywhere, such as a flat color or a procedural pattern.
func Infinite() Rect {
	return Rect{X: infiniteOrigin, Y: infiniteOrigin, Width: infiniteSize, Height: infiniteSize}
}

// FromImage converts an image.Rectangle.
func FromImage(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Image converts r to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	if r.IsEmpty() {
		return image.Rectangle{}
	}
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// IsEmpty reports whether r covers no pixels.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// IsInfinite reports whether r is at least as large as the infinite canvas.
func (r Rect) IsInfinite() bool {
	return r.X <= infiniteOrigin && r.Y <= infiniteOrigin &&
		r.Width >= infiniteSize && r.Height >= infiniteSize
}

// MaxX returns the exclusive right edge.
func (r Rect) MaxX() int { return r.X + r.Width }

// MaxY returns the exclusive bottom edge.
func (r Rect) MaxY() int { return r.Y + r.Height }

// Area returns the number of pixels in r, or 0 when r is empty.
func (r Rect) Area() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Width * r.Height
}

// Union returns the smallest rectangle containing both r and o.
// An empty operand is ignored: the union with an empty rectangle returns
// the other rectangle unchanged. When both are empty, r is returned.
func (r Rect) Union(o Rect) Rect {
	if o.IsEmpty() {
		return r
	}
	if r.IsEmpty() {
		return o
	}
	x0 := min(r.X, o.X)
	y0 := min(r.Y, o.Y)
	x1 := max(r.MaxX(), o.MaxX())
	y1 := max(r.MaxY(), o.MaxY())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Intersect returns the overlap of r and o. The result is the zero
// rectangle when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	if r.IsEmpty() || o.IsEmpty() {
		return Rect{}
	}
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.MaxX(), o.MaxX())
	y1 := min(r.MaxY(), o.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Overlaps reports whether r and o share at least one pixel.
func (r Rect) Overlaps(o Rect) bool {
	return !r.Intersect(o).IsEmpty()
}

// Contains reports whether o lies entirely within r.
// Every rectangle contains the empty rectangle.
func (r Rect) Contains(o Rect) bool {
	if o.IsEmpty() {
		return true
	}
	if r.IsEmpty() {
		return false
	}
	return o.X >= r.X && o.Y >= r.Y && o.MaxX() <= r.MaxX() && o.MaxY() <= r.MaxY()
}

// ContainsPoint reports whether pixel (x, y) lies within r.
func (r Rect) ContainsPoint(x, y int) bool {
	return x >= r.X && x < r.MaxX() && y >= r.Y && y < r.MaxY()
}

// Equal reports whether r and o describe the same pixels.
// All empty rectangles are equal to each other.
func (r Rect) Equal(o Rect) bool {
	if r.IsEmpty() && o.IsEmpty() {
		return true
	}
	return r == o
}

// Expand grows r by the given margins. Negative margins shrink it.
// Expanding an empty rectangle yields an empty rectangle.
func (r Rect) Expand(left, right, top, bottom int) Rect {
	if r.IsEmpty() {
		return Rect{}
	}
	if r.IsInfinite() {
		return r
	}
	out := Rect{
		X:      r.X - left,
		Y:      r.Y - top,
		Width:  r.Width + left + right,
		Height: r.Height + top + bottom,
	}
	if out.IsEmpty() {
		return Rect{}
	}
	return out
}

// Translate moves r by (dx, dy). The infinite canvas does not move.
func (r Rect) Translate(dx, dy int) Rect {
	if r.IsInfinite() {
		return r
	}
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Subtract returns the parts of r not covered by o as up to four disjoint
// rectangles: a top band, a bottom band and the left and right pieces of the
// middle band.
func (r Rect) Subtract(o Rect) []Rect {
	if r.IsEmpty() {
		return nil
	}
	in := r.Intersect(o)
	if in.IsEmpty() {
		return []Rect{r}
	}
	out := make([]Rect, 0, 4)
	if in.Y > r.Y {
		out = append(out, Rect{X: r.X, Y: r.Y, Width: r.Width, Height: in.Y - r.Y})
	}
	if in.MaxY() < r.MaxY() {
		out = append(out, Rect{X: r.X, Y: in.MaxY(), Width: r.Width, Height: r.MaxY() - in.MaxY()})
	}
	if in.X > r.X {
		out = append(out, Rect{X: r.X, Y: in.Y, Width: in.X - r.X, Height: in.Height})
	}
	if in.MaxX() < r.MaxX() {
		out = append(out, Rect{X: in.MaxX(), Y: in.Y, Width: r.MaxX() - in.MaxX(), Height: in.Height})
	}
	return out
}

// String formats r as "x,y w×h", or "infinite" for the sentinel.
func (r Rect) String() string {
	if r.IsInfinite() {
		return "infinite"
	}
	return fmt.Sprintf("%d,%d %d×%d", r.X, r.Y, r.Width, r.Height)
}
