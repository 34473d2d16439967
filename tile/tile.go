package tile

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/pixflow/geom"
)

// MaxArea is the largest tile, in pixels, a Pool will allocate. Requests for
// larger tiles (typically an unclipped infinite rectangle) fail with
// ErrTooLarge instead of exhausting memory.
const MaxArea = 1 << 26

// Errors returned by tile allocation.
var (
	// ErrEmpty is returned when a tile is requested for an empty rectangle.
	ErrEmpty = errors.New("tile: empty rectangle")

	// ErrTooLarge is returned when a tile would exceed MaxArea.
	ErrTooLarge = errors.New("tile: rectangle too large")
)

// Tile is a block of channel-planar samples covering Rect in canvas
// coordinates. Plane c holds Width*Height samples of channel c, row-major.
//
// A tile starts with one reference owned by whoever allocated it. Ref and
// Unref are safe for concurrent use; writing samples is not, and must finish
// before the tile is shared.
type Tile struct {
	rect   geom.Rect
	model  Model
	planes []Samples
	refs   atomic.Int32
	pool   *Pool
}

// New allocates a tile from the default pool.
func New(r geom.Rect, m Model) (*Tile, error) {
	return DefaultPool().Get(r, m)
}

func newTile(w, h int, m Model) *Tile {
	t := &Tile{model: m, planes: make([]Samples, m.NumChannels())}
	for c := range t.planes {
		t.planes[c] = makeSamples(m.Type, w*h)
	}
	return t
}

// Rect returns the canvas rectangle covered by the tile.
func (t *Tile) Rect() geom.Rect { return t.rect }

// Model returns the pixel format of the tile.
func (t *Tile) Model() Model { return t.model }

// Ref adds a reference and returns t.
func (t *Tile) Ref() *Tile {
	t.refs.Add(1)
	return t
}

// Unref drops a reference. The last Unref returns the tile to its pool;
// the tile must not be used afterwards. Unref of a released tile does
// nothing.
func (t *Tile) Unref() {
	for {
		n := t.refs.Load()
		if n <= 0 {
			return
		}
		if !t.refs.CompareAndSwap(n, n-1) {
			continue
		}
		if n == 1 && t.pool != nil {
			t.pool.put(t)
		}
		return
	}
}

// Refs returns the current reference count.
func (t *Tile) Refs() int {
	return int(t.refs.Load())
}

// Plane returns all samples of channel c.
func (t *Tile) Plane(c int) Samples {
	return t.planes[c]
}

// Row returns the samples of channel c on canvas row y, starting at canvas
// column x, up to the right edge of the tile.
func (t *Tile) Row(c, x, y int) Samples {
	i := t.offset(x, y)
	return t.planes[c].Slice(i, (y-t.rect.Y+1)*t.rect.Width)
}

func (t *Tile) offset(x, y int) int {
	return (y-t.rect.Y)*t.rect.Width + (x - t.rect.X)
}

// Pixel writes the channels of canvas pixel (x, y) to dst as floats in
// [0,1] and returns dst. Pixels outside the tile read as zero.
func (t *Tile) Pixel(x, y int, dst []float32) []float32 {
	n := t.model.NumChannels()
	if cap(dst) < n {
		dst = make([]float32, n)
	}
	dst = dst[:n]
	if !t.rect.ContainsPoint(x, y) {
		clear(dst)
		return dst
	}
	i := t.offset(x, y)
	for c := range dst {
		dst[c] = t.planes[c].Float(i)
	}
	return dst
}

// SetPixel stores the channels of canvas pixel (x, y). Pixels outside the
// tile are ignored.
func (t *Tile) SetPixel(x, y int, v []float32) {
	if !t.rect.ContainsPoint(x, y) {
		return
	}
	i := t.offset(x, y)
	for c := range min(len(v), len(t.planes)) {
		t.planes[c].SetFloat(i, v[c])
	}
}

// Fill sets every pixel to v.
func (t *Tile) Fill(v []float32) {
	for c := range min(len(v), len(t.planes)) {
		t.planes[c].fill(v[c])
	}
}

// Clear zeroes every sample.
func (t *Tile) Clear() {
	for _, p := range t.planes {
		p.clear()
	}
}

// String returns a description such as "rgba-float 0,0 64×64".
func (t *Tile) String() string {
	return fmt.Sprintf("%s %v", t.model, t.rect)
}
