package tile

import "github.com/gogpu/pixflow/geom"

// Iterator is a forward-only scanline cursor over a rectangle of one tile.
//
// The iterator holds a reference to its tile from NewIterator until Close.
// Slices returned by ColorChannels, AlphaChannel and Current alias the tile
// and cover exactly the iterator's width; they are valid until the next call
// that moves the cursor or Close.
type Iterator struct {
	t      *Tile
	model  Model
	rect   geom.Rect
	row    int
	colors []Samples
}

// NewIterator binds t and the part of r that lies inside it. A nil tile
// yields a nil iterator; callers handling optional operands must check for
// nil before use.
func NewIterator(t *Tile, r geom.Rect) *Iterator {
	if t == nil {
		return nil
	}
	return &Iterator{
		t:      t.Ref(),
		model:  t.model,
		rect:   r.Intersect(t.rect),
		colors: make([]Samples, t.model.NumColors()),
	}
}

// Rect returns the iterated rectangle in canvas coordinates.
func (it *Iterator) Rect() geom.Rect { return it.rect }

// Model returns the pixel format of the underlying tile.
func (it *Iterator) Model() Model { return it.model }

// Row returns the cursor position in [0, Rect().Height].
func (it *Iterator) Row() int { return it.row }

// First resets the cursor to the first scanline.
func (it *Iterator) First() {
	it.row = 0
}

// Next advances one scanline. It does nothing once the iterator is done.
func (it *Iterator) Next() {
	if it.row < it.rect.Height {
		it.row++
	}
}

// IsDone reports whether the cursor has passed the last scanline. A closed
// iterator is always done.
func (it *Iterator) IsDone() bool {
	return it.t == nil || it.row >= it.rect.Height
}

func (it *Iterator) channel(c int) Samples {
	y := it.rect.Y + it.row
	i := it.t.offset(it.rect.X, y)
	return it.t.planes[c].Slice(i, i+it.rect.Width)
}

// ColorChannels returns one run per color channel for the current scanline,
// alpha excluded. It returns nil when the iterator is done.
func (it *Iterator) ColorChannels() []Samples {
	if it.IsDone() {
		return nil
	}
	for c := range it.colors {
		it.colors[c] = it.channel(c)
	}
	return it.colors
}

// AlphaChannel returns the alpha run of the current scanline. The boolean is
// false when the model has no alpha or the iterator is done.
func (it *Iterator) AlphaChannel() (Samples, bool) {
	a := it.model.AlphaIndex()
	if a < 0 || it.IsDone() {
		return Samples{}, false
	}
	return it.channel(a), true
}

// Current stores the runs of all channels, alpha last, into out and returns
// the number stored.
func (it *Iterator) Current(out []Samples) int {
	if it.IsDone() {
		return 0
	}
	n := min(len(out), it.model.NumChannels())
	for c := range n {
		out[c] = it.channel(c)
	}
	return n
}

// Close drops the tile reference. It is safe to call Close more than once
// and on a nil iterator.
func (it *Iterator) Close() {
	if it == nil || it.t == nil {
		return
	}
	it.t.Unref()
	it.t = nil
}
