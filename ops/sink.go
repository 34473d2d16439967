package ops

import (
	"sync"

	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/op"
	"github.com/gogpu/pixflow/tile"
)

// BufferSink collects everything it is asked to process into one tile,
// growing it as chunks arrive. Format names the tile model, such as
// "rgba-u8"; the default is rgba-float.
type BufferSink struct {
	Format string `yaml:"format,omitempty"`

	mu    sync.Mutex
	model tile.Model
	buf   *tile.Tile
}

func (*BufferSink) Name() string  { return "buffer-sink" }
func (*BufferSink) Kind() op.Kind { return op.Sink }

func (b *BufferSink) Prepare(p *op.Prep) error {
	m := op.DefaultFormat
	if b.Format != "" {
		var err error
		if m, err = tile.ParseModel(b.Format); err != nil {
			return err
		}
	}
	b.mu.Lock()
	b.model = m
	b.mu.Unlock()
	p.SetFormat(op.PadInput, m)
	return nil
}

func (b *BufferSink) Process(_ *op.ProcessContext, in *tile.Tile, roi geom.Rect) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.buf == nil || b.buf.Model() != b.model || !b.buf.Rect().Contains(roi) {
		r := roi
		if b.buf != nil && b.buf.Model() == b.model {
			r = r.Union(b.buf.Rect())
		}
		// The collected tile outlives the request, so it does not come
		// from the request's pool.
		t, err := tile.New(r, b.model)
		if err != nil {
			return err
		}
		if b.buf != nil {
			tile.Copy(t, b.buf)
			b.buf.Unref()
		}
		b.buf = t
	}
	tile.Copy(b.buf, in)
	return nil
}

// Tile returns the collected pixels with an extra reference the caller
// must release, or nil when nothing was processed.
func (b *BufferSink) Tile() *tile.Tile {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.buf == nil {
		return nil
	}
	return b.buf.Ref()
}

// Reset drops the collected pixels.
func (b *BufferSink) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.buf != nil {
		b.buf.Unref()
		b.buf = nil
	}
}
