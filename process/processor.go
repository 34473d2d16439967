package process

import (
	"errors"

	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/graph"
	"github.com/gogpu/pixflow/op"
	"github.com/gogpu/pixflow/tile"
)

// ErrUnbounded is returned by a Processor asked to render the infinite
// canvas of a node without bounding box.
var ErrUnbounded = errors.New("process: rectangle is unbounded")

// Processor renders a rectangle of a node in chunks, one request per chunk.
//
// For a non-sink node the processor turns on the node's cache, so that the
// chunks accumulate there and Buffer can assemble the full result
// afterwards. Sinks that need their whole input at once (op.NeedsFull) get
// a single chunk.
type Processor struct {
	node   *graph.Node
	rect   geom.Rect
	opts   []Option
	pool   *tile.Pool
	chunks []geom.Rect
	next   int
	done   int
	err    error
}

// NewProcessor prepares the chunked rendering of r of n. An infinite r is
// replaced by the bounding box of n.
func NewProcessor(n *graph.Node, r geom.Rect, opts ...Option) *Processor {
	o := buildOptions(opts)
	p := &Processor{node: n, opts: opts, pool: o.pool}

	if r.IsInfinite() {
		r = graph.BoundingBox(n)
	} else {
		r = r.Intersect(graph.BoundingBox(n))
	}
	p.rect = r
	if r.IsInfinite() {
		p.err = ErrUnbounded
		return p
	}

	if n.Kind() != op.Sink {
		n.Resolve().SetCaching(true)
	}
	size := o.chunk
	if op.NeedsFullInput(n.Operation()) {
		size = max(r.Width, r.Height)
	}
	p.chunks = chunk(r, size)
	return p
}

// chunk splits r into row-major tiles of at most size×size.
func chunk(r geom.Rect, size int) []geom.Rect {
	if r.IsEmpty() || size <= 0 {
		return nil
	}
	var out []geom.Rect
	for y := r.Y; y < r.MaxY(); y += size {
		for x := r.X; x < r.MaxX(); x += size {
			out = append(out, geom.R(x, y, min(size, r.MaxX()-x), min(size, r.MaxY()-y)))
		}
	}
	return out
}

// Rect returns the rectangle being rendered.
func (p *Processor) Rect() geom.Rect { return p.rect }

// Work renders the next chunk. It reports whether chunks remain; after an
// error every later call returns the same error.
func (p *Processor) Work() (more bool, err error) {
	if p.err != nil {
		return false, p.err
	}
	if p.next >= len(p.chunks) {
		return false, nil
	}

	c := p.chunks[p.next]
	buf, err := Process(p.node, c, p.opts...)
	if err != nil {
		p.err = err
		return false, err
	}
	buf.Close()

	p.next++
	p.done += c.Area()
	return p.next < len(p.chunks), nil
}

// Run calls Work until the whole rectangle is rendered.
func (p *Processor) Run() error {
	for {
		more, err := p.Work()
		if err != nil || !more {
			return err
		}
	}
}

// Progress returns the rendered fraction of the rectangle in [0,1].
func (p *Processor) Progress() float64 {
	total := p.rect.Area()
	if total == 0 {
		return 1
	}
	return float64(p.done) / float64(total)
}

// Buffer returns the rendered rectangle of a non-sink node, assembled from
// the node cache. The caller owns the returned tile.
func (p *Processor) Buffer() (*tile.Tile, error) {
	if p.err != nil {
		return nil, p.err
	}
	buf, err := Process(p.node, p.rect, p.opts...)
	if err != nil {
		return nil, err
	}
	defer buf.Close()
	t := buf.Tile()
	if t == nil {
		return nil, nil
	}
	return t.Ref(), nil
}
