package process

import (
	"time"

	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/graph"
	"github.com/gogpu/pixflow/op"
	"github.com/gogpu/pixflow/scanline"
	"github.com/gogpu/pixflow/tile"
)

// Process evaluates roi of n. For a Sink the returned Buffer is nil; for
// any other node the caller must Close the Buffer to release the result.
func Process(n *graph.Node, roi geom.Rect, opts ...Option) (*Buffer, error) {
	r, err := NewRequest(n, roi, opts...)
	if err != nil {
		return nil, err
	}
	return r.Run()
}

// Run processes every node of the request in post-order.
func (r *Request) Run() (*Buffer, error) {
	if r.ran {
		return nil, ErrAlreadyRun
	}
	r.ran = true

	for _, n := range r.order {
		c := r.ctxs[n]
		if !c.active() || (c.Refs == 0 && n != r.target) {
			continue
		}
		if err := r.evaluate(c); err != nil {
			return nil, r.fail(n, nil, err)
		}
	}

	// Results nobody reads, such as a cache hit whose consumers were
	// cached as well, are released here.
	for n, c := range r.ctxs {
		if c.Refs == 0 && c.tile != nil && n != r.target {
			c.drop()
		}
	}

	tc := r.ctxs[r.target]
	if r.target.Kind() == op.Sink {
		tc.drop()
		return nil, nil
	}
	return &Buffer{ctx: tc, rect: tc.Result}, nil
}

func (r *Request) evaluate(c *NodeContext) error {
	n := c.Node
	o := n.Operation()
	start := time.Now()

	// Inputs are read in pad order; every producer in the request is
	// released once this node is done, whether it succeeds or not.
	var inputs []*tile.Tile
	defer func() {
		for _, t := range inputs {
			if t != nil {
				t.Unref()
			}
		}
		for _, pad := range n.InputPads() {
			if p := n.Producer(pad); p != nil {
				r.ctxs[p].release()
			}
		}
	}()
	for _, pad := range n.InputPads() {
		t, err := r.input(c, pad)
		if err != nil {
			return err
		}
		inputs = append(inputs, t)
	}

	if op.IsPassThrough(o) && len(inputs) > 0 {
		if in := inputs[0]; in != nil {
			c.tile = in.Ref()
		}
		return nil
	}

	pctx := &op.ProcessContext{
		Context: r.opts.ctx,
		Node:    n.DebugName(),
		Logger:  r.log,
		Pool:    r.opts.pool,
	}

	var out *tile.Tile
	if o.Kind().HasOutput() {
		var err error
		out, err = r.opts.pool.Get(c.Result, c.prep.Format(op.PadOutput))
		if err != nil {
			return err
		}
	}
	if err := dispatch(pctx, c, inputs, out); err != nil {
		if out != nil {
			out.Unref()
		}
		return err
	}

	c.tile = out
	if cache := n.Cache(); cache != nil && out != nil && !op.IsUncached(o) {
		cache.Put(out)
	}
	if r.opts.observer != nil {
		r.opts.observer.NodeProcessed(o.Name(), o.Kind().String(), time.Since(start), c.Result.Area())
	}
	return nil
}

// input returns the tile for pad, covering what the operation requires of
// it in the declared format. Pixels outside the producer's result are
// zero. The caller owns the returned tile; it is nil for an unconnected
// pad.
func (r *Request) input(c *NodeContext, pad string) (*tile.Tile, error) {
	p := c.Node.Producer(pad)
	if p == nil {
		return nil, nil
	}
	pc := r.ctxs[p]
	need := op.RequiredForOutput(c.Node.Operation(), pad, c.Result)
	if need.IsInfinite() {
		need = need.Intersect(pc.Have)
	}
	if need.IsEmpty() {
		return nil, nil
	}
	return tile.Cover(r.opts.pool, pc.tile, need, c.prep.Format(pad))
}

func dispatch(pctx *op.ProcessContext, c *NodeContext, inputs []*tile.Tile, out *tile.Tile) error {
	o := c.Node.Operation()
	at := func(i int) *tile.Tile {
		if i < len(inputs) {
			return inputs[i]
		}
		return nil
	}

	if c.fn != nil {
		its := make([]*tile.Iterator, 0, len(inputs)+1)
		for _, t := range inputs {
			its = append(its, tile.NewIterator(t, c.Result))
		}
		its = append(its, tile.NewIterator(out, c.Result))
		defer func() {
			for _, it := range its {
				it.Close()
			}
		}()
		scanline.Run(c.fn, o, its, c.Result.Width, c.Result.Height)
		return nil
	}

	// SourceProcessor and SinkProcessor share a method set, so the kind
	// decides which one an operation is.
	switch o.Kind() {
	case op.Source:
		if p, ok := o.(op.SourceProcessor); ok {
			return p.Process(pctx, out, c.Result)
		}
	case op.Sink:
		if p, ok := o.(op.SinkProcessor); ok {
			return p.Process(pctx, at(0), c.Result)
		}
	case op.Composer, op.PointComposer:
		if p, ok := o.(op.ComposerProcessor); ok {
			return p.Process(pctx, at(0), at(1), out, c.Result)
		}
	default:
		if p, ok := o.(op.FilterProcessor); ok {
			return p.Process(pctx, at(0), out, c.Result)
		}
	}
	return op.ErrNoProcessor
}

// Buffer is the host's handle on the result of a non-sink node. It holds
// one reference on the result until Close.
type Buffer struct {
	ctx  *NodeContext
	rect geom.Rect
}

// Tile returns the result tile. It covers at least Rect and is nil when
// the result is empty or the buffer is closed.
func (b *Buffer) Tile() *tile.Tile {
	if b == nil || b.ctx == nil {
		return nil
	}
	return b.ctx.tile
}

// Rect returns the computed rectangle: the request clipped to the node's
// bounding box.
func (b *Buffer) Rect() geom.Rect {
	if b == nil {
		return geom.Rect{}
	}
	return b.rect
}

// Close releases the result. It is safe to call more than once.
func (b *Buffer) Close() {
	if b == nil || b.ctx == nil {
		return
	}
	b.ctx.release()
	b.ctx = nil
}
