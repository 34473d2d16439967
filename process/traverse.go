// Package process evaluates rectangles of a pixflow graph.
//
// A request for a rectangle of a node runs in four passes over the nodes
// upstream of it, kept in post-order (every producer before its
// consumers):
//
//  1. prepare, in post-order: negotiate pad formats, check required inputs,
//     bind the processor and compute each node's bounding box (Have);
//  2. propagate, in reverse post-order: starting from the requested
//     rectangle, derive every node's Result and add what it requires of
//     each producer to that producer's Need;
//  3. count, in post-order: set each node's Refs to the number of consumers
//     inside the request that will read its result;
//  4. evaluate, in post-order: process every node with a non-empty Result,
//     then release its inputs; a producer's tile is freed when its last
//     consumer released it.
//
// The walk is synchronous and single threaded. A failing node aborts the
// whole request and releases every tile it holds.
package process

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/graph"
	"github.com/gogpu/pixflow/op"
	"github.com/gogpu/pixflow/tile"
)

// ErrAlreadyRun is returned when a Request is run twice.
var ErrAlreadyRun = errors.New("process: request already run")

// Request is one evaluation of a rectangle of a node.
type Request struct {
	id     uuid.UUID
	host   *graph.Node
	target *graph.Node
	roi    geom.Rect
	order  []*graph.Node
	ctxs   map[*graph.Node]*NodeContext
	opts   options
	log    *slog.Logger
	ran    bool
}

// NewRequest prepares the evaluation of roi of n and computes every
// rectangle and reference count involved. Nothing is processed until Run.
func NewRequest(n *graph.Node, roi geom.Rect, opts ...Option) (*Request, error) {
	id := uuid.New()
	r := &Request{
		id:     id,
		host:   n,
		target: n.Resolve(),
		roi:    roi,
		ctxs:   make(map[*graph.Node]*NodeContext),
		opts:   buildOptions(opts),
		log:    slogger().With("request", id.String()),
	}
	r.order = postOrder(r.target)

	if err := r.prepare(); err != nil {
		return nil, err
	}
	r.propagate()
	r.countRefs()

	if r.log.Enabled(r.opts.ctx, slog.LevelDebug) {
		for _, n := range r.order {
			c := r.ctxs[n]
			r.log.Debug("process: node planned", "node", n.DebugName(),
				"have", c.Have, "need", c.Need, "result", c.Result, "refs", c.Refs, "cached", c.Cached)
		}
	}
	return r, nil
}

// ID returns the identifier attached to the request's log records.
func (r *Request) ID() uuid.UUID { return r.id }

// Order returns the visited nodes, producers before consumers.
func (r *Request) Order() []*graph.Node {
	out := make([]*graph.Node, len(r.order))
	copy(out, r.order)
	return out
}

// Context returns the context of n, or nil when n is not part of the
// request.
func (r *Request) Context(n *graph.Node) *NodeContext {
	return r.ctxs[n.Resolve()]
}

// postOrder lists n and everything upstream of it, producers first.
func postOrder(n *graph.Node) []*graph.Node {
	var order []*graph.Node
	seen := make(map[*graph.Node]bool)
	var visit func(*graph.Node)
	visit = func(m *graph.Node) {
		if seen[m] {
			return
		}
		seen[m] = true
		for _, pad := range m.InputPads() {
			if p := m.Producer(pad); p != nil {
				visit(p)
			}
		}
		order = append(order, m)
	}
	visit(n)
	return order
}

// ctxSources answers op.Sources from the Have rects of prepared producers.
type ctxSources struct {
	r *Request
	n *graph.Node
}

func (s ctxSources) BoundingBox(pad string) (geom.Rect, bool) {
	p := s.n.Producer(pad)
	if p == nil {
		return geom.Rect{}, false
	}
	return s.r.ctxs[p].Have, true
}

func (r *Request) prepare() error {
	for _, n := range r.order {
		c := &NodeContext{Node: n}
		r.ctxs[n] = c
		o := n.Operation()

		sources := make(map[string]tile.Model)
		for _, pad := range n.InputPads() {
			if p := n.Producer(pad); p != nil {
				sources[pad] = r.ctxs[p].prep.Format(op.PadOutput)
			}
		}
		if missing := r.missingInputs(n, sources); len(missing) > 0 {
			return r.fail(n, missing, op.ErrMissingInput)
		}

		c.prep = op.NewPrep(sources)
		if op.IsPassThrough(o) {
			if m, ok := sources[op.PadInput]; ok {
				c.prep.SetFormat(op.PadInput, m)
				c.prep.SetFormat(op.PadOutput, m)
			}
		}
		if p, ok := o.(op.Preparer); ok {
			if err := p.Prepare(c.prep); err != nil {
				return r.fail(n, nil, err)
			}
		}
		if err := r.bind(c); err != nil {
			return r.fail(n, nil, err)
		}
		c.Have = op.BoundingBox(o, ctxSources{r: r, n: n})
	}
	return nil
}

// missingInputs returns the required input pads of n without producer.
// An unconnected "aux" is accepted unless the operation requires it.
func (r *Request) missingInputs(n *graph.Node, sources map[string]tile.Model) []string {
	o := n.Operation()
	if o.Kind() == op.Source {
		return nil
	}
	var missing []string
	if _, ok := sources[op.PadInput]; !ok && !op.IsInputOptional(o) {
		missing = append(missing, op.PadInput)
	}
	if o.Kind().IsComposer() {
		if _, ok := sources[op.PadAux]; !ok {
			if op.IsAuxRequired(o) {
				missing = append(missing, op.PadAux)
			} else {
				r.log.Debug("process: aux unconnected, using input only", "node", n.DebugName())
			}
		}
	}
	return missing
}

// bind checks that the operation can process its kind and selects the
// scanline function of point operations.
func (r *Request) bind(c *NodeContext) error {
	o := c.Node.Operation()
	var ok bool
	switch k := o.Kind(); k {
	case op.Source:
		_, ok = o.(op.SourceProcessor)
	case op.Sink:
		_, ok = o.(op.SinkProcessor)
	case op.Filter, op.AreaFilter:
		_, ok = o.(op.FilterProcessor)
		ok = ok || op.IsPassThrough(o)
	case op.Composer:
		_, ok = o.(op.ComposerProcessor)
	case op.PointFilter, op.PointComposer:
		if k == op.PointFilter {
			_, ok = o.(op.FilterProcessor)
		} else {
			_, ok = o.(op.ComposerProcessor)
		}
		if ok {
			break
		}
		pw, isPoint := o.(op.Pointwise)
		if !isPoint {
			break
		}
		m := c.prep.Format(op.PadOutput)
		fn, err := pw.Scanline().Lookup(m.Space, m.Type)
		if err != nil {
			return err
		}
		c.fn, ok = fn, true
	}
	if !ok {
		return op.ErrNoProcessor
	}
	return nil
}

func (r *Request) propagate() {
	r.ctxs[r.target].Need = r.roi

	for i := len(r.order) - 1; i >= 0; i-- {
		n := r.order[i]
		c := r.ctxs[n]
		o := n.Operation()

		c.Result = op.CachedRegion(o, c.Have.Intersect(c.Need)).Intersect(c.Have)
		if c.Result.IsEmpty() {
			c.Result = geom.Rect{}
			continue
		}
		if r.fromCache(c) {
			continue
		}
		for _, pad := range n.InputPads() {
			p := n.Producer(pad)
			if p == nil {
				continue
			}
			pc := r.ctxs[p]
			pc.Need = pc.Need.Union(r.required(n, pad, c.Result))
		}
	}
}

// fromCache serves c from the node's persistent cache when it holds every
// pixel of the result.
func (r *Request) fromCache(c *NodeContext) bool {
	n := c.Node
	cache := n.Cache()
	if cache == nil || n.Kind() == op.Sink || op.IsUncached(n.Operation()) {
		return false
	}
	t, ok := cache.Get(r.opts.pool, c.Result, c.prep.Format(op.PadOutput))
	if !ok {
		return false
	}
	c.tile, c.Cached = t, true
	if r.opts.observer != nil {
		r.opts.observer.CacheHit(n.Operation().Name())
	}
	return true
}

// required is RequiredInput using the Have rects of the request.
func (r *Request) required(n *graph.Node, pad string, roi geom.Rect) geom.Rect {
	p := n.Producer(pad)
	if p == nil {
		return geom.Rect{}
	}
	return op.RequiredForOutput(n.Operation(), pad, roi).Intersect(r.ctxs[p].Have)
}

// RequiredInput returns the rectangle of pad's producer that n needs to
// compute roi: the operation's requirement clipped to the producer's
// bounding box. It is empty when pad is unconnected.
func RequiredInput(n *graph.Node, pad string, roi geom.Rect) geom.Rect {
	p := n.Producer(pad)
	if p == nil {
		return geom.Rect{}
	}
	return op.RequiredForOutput(n.Operation(), pad, roi).Intersect(graph.BoundingBox(p))
}

func (r *Request) countRefs() {
	for _, n := range r.order {
		c := r.ctxs[n]
		for _, cons := range n.Consumers() {
			if cc, ok := r.ctxs[cons.Node]; ok && cc.active() {
				c.Refs++
			}
		}
		// The host holds the result of the requested node, reached either
		// directly or through the output proxy of a Meta node.
		if owner := n.ProxyOwner(); owner != nil && owner == r.host {
			c.Refs++
		} else if n == r.host && n.Kind() != op.Sink {
			c.Refs++
		}
	}
}

func (r *Request) fail(n *graph.Node, missing []string, err error) error {
	r.log.Warn("process: node failed", "node", n.DebugName(), "missing", missing, "err", err)
	if r.opts.observer != nil {
		r.opts.observer.NodeFailed(n.Operation().Name())
	}
	for _, c := range r.ctxs {
		c.drop()
	}
	return &NodeError{Node: n.DebugName(), Missing: missing, Err: err}
}
