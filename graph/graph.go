// Package graph holds the node graph evaluated by the pixflow engine.
//
// A Graph owns Nodes; every Node hosts one operation and a fixed set of
// Pads derived from the operation kind. Output pads fan out to any number of
// input pads, an input pad has at most one producer, and connections that
// would close a cycle are rejected.
//
// Meta operations get a private subgraph when they are added. Connections
// made to a Meta node are redirected to proxy nodes inside that subgraph, so
// the engine only ever walks ordinary nodes.
//
// A Graph is not safe for concurrent use, and must not be mutated while a
// request on it is being processed.
package graph

import (
	"errors"
	"fmt"

	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/op"
)

// Connection errors.
var (
	// ErrNoSuchPad is returned when a pad name does not exist on a node.
	ErrNoSuchPad = errors.New("graph: no such pad")

	// ErrPadMismatch is returned when an output is connected to an output
	// or an input to an input.
	ErrPadMismatch = errors.New("graph: pad direction mismatch")

	// ErrCycle is returned when a connection would create a cycle.
	ErrCycle = errors.New("graph: connection would create a cycle")

	// ErrForeignNode is returned when a node of another graph is used.
	ErrForeignNode = errors.New("graph: node belongs to another graph")

	// ErrNotMeta is returned when a Meta-kind operation has no Attach.
	ErrNotMeta = errors.New("graph: meta operation does not implement Attach")
)

// PadError describes a failed pad lookup or connection.
type PadError struct {
	Node string
	Pad  string
	Err  error
}

func (e *PadError) Error() string {
	return fmt.Sprintf("%v: %s.%s", e.Err, e.Node, e.Pad)
}

func (e *PadError) Unwrap() error { return e.Err }

// Graph is a set of connected nodes.
type Graph struct {
	nodes []*Node
	owner *Node // the Meta node of a subgraph
	ids   *int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{ids: new(int)}
}

// Owner returns the Meta node whose subgraph g is, or nil.
func (g *Graph) Owner() *Node {
	return g.owner
}

// Nodes returns the nodes of g in creation order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Create adds a node running a new operation of the named class from the
// default registry.
func (g *Graph) Create(class string) (*Node, error) {
	return g.CreateFrom(op.DefaultRegistry(), class)
}

// CreateFrom adds a node running a new operation of the named class.
func (g *Graph) CreateFrom(r *op.Registry, class string) (*Node, error) {
	o, err := r.New(class)
	if err != nil {
		return nil, err
	}
	return g.Add(o)
}

// Add creates a node hosting o. Meta operations are attached here: their
// subgraph is built once and never rebuilt.
func (g *Graph) Add(o op.Operation) (*Node, error) {
	n := g.newNode(o)
	if o.Kind() == op.Meta {
		if err := n.attach(); err != nil {
			return nil, fmt.Errorf("graph: attach %s: %w", n.DebugName(), err)
		}
	}
	g.nodes = append(g.nodes, n)
	slogger().Debug("graph: node added", "node", n.DebugName(), "kind", o.Kind())
	return n, nil
}

func (g *Graph) newNode(o op.Operation) *Node {
	*g.ids++
	n := &Node{graph: g, id: *g.ids, op: o}
	for _, name := range op.InputPads(o) {
		n.pads = append(n.pads, &Pad{node: n, name: name, input: true})
	}
	if o.Kind().HasOutput() {
		n.pads = append(n.pads, &Pad{node: n, name: op.PadOutput})
	}
	return n
}

// Find returns the node named name.
func (g *Graph) Find(name string) (*Node, bool) {
	for _, n := range g.nodes {
		if n.name == name {
			return n, true
		}
	}
	return nil, false
}

// Link connects the output of src to the "input" pad of dst.
func (g *Graph) Link(src, dst *Node) error {
	return g.Connect(src, op.PadOutput, dst, op.PadInput)
}

// Connect connects srcPad of src to dstPad of dst. An existing connection
// on dstPad is replaced. dst and everything downstream of it is
// invalidated.
func (g *Graph) Connect(src *Node, srcPad string, dst *Node, dstPad string) error {
	if src.graph != g || dst.graph != g {
		return ErrForeignNode
	}
	return connect(src, srcPad, dst, dstPad)
}

func connect(src *Node, srcPad string, dst *Node, dstPad string) error {
	out, err := src.resolvePad(srcPad)
	if err != nil {
		return err
	}
	in, err := dst.resolvePad(dstPad)
	if err != nil {
		return err
	}
	if out.input || !in.input {
		return &PadError{Node: dst.DebugName(), Pad: dstPad, Err: ErrPadMismatch}
	}
	if out.node == in.node || out.node.dependsOn(in.node) {
		return &PadError{Node: dst.DebugName(), Pad: dstPad, Err: ErrCycle}
	}

	if in.source != nil {
		in.source.removeSink(in)
	}
	in.source = out
	out.sinks = append(out.sinks, in)

	slogger().Debug("graph: connected",
		"src", out.node.DebugName(), "dst", in.node.DebugName(), "pad", in.name)
	in.node.invalidateFrom(geom.Infinite(), make(map[*Node]geom.Rect))
	return nil
}

// Disconnect removes the connection feeding dstPad of dst, if any.
func (g *Graph) Disconnect(dst *Node, dstPad string) error {
	if dst.graph != g {
		return ErrForeignNode
	}
	in, err := dst.resolvePad(dstPad)
	if err != nil {
		return err
	}
	if !in.input {
		return &PadError{Node: dst.DebugName(), Pad: dstPad, Err: ErrPadMismatch}
	}
	if in.source == nil {
		return nil
	}
	in.source.removeSink(in)
	in.source = nil
	in.node.invalidateFrom(geom.Infinite(), make(map[*Node]geom.Rect))
	return nil
}

// Connection is one edge from an output pad to an input pad, as seen from
// the graph the nodes were added to.
type Connection struct {
	Source *Node
	Sink   *Node
	Pad    string // input pad of Sink
}

// Connections returns every edge whose sink belongs to g, in node order.
// Edges into Meta nodes are reported on the Meta node, not its proxies.
func (g *Graph) Connections() []Connection {
	var out []Connection
	for _, n := range g.nodes {
		for _, p := range n.InputPads() {
			if src := n.Producer(p); src != nil {
				out = append(out, Connection{Source: src.visible(), Sink: n, Pad: p})
			}
		}
	}
	return out
}
