package graph

import (
	"fmt"

	"github.com/gogpu/pixflow/op"
)

type proxyRole uint8

const (
	roleNone proxyRole = iota
	roleInput
	roleOutput
)

// Node is a graph vertex hosting one operation.
type Node struct {
	graph *Graph
	id    int
	name  string
	op    op.Operation
	pads  []*Pad

	// Meta nodes.
	sub       *Graph
	inProxies map[string]*Node
	outProxy  *Node

	// Proxy nodes inside a Meta subgraph.
	owner    *Node
	role     proxyRole
	proxyPad string

	cache *Cache
}

// Operation returns the hosted operation.
func (n *Node) Operation() op.Operation { return n.op }

// Kind returns the operation kind.
func (n *Node) Kind() op.Kind { return n.op.Kind() }

// Graph returns the graph n was added to.
func (n *Node) Graph() *Graph { return n.graph }

// ID returns a number unique among the nodes of a graph and its subgraphs.
func (n *Node) ID() int { return n.id }

// Name returns the user-assigned name.
func (n *Node) Name() string { return n.name }

// SetName assigns a name used by Graph.Find and in diagnostics.
func (n *Node) SetName(name string) { n.name = name }

// DebugName identifies the node in logs and errors.
func (n *Node) DebugName() string {
	switch n.role {
	case roleInput:
		return n.owner.DebugName() + "/" + n.proxyPad
	case roleOutput:
		return n.owner.DebugName() + "/" + op.PadOutput
	}
	base := fmt.Sprintf("%s#%d", n.op.Name(), n.id)
	if n.name != "" {
		base = fmt.Sprintf("%s (%s)", n.name, n.op.Name())
	}
	if o := n.graph.owner; o != nil {
		return o.DebugName() + "/" + base
	}
	return base
}

func (n *Node) String() string { return n.DebugName() }

// ProxyOwner returns the Meta node whose output n stands for, or nil when n
// is not an output proxy. A request on the Meta node is served by this
// proxy, which is how the extra reference held by the enclosing graph is
// found.
func (n *Node) ProxyOwner() *Node {
	if n.role == roleOutput {
		return n.owner
	}
	return nil
}

// IsProxy reports whether n is an input or output proxy of a Meta node.
func (n *Node) IsProxy() bool { return n.role != roleNone }

// Subgraph returns the internal graph of a Meta node, or nil.
func (n *Node) Subgraph() *Graph { return n.sub }

// Resolve returns the node that actually produces n's output: the output
// proxy for a Meta node, n itself otherwise.
func (n *Node) Resolve() *Node {
	for n.outProxy != nil {
		n = n.outProxy
	}
	return n
}

// visible maps an output proxy back to its Meta node.
func (n *Node) visible() *Node {
	for n.role == roleOutput {
		n = n.owner
	}
	return n
}

// Pad returns the named pad of n.
func (n *Node) Pad(name string) (*Pad, bool) {
	for _, p := range n.pads {
		if p.name == name {
			return p, true
		}
	}
	return nil, false
}

// InputPads returns the names of n's input pads.
func (n *Node) InputPads() []string {
	var out []string
	for _, p := range n.pads {
		if p.input {
			out = append(out, p.name)
		}
	}
	return out
}

// resolvePad returns the pad that actually carries connections for name:
// a proxy pad for Meta nodes, n's own pad otherwise.
func (n *Node) resolvePad(name string) (*Pad, error) {
	p, ok := n.Pad(name)
	if !ok {
		return nil, &PadError{Node: n.DebugName(), Pad: name, Err: ErrNoSuchPad}
	}
	if n.sub == nil {
		return p, nil
	}
	if p.input {
		proxy := n.inProxies[name]
		return proxy.resolvePad(op.PadInput)
	}
	return n.outProxy.resolvePad(op.PadOutput)
}

// Producer returns the node connected to input pad, or nil.
func (n *Node) Producer(pad string) *Node {
	p, err := n.resolvePad(pad)
	if err != nil || !p.input || p.source == nil {
		return nil
	}
	return p.source.node
}

// Consumer is one input pad fed by a node's output.
type Consumer struct {
	Node *Node
	Pad  string
}

// Consumers returns the input pads fed by n's output.
func (n *Node) Consumers() []Consumer {
	p, err := n.resolvePad(op.PadOutput)
	if err != nil {
		return nil
	}
	out := make([]Consumer, len(p.sinks))
	for i, s := range p.sinks {
		out[i] = Consumer{Node: s.node, Pad: s.name}
	}
	return out
}

// dependsOn reports whether target is n or upstream of n.
func (n *Node) dependsOn(target *Node) bool {
	seen := make(map[*Node]bool)
	var walk func(*Node) bool
	walk = func(m *Node) bool {
		if m == target {
			return true
		}
		if seen[m] {
			return false
		}
		seen[m] = true
		for _, p := range m.pads {
			if p.input && p.source != nil && walk(p.source.node) {
				return true
			}
		}
		return false
	}
	return walk(n)
}

// SetCaching enables or disables the persistent cache of n. Disabling it
// drops cached data.
func (n *Node) SetCaching(on bool) {
	switch {
	case on && n.cache == nil:
		n.cache = newCache()
	case !on && n.cache != nil:
		n.cache.Clear()
		n.cache = nil
	}
}

// Cache returns the persistent cache of n, or nil when caching is off.
func (n *Node) Cache() *Cache { return n.cache }
