package graph

import "github.com/gogpu/pixflow/op"

// proxyOp forwards its input unchanged. Meta subgraphs use one per input
// pad and one for the output.
type proxyOp struct{}

func (proxyOp) Name() string        { return "proxy" }
func (proxyOp) Kind() op.Kind       { return op.Filter }
func (proxyOp) PassThrough() bool   { return true }
func (proxyOp) InputOptional() bool { return true }
func (proxyOp) Uncached() bool      { return true }

func (n *Node) attach() error {
	m, ok := n.op.(op.MetaOp)
	if !ok {
		return ErrNotMeta
	}

	n.sub = &Graph{owner: n, ids: n.graph.ids}
	n.inProxies = make(map[string]*Node)
	for _, pad := range op.InputPads(n.op) {
		p := n.sub.newNode(proxyOp{})
		p.owner, p.role, p.proxyPad = n, roleInput, pad
		n.sub.nodes = append(n.sub.nodes, p)
		n.inProxies[pad] = p
	}
	out := n.sub.newNode(proxyOp{})
	out.owner, out.role = n, roleOutput
	n.sub.nodes = append(n.sub.nodes, out)
	n.outProxy = out

	return m.Attach(subgraph{meta: n})
}

// subgraph is the op.Subgraph handed to Meta operations.
type subgraph struct {
	meta *Node
}

func (s subgraph) Add(o op.Operation) (op.NodeRef, error) {
	n, err := s.meta.sub.Add(o)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (s subgraph) Input(pad string) op.NodeRef {
	if p, ok := s.meta.inProxies[pad]; ok {
		return p
	}
	return nil
}

func (s subgraph) Output() op.NodeRef {
	return s.meta.outProxy
}

func (s subgraph) Connect(src, dst op.NodeRef, dstPad string) error {
	sn, ok1 := src.(*Node)
	dn, ok2 := dst.(*Node)
	if !ok1 || !ok2 || sn.graph != s.meta.sub || dn.graph != s.meta.sub {
		return ErrForeignNode
	}
	return connect(sn, op.PadOutput, dn, dstPad)
}
