package graph

import (
	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/op"
)

// SubgraphUpdater is implemented by Meta operations that copy their own
// properties into the operations of their subgraph. Node.Update calls it
// after the properties changed.
type SubgraphUpdater interface {
	UpdateSubgraph()
}

// Invalidate marks r of n's output as stale: cached data overlapping r is
// dropped from n and from every node downstream of it, with r mapped
// through each consumer's invalidation policy.
func (n *Node) Invalidate(r geom.Rect) {
	n.invalidateFrom(r, make(map[*Node]geom.Rect))
}

// Update runs fn on the hosted operation, typically to change its
// properties, and invalidates everything n produced.
func (n *Node) Update(fn func(o op.Operation)) {
	fn(n.op)
	if u, ok := n.op.(SubgraphUpdater); ok {
		u.UpdateSubgraph()
	}
	n.Invalidate(geom.Infinite())
}

func (n *Node) invalidateFrom(r geom.Rect, seen map[*Node]geom.Rect) {
	if r.IsEmpty() {
		return
	}
	if done, ok := seen[n]; ok && done.Contains(r) {
		return
	}
	seen[n] = seen[n].Union(r)

	if n.cache != nil {
		n.cache.Invalidate(r)
	}
	if n.sub != nil {
		// Internal nodes may depend on the changed properties of the Meta
		// operation itself.
		for _, m := range n.sub.nodes {
			if m.cache != nil {
				m.cache.Clear()
			}
		}
	}
	slogger().Debug("graph: invalidated", "node", n.DebugName(), "rect", r)

	for _, c := range n.Consumers() {
		c.Node.invalidateFrom(op.InvalidatedByChange(c.Node.op, c.Pad, r), seen)
	}
}
