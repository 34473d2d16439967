package graph

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/op"
)

// boxSources answers op.Sources for one node from a memo of upstream boxes.
type boxSources struct {
	n    *Node
	memo map[*Node]geom.Rect
}

func (s boxSources) BoundingBox(pad string) (geom.Rect, bool) {
	p := s.n.Producer(pad)
	if p == nil {
		return geom.Rect{}, false
	}
	return boundingBox(p, s.memo), true
}

func boundingBox(n *Node, memo map[*Node]geom.Rect) geom.Rect {
	n = n.Resolve()
	if r, ok := memo[n]; ok {
		return r
	}
	r := op.BoundingBox(n.op, boxSources{n: n, memo: memo})
	memo[n] = r
	return r
}

// BoundingBox returns the rectangle over which n's output is defined.
func BoundingBox(n *Node) geom.Rect {
	return boundingBox(n, make(map[*Node]geom.Rect))
}

// Dump writes the tree of nodes upstream of n, one per line, with kind and
// bounding box. Meta nodes are shown with their subgraph indented below
// them. A node reached a second time is printed once more, marked as
// shared, without its inputs.
func Dump(w io.Writer, n *Node) error {
	bw := bufio.NewWriter(w)
	d := dumper{w: bw, memo: make(map[*Node]geom.Rect), seen: make(map[*Node]bool)}
	d.node(n, "", 0)
	return bw.Flush()
}

type dumper struct {
	w    *bufio.Writer
	memo map[*Node]geom.Rect
	seen map[*Node]bool
}

func (d *dumper) node(n *Node, pad string, depth int) {
	indent := strings.Repeat("  ", depth)
	if pad != "" {
		pad += " <- "
	}
	r := boundingBox(n, d.memo)
	if d.seen[n] {
		fmt.Fprintf(d.w, "%s%s%s (shared)\n", indent, pad, n.DebugName())
		return
	}
	d.seen[n] = true

	cached := ""
	if c := n.Resolve().cache; c != nil {
		cached = fmt.Sprintf(" cached=%d", c.Len())
	}
	fmt.Fprintf(d.w, "%s%s%s [%v] bbox %v%s\n", indent, pad, n.DebugName(), n.Kind(), r, cached)

	if n.sub != nil {
		d.node(n.outProxy, "subgraph", depth+1)
		return
	}
	for _, p := range n.InputPads() {
		src := n.Producer(p)
		if src == nil {
			fmt.Fprintf(d.w, "%s  %s <- (unconnected)\n", indent, p)
			continue
		}
		d.node(src.visible(), p, depth+1)
	}
}
