package graphfile

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/pixflow/graph"
)

// FromGraph describes the top-level nodes of g. Nodes are identified by
// their name; unnamed nodes, and nodes whose name is taken, get "n" and
// their numeric id. All properties are written, defaults included.
func FromGraph(g *graph.Graph) (*File, error) {
	nodes := g.Nodes()
	ids := make(map[*graph.Node]string, len(nodes))
	used := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		id := n.Name()
		if id == "" || used[id] {
			id = "n" + strconv.Itoa(n.ID())
		}
		ids[n] = id
		used[id] = true
	}

	f := &File{Nodes: make([]Node, 0, len(nodes))}
	index := make(map[*graph.Node]int, len(nodes))
	for _, n := range nodes {
		desc := Node{ID: ids[n], Op: n.Operation().Name(), Cache: n.Resolve().Cache() != nil}
		props := new(yaml.Node)
		if err := props.Encode(n.Operation()); err != nil {
			return nil, fmt.Errorf("graphfile: node %q: %w", desc.ID, err)
		}
		if len(props.Content) > 0 {
			desc.Props = *props
		}
		index[n] = len(f.Nodes)
		f.Nodes = append(f.Nodes, desc)
	}

	for _, c := range g.Connections() {
		src, ok := ids[c.Source]
		if !ok {
			return nil, fmt.Errorf("graphfile: %s.%s is fed by a node outside the graph", ids[c.Sink], c.Pad)
		}
		desc := &f.Nodes[index[c.Sink]]
		if desc.Inputs == nil {
			desc.Inputs = make(map[string]string)
		}
		desc.Inputs[c.Pad] = src
	}
	return f, nil
}

// Write encodes f to w.
func (f *File) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("graphfile: %w", err)
	}
	return enc.Close()
}

// Encode writes the top-level nodes of g to w.
func Encode(w io.Writer, g *graph.Graph) error {
	f, err := FromGraph(g)
	if err != nil {
		return err
	}
	return f.Write(w)
}
