// Package graphfile reads and writes node graphs as YAML documents.
//
// A document lists nodes by id. Each node names an operation class, sets
// some of its properties and connects its input pads to other nodes:
//
//	nodes:
//	  - id: bg
//	    op: checkerboard
//	    props: {size: 16}
//	  - id: blur
//	    op: gaussian-blur
//	    props: {std-dev: 2}
//	    inputs: {input: bg}
//	  - id: out
//	    op: save
//	    props: {path: out.png}
//	    inputs: {input: blur}
//
// Properties are decoded into the operation struct over its defaults, using
// the struct's yaml tags. Unknown properties are an error.
package graphfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/pixflow/graph"
	"github.com/gogpu/pixflow/op"
)

// Errors returned while building a graph.
var (
	// ErrNoID is returned for a node without id.
	ErrNoID = errors.New("graphfile: node has no id")

	// ErrDuplicateID is returned when two nodes share an id.
	ErrDuplicateID = errors.New("graphfile: duplicate node id")

	// ErrUnknownNode is returned when an input names a missing node.
	ErrUnknownNode = errors.New("graphfile: unknown node id")
)

// File is a parsed graph document.
type File struct {
	Nodes []Node `yaml:"nodes"`

	// Dir is the directory relative file paths in properties are resolved
	// against. ReadFile sets it to the directory of the document.
	Dir string `yaml:"-"`
}

// Node describes one node.
type Node struct {
	ID     string            `yaml:"id"`
	Op     string            `yaml:"op"`
	Props  yaml.Node         `yaml:"props,omitempty"`
	Inputs map[string]string `yaml:"inputs,omitempty"`

	// Cache enables the persistent cache of the node.
	Cache bool `yaml:"cache,omitempty"`
}

// PathResolver is implemented by operations with file path properties.
// Build calls it with File.Dir after decoding the properties.
type PathResolver interface {
	ResolvePaths(dir string)
}

// Parse decodes a document.
func Parse(data []byte) (*File, error) {
	return Read(bytes.NewReader(data))
}

// Read decodes a document from r.
func Read(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("graphfile: %w", err)
	}
	return &f, nil
}

// ReadFile decodes the document at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("graphfile: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Dir = filepath.Dir(path)
	return f, nil
}

// Loaded is a graph built from a File.
type Loaded struct {
	Graph *graph.Graph

	nodes map[string]*graph.Node
	order []string
}

// Node returns the node with the given id.
func (l *Loaded) Node(id string) (*graph.Node, bool) {
	n, ok := l.nodes[id]
	return n, ok
}

// Outputs returns the nodes nothing consumes, in document order.
func (l *Loaded) Outputs() []*graph.Node {
	var out []*graph.Node
	for _, id := range l.order {
		if n := l.nodes[id]; len(n.Consumers()) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// Build creates the graph described by f. Operations come from r; a nil r
// means op.DefaultRegistry.
func (f *File) Build(r *op.Registry) (*Loaded, error) {
	if r == nil {
		r = op.DefaultRegistry()
	}
	l := &Loaded{Graph: graph.New(), nodes: make(map[string]*graph.Node, len(f.Nodes))}

	for i := range f.Nodes {
		desc := &f.Nodes[i]
		if desc.ID == "" {
			return nil, fmt.Errorf("%w (node %d, op %q)", ErrNoID, i, desc.Op)
		}
		if _, ok := l.nodes[desc.ID]; ok {
			return nil, fmt.Errorf("%w %q", ErrDuplicateID, desc.ID)
		}
		o, err := r.New(desc.Op)
		if err != nil {
			return nil, fmt.Errorf("graphfile: node %q: %w", desc.ID, err)
		}
		if err := decodeProps(&desc.Props, o); err != nil {
			return nil, fmt.Errorf("graphfile: node %q: %w", desc.ID, err)
		}
		if pr, ok := o.(PathResolver); ok {
			pr.ResolvePaths(f.Dir)
		}
		n, err := l.Graph.Add(o)
		if err != nil {
			return nil, err
		}
		n.SetName(desc.ID)
		if desc.Cache {
			n.Resolve().SetCaching(true)
		}
		l.nodes[desc.ID] = n
		l.order = append(l.order, desc.ID)
	}

	for _, desc := range f.Nodes {
		dst := l.nodes[desc.ID]
		pads := make([]string, 0, len(desc.Inputs))
		for pad := range desc.Inputs {
			pads = append(pads, pad)
		}
		slices.Sort(pads)
		for _, pad := range pads {
			src, ok := l.nodes[desc.Inputs[pad]]
			if !ok {
				return nil, fmt.Errorf("%w %q (input %s.%s)", ErrUnknownNode, desc.Inputs[pad], desc.ID, pad)
			}
			if err := l.Graph.Connect(src, op.PadOutput, dst, pad); err != nil {
				return nil, fmt.Errorf("graphfile: connect %s.%s: %w", desc.ID, pad, err)
			}
		}
	}
	return l, nil
}

// decodeProps decodes props over o, rejecting unknown keys.
func decodeProps(props *yaml.Node, o op.Operation) error {
	if props.Kind == 0 {
		return nil
	}
	data, err := yaml.Marshal(props)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(o); err != nil {
		return fmt.Errorf("props (line %d): %w", props.Line, err)
	}
	return nil
}
