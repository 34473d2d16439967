package graph

// Pad is a named input or output plug of a node.
type Pad struct {
	node  *Node
	name  string
	input bool

	source *Pad   // input pads: the producer
	sinks  []*Pad // output pads: the consumers
}

// Name returns the pad name.
func (p *Pad) Name() string { return p.name }

// Node returns the node owning p.
func (p *Pad) Node() *Node { return p.node }

// IsInput reports whether p is an input pad.
func (p *Pad) IsInput() bool { return p.input }

// IsOutput reports whether p is an output pad.
func (p *Pad) IsOutput() bool { return !p.input }

// IsConnected reports whether p has a producer or at least one consumer.
// On a Meta node the connections live on the proxies, so this reports
// false; use Node.Producer and Node.Consumers instead.
func (p *Pad) IsConnected() bool {
	return p.source != nil || len(p.sinks) > 0
}

func (p *Pad) removeSink(s *Pad) {
	for i, x := range p.sinks {
		if x == s {
			p.sinks = append(p.sinks[:i], p.sinks[i+1:]...)
			return
		}
	}
}
