package op

// NodeRef identifies a node inside a Subgraph.
type NodeRef interface {
	Operation() Operation
}

// Subgraph is the view of its internal graph a Meta operation gets at
// attach time. Internal nodes are never visible from the enclosing graph;
// the enclosing graph sees only the Meta node's own pads.
type Subgraph interface {
	// Add creates an internal node.
	Add(o Operation) (NodeRef, error)

	// Input returns the proxy node standing for the Meta node's input pad.
	// Its "output" pad delivers whatever is connected to that pad outside.
	Input(pad string) NodeRef

	// Output returns the proxy node standing for the Meta node's output.
	// Connect the result of the subgraph to its "input" pad.
	Output() NodeRef

	// Connect links src's "output" pad to dst's dstPad.
	Connect(src NodeRef, dst NodeRef, dstPad string) error
}
