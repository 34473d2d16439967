package process

import (
	"fmt"
	"strings"

	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/graph"
	"github.com/gogpu/pixflow/op"
	"github.com/gogpu/pixflow/scanline"
	"github.com/gogpu/pixflow/tile"
)

// NodeContext is the per-request state of one node.
//
// Have is the bounding box of the node, Need the union of what its
// consumers asked for, Result the rectangle actually computed. Refs counts
// the consumers that still have to read the result; when it drops to zero
// the result tile is released.
type NodeContext struct {
	Node   *graph.Node
	Have   geom.Rect
	Need   geom.Rect
	Result geom.Rect
	Refs   int

	// Cached is set when the result came from the node's persistent cache.
	Cached bool

	prep *op.Prep
	fn   scanline.Func
	tile *tile.Tile
}

// Tile returns the result tile, or nil before processing, after release
// or when the result is empty.
func (c *NodeContext) Tile() *tile.Tile { return c.tile }

// Format returns the negotiated format of pad.
func (c *NodeContext) Format(pad string) tile.Model { return c.prep.Format(pad) }

// active reports whether the node will be processed and read its inputs.
func (c *NodeContext) active() bool {
	return !c.Cached && !c.Result.IsEmpty()
}

// release drops one consumer reference and frees the tile on the last one.
func (c *NodeContext) release() {
	if c.Refs == 0 {
		return
	}
	c.Refs--
	if c.Refs == 0 && c.tile != nil {
		c.tile.Unref()
		c.tile = nil
	}
}

// drop frees the tile regardless of outstanding references.
func (c *NodeContext) drop() {
	c.Refs = 0
	if c.tile != nil {
		c.tile.Unref()
		c.tile = nil
	}
}

// NodeError is returned when a node fails to prepare or process. Missing
// lists the input pads that were required but unconnected.
type NodeError struct {
	Node    string
	Missing []string
	Err     error
}

func (e *NodeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "process: node %s", e.Node)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, " (missing %s)", strings.Join(e.Missing, ", "))
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *NodeError) Unwrap() error { return e.Err }
