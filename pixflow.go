package pixflow

import (
	"sync"

	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/graph"
	"github.com/gogpu/pixflow/op"
	"github.com/gogpu/pixflow/ops"
	"github.com/gogpu/pixflow/process"
	"github.com/gogpu/pixflow/tile"
)

// Version is the module version.
const Version = "0.1.0"

var (
	initMu      sync.Mutex
	initialized bool
)

// Init registers the built-in operations in op.DefaultRegistry, which
// graph.Graph.Create uses. Calling Init again before Exit does nothing.
func Init() error {
	initMu.Lock()
	defer initMu.Unlock()

	if initialized {
		return nil
	}
	reg := op.DefaultRegistry()
	if err := ops.RegisterAll(reg); err != nil {
		return err
	}
	initialized = true
	Logger().Info("pixflow: initialized", "version", Version, "operations", reg.Len())
	return nil
}

// Exit empties op.DefaultRegistry and drops the idle tiles of
// tile.DefaultPool. Tiles still referenced are reported at Warn level.
func Exit() {
	initMu.Lock()
	defer initMu.Unlock()

	op.DefaultRegistry().Reset()
	pool := tile.DefaultPool()
	if n := pool.Live(); n > 0 {
		Logger().Warn("pixflow: tiles still referenced at exit", "count", n)
	}
	pool.Drain()
	initialized = false
}

// Process evaluates roi of n and reports whether it succeeded. Failures are
// logged with the failing node. The output of a non-sink node is released
// right away; use process.Process to keep it.
func Process(n *graph.Node, roi geom.Rect) bool {
	buf, err := process.Process(n, roi)
	if err != nil {
		Logger().Warn("pixflow: process failed", "node", n.DebugName(), "rect", roi, "err", err)
		return false
	}
	buf.Close()
	return true
}
