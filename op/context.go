package op

import (
	"context"
	"log/slog"

	"github.com/gogpu/pixflow/tile"
)

// ProcessContext is handed to processors. It names the node being processed
// and carries the warning channel and the tile pool of the request.
type ProcessContext struct {
	context.Context

	// Node is the debug name of the node, for diagnostics.
	Node string

	// Logger receives warnings. It is never nil.
	Logger *slog.Logger

	// Pool allocates scratch tiles. Tiles obtained here must be released
	// before Process returns.
	Pool *tile.Pool
}

// Warn logs a warning attributed to the node.
func (c *ProcessContext) Warn(msg string, args ...any) {
	c.Logger.Warn(msg, append([]any{"node", c.Node}, args...)...)
}

// Debug logs a debug record attributed to the node.
func (c *ProcessContext) Debug(msg string, args ...any) {
	c.Logger.Debug(msg, append([]any{"node", c.Node}, args...)...)
}
