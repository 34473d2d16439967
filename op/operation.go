package op

import (
	"errors"

	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/scanline"
	"github.com/gogpu/pixflow/tile"
)

// Configuration errors raised while preparing a node.
var (
	// ErrMissingInput is returned when a required input pad has no producer.
	ErrMissingInput = errors.New("op: missing input")

	// ErrNoProcessor is returned when an operation does not implement the
	// processor interface of its kind.
	ErrNoProcessor = errors.New("op: operation has no processor for its kind")
)

// Operation is implemented by every operation.
//
// Name returns the registered class name. Kind must return the same value
// for the lifetime of the operation.
type Operation interface {
	Name() string
	Kind() Kind
}

// Preparer declares pad formats before any region is computed.
type Preparer interface {
	Prepare(p *Prep) error
}

// Sources gives a Bounder access to the bounding boxes of its producers.
type Sources interface {
	// BoundingBox returns the bounding box of the producer connected to
	// pad. The boolean is false when the pad is unconnected.
	BoundingBox(pad string) (geom.Rect, bool)
}

// Bounder overrides the default bounding box of a kind.
type Bounder interface {
	BoundingBox(src Sources) geom.Rect
}

// Requirer overrides the input rectangle needed for an output rectangle.
type Requirer interface {
	RequiredForOutput(pad string, roi geom.Rect) geom.Rect
}

// CachedRegioner overrides the rectangle computed and cached for a request.
type CachedRegioner interface {
	CachedRegion(roi geom.Rect) geom.Rect
}

// Invalidator maps a changed input rectangle to the output rectangle it
// invalidates.
type Invalidator interface {
	InvalidatedByChange(pad string, r geom.Rect) geom.Rect
}

// Haloer is implemented by AreaFilter operations.
type Haloer interface {
	Halo() Halo
}

// Uncached marks operations whose output is never kept in a node cache.
type Uncached interface {
	Uncached() bool
}

// InputOptional marks Filters and Composers that run without "input".
type InputOptional interface {
	InputOptional() bool
}

// AuxRequired marks Composers that fail when "aux" is unconnected.
type AuxRequired interface {
	AuxRequired() bool
}

// PassThrough marks Filters that forward their input unchanged. The engine
// hands the input tile on without calling a processor.
type PassThrough interface {
	PassThrough() bool
}

// Pointwise supplies the scanline table of PointFilter and PointComposer
// operations. Each scanline function receives the operation itself as its
// first argument.
type Pointwise interface {
	Scanline() *scanline.Table
}

// SourceProcessor renders a Source into out, which covers roi.
type SourceProcessor interface {
	Process(ctx *ProcessContext, out *tile.Tile, roi geom.Rect) error
}

// FilterProcessor processes Filter and AreaFilter operations. in covers
// RequiredForOutput("input", roi), with zeros where the producer has no
// pixels; it is nil for an unconnected optional input.
type FilterProcessor interface {
	Process(ctx *ProcessContext, in, out *tile.Tile, roi geom.Rect) error
}

// ComposerProcessor processes Composer operations. aux is nil when the
// "aux" pad is unconnected.
type ComposerProcessor interface {
	Process(ctx *ProcessContext, in, aux, out *tile.Tile, roi geom.Rect) error
}

// SinkProcessor consumes the input of a Sink.
type SinkProcessor interface {
	Process(ctx *ProcessContext, in *tile.Tile, roi geom.Rect) error
}

// MetaOp builds the internal subgraph of a Meta operation. Attach is called
// once, when the operation is added to a graph.
type MetaOp interface {
	Attach(g Subgraph) error
}

// MetaPads declares the input pads of a Meta operation. Without it a Meta
// node has a single "input".
type MetaPads interface {
	InputPads() []string
}

// NeedsFull marks Sinks that must receive their whole input in one call,
// such as file writers. Chunked processing does not split them.
type NeedsFull interface {
	NeedsFull() bool
}

// Flag helpers for the optional marker interfaces.

func NeedsFullInput(o Operation) bool {
	u, ok := o.(NeedsFull)
	return ok && u.NeedsFull()
}

func IsUncached(o Operation) bool {
	u, ok := o.(Uncached)
	return ok && u.Uncached()
}

func IsInputOptional(o Operation) bool {
	u, ok := o.(InputOptional)
	return ok && u.InputOptional()
}

func IsAuxRequired(o Operation) bool {
	u, ok := o.(AuxRequired)
	return ok && u.AuxRequired()
}

func IsPassThrough(o Operation) bool {
	u, ok := o.(PassThrough)
	return ok && u.PassThrough()
}

// InputPads returns the input pads of o.
func InputPads(o Operation) []string {
	if o.Kind() == Meta {
		if mp, ok := o.(MetaPads); ok {
			return mp.InputPads()
		}
	}
	return o.Kind().Inputs()
}
