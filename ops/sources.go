package ops

import (
	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/op"
	"github.com/gogpu/pixflow/tile"
)

// Color fills the infinite plane.
type Color struct {
	Value RGBA `yaml:"value"`
}

// NewColor returns an opaque black Color.
func NewColor() *Color {
	return &Color{Value: RGBA{0, 0, 0, 1}}
}

func (*Color) Name() string  { return "color" }
func (*Color) Kind() op.Kind { return op.Source }

func (c *Color) Process(_ *op.ProcessContext, out *tile.Tile, _ geom.Rect) error {
	out.Fill(c.Value.slice())
	return nil
}

// Checkerboard alternates two colors in squares of Size pixels. The square
// at (XOffset, YOffset) has Color1.
type Checkerboard struct {
	Size    int  `yaml:"size"`
	Color1  RGBA `yaml:"color1"`
	Color2  RGBA `yaml:"color2"`
	XOffset int  `yaml:"x-offset"`
	YOffset int  `yaml:"y-offset"`
}

// NewCheckerboard returns a gray and white board of 16 pixel squares.
func NewCheckerboard() *Checkerboard {
	return &Checkerboard{
		Size:   16,
		Color1: RGBA{0.4, 0.4, 0.4, 1},
		Color2: RGBA{0.6, 0.6, 0.6, 1},
	}
}

func (*Checkerboard) Name() string  { return "checkerboard" }
func (*Checkerboard) Kind() op.Kind { return op.Source }

func (c *Checkerboard) Process(_ *op.ProcessContext, out *tile.Tile, roi geom.Rect) error {
	size := max(c.Size, 1)
	a, b := c.Color1.slice(), c.Color2.slice()
	for y := roi.Y; y < roi.MaxY(); y++ {
		row := floorDiv(y-c.YOffset, size)
		for x := roi.X; x < roi.MaxX(); x++ {
			if (floorDiv(x-c.XOffset, size)+row)&1 == 0 {
				out.SetPixel(x, y, a)
			} else {
				out.SetPixel(x, y, b)
			}
		}
	}
	return nil
}

// floorDiv divides rounding towards negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// BufferSource exposes a tile held by the host. Its bounding box is the
// tile's rectangle and its output format the tile's model.
type BufferSource struct {
	Tile *tile.Tile `yaml:"-"`
}

func (*BufferSource) Name() string  { return "buffer-source" }
func (*BufferSource) Kind() op.Kind { return op.Source }

func (b *BufferSource) Prepare(p *op.Prep) error {
	if b.Tile != nil {
		p.SetFormat(op.PadOutput, b.Tile.Model())
	}
	return nil
}

func (b *BufferSource) BoundingBox(op.Sources) geom.Rect {
	if b.Tile == nil {
		return geom.Rect{}
	}
	return b.Tile.Rect()
}

func (b *BufferSource) Process(_ *op.ProcessContext, out *tile.Tile, _ geom.Rect) error {
	tile.Copy(out, b.Tile)
	return nil
}

// Nop forwards its input. The engine hands the input tile on without
// copying.
type Nop struct{}

func (*Nop) Name() string      { return "nop" }
func (*Nop) Kind() op.Kind     { return op.Filter }
func (*Nop) PassThrough() bool { return true }
