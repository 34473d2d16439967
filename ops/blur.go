package ops

import (
	"runtime"

	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/internal/filter"
	"github.com/gogpu/pixflow/op"
	"github.com/gogpu/pixflow/tile"
)

// GaussianBlur blurs with a separable Gaussian of deviation StdDev.
// StdDevX and StdDevY, when positive, override it per axis.
type GaussianBlur struct {
	StdDev  float64 `yaml:"std-dev"`
	StdDevX float64 `yaml:"std-dev-x,omitempty"`
	StdDevY float64 `yaml:"std-dev-y,omitempty"`

	// Workers bounds the goroutines used per request; 0 means GOMAXPROCS.
	Workers int `yaml:"-"`
}

// NewGaussianBlur returns a blur of deviation 1.5.
func NewGaussianBlur() *GaussianBlur { return &GaussianBlur{StdDev: 1.5} }

func (*GaussianBlur) Name() string  { return "gaussian-blur" }
func (*GaussianBlur) Kind() op.Kind { return op.AreaFilter }

func (g *GaussianBlur) deviations() (x, y float64) {
	x, y = g.StdDev, g.StdDev
	if g.StdDevX > 0 {
		x = g.StdDevX
	}
	if g.StdDevY > 0 {
		y = g.StdDevY
	}
	return x, y
}

func (g *GaussianBlur) Halo() op.Halo {
	x, y := g.deviations()
	rx, ry := filter.Radius(x), filter.Radius(y)
	return op.Halo{Left: rx, Right: rx, Top: ry, Bottom: ry}
}

// Blurred output reaches as far as the halo past the input.
func (g *GaussianBlur) BoundingBox(src op.Sources) geom.Rect {
	in, _ := src.BoundingBox(op.PadInput)
	return g.Halo().Expand(in)
}

func (g *GaussianBlur) Process(ctx *op.ProcessContext, in, out *tile.Tile, _ geom.Rect) error {
	x, y := g.deviations()
	return filter.Convolve(ctx, out, in, filter.CachedGaussianKernel(x), filter.CachedGaussianKernel(y), workers(g.Workers))
}

// BoxBlur averages the (2*Radius+1)² neighborhood of each pixel.
type BoxBlur struct {
	Radius  int `yaml:"radius"`
	Workers int `yaml:"-"`
}

// NewBoxBlur returns a blur of radius 4.
func NewBoxBlur() *BoxBlur { return &BoxBlur{Radius: 4} }

func (*BoxBlur) Name() string    { return "box-blur" }
func (*BoxBlur) Kind() op.Kind   { return op.AreaFilter }
func (b *BoxBlur) Halo() op.Halo { return op.Uniform(max(b.Radius, 0)) }

func (b *BoxBlur) BoundingBox(src op.Sources) geom.Rect {
	in, _ := src.BoundingBox(op.PadInput)
	return b.Halo().Expand(in)
}

func (b *BoxBlur) Process(ctx *op.ProcessContext, in, out *tile.Tile, _ geom.Rect) error {
	k := filter.BoxKernel(b.Radius)
	return filter.Convolve(ctx, out, in, k, k, workers(b.Workers))
}

func workers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}
