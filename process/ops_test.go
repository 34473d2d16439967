package process

import (
	"errors"

	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/op"
	"github.com/gogpu/pixflow/scanline"
	"github.com/gogpu/pixflow/tile"
)

// Operations used by the tests of this package.

type flatSource struct {
	value float32
	box   geom.Rect // empty means infinite
	calls int
	rects []geom.Rect
}

func (*flatSource) Name() string  { return "flat" }
func (*flatSource) Kind() op.Kind { return op.Source }

func (s *flatSource) BoundingBox(op.Sources) geom.Rect {
	if s.box.IsEmpty() {
		return geom.Infinite()
	}
	return s.box
}

func (s *flatSource) Process(_ *op.ProcessContext, out *tile.Tile, roi geom.Rect) error {
	s.calls++
	s.rects = append(s.rects, roi)
	out.Fill([]float32{s.value, s.value, s.value, 1})
	return nil
}

// gradientSource stores x+y/100 in every channel of pixel (x, y).
type gradientSource struct{}

func (gradientSource) Name() string  { return "gradient" }
func (gradientSource) Kind() op.Kind { return op.Source }

func (gradientSource) Process(_ *op.ProcessContext, out *tile.Tile, roi geom.Rect) error {
	for y := roi.Y; y < roi.MaxY(); y++ {
		for x := roi.X; x < roi.MaxX(); x++ {
			v := float32(x) + float32(y)/100
			out.SetPixel(x, y, []float32{v, v, v, 1})
		}
	}
	return nil
}

type invert struct {
	format tile.Model
}

func (*invert) Name() string  { return "invert" }
func (*invert) Kind() op.Kind { return op.PointFilter }

func (i *invert) Prepare(p *op.Prep) error {
	if i.format != (tile.Model{}) {
		p.SetFormat(op.PadInput, i.format)
		p.SetFormat(op.PadOutput, i.format)
	}
	return nil
}

var invertTable = scanline.NewTable().
	Register(tile.SpaceRGB, tile.TypeFloat, func(_ any, its []*tile.Iterator, w int) {
		in, out := its[0], its[1]
		if in == nil {
			return
		}
		src, dst := in.ColorChannels(), out.ColorChannels()
		for c := range src {
			for x := range w {
				dst[c].F32[x] = 1 - src[c].F32[x]
			}
		}
		a, _ := in.AlphaChannel()
		da, _ := out.AlphaChannel()
		copy(da.F32, a.F32)
	})

func (*invert) Scanline() *scanline.Table { return invertTable }

// areaCopy is an AreaFilter that records the input rectangle it got.
type areaCopy struct {
	halo int
	got  []geom.Rect
}

func (*areaCopy) Name() string    { return "area-copy" }
func (*areaCopy) Kind() op.Kind   { return op.AreaFilter }
func (a *areaCopy) Halo() op.Halo { return op.Uniform(a.halo) }

func (a *areaCopy) Process(_ *op.ProcessContext, in, out *tile.Tile, _ geom.Rect) error {
	a.got = append(a.got, in.Rect())
	tile.Copy(out, in)
	return nil
}

// passComposer tolerates a missing aux and passes input through.
type passComposer struct {
	auxRequired bool
	sawAux      bool
}

func (*passComposer) Name() string        { return "pass-composer" }
func (*passComposer) Kind() op.Kind       { return op.Composer }
func (c *passComposer) AuxRequired() bool { return c.auxRequired }

func (c *passComposer) Process(_ *op.ProcessContext, in, aux, out *tile.Tile, _ geom.Rect) error {
	c.sawAux = aux != nil
	tile.Copy(out, in)
	return nil
}

type collect struct {
	rects  []geom.Rect
	pixels map[[2]int][]float32
}

func (*collect) Name() string  { return "collect" }
func (*collect) Kind() op.Kind { return op.Sink }

func (s *collect) Process(_ *op.ProcessContext, in *tile.Tile, roi geom.Rect) error {
	if s.pixels == nil {
		s.pixels = make(map[[2]int][]float32)
	}
	s.rects = append(s.rects, roi)
	for y := roi.Y; y < roi.MaxY(); y++ {
		for x := roi.X; x < roi.MaxX(); x++ {
			s.pixels[[2]int{x, y}] = in.Pixel(x, y, nil)
		}
	}
	return nil
}

var errBroken = errors.New("broken")

type broken struct{}

func (broken) Name() string  { return "broken" }
func (broken) Kind() op.Kind { return op.Filter }

func (broken) Process(*op.ProcessContext, *tile.Tile, *tile.Tile, geom.Rect) error {
	return errBroken
}

// nopFilter forwards its input.
type nopFilter struct{}

func (nopFilter) Name() string      { return "nop" }
func (nopFilter) Kind() op.Kind     { return op.Filter }
func (nopFilter) PassThrough() bool { return true }

// shell is a Meta operation wrapping an inverted area copy.
type shell struct{}

func (shell) Name() string  { return "shell" }
func (shell) Kind() op.Kind { return op.Meta }

func (shell) Attach(g op.Subgraph) error {
	a, err := g.Add(&areaCopy{halo: 1})
	if err != nil {
		return err
	}
	inv, err := g.Add(&invert{})
	if err != nil {
		return err
	}
	if err := g.Connect(g.Input(op.PadInput), a, op.PadInput); err != nil {
		return err
	}
	if err := g.Connect(a, inv, op.PadInput); err != nil {
		return err
	}
	return g.Connect(inv, g.Output(), op.PadInput)
}
