package ops

import (
	"github.com/gogpu/pixflow/internal/blend"
	"github.com/gogpu/pixflow/op"
	"github.com/gogpu/pixflow/scanline"
	"github.com/gogpu/pixflow/tile"
)

// copyAlpha copies the alpha run of in to out when both have alpha.
func copyAlpha(in, out *tile.Iterator) {
	a, ok := in.AlphaChannel()
	da, dok := out.AlphaChannel()
	if ok && dok {
		da.CopyFrom(a)
	}
}

// Invert replaces every color channel c with 1-c. It works in the format
// of its input when that is float or 8-bit, without conversion.
type Invert struct{}

func (*Invert) Name() string  { return "invert" }
func (*Invert) Kind() op.Kind { return op.PointFilter }

var invertTable = scanline.NewTable().
	Register(tile.SpaceRGB, tile.TypeFloat, invertFloat).
	Register(tile.SpaceGray, tile.TypeFloat, invertFloat).
	Register(tile.SpaceRGB, tile.TypeU8, invertU8).
	Register(tile.SpaceGray, tile.TypeU8, invertU8)

func (*Invert) Scanline() *scanline.Table { return invertTable }

func (*Invert) Prepare(p *op.Prep) error {
	m, ok := p.Source(op.PadInput)
	if !ok {
		return nil
	}
	if _, err := invertTable.Lookup(m.Space, m.Type); err == nil {
		p.SetFormat(op.PadInput, m)
		p.SetFormat(op.PadOutput, m)
	}
	return nil
}

func invertFloat(_ any, its []*tile.Iterator, w int) {
	in, out := its[0], its[1]
	src, dst := in.ColorChannels(), out.ColorChannels()
	for c := range dst {
		s, d := src[c].F32[:w], dst[c].F32[:w]
		for x := range d {
			d[x] = 1 - s[x]
		}
	}
	copyAlpha(in, out)
}

func invertU8(_ any, its []*tile.Iterator, w int) {
	in, out := its[0], its[1]
	src, dst := in.ColorChannels(), out.ColorChannels()
	for c := range dst {
		s, d := src[c].U8[:w], dst[c].U8[:w]
		for x := range d {
			d[x] = 0xff - s[x]
		}
	}
	copyAlpha(in, out)
}

// Opacity multiplies alpha by Value and, when aux is connected, by the
// gray level of aux.
type Opacity struct {
	Value float32 `yaml:"value"`
}

// NewOpacity returns an Opacity that keeps its input unchanged.
func NewOpacity() *Opacity { return &Opacity{Value: 1} }

func (*Opacity) Name() string  { return "opacity" }
func (*Opacity) Kind() op.Kind { return op.PointComposer }

var opacityTable = scanline.NewTable().
	Register(tile.SpaceRGB, tile.TypeFloat, opacityFloat)

func (*Opacity) Scanline() *scanline.Table { return opacityTable }

func (*Opacity) Prepare(p *op.Prep) error {
	p.SetFormat(op.PadAux, tile.GrayFloat)
	return nil
}

func opacityFloat(o any, its []*tile.Iterator, w int) {
	v := o.(*Opacity).Value
	in, aux, out := its[0], its[1], its[2]
	src, dst := in.ColorChannels(), out.ColorChannels()
	for c := range dst {
		dst[c].CopyFrom(src[c])
	}
	a, _ := in.AlphaChannel()
	da, _ := out.AlphaChannel()
	sa, d := a.F32[:w], da.F32[:w]
	if aux == nil {
		for x := range d {
			d[x] = sa[x] * v
		}
		return
	}
	m := aux.ColorChannels()[0].F32[:w]
	for x := range d {
		d[x] = sa[x] * v * m[x]
	}
}

// Over composites aux onto input with Mode, one of the modes of the blend
// package such as "over", "multiply" or "dst-out". Without aux the input
// passes unchanged.
type Over struct {
	Mode string `yaml:"mode,omitempty"`

	mode blend.Mode
}

func (*Over) Name() string  { return "over" }
func (*Over) Kind() op.Kind { return op.PointComposer }

var overTable = scanline.NewTable().
	Register(tile.SpaceRGB, tile.TypeFloat, overFloat)

func (*Over) Scanline() *scanline.Table { return overTable }

func (o *Over) Prepare(*op.Prep) error {
	o.mode = blend.Over
	if o.Mode == "" {
		return nil
	}
	m, err := blend.ParseMode(o.Mode)
	if err != nil {
		return err
	}
	o.mode = m
	return nil
}

func overFloat(o any, its []*tile.Iterator, w int) {
	mode := o.(*Over).mode
	in, aux, out := its[0], its[1], its[2]
	var base, res [4][]float32
	planes(in, &base, w)
	planes(out, &res, w)
	if aux == nil {
		for c := range res {
			copy(res[c], base[c])
		}
		return
	}
	var top [4][]float32
	planes(aux, &top, w)
	for x := range w {
		d := blend.Color{base[0][x], base[1][x], base[2][x], base[3][x]}
		s := blend.Color{top[0][x], top[1][x], top[2][x], top[3][x]}
		r := blend.Blend(mode, s, d)
		for c := range r {
			res[c][x] = r[c]
		}
	}
}

// planes stores the float runs of an RGBA iterator's current row.
func planes(it *tile.Iterator, into *[4][]float32, w int) {
	for c, s := range it.ColorChannels() {
		into[c] = s.F32[:w]
	}
	a, _ := it.AlphaChannel()
	into[3] = a.F32[:w]
}
