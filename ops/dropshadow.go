package ops

import (
	"github.com/gogpu/pixflow/op"
	"github.com/gogpu/pixflow/scanline"
	"github.com/gogpu/pixflow/tile"
)

// DropShadow composites its input over a blurred, offset copy of its
// alpha painted in Color. It is a Meta operation:
//
//	input ─┬─ silhouette ─ translate ─ gaussian-blur ─ over ─ output
//	       └──────────────────────────────────────────┘ (aux)
//
// Property changes made through graph.Node.Update reach the internal
// nodes through UpdateSubgraph.
type DropShadow struct {
	X       int     `yaml:"x"`
	Y       int     `yaml:"y"`
	StdDev  float64 `yaml:"std-dev"`
	Color   RGBA    `yaml:"color"`
	Opacity float32 `yaml:"opacity"`

	shape     *silhouette
	translate *Translate
	blur      *GaussianBlur
}

// NewDropShadow returns a half-transparent black shadow offset by 10
// pixels.
func NewDropShadow() *DropShadow {
	return &DropShadow{X: 10, Y: 10, StdDev: 3, Color: RGBA{0, 0, 0, 1}, Opacity: 0.5}
}

func (*DropShadow) Name() string  { return "dropshadow" }
func (*DropShadow) Kind() op.Kind { return op.Meta }

func (d *DropShadow) Attach(g op.Subgraph) error {
	d.shape, d.translate, d.blur = &silhouette{}, &Translate{}, &GaussianBlur{}
	var nodes []op.NodeRef
	for _, o := range []op.Operation{d.shape, d.translate, d.blur, &Over{}} {
		n, err := g.Add(o)
		if err != nil {
			return err
		}
		nodes = append(nodes, n)
	}
	shape, move, blur, over := nodes[0], nodes[1], nodes[2], nodes[3]
	in := g.Input(op.PadInput)

	links := []struct {
		src, dst op.NodeRef
		pad      string
	}{
		{in, shape, op.PadInput},
		{shape, move, op.PadInput},
		{move, blur, op.PadInput},
		{blur, over, op.PadInput},
		{in, over, op.PadAux},
		{over, g.Output(), op.PadInput},
	}
	for _, l := range links {
		if err := g.Connect(l.src, l.dst, l.pad); err != nil {
			return err
		}
	}
	d.UpdateSubgraph()
	return nil
}

// UpdateSubgraph copies the properties to the internal operations.
func (d *DropShadow) UpdateSubgraph() {
	if d.shape == nil {
		return
	}
	d.shape.color = d.Color
	d.shape.color[3] *= d.Opacity
	d.translate.X, d.translate.Y = d.X, d.Y
	d.blur.StdDev = d.StdDev
}

// silhouette paints color wherever its input is opaque, scaled by the
// input alpha.
type silhouette struct {
	color RGBA
}

func (*silhouette) Name() string  { return "silhouette" }
func (*silhouette) Kind() op.Kind { return op.PointFilter }

var silhouetteTable = scanline.NewTable().
	Register(tile.SpaceRGB, tile.TypeFloat, silhouetteFloat)

func (*silhouette) Scanline() *scanline.Table { return silhouetteTable }

func silhouetteFloat(o any, its []*tile.Iterator, w int) {
	col := o.(*silhouette).color
	in, out := its[0], its[1]
	var src, dst [4][]float32
	planes(in, &src, w)
	planes(out, &dst, w)
	for x := range w {
		for c := range 3 {
			dst[c][x] = col[c]
		}
		dst[3][x] = src[3][x] * col[3]
	}
}
