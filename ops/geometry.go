package ops

import (
	"errors"
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/op"
	"github.com/gogpu/pixflow/tile"
)

// Crop limits its input to a rectangle.
type Crop struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func (*Crop) Name() string  { return "crop" }
func (*Crop) Kind() op.Kind { return op.Filter }

func (c *Crop) rect() geom.Rect { return geom.R(c.X, c.Y, c.Width, c.Height) }

func (c *Crop) BoundingBox(src op.Sources) geom.Rect {
	in, _ := src.BoundingBox(op.PadInput)
	return in.Intersect(c.rect())
}

func (c *Crop) InvalidatedByChange(_ string, r geom.Rect) geom.Rect {
	return r.Intersect(c.rect())
}

func (*Crop) Process(_ *op.ProcessContext, in, out *tile.Tile, _ geom.Rect) error {
	tile.Copy(out, in)
	return nil
}

// Translate moves its input by whole pixels.
type Translate struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (*Translate) Name() string  { return "translate" }
func (*Translate) Kind() op.Kind { return op.Filter }

func (t *Translate) BoundingBox(src op.Sources) geom.Rect {
	in, _ := src.BoundingBox(op.PadInput)
	return in.Translate(t.X, t.Y)
}

func (t *Translate) RequiredForOutput(_ string, roi geom.Rect) geom.Rect {
	return roi.Translate(-t.X, -t.Y)
}

func (t *Translate) InvalidatedByChange(_ string, r geom.Rect) geom.Rect {
	return r.Translate(t.X, t.Y)
}

func (t *Translate) Process(_ *op.ProcessContext, in, out *tile.Tile, roi geom.Rect) error {
	for y := roi.Y; y < roi.MaxY(); y++ {
		for c := range out.Model().NumChannels() {
			dst := out.Row(c, roi.X, y).Slice(0, roi.Width)
			dst.CopyFrom(in.Row(c, roi.X-t.X, y-t.Y).Slice(0, roi.Width))
		}
	}
	return nil
}

// ErrBadScale is returned for a non-positive scale factor.
var ErrBadScale = errors.New("ops: scale factors must be positive")

// Scale resamples its input by X horizontally and Y vertically around the
// canvas origin. Sampler is "nearest", "linear" or "cubic".
type Scale struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Sampler string  `yaml:"sampler,omitempty"`
}

// NewScale returns an identity Scale with linear sampling.
func NewScale() *Scale { return &Scale{X: 1, Y: 1, Sampler: "linear"} }

func (*Scale) Name() string  { return "scale" }
func (*Scale) Kind() op.Kind { return op.Filter }

func (s *Scale) Prepare(*op.Prep) error {
	if s.X <= 0 || s.Y <= 0 {
		return ErrBadScale
	}
	return nil
}

func (s *Scale) interpolator() (draw.Interpolator, int) {
	switch s.Sampler {
	case "nearest":
		return draw.NearestNeighbor, 1
	case "cubic":
		return draw.CatmullRom, 2
	default:
		return draw.BiLinear, 1
	}
}

// scaleRect maps r through the factors and grows it by margin output
// pixels.
func scaleRect(r geom.Rect, sx, sy float64, margin int) geom.Rect {
	if r.IsEmpty() || r.IsInfinite() {
		return r
	}
	x0 := int(math.Floor(float64(r.X)*sx)) - margin
	y0 := int(math.Floor(float64(r.Y)*sy)) - margin
	x1 := int(math.Ceil(float64(r.MaxX())*sx)) + margin
	y1 := int(math.Ceil(float64(r.MaxY())*sy)) + margin
	return geom.R(x0, y0, x1-x0, y1-y0)
}

func (s *Scale) BoundingBox(src op.Sources) geom.Rect {
	in, _ := src.BoundingBox(op.PadInput)
	if s.X <= 0 || s.Y <= 0 {
		return geom.Rect{}
	}
	return scaleRect(in, s.X, s.Y, 0)
}

func (s *Scale) RequiredForOutput(_ string, roi geom.Rect) geom.Rect {
	if s.X <= 0 || s.Y <= 0 {
		return geom.Rect{}
	}
	_, m := s.interpolator()
	return scaleRect(roi, 1/s.X, 1/s.Y, m)
}

func (s *Scale) InvalidatedByChange(_ string, r geom.Rect) geom.Rect {
	_, m := s.interpolator()
	return scaleRect(r, s.X, s.Y, int(math.Ceil(float64(m)*max(s.X, s.Y))))
}

func (s *Scale) Process(_ *op.ProcessContext, in, out *tile.Tile, roi geom.Rect) error {
	interp, _ := s.interpolator()
	src := rgba64(in, in.Rect())
	dst := image.NewRGBA64(roi.Image())
	s2d := f64.Aff3{s.X, 0, 0, 0, s.Y, 0}
	interp.Transform(dst, s2d, src, src.Bounds(), draw.Src, nil)
	readImage(out, dst)
	return nil
}
