package tile

import (
	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/internal/color"
)

// Copy copies the overlap of src and dst into dst, converting between
// models as needed. Gray expands to equal RGB channels, RGB reduces to
// luminance, a missing source alpha reads as opaque and a missing
// destination alpha is dropped. Alpha is straight, not premultiplied.
//
// It returns the copied rectangle, which is empty when the tiles do not
// overlap or either is nil.
func Copy(dst, src *Tile) geom.Rect {
	if dst == nil || src == nil {
		return geom.Rect{}
	}
	r := dst.rect.Intersect(src.rect)
	if r.IsEmpty() {
		return r
	}
	if dst.model == src.model {
		for y := r.Y; y < r.MaxY(); y++ {
			for c := range dst.planes {
				dst.Row(c, r.X, y).Slice(0, r.Width).CopyFrom(src.Row(c, r.X, y).Slice(0, r.Width))
			}
		}
		return r
	}

	var in, out [4]float32
	sa, da := src.model.AlphaIndex(), dst.model.AlphaIndex()
	sColors, dColors := src.model.NumColors(), dst.model.NumColors()
	for y := r.Y; y < r.MaxY(); y++ {
		si := src.offset(r.X, y)
		di := dst.offset(r.X, y)
		for x := 0; x < r.Width; x, si, di = x+1, si+1, di+1 {
			for c := range src.planes {
				in[c] = src.planes[c].Float(si)
			}
			switch {
			case sColors == dColors:
				copy(out[:dColors], in[:sColors])
			case sColors == 1:
				out[0], out[1], out[2] = in[0], in[0], in[0]
			default:
				out[0] = color.Luminance(in[0], in[1], in[2])
			}
			if da >= 0 {
				out[da] = 1
				if sa >= 0 {
					out[da] = in[sa]
				}
			}
			for c := range dst.planes {
				dst.planes[c].SetFloat(di, out[c])
			}
		}
	}
	return r
}

// Cover returns a tile in model m that covers r with the pixels of src.
// When src already has model m and contains r it is returned with an extra
// reference; otherwise a new tile is allocated from p and the part of r
// outside src stays zero. The caller owns one reference either way.
func Cover(p *Pool, src *Tile, r geom.Rect, m Model) (*Tile, error) {
	if src != nil && src.model == m && src.rect.Contains(r) {
		return src.Ref(), nil
	}
	t, err := p.Get(r, m)
	if err != nil {
		return nil, err
	}
	Copy(t, src)
	return t, nil
}
