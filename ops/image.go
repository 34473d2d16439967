package ops

import (
	"image"
	"image/color"

	"github.com/gogpu/pixflow/geom"
	pxcolor "github.com/gogpu/pixflow/internal/color"
	"github.com/gogpu/pixflow/tile"
)

// readImage copies the pixels of img that fall inside dst into dst. Image
// coordinates are canvas coordinates.
func readImage(dst *tile.Tile, img image.Image) {
	r := dst.Rect().Intersect(geom.FromImage(img.Bounds()))
	px := make([]float32, 4)
	for y := r.Y; y < r.MaxY(); y++ {
		for x := r.X; x < r.MaxX(); x++ {
			c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
			px[0] = pxcolor.U16ToF32(c.R)
			px[1] = pxcolor.U16ToF32(c.G)
			px[2] = pxcolor.U16ToF32(c.B)
			px[3] = pxcolor.U16ToF32(c.A)
			writeRGBA(dst, x, y, px)
		}
	}
}

// writeRGBA stores an RGBA pixel in a tile of any model.
func writeRGBA(t *tile.Tile, x, y int, px []float32) {
	m := t.Model()
	if m.Space == tile.SpaceRGB && m.Alpha {
		t.SetPixel(x, y, px)
		return
	}
	var v [4]float32
	n := 0
	if m.Space == tile.SpaceGray {
		v[0] = pxcolor.Luminance(px[0], px[1], px[2])
		n = 1
	} else {
		copy(v[:3], px[:3])
		n = 3
	}
	if m.Alpha {
		v[n] = px[3]
		n++
	}
	t.SetPixel(x, y, v[:n])
}

// readRGBA returns pixel (x, y) of t as straight RGBA.
func readRGBA(t *tile.Tile, x, y int, px []float32) []float32 {
	px = px[:4]
	v := t.Pixel(x, y, nil)
	m := t.Model()
	if m.Space == tile.SpaceGray {
		px[0], px[1], px[2] = v[0], v[0], v[0]
	} else {
		copy(px[:3], v[:3])
	}
	px[3] = 1
	if a := m.AlphaIndex(); a >= 0 {
		px[3] = v[a]
	}
	return px
}

// nrgba64 converts r of t to a straight-alpha 16-bit image.
func nrgba64(t *tile.Tile, r geom.Rect) *image.NRGBA64 {
	img := image.NewNRGBA64(r.Image())
	px := make([]float32, 4)
	for y := r.Y; y < r.MaxY(); y++ {
		for x := r.X; x < r.MaxX(); x++ {
			px = readRGBA(t, x, y, px)
			img.SetNRGBA64(x, y, color.NRGBA64{R: pxcolor.F32ToU16(px[0]), G: pxcolor.F32ToU16(px[1]), B: pxcolor.F32ToU16(px[2]), A: pxcolor.F32ToU16(px[3])})
		}
	}
	return img
}

// nrgba converts r of t to a straight-alpha 8-bit image.
func nrgba(t *tile.Tile, r geom.Rect) *image.NRGBA {
	img := image.NewNRGBA(r.Image())
	px := make([]float32, 4)
	for y := r.Y; y < r.MaxY(); y++ {
		for x := r.X; x < r.MaxX(); x++ {
			px = readRGBA(t, x, y, px)
			img.SetNRGBA(x, y, color.NRGBA{R: pxcolor.F32ToU8(px[0]), G: pxcolor.F32ToU8(px[1]), B: pxcolor.F32ToU8(px[2]), A: pxcolor.F32ToU8(px[3])})
		}
	}
	return img
}

// rgba64 converts r of t to a premultiplied 16-bit image, the layout the
// x/image/draw interpolators blend in.
func rgba64(t *tile.Tile, r geom.Rect) *image.RGBA64 {
	img := image.NewRGBA64(r.Image())
	px := make([]float32, 4)
	for y := r.Y; y < r.MaxY(); y++ {
		for x := r.X; x < r.MaxX(); x++ {
			px = readRGBA(t, x, y, px)
			a := clamp01(px[3])
			img.SetRGBA64(x, y, color.RGBA64{
				R: pxcolor.F32ToU16(clamp01(px[0]) * a),
				G: pxcolor.F32ToU16(clamp01(px[1]) * a),
				B: pxcolor.F32ToU16(clamp01(px[2]) * a),
				A: pxcolor.F32ToU16(a),
			})
		}
	}
	return img
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}
