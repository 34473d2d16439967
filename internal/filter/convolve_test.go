package filter

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/tile"
)

func newTile(t testing.TB, r geom.Rect) *tile.Tile {
	t.Helper()
	tl, err := tile.New(r, tile.RGBAFloat)
	if err != nil {
		t.Fatal(err)
	}
	return tl
}

func TestConvolveIdentity(t *testing.T) {
	src := newTile(t, geom.R(0, 0, 8, 8))
	defer src.Unref()
	for y := range 8 {
		for x := range 8 {
			src.SetPixel(x, y, []float32{float32(x) / 8, float32(y) / 8, 0.5, 1})
		}
	}
	dst := newTile(t, geom.R(2, 2, 4, 4))
	defer dst.Unref()

	if err := Convolve(context.Background(), dst, src, []float32{1}, []float32{1}, 2); err != nil {
		t.Fatal(err)
	}
	for y := 2; y < 6; y++ {
		for x := 2; x < 6; x++ {
			got, want := dst.Pixel(x, y, nil), src.Pixel(x, y, nil)
			for c := range got {
				if math.Abs(float64(got[c]-want[c])) > 1e-6 {
					t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
				}
			}
		}
	}
}

func TestConvolveFlatInterior(t *testing.T) {
	src := newTile(t, geom.R(0, 0, 16, 16))
	defer src.Unref()
	src.Fill([]float32{0.2, 0.4, 0.6, 1})
	dst := newTile(t, geom.R(0, 0, 16, 16))
	defer dst.Unref()

	k := BoxKernel(2)
	if err := Convolve(context.Background(), dst, src, k, k, 4); err != nil {
		t.Fatal(err)
	}
	// Far from the edges a flat field stays flat.
	if got := dst.Pixel(8, 8, nil); math.Abs(float64(got[1]-0.4)) > 1e-5 || math.Abs(float64(got[3]-1)) > 1e-5 {
		t.Errorf("interior pixel = %v, want [0.2 0.4 0.6 1]", got)
	}
	// At the corner, zeros outside the source pull alpha down while the
	// unpremultiplied color is preserved.
	got := dst.Pixel(0, 0, nil)
	if math.Abs(float64(got[3]-9.0/25)) > 1e-5 {
		t.Errorf("corner alpha = %v, want %v", got[3], 9.0/25)
	}
	if math.Abs(float64(got[1]-0.4)) > 1e-5 {
		t.Errorf("corner green = %v, want 0.4", got[1])
	}
}

func TestConvolveParallelMatchesSerial(t *testing.T) {
	src := newTile(t, geom.R(-5, -5, 40, 30))
	defer src.Unref()
	for y := -5; y < 25; y++ {
		for x := -5; x < 35; x++ {
			v := float32((x*7+y*13)%17) / 17
			src.SetPixel(x, y, []float32{v, 1 - v, v / 2, 1})
		}
	}
	k := GaussianKernel(1.5)
	one := newTile(t, geom.R(0, 0, 30, 20))
	defer one.Unref()
	many := newTile(t, geom.R(0, 0, 30, 20))
	defer many.Unref()

	if err := Convolve(context.Background(), one, src, k, k, 1); err != nil {
		t.Fatal(err)
	}
	if err := Convolve(context.Background(), many, src, k, k, 7); err != nil {
		t.Fatal(err)
	}
	for y := range 20 {
		for x := range 30 {
			a, b := one.Pixel(x, y, nil), many.Pixel(x, y, nil)
			for c := range a {
				if a[c] != b[c] {
					t.Fatalf("pixel (%d,%d): serial %v, parallel %v", x, y, a, b)
				}
			}
		}
	}
}

func TestConvolveErrors(t *testing.T) {
	src := newTile(t, geom.R(0, 0, 4, 4))
	defer src.Unref()
	gray, err := tile.New(geom.R(0, 0, 4, 4), tile.GrayFloat)
	if err != nil {
		t.Fatal(err)
	}
	defer gray.Unref()

	if err := Convolve(context.Background(), gray, src, []float32{1}, []float32{1}, 1); !errors.Is(err, ErrFormat) {
		t.Errorf("error = %v, want ErrFormat", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dst := newTile(t, geom.R(0, 0, 4, 4))
	defer dst.Unref()
	if err := Convolve(ctx, dst, src, []float32{1}, []float32{1}, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func BenchmarkConvolve(b *testing.B) {
	src := newTile(b, geom.R(-6, -6, 268, 268))
	defer src.Unref()
	src.Fill([]float32{0.5, 0.5, 0.5, 1})
	dst := newTile(b, geom.R(0, 0, 256, 256))
	defer dst.Unref()
	k := CachedGaussianKernel(2)
	for b.Loop() {
		_ = Convolve(context.Background(), dst, src, k, k, 4)
	}
}
