package filter

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/pixflow/tile"
)

// ErrFormat is returned when Convolve is given tiles that are not RGBA
// float.
var ErrFormat = errors.New("filter: convolution needs rgba-float tiles")

// Convolve filters src with kx horizontally and ky vertically and writes
// the rectangle of dst. Pixels outside src read as zero, so src should
// cover dst grown by half of each kernel. Colors are filtered
// premultiplied by alpha.
//
// Row bands of each pass run on up to workers goroutines. Cancelling ctx
// stops the bands not yet started.
func Convolve(ctx context.Context, dst, src *tile.Tile, kx, ky []float32, workers int) error {
	if src.Model() != tile.RGBAFloat || dst.Model() != tile.RGBAFloat {
		return ErrFormat
	}
	dr, sr := dst.Rect(), src.Rect()
	hx, hy := len(kx)/2, len(ky)/2
	w, rows := dr.Width, dr.Height+2*hy
	y0 := dr.Y - hy

	var tmp [4][]float32
	for c := range tmp {
		tmp[c] = make([]float32, w*rows)
	}

	alpha := src.Model().AlphaIndex()
	horizontal := func(lo, hi int) {
		for r := lo; r < hi; r++ {
			y := y0 + r
			if y < sr.Y || y >= sr.MaxY() {
				continue
			}
			a := src.Row(alpha, sr.X, y).F32
			for c := range tmp {
				row := src.Row(c, sr.X, y).F32
				out := tmp[c][r*w : (r+1)*w]
				for x := range out {
					sx := dr.X + x - hx - sr.X
					var sum float32
					for k, wgt := range kx {
						i := sx + k
						if i < 0 || i >= sr.Width {
							continue
						}
						v := row[i]
						if c != alpha {
							v *= a[i]
						}
						sum += v * wgt
					}
					out[x] = sum
				}
			}
		}
	}

	vertical := func(lo, hi int) {
		for y := lo; y < hi; y++ {
			for c := range tmp {
				out := dst.Row(c, dr.X, dr.Y+y).F32[:w]
				for x := range out {
					var sum float32
					for k, wgt := range ky {
						sum += tmp[c][(y+k)*w+x] * wgt
					}
					out[x] = sum
				}
			}
			a := dst.Row(alpha, dr.X, dr.Y+y).F32[:w]
			for c := range alpha {
				out := dst.Row(c, dr.X, dr.Y+y).F32[:w]
				for x := range out {
					if a[x] > 0 {
						out[x] /= a[x]
					}
				}
			}
		}
	}

	if err := parallel(ctx, rows, workers, horizontal); err != nil {
		return err
	}
	return parallel(ctx, dr.Height, workers, vertical)
}

// parallel calls fn on consecutive bands of [0, n).
func parallel(ctx context.Context, n, workers int, fn func(lo, hi int)) error {
	if n <= 0 {
		return nil
	}
	workers = max(workers, 1)
	band := (n + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < n; lo += band {
		hi := min(lo+band, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(lo, hi)
			return nil
		})
	}
	return g.Wait()
}
