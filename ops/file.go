package ops

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/internal/cache"
	"github.com/gogpu/pixflow/op"
	"github.com/gogpu/pixflow/tile"
)

// File errors.
var (
	ErrNoPath        = errors.New("ops: path is empty")
	ErrUnknownFormat = errors.New("ops: unknown image format")
)

// imageKey identifies one version of a file on disk.
type imageKey struct {
	path string
	mod  time.Time
	size int64
}

// decoded holds recently loaded images. A file that changes on disk gets
// a new key and is decoded again.
var decoded = cache.New[imageKey, image.Image](16)

// Load decodes an image file. The image is placed with its own bounds,
// which start at the origin for every supported format.
type Load struct {
	Path string `yaml:"path"`

	img image.Image
}

func (*Load) Name() string  { return "load" }
func (*Load) Kind() op.Kind { return op.Source }

func (l *Load) decode() (image.Image, error) {
	if l.Path == "" {
		return nil, ErrNoPath
	}
	fi, err := os.Stat(l.Path)
	if err != nil {
		return nil, fmt.Errorf("ops: load: %w", err)
	}
	key := imageKey{path: l.Path, mod: fi.ModTime(), size: fi.Size()}
	if img, ok := decoded.Get(key); ok {
		return img, nil
	}

	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("ops: load: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("ops: load %s: %w", l.Path, err)
	}
	decoded.Set(key, img)
	return img, nil
}

// ResolvePaths makes a relative Path relative to dir.
func (l *Load) ResolvePaths(dir string) { l.Path = resolvePath(dir, l.Path) }

func resolvePath(dir, p string) string {
	if p == "" || dir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Prepare decodes the file and picks an output format matching its depth.
func (l *Load) Prepare(p *op.Prep) error {
	img, err := l.decode()
	if err != nil {
		l.img = nil
		return err
	}
	l.img = img
	p.SetFormat(op.PadOutput, modelOf(img))
	return nil
}

func modelOf(img image.Image) tile.Model {
	switch img.ColorModel() {
	case color.GrayModel:
		return tile.GrayU8
	case color.Gray16Model:
		return tile.GrayU16
	case color.RGBA64Model, color.NRGBA64Model:
		return tile.RGBAU16
	}
	return tile.RGBAU8
}

// BoundingBox returns the image bounds, or an empty rectangle when the file
// cannot be read.
func (l *Load) BoundingBox(op.Sources) geom.Rect {
	img, err := l.decode()
	if err != nil {
		return geom.Rect{}
	}
	return geom.FromImage(img.Bounds())
}

func (l *Load) Process(ctx *op.ProcessContext, out *tile.Tile, roi geom.Rect) error {
	if l.img == nil {
		return ErrNoPath
	}
	ctx.Debug("ops: load", "path", l.Path, "roi", roi)
	readImage(out, l.img)
	return nil
}

// Save encodes its input to Path. The format follows the file extension:
// .png, .jpg/.jpeg, .tif/.tiff or .bmp. PNG and TIFF are written with 16
// bits per channel when BitDepth is 16.
type Save struct {
	Path     string `yaml:"path"`
	Quality  int    `yaml:"quality,omitempty"`
	BitDepth int    `yaml:"bit-depth,omitempty"`
}

func (*Save) Name() string    { return "save" }
func (*Save) Kind() op.Kind   { return op.Sink }
func (*Save) NeedsFull() bool { return true }

// ResolvePaths makes a relative Path relative to dir.
func (s *Save) ResolvePaths(dir string) { s.Path = resolvePath(dir, s.Path) }

func (s *Save) Prepare(*op.Prep) error {
	if s.Path == "" {
		return ErrNoPath
	}
	if _, err := s.encoder(); err != nil {
		return err
	}
	return nil
}

type encodeFunc func(w io.Writer, in *tile.Tile, r geom.Rect) error

func (s *Save) encoder() (encodeFunc, error) {
	deep := s.BitDepth == 16
	switch ext := strings.ToLower(filepath.Ext(s.Path)); ext {
	case ".png":
		return func(w io.Writer, in *tile.Tile, r geom.Rect) error {
			if deep {
				return png.Encode(w, nrgba64(in, r))
			}
			return png.Encode(w, nrgba(in, r))
		}, nil
	case ".jpg", ".jpeg":
		q := s.Quality
		if q <= 0 || q > 100 {
			q = 90
		}
		return func(w io.Writer, in *tile.Tile, r geom.Rect) error {
			return jpeg.Encode(w, nrgba(in, r), &jpeg.Options{Quality: q})
		}, nil
	case ".tif", ".tiff":
		opts := &tiff.Options{Compression: tiff.Deflate, Predictor: true}
		return func(w io.Writer, in *tile.Tile, r geom.Rect) error {
			if deep {
				return tiff.Encode(w, nrgba64(in, r), opts)
			}
			return tiff.Encode(w, nrgba(in, r), opts)
		}, nil
	case ".bmp":
		return func(w io.Writer, in *tile.Tile, r geom.Rect) error {
			return bmp.Encode(w, nrgba(in, r))
		}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, ext)
	}
}

func (s *Save) Process(ctx *op.ProcessContext, in *tile.Tile, roi geom.Rect) (err error) {
	enc, err := s.encoder()
	if err != nil {
		return err
	}
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("ops: save: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("ops: save: %w", cerr)
		}
	}()
	if err := enc(f, in, roi); err != nil {
		return fmt.Errorf("ops: save %s: %w", s.Path, err)
	}
	ctx.Debug("ops: saved", "path", s.Path, "rect", roi)
	return nil
}
