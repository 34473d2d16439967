package ops

import (
	"fmt"
	"image"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/internal/cache"
	"github.com/gogpu/pixflow/op"
	"github.com/gogpu/pixflow/tile"
)

// Text renders lines of text with their top-left corner at (X, Y).
//
// Font is the path of a TrueType or OpenType file; empty selects Go
// Regular. Lines are aligned inside Width, or inside the widest line when
// Width is 0. Align is "left", "center", "right" or "auto", which aligns
// each line by its bidi paragraph direction.
type Text struct {
	String string  `yaml:"string"`
	Font   string  `yaml:"font,omitempty"`
	Size   float64 `yaml:"size"`
	Color  RGBA    `yaml:"color"`
	X      int     `yaml:"x"`
	Y      int     `yaml:"y"`
	Width  int     `yaml:"width,omitempty"`
	Align  string  `yaml:"align,omitempty"`

	mu     sync.Mutex
	layout *textLayout
}

// NewText returns black 16 pixel text.
func NewText() *Text {
	return &Text{Size: 16, Color: RGBA{0, 0, 0, 1}, Align: "auto"}
}

func (*Text) Name() string  { return "text" }
func (*Text) Kind() op.Kind { return op.Source }

type layoutKey struct {
	s, font     string
	size        float64
	x, y, width int
	align       string
}

type textLayout struct {
	key  layoutKey
	rect geom.Rect
	mask *image.Alpha
}

// fonts holds parsed font files by path; "" is Go Regular.
var fonts = cache.New[string, *opentype.Font](8)

func loadFont(path string) (*opentype.Font, error) {
	if f, ok := fonts.Get(path); ok {
		return f, nil
	}
	data := goregular.TTF
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("ops: text: %w", err)
		}
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("ops: text: parse %q: %w", path, err)
	}
	fonts.Set(path, f)
	return f, nil
}

// rightToLeft reports whether the first strong character of s is
// right-to-left.
func rightToLeft(s string) bool {
	for len(s) > 0 {
		p, n := bidi.LookupString(s)
		switch p.Class() {
		case bidi.R, bidi.AL:
			return true
		case bidi.L:
			return false
		}
		if n == 0 {
			_, n = utf8.DecodeRuneInString(s)
		}
		s = s[n:]
	}
	return false
}

func (t *Text) lineOffset(line string, slack int) int {
	align := t.Align
	if align == "" || align == "auto" {
		align = "left"
		if rightToLeft(line) {
			align = "right"
		}
	}
	switch align {
	case "right":
		return slack
	case "center":
		return slack / 2
	}
	return 0
}

func (t *Text) prepareLayout() (*textLayout, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := layoutKey{t.String, t.Font, t.Size, t.X, t.Y, t.Width, t.Align}
	if t.layout != nil && t.layout.key == key {
		return t.layout, nil
	}

	f, err := loadFont(t.Font)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: t.Size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("ops: text: %w", err)
	}
	defer face.Close()

	m := face.Metrics()
	lineHeight, ascent := m.Height.Ceil(), m.Ascent.Ceil()
	lines := strings.Split(t.String, "\n")
	advances := make([]int, len(lines))
	width := t.Width
	for i, line := range lines {
		advances[i] = font.MeasureString(face, line).Ceil()
		if t.Width <= 0 {
			width = max(width, advances[i])
		}
	}

	l := &textLayout{key: key, rect: geom.R(t.X, t.Y, width, lineHeight*len(lines))}
	if !l.rect.IsEmpty() {
		l.mask = image.NewAlpha(l.rect.Image())
		d := font.Drawer{Dst: l.mask, Src: image.Opaque, Face: face}
		for i, line := range lines {
			x := t.X + t.lineOffset(line, width-advances[i])
			d.Dot = fixed.P(x, t.Y+i*lineHeight+ascent)
			d.DrawString(line)
		}
	}
	t.layout = l
	return l, nil
}

// ResolvePaths makes a relative Font path relative to dir.
func (t *Text) ResolvePaths(dir string) { t.Font = resolvePath(dir, t.Font) }

func (t *Text) Prepare(*op.Prep) error {
	_, err := t.prepareLayout()
	return err
}

// BoundingBox returns the extent of the layout: line height times the
// number of lines, by the aligned width.
func (t *Text) BoundingBox(op.Sources) geom.Rect {
	l, err := t.prepareLayout()
	if err != nil {
		return geom.Rect{}
	}
	return l.rect
}

func (t *Text) Process(_ *op.ProcessContext, out *tile.Tile, roi geom.Rect) error {
	l, err := t.prepareLayout()
	if err != nil || l.mask == nil {
		return err
	}
	px := make([]float32, 4)
	r := roi.Intersect(l.rect)
	for y := r.Y; y < r.MaxY(); y++ {
		for x := r.X; x < r.MaxX(); x++ {
			a := l.mask.AlphaAt(x, y).A
			if a == 0 {
				continue
			}
			copy(px, t.Color[:3])
			px[3] = t.Color[3] * float32(a) / 0xff
			out.SetPixel(x, y, px)
		}
	}
	return nil
}
