package ops

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/graph"
	"github.com/gogpu/pixflow/op"
	"github.com/gogpu/pixflow/process"
	"github.com/gogpu/pixflow/tile"
)

func TestCrop(t *testing.T) {
	g := graph.New()
	c := add(t, g, &Color{Value: RGBA{1, 0, 0, 1}})
	cr := &Crop{X: 2, Y: 3, Width: 4, Height: 5}
	n := add(t, g, cr)
	connect(t, g, c, n, op.PadInput)

	want := geom.R(2, 3, 4, 5)
	if got := graph.BoundingBox(n); got != want {
		t.Errorf("BoundingBox = %v, want %v", got, want)
	}
	if got := cr.InvalidatedByChange(op.PadInput, geom.R(0, 0, 4, 4)); got != geom.R(2, 3, 2, 1) {
		t.Errorf("InvalidatedByChange = %v, want 2,3 2×1", got)
	}

	out := render(t, n, geom.R(0, 0, 10, 10))
	if got := out.Pixel(5, 7, nil)[0]; got != 1 {
		t.Errorf("pixel inside crop = %v, want 1", got)
	}
	if got := out.Pixel(1, 1, nil)[3]; got != 0 {
		t.Errorf("alpha outside crop = %v, want 0", got)
	}
}

func TestTranslate(t *testing.T) {
	src := solid(t, geom.R(0, 0, 2, 2), 0, 0, 0, 0)
	src.SetPixel(1, 0, []float32{1, 0, 0, 1})

	g := graph.New()
	s := add(t, g, &BufferSource{Tile: src})
	tr := &Translate{X: 3, Y: -1}
	n := add(t, g, tr)
	connect(t, g, s, n, op.PadInput)

	want := geom.R(3, -1, 2, 2)
	if got := graph.BoundingBox(n); got != want {
		t.Errorf("BoundingBox = %v, want %v", got, want)
	}
	if got := tr.RequiredForOutput(op.PadInput, want); got != src.Rect() {
		t.Errorf("RequiredForOutput = %v, want %v", got, src.Rect())
	}
	if got := tr.InvalidatedByChange(op.PadInput, geom.R(0, 0, 1, 1)); got != geom.R(3, -1, 1, 1) {
		t.Errorf("InvalidatedByChange = %v, want 3,-1 1×1", got)
	}

	out := render(t, n, want)
	if diff := cmp.Diff([]float32{1, 0, 0, 1}, out.Pixel(4, -1, nil)); diff != "" {
		t.Errorf("moved pixel mismatch (-want +got):\n%s", diff)
	}
	if got := out.Pixel(3, -1, nil)[3]; got != 0 {
		t.Errorf("alpha at 3,-1 = %v, want 0", got)
	}
}

func TestScaleRects(t *testing.T) {
	tests := []struct {
		name         string
		s            *Scale
		in           geom.Rect
		wantBox      geom.Rect
		roi          geom.Rect
		wantRequired geom.Rect
	}{
		{
			name: "double nearest",
			s:    &Scale{X: 2, Y: 2, Sampler: "nearest"},
			in:   geom.R(0, 0, 4, 4), wantBox: geom.R(0, 0, 8, 8),
			roi: geom.R(0, 0, 8, 8), wantRequired: geom.R(-1, -1, 6, 6),
		},
		{
			name: "half linear",
			s:    &Scale{X: 0.5, Y: 0.5},
			in:   geom.R(0, 0, 5, 5), wantBox: geom.R(0, 0, 3, 3),
			roi: geom.R(1, 1, 1, 1), wantRequired: geom.R(1, 1, 4, 4),
		},
		{
			name: "cubic",
			s:    &Scale{X: 1, Y: 1, Sampler: "cubic"},
			in:   geom.R(-2, -2, 4, 4), wantBox: geom.R(-2, -2, 4, 4),
			roi: geom.R(0, 0, 2, 2), wantRequired: geom.R(-2, -2, 6, 6),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := sources{op.PadInput: tt.in}
			if got := tt.s.BoundingBox(src); got != tt.wantBox {
				t.Errorf("BoundingBox = %v, want %v", got, tt.wantBox)
			}
			if got := tt.s.RequiredForOutput(op.PadInput, tt.roi); got != tt.wantRequired {
				t.Errorf("RequiredForOutput = %v, want %v", got, tt.wantRequired)
			}
		})
	}
}

// sources answers bounding box queries from a map.
type sources map[string]geom.Rect

func (s sources) BoundingBox(pad string) (geom.Rect, bool) {
	r, ok := s[pad]
	return r, ok
}

func TestScaleNearest(t *testing.T) {
	src, err := tile.New(geom.R(0, 0, 4, 4), tile.RGBAFloat)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Unref()
	for y := range 4 {
		for x := range 4 {
			src.SetPixel(x, y, []float32{float32(x) / 4, float32(y) / 4, 0, 1})
		}
	}

	g := graph.New()
	s := add(t, g, &BufferSource{Tile: src})
	n := add(t, g, &Scale{X: 2, Y: 2, Sampler: "nearest"})
	connect(t, g, s, n, op.PadInput)

	out := render(t, n, geom.R(0, 0, 8, 8))
	tests := []struct {
		x, y int
		want []float32
	}{
		{0, 0, []float32{0, 0, 0, 1}},
		{5, 3, []float32{0.5, 0.25, 0, 1}},
		{7, 6, []float32{0.75, 0.75, 0, 1}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, out.Pixel(tt.x, tt.y, nil), approx(1e-4)); diff != "" {
			t.Errorf("pixel (%d,%d) mismatch (-want +got):\n%s", tt.x, tt.y, diff)
		}
	}
}

func TestScaleRejectsBadFactor(t *testing.T) {
	g := graph.New()
	c := add(t, g, NewColor())
	n := add(t, g, &Scale{X: 0, Y: 1})
	connect(t, g, c, n, op.PadInput)

	_, err := process.Process(n, geom.R(0, 0, 4, 4))
	if !errors.Is(err, ErrBadScale) {
		t.Errorf("Process error = %v, want ErrBadScale", err)
	}
}
