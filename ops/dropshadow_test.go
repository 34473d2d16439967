package ops

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/graph"
	"github.com/gogpu/pixflow/op"
)

func TestDropShadow(t *testing.T) {
	g := graph.New()
	s := add(t, g, &BufferSource{Tile: solid(t, geom.R(0, 0, 10, 10), 1, 0, 0, 1)})
	ds := NewDropShadow()
	ds.X, ds.Y, ds.StdDev = 5, 5, 0
	n := add(t, g, ds)
	connect(t, g, s, n, op.PadInput)

	if n.Subgraph() == nil {
		t.Fatal("dropshadow has no subgraph")
	}
	want := geom.R(0, 0, 15, 15)
	if got := graph.BoundingBox(n); got != want {
		t.Fatalf("BoundingBox = %v, want %v", got, want)
	}

	out := render(t, n, want)
	tests := []struct {
		name string
		x, y int
		want []float32
	}{
		{"input", 2, 2, []float32{1, 0, 0, 1}},
		{"input over shadow", 7, 7, []float32{1, 0, 0, 1}},
		{"shadow only", 12, 12, []float32{0, 0, 0, 0.5}},
		{"neither", 12, 2, []float32{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, out.Pixel(tt.x, tt.y, nil), approx(1e-6)); diff != "" {
			t.Errorf("%s: pixel mismatch (-want +got):\n%s", tt.name, diff)
		}
	}

	n.Update(func(o op.Operation) {
		d := o.(*DropShadow)
		d.Opacity = 1
		d.Color = RGBA{0, 0, 1, 1}
	})
	out = render(t, n, want)
	if diff := cmp.Diff([]float32{0, 0, 1, 1}, out.Pixel(12, 12, nil), approx(1e-6)); diff != "" {
		t.Errorf("after update: pixel mismatch (-want +got):\n%s", diff)
	}

	n.Update(func(o op.Operation) {
		o.(*DropShadow).X = -3
	})
	if got, want := graph.BoundingBox(n), geom.R(-3, 0, 13, 15); got != want {
		t.Errorf("BoundingBox after move = %v, want %v", got, want)
	}
}

// A blurred shadow reaches past the offset input by the blur radius.
func TestDropShadowBlur(t *testing.T) {
	g := graph.New()
	s := add(t, g, &BufferSource{Tile: solid(t, geom.R(0, 0, 4, 4), 1, 1, 1, 1)})
	ds := NewDropShadow()
	ds.X, ds.Y, ds.StdDev = 2, 0, 1
	n := add(t, g, ds)
	connect(t, g, s, n, op.PadInput)

	want := geom.R(-1, -3, 10, 10)
	if got := graph.BoundingBox(n); got != want {
		t.Fatalf("BoundingBox = %v, want %v", got, want)
	}
	out := render(t, n, want)
	if a := out.Pixel(6, 2, nil)[3]; a <= 0 || a >= 0.5 {
		t.Errorf("shadow edge alpha = %v, want in (0, 0.5)", a)
	}
	if a := out.Pixel(1, 1, nil)[3]; a != 1 {
		t.Errorf("input alpha = %v, want 1", a)
	}
}
