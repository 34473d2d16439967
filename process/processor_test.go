package process

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/graph"
	"github.com/gogpu/pixflow/tile"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name string
		r    geom.Rect
		size int
		want []geom.Rect
	}{
		{"empty", geom.Rect{}, 4, nil},
		{"zero size", geom.R(0, 0, 4, 4), 0, nil},
		{"exact", geom.R(0, 0, 4, 4), 4, []geom.Rect{geom.R(0, 0, 4, 4)}},
		{"ragged", geom.R(1, 2, 10, 5), 4, []geom.Rect{
			geom.R(1, 2, 4, 4), geom.R(5, 2, 4, 4), geom.R(9, 2, 2, 4),
			geom.R(1, 6, 4, 1), geom.R(5, 6, 4, 1), geom.R(9, 6, 2, 1),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, chunk(tt.r, tt.size)); diff != "" {
				t.Errorf("chunk(%v, %d) (-want +got):\n%s", tt.r, tt.size, diff)
			}
		})
	}
}

func TestProcessorSink(t *testing.T) {
	pool := tile.NewPool()
	g := graph.New()
	s := add(t, g, &flatSource{value: 0.5, box: geom.R(0, 0, 300, 200)})
	out := &collect{}
	k := add(t, g, out)
	link(t, g, s, k)

	p := NewProcessor(k, geom.Infinite(), WithChunkSize(128), WithPool(pool))
	if got, want := p.Rect(), geom.R(0, 0, 300, 200); got != want {
		t.Fatalf("Rect = %v, want %v", got, want)
	}
	calls := 0
	for {
		more, err := p.Work()
		if err != nil {
			t.Fatal(err)
		}
		calls++
		if !more {
			break
		}
	}
	if calls != 6 {
		t.Errorf("Work called %d times, want 6", calls)
	}
	if got := p.Progress(); got != 1 {
		t.Errorf("Progress = %v, want 1", got)
	}

	area := 0
	for _, r := range out.rects {
		area += r.Area()
	}
	if area != 300*200 || len(out.pixels) != 300*200 {
		t.Errorf("chunks cover %d pixels (%d distinct), want %d once each", area, len(out.pixels), 300*200)
	}
	if k.Cache() != nil {
		t.Error("caching turned on for a sink")
	}
	checkNoLeaks(t, pool)
}

type fullCollect struct{ collect }

func (*fullCollect) NeedsFull() bool { return true }

func TestProcessorNeedsFull(t *testing.T) {
	g := graph.New()
	s := add(t, g, &flatSource{box: geom.R(0, 0, 200, 100)})
	out := &fullCollect{}
	k := add(t, g, out)
	link(t, g, s, k)

	p := NewProcessor(k, geom.Infinite(), WithChunkSize(64), WithPool(tile.NewPool()))
	if err := p.Run(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]geom.Rect{geom.R(0, 0, 200, 100)}, out.rects); diff != "" {
		t.Errorf("sink calls (-want +got):\n%s", diff)
	}
}

func TestProcessorBuffer(t *testing.T) {
	pool := tile.NewPool()
	g := graph.New()
	src := &flatSource{value: 0.25}
	s := add(t, g, src)
	inv := add(t, g, &invert{})
	link(t, g, s, inv)

	p := NewProcessor(inv, geom.R(0, 0, 200, 100), WithChunkSize(64), WithPool(pool))
	if err := p.Run(); err != nil {
		t.Fatal(err)
	}
	if src.calls != 8 {
		t.Errorf("source processed %d times, want 8", src.calls)
	}

	buf, err := p.Buffer()
	if err != nil {
		t.Fatal(err)
	}
	if src.calls != 8 {
		t.Errorf("Buffer reprocessed the source: %d calls", src.calls)
	}
	if !buf.Rect().Contains(geom.R(0, 0, 200, 100)) {
		t.Errorf("buffer rect = %v", buf.Rect())
	}
	for _, pt := range [][2]int{{0, 0}, {63, 64}, {199, 99}} {
		if got := buf.Pixel(pt[0], pt[1], nil)[0]; got != 0.75 {
			t.Errorf("pixel %v = %v, want 0.75", pt, got)
		}
	}
	buf.Unref()
	inv.SetCaching(false)
	checkNoLeaks(t, pool)
}

func TestProcessorErrors(t *testing.T) {
	g := graph.New()
	s := add(t, g, &flatSource{})
	inv := add(t, g, &invert{})
	link(t, g, s, inv)

	p := NewProcessor(inv, geom.Infinite())
	if _, err := p.Work(); !errors.Is(err, ErrUnbounded) {
		t.Errorf("Work error = %v, want ErrUnbounded", err)
	}
	if _, err := p.Buffer(); !errors.Is(err, ErrUnbounded) {
		t.Errorf("Buffer error = %v, want ErrUnbounded", err)
	}

	b := add(t, g, broken{})
	link(t, g, s, b)
	p = NewProcessor(b, geom.R(0, 0, 256, 256), WithPool(tile.NewPool()))
	for range 2 {
		if _, err := p.Work(); !errors.Is(err, errBroken) {
			t.Errorf("Work error = %v, want errBroken", err)
		}
	}
	if p.Progress() != 0 {
		t.Errorf("Progress = %v after a failure, want 0", p.Progress())
	}
}
