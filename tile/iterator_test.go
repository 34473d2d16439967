package tile

import (
	"testing"

	"github.com/gogpu/pixflow/geom"
)

func TestIteratorNilTile(t *testing.T) {
	it := NewIterator(nil, geom.R(0, 0, 4, 4))
	if it != nil {
		t.Fatalf("NewIterator(nil) = %v, want nil", it)
	}
	it.Close() // must not panic
}

func TestIteratorWalk(t *testing.T) {
	p := NewPool()
	tl, _ := p.Get(geom.R(0, 0, 4, 3), RGBAU8)
	for y := range 3 {
		for x := range 4 {
			tl.SetPixel(x, y, []float32{float32(y) / 255, 0, 0, 1})
		}
	}

	it := NewIterator(tl, geom.R(1, 0, 2, 3))
	tl.Unref()
	if tl.Refs() != 1 {
		t.Fatalf("Refs held by iterator = %d, want 1", tl.Refs())
	}

	rows := 0
	for it.First(); !it.IsDone(); it.Next() {
		cc := it.ColorChannels()
		if len(cc) != 3 {
			t.Fatalf("len(ColorChannels) = %d, want 3", len(cc))
		}
		if cc[0].Len() != 2 {
			t.Errorf("scanline width = %d, want 2", cc[0].Len())
		}
		if got := cc[0].U8[0]; int(got) != rows {
			t.Errorf("row %d red = %d, want %d", rows, got, rows)
		}
		a, ok := it.AlphaChannel()
		if !ok || a.U8[1] != 255 {
			t.Errorf("row %d alpha = %v, %v; want 255, true", rows, a.U8, ok)
		}
		rows++
	}
	if rows != 3 {
		t.Errorf("iterated %d rows, want 3", rows)
	}

	it.Next()
	if it.Row() != 3 {
		t.Errorf("Next past end moved cursor to %d", it.Row())
	}

	it.Close()
	it.Close()
	if p.Live() != 0 {
		t.Errorf("Live after Close = %d, want 0", p.Live())
	}
}

func TestIteratorNoAlpha(t *testing.T) {
	tl, _ := NewPool().Get(geom.R(0, 0, 2, 2), RGBFloat)
	it := NewIterator(tl, tl.Rect())
	defer it.Close()
	tl.Unref()

	if _, ok := it.AlphaChannel(); ok {
		t.Error("AlphaChannel reported alpha for an rgb model")
	}
	out := make([]Samples, 4)
	if n := it.Current(out); n != 3 {
		t.Errorf("Current = %d channels, want 3", n)
	}
}

func BenchmarkIteratorRows(b *testing.B) {
	tl, _ := NewPool().Get(geom.R(0, 0, 256, 256), RGBAFloat)
	defer tl.Unref()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		it := NewIterator(tl, tl.Rect())
		for ; !it.IsDone(); it.Next() {
			cc := it.ColorChannels()
			for x := range cc[0].F32 {
				cc[0].F32[x] += 0.001
			}
		}
		it.Close()
	}
}
