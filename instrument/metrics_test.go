package instrument

import (
	"bytes"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"

	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/tile"
)

func family(t *testing.T, m *Metrics, name string) *dto.MetricFamily {
	t.Helper()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric %s not found", name)
	return nil
}

func TestMetricsRecord(t *testing.T) {
	m := New(nil)
	m.NodeProcessed("gaussian-blur", "area-filter", 2*time.Millisecond, 100)
	m.NodeProcessed("gaussian-blur", "area-filter", 3*time.Millisecond, 50)
	m.NodeFailed("load")
	m.CacheHit("invert")
	m.CacheHit("invert")

	h := family(t, m, "pixflow_node_process_seconds").GetMetric()[0].GetHistogram()
	if got := h.GetSampleCount(); got != 2 {
		t.Errorf("sample count = %d, want 2", got)
	}
	if got := h.GetSampleSum(); got < 0.0049 || got > 0.0051 {
		t.Errorf("sample sum = %v, want 0.005", got)
	}

	tests := []struct {
		name string
		want float64
	}{
		{"pixflow_node_pixels_total", 150},
		{"pixflow_node_failures_total", 1},
		{"pixflow_node_cache_hits_total", 2},
	}
	for _, tt := range tests {
		got := family(t, m, tt.name).GetMetric()[0].GetCounter().GetValue()
		if got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPoolGauges(t *testing.T) {
	pool := tile.NewPool()
	m := New(pool)

	a, err := pool.Get(geom.R(0, 0, 8, 8), tile.RGBAFloat)
	if err != nil {
		t.Fatal(err)
	}
	if got := family(t, m, "pixflow_tile_live").GetMetric()[0].GetGauge().GetValue(); got != 1 {
		t.Errorf("live = %v, want 1", got)
	}
	a.Unref()
	if got := family(t, m, "pixflow_tile_live").GetMetric()[0].GetGauge().GetValue(); got != 0 {
		t.Errorf("live after Unref = %v, want 0", got)
	}
}

func TestWriteText(t *testing.T) {
	m := New(tile.NewPool())
	m.NodeFailed("save")

	var buf bytes.Buffer
	if err := m.WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"# TYPE pixflow_node_failures_total counter",
		`pixflow_node_failures_total{op="save"} 1`,
		"pixflow_tile_live 0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(nil), New(nil)
	a.NodeFailed("x")
	b.NodeFailed("x")
	if got := family(t, a, "pixflow_node_failures_total").GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Errorf("failures = %v, want 1", got)
	}
}
