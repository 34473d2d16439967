// Package instrument exports pixflow processing statistics as Prometheus
// metrics.
//
// A Metrics value owns its own registry, so several engines in one process
// never collide on metric names. Pass it to process.WithObserver:
//
//	m := instrument.New(tile.DefaultPool())
//	buf, err := process.Process(node, rect, process.WithObserver(m))
//	...
//	m.WriteText(os.Stderr)
package instrument

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/gogpu/pixflow/process"
	"github.com/gogpu/pixflow/tile"
)

const namespace = "pixflow"

// Metrics records per-operation timings, failures and cache hits.
// It is safe for concurrent use.
type Metrics struct {
	reg *prometheus.Registry

	duration  *prometheus.HistogramVec
	pixels    *prometheus.CounterVec
	failures  *prometheus.CounterVec
	cacheHits *prometheus.CounterVec
}

var _ process.Observer = (*Metrics)(nil)

// New creates Metrics in a fresh registry. When pool is not nil, its live
// and allocated tile counts are exported as gauges.
func New(pool *tile.Pool) *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	m := &Metrics{
		reg: reg,
		// Labels: op (class name), kind (operation kind)
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "node",
			Name:      "process_seconds",
			Help:      "Time spent processing one node of a request",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"op", "kind"}),
		pixels: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "node",
			Name:      "pixels_total",
			Help:      "Pixels computed per operation",
		}, []string{"op"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "node",
			Name:      "failures_total",
			Help:      "Nodes that failed to prepare or process",
		}, []string{"op"}),
		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "node",
			Name:      "cache_hits_total",
			Help:      "Requests served from a node cache",
		}, []string{"op"}),
	}

	if pool != nil {
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tile",
			Name:      "live",
			Help:      "Tiles handed out by the pool and not yet released",
		}, func() float64 { return float64(pool.Live()) })
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tile",
			Name:      "allocated",
			Help:      "Tiles allocated by the pool since creation",
		}, func() float64 { return float64(pool.Allocated()) })
	}
	return m
}

// NodeProcessed records one processed node.
func (m *Metrics) NodeProcessed(op, kind string, d time.Duration, pixels int) {
	m.duration.WithLabelValues(op, kind).Observe(d.Seconds())
	m.pixels.WithLabelValues(op).Add(float64(pixels))
}

// NodeFailed records a failed node.
func (m *Metrics) NodeFailed(op string) {
	m.failures.WithLabelValues(op).Inc()
}

// CacheHit records a request served from the cache of an op node.
func (m *Metrics) CacheHit(op string) {
	m.cacheHits.WithLabelValues(op).Inc()
}

// Registry returns the registry holding the metrics, for use with
// promhttp or a custom gatherer.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// WriteText writes every metric in the Prometheus text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
