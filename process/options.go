package process

import (
	"context"
	"time"

	"github.com/gogpu/pixflow/tile"
)

// DefaultChunkSize is the edge length of the chunks a Processor renders.
const DefaultChunkSize = 128

// Observer receives per-node processing events. instrument.Metrics
// implements it.
type Observer interface {
	NodeProcessed(op string, kind string, d time.Duration, pixels int)
	NodeFailed(op string)
	CacheHit(op string)
}

// Option configures a request or a Processor.
type Option func(*options)

type options struct {
	ctx      context.Context
	pool     *tile.Pool
	observer Observer
	chunk    int
}

func defaultOptions() options {
	return options{
		ctx:   context.Background(),
		pool:  tile.DefaultPool(),
		chunk: DefaultChunkSize,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithContext sets the context handed to operations through
// op.ProcessContext. The engine itself never blocks on it.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithPool sets the pool tiles are allocated from.
func WithPool(p *tile.Pool) Option {
	return func(o *options) {
		if p != nil {
			o.pool = p
		}
	}
}

// WithObserver reports processing events to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithChunkSize sets the chunk edge length used by a Processor.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunk = n
		}
	}
}
