package tile

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/pixflow/geom"
)

// Pool reuses tile memory through sync.Pool, one per (model, size).
//
// Tiles are cleared when they come back, so Get always hands out zeroed
// samples. Pool is safe for concurrent use.
type Pool struct {
	pools sync.Map // poolKey -> *sync.Pool

	live      atomic.Int64
	allocated atomic.Int64
}

type poolKey struct {
	model Model
	w, h  int
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// Get returns a zeroed tile covering r with one reference.
func (p *Pool) Get(r geom.Rect, m Model) (*Tile, error) {
	if r.IsEmpty() {
		return nil, ErrEmpty
	}
	if !m.IsValid() {
		return nil, ErrInvalidModel
	}
	if r.IsInfinite() || r.Width > MaxArea || r.Height > MaxArea || r.Width*r.Height > MaxArea {
		return nil, ErrTooLarge
	}

	t := p.getOrCreatePool(poolKey{model: m, w: r.Width, h: r.Height}).Get().(*Tile)
	t.rect = r
	t.pool = p
	t.refs.Store(1)
	p.live.Add(1)
	return t, nil
}

func (p *Pool) put(t *Tile) {
	p.live.Add(-1)
	t.Clear()
	key := poolKey{model: t.model, w: t.rect.Width, h: t.rect.Height}
	if sp, ok := p.pools.Load(key); ok {
		sp.(*sync.Pool).Put(t)
	}
	// If the pool was drained meanwhile, let GC reclaim the tile.
}

func (p *Pool) getOrCreatePool(key poolKey) *sync.Pool {
	if sp, ok := p.pools.Load(key); ok {
		return sp.(*sync.Pool)
	}
	sp := &sync.Pool{
		New: func() any {
			p.allocated.Add(1)
			return newTile(key.w, key.h, key.model)
		},
	}
	actual, _ := p.pools.LoadOrStore(key, sp)
	return actual.(*sync.Pool)
}

// Live returns the number of tiles handed out and not yet released.
func (p *Pool) Live() int64 {
	return p.live.Load()
}

// Allocated returns the number of tiles the pool has ever allocated.
func (p *Pool) Allocated() int64 {
	return p.allocated.Load()
}

// Drain forgets every pooled tile. Tiles still in use are unaffected and
// are left to the garbage collector when released.
func (p *Pool) Drain() {
	p.pools.Clear()
}

var defaultPool = NewPool()

// DefaultPool returns the process-wide pool used by New.
func DefaultPool() *Pool {
	return defaultPool
}
