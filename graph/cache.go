package graph

import (
	"sync"

	"github.com/gogpu/pixflow/geom"
	"github.com/gogpu/pixflow/tile"
)

// maxCacheTiles bounds the number of tiles one node cache keeps. When it is
// exceeded the oldest tiles are dropped.
const maxCacheTiles = 256

// Cache is the persistent cache of a node: computed tiles in one model plus
// the region of valid pixels they cover. Unlike the per-request contexts of
// the engine, a Cache outlives requests and is emptied only by
// invalidation.
//
// Cache is safe for concurrent use.
type Cache struct {
	mu    sync.Mutex
	model tile.Model
	tiles []*tile.Tile
	valid geom.Region
}

func newCache() *Cache {
	return &Cache{}
}

// Get returns a tile covering r in model m when every pixel of r is valid.
// The caller owns one reference to the returned tile.
func (c *Cache) Get(p *tile.Pool, r geom.Rect, m tile.Model) (*tile.Tile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r.IsEmpty() || len(c.tiles) == 0 || c.model != m || !c.valid.Contains(r) {
		return nil, false
	}
	for _, t := range c.tiles {
		if t.Rect().Contains(r) {
			return t.Ref(), true
		}
	}

	t, err := p.Get(r, m)
	if err != nil {
		return nil, false
	}
	for _, src := range c.tiles {
		tile.Copy(t, src)
	}
	return t, true
}

// Put stores a reference to t. Tiles in another model than the cached ones
// replace the whole cache.
func (c *Cache) Put(t *tile.Tile) {
	if t == nil || t.Rect().IsEmpty() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.tiles) > 0 && c.model != t.Model() {
		c.clearLocked()
	}
	if c.valid.Contains(t.Rect()) {
		return
	}
	c.model = t.Model()
	c.tiles = append(c.tiles, t.Ref())
	c.valid.Add(t.Rect())

	if n := len(c.tiles) - maxCacheTiles; n > 0 {
		for _, old := range c.tiles[:n] {
			old.Unref()
		}
		c.tiles = append(c.tiles[:0], c.tiles[n:]...)
		c.rebuildLocked()
	}
}

// Invalidate drops every tile overlapping r.
func (c *Cache) Invalidate(r geom.Rect) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.valid.Overlaps(r) {
		return
	}
	kept := c.tiles[:0]
	for _, t := range c.tiles {
		if t.Rect().Overlaps(r) {
			t.Unref()
			continue
		}
		kept = append(kept, t)
	}
	clear(c.tiles[len(kept):])
	c.tiles = kept
	c.rebuildLocked()
}

// Clear drops all tiles.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

func (c *Cache) clearLocked() {
	for _, t := range c.tiles {
		t.Unref()
	}
	c.tiles = nil
	c.valid.Clear()
}

func (c *Cache) rebuildLocked() {
	c.valid.Clear()
	for _, t := range c.tiles {
		c.valid.Add(t.Rect())
	}
}

// Len returns the number of cached tiles.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tiles)
}

// Valid returns the disjoint rectangles of valid pixels.
func (c *Cache) Valid() []geom.Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.valid.Rects()
}
