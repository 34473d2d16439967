// Package cache provides a small generic LRU cache.
//
// It backs the memoized Gaussian kernels of internal/filter and the parsed
// font faces of the text operation:
//
//	c := cache.New[int, []float32](64)
//	k := c.GetOrCreate(key, func() []float32 { return build(key) })
//
// LRU is safe for concurrent use and must not be copied after creation.
package cache
