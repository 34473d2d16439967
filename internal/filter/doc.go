// Package filter implements the separable convolutions behind the blur
// operations.
//
// Kernels are one-dimensional and normalized to a sum of 1. Convolve runs
// the horizontal pass and then the vertical pass over RGBA float tiles,
// splitting the rows into bands processed in parallel.
package filter
