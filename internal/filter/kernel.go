package filter

import (
	"math"

	"github.com/gogpu/pixflow/internal/cache"
)

// GaussianKernel returns a normalized Gaussian kernel of standard deviation
// stdDev with 2*Radius(stdDev)+1 taps, covering three deviations on each
// side. A non-positive stdDev gives the identity kernel [1].
func GaussianKernel(stdDev float64) []float32 {
	if stdDev <= 0 {
		return []float32{1}
	}
	half := Radius(stdDev)
	kernel := make([]float32, 2*half+1)

	// exp(-x²/2σ²); the 1/(σ√2π) factor cancels in the normalization.
	twoSigmaSq := 2 * stdDev * stdDev
	var sum float64
	for i := range kernel {
		x := float64(i - half)
		v := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(v)
		sum += v
	}
	inv := float32(1 / sum)
	for i := range kernel {
		kernel[i] *= inv
	}
	return kernel
}

// Radius returns the half size of the Gaussian kernel for stdDev.
func Radius(stdDev float64) int {
	if stdDev <= 0 {
		return 0
	}
	return int(math.Ceil(stdDev * 3))
}

// BoxKernel returns a uniform kernel of 2*radius+1 taps.
func BoxKernel(radius int) []float32 {
	if radius <= 0 {
		return []float32{1}
	}
	kernel := make([]float32, 2*radius+1)
	v := 1 / float32(len(kernel))
	for i := range kernel {
		kernel[i] = v
	}
	return kernel
}

// kernels memoizes Gaussian kernels keyed by stdDev in hundredths.
var kernels = cache.New[int, []float32](64)

// CachedGaussianKernel is GaussianKernel with stdDev rounded to 0.01 and
// the result shared between callers. The returned slice must not be
// modified.
func CachedGaussianKernel(stdDev float64) []float32 {
	key := int(math.Round(stdDev * 100))
	return kernels.GetOrCreate(key, func() []float32 {
		return GaussianKernel(float64(key) / 100)
	})
}
