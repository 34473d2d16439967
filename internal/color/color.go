// Package color provides the per-sample conversions used when a tile has to
// change channel type or color space between two pixflow nodes.
//
// Float samples are nominally in [0,1]; integer samples map 0 and the type's
// maximum onto that range. Conversions to integer types clamp and round.
package color

// Luminance weights (Rec. 601), matching the grayscale conversion used by
// image buffers elsewhere in the module.
const (
	LumaR = 0.299
	LumaG = 0.587
	LumaB = 0.114
)

// Luminance returns the weighted gray value of an RGB triple.
func Luminance(r, g, b float32) float32 {
	return LumaR*r + LumaG*g + LumaB*b
}
