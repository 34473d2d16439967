package tile

import "github.com/gogpu/pixflow/internal/color"

// Samples is a run of samples of one channel. Exactly one of the slices is
// set, matching the channel type of the tile it was taken from; the zero
// value is the nil run.
//
// Scanline functions are selected by channel type, so they index the typed
// slice directly. Float and SetFloat are conveniences for code that is not
// on a per-pixel hot path.
type Samples struct {
	U8  []uint8
	U16 []uint16
	F32 []float32
}

func makeSamples(t ChannelType, n int) Samples {
	switch t {
	case TypeU8:
		return Samples{U8: make([]uint8, n)}
	case TypeU16:
		return Samples{U16: make([]uint16, n)}
	default:
		return Samples{F32: make([]float32, n)}
	}
}

// IsNil reports whether s carries no slice at all.
func (s Samples) IsNil() bool {
	return s.U8 == nil && s.U16 == nil && s.F32 == nil
}

// Len returns the number of samples.
func (s Samples) Len() int {
	switch {
	case s.U8 != nil:
		return len(s.U8)
	case s.U16 != nil:
		return len(s.U16)
	default:
		return len(s.F32)
	}
}

// Slice returns samples [lo, hi).
func (s Samples) Slice(lo, hi int) Samples {
	switch {
	case s.U8 != nil:
		return Samples{U8: s.U8[lo:hi]}
	case s.U16 != nil:
		return Samples{U16: s.U16[lo:hi]}
	case s.F32 != nil:
		return Samples{F32: s.F32[lo:hi]}
	default:
		return Samples{}
	}
}

// Float returns sample i mapped to [0,1].
func (s Samples) Float(i int) float32 {
	switch {
	case s.U8 != nil:
		return color.U8ToF32(s.U8[i])
	case s.U16 != nil:
		return color.U16ToF32(s.U16[i])
	default:
		return s.F32[i]
	}
}

// SetFloat stores v at sample i, converting to the channel type.
func (s Samples) SetFloat(i int, v float32) {
	switch {
	case s.U8 != nil:
		s.U8[i] = color.F32ToU8(v)
	case s.U16 != nil:
		s.U16[i] = color.F32ToU16(v)
	default:
		s.F32[i] = v
	}
}

// CopyFrom copies min(len) samples from src of the same type and returns
// the count.
func (s Samples) CopyFrom(src Samples) int {
	switch {
	case s.U8 != nil:
		return copy(s.U8, src.U8)
	case s.U16 != nil:
		return copy(s.U16, src.U16)
	default:
		return copy(s.F32, src.F32)
	}
}

func (s Samples) fill(v float32) {
	switch {
	case s.U8 != nil:
		b := color.F32ToU8(v)
		for i := range s.U8 {
			s.U8[i] = b
		}
	case s.U16 != nil:
		w := color.F32ToU16(v)
		for i := range s.U16 {
			s.U16[i] = w
		}
	default:
		for i := range s.F32 {
			s.F32[i] = v
		}
	}
}

// clear zeroes all samples.
func (s Samples) clear() {
	clear(s.U8)
	clear(s.U16)
	clear(s.F32)
}
