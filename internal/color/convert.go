package color

// U8ToF32 maps a uint8 sample [0,255] to float32 [0,1].
func U8ToF32(v uint8) float32 {
	return float32(v) / 255.0
}

// F32ToU8 maps a float32 sample [0,1] to uint8 [0,255] with rounding.
// Values outside [0,1] are clamped.
func F32ToU8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255.0 + 0.5)
}

// U16ToF32 maps a uint16 sample [0,65535] to float32 [0,1].
func U16ToF32(v uint16) float32 {
	return float32(v) / 65535.0
}

// F32ToU16 maps a float32 sample [0,1] to uint16 [0,65535] with rounding.
// Values outside [0,1] are clamped.
func F32ToU16(v float32) uint16 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 65535
	}
	return uint16(v*65535.0 + 0.5)
}

// U8ToU16 widens a uint8 sample by bit replication (0xAB -> 0xABAB).
func U8ToU16(v uint8) uint16 {
	return uint16(v)<<8 | uint16(v)
}

// U16ToU8 narrows a uint16 sample with rounding.
func U16ToU8(v uint16) uint8 {
	return uint8((uint32(v) + 128) / 257)
}
