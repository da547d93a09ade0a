package dither

// Random is the 32-bit linear congruential state that drives dither noise.
// It is advanced once per pixel on the non-simple paths and once per
// scanline on every path.
type Random uint32

const (
	rndMul = 1664525
	rndAdd = 1013904223

	rndLineMul  = 1103515245
	rndLineAdd  = 12345
	rndLineMul2 = 134775813
	rndLineAdd2 = 1
	rndLineBit  = 1 << 25

	// staticNoiseSeed replaces the frame number when static noise is requested.
	staticNoiseSeed = 12345
)

// Seed returns the initial state for one plane of one frame.
func Seed(plane, frame int, static bool) Random {
	base := uint32(frame)
	if static {
		base = staticNoiseSeed
	}
	return Random(uint32(plane)<<16 + base)
}

// Next advances the state by one pixel.
func (r Random) Next() Random {
	return Random(uint32(r)*rndMul + rndAdd)
}

// NextLine advances the state at the end of a scanline. A second transform
// is applied when bit 25 is set, decorrelating consecutive rows.
func (r Random) NextLine() Random {
	s := uint32(r)*rndLineMul + rndLineAdd
	if s&rndLineBit != 0 {
		s = s*rndLineMul2 + rndLineAdd2
	}
	return Random(s)
}

// Noise returns the high byte of the state as a signed value in
// [-128, 127], i.e. in 1/256 of a destination step.
func (r Random) Noise() int32 {
	return int32(int8(uint32(r) >> 24))
}
