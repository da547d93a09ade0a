package dither

// Spread is the destination of one pixel's quantisation error, expressed
// relative to the scan direction. Ahead[k] goes to the same row at x+(k+1)*dir.
// Below[k] and Below2[k] go to the next and second next rows at x+(k-2)*dir,
// so index 2 is straight down and index 1 is down-back.
type Spread[E int32 | float32] struct {
	Ahead  [2]E
	Below  [5]E
	Below2 [5]E
}

// Total returns the sum of all spread terms.
func (s *Spread[E]) Total() E {
	var t E
	for _, v := range s.Ahead {
		t += v
	}
	for _, v := range s.Below {
		t += v
	}
	for _, v := range s.Below2 {
		t += v
	}
	return t
}

// Kernel is an error-diffusion algorithm.
//
// One-row kernels only write Ahead[0], Below[0], Below[1] and Below[2]:
// the cells ahead on the next row still hold error for the current row in a
// single carry buffer. Two-row kernels may write every term; the row driver
// prepares the carry buffers before each of their lines.
type Kernel interface {
	// Mode returns the mode implemented by the kernel.
	Mode() Mode

	// Rows returns how many rows below the current one receive error (1 or 2).
	Rows() int

	// SpreadInt distributes an integer error. level is the source sample
	// normalised to 0..255, used by intensity-dependent kernels.
	SpreadInt(err int32, level int) Spread[int32]

	// SpreadFloat distributes a floating-point error.
	SpreadFloat(err float32, level int) Spread[float32]
}

// NewKernel returns the kernel for an error-diffusion mode, or nil.
func NewKernel(mode Mode) Kernel {
	switch mode {
	case ModeFilterLite:
		return FilterLite{}
	case ModeFloydSteinberg:
		return FloydSteinberg{}
	case ModeStucki:
		return Stucki{}
	case ModeAtkinson:
		return Atkinson{}
	case ModeOstromoukhov:
		return Ostromoukhov{}
	default:
		return nil
	}
}

// divRound divides with rounding to nearest, ties toward +Inf. den > 0.
func divRound(num, den int64) int32 {
	num += den >> 1
	q := num / den
	if num%den != 0 && num < 0 {
		q--
	}
	return int32(q)
}

// FilterLite is Sierra-2-4A: 2/4 ahead, 1/4 down-back, 1/4 down.
type FilterLite struct{}

// Mode implements Kernel.
func (FilterLite) Mode() Mode { return ModeFilterLite }

// Rows implements Kernel.
func (FilterLite) Rows() int { return 1 }

// SpreadInt implements Kernel.
func (FilterLite) SpreadInt(err int32, _ int) Spread[int32] {
	var s Spread[int32]
	q := (err + 2) >> 2
	s.Below[1] = q
	s.Below[2] = q
	s.Ahead[0] = err - 2*q
	return s
}

// SpreadFloat implements Kernel.
func (FilterLite) SpreadFloat(err float32, _ int) Spread[float32] {
	var s Spread[float32]
	q := err * 0.25
	s.Below[1] = q
	s.Below[2] = q
	s.Ahead[0] = err - 2*q
	return s
}

// FloydSteinberg uses the coefficients optimised for serpentine scanning
// (Hocevar & Niger, 2008): 7/16 ahead, 4/16 down-back, 5/16 down and
// nothing down-ahead, which removes the classic serpentine artefact.
type FloydSteinberg struct{}

// Mode implements Kernel.
func (FloydSteinberg) Mode() Mode { return ModeFloydSteinberg }

// Rows implements Kernel.
func (FloydSteinberg) Rows() int { return 1 }

// SpreadInt implements Kernel.
func (FloydSteinberg) SpreadInt(err int32, _ int) Spread[int32] {
	var s Spread[int32]
	e4 := (err*4 + 8) >> 4
	e5 := (err*5 + 8) >> 4
	s.Below[1] = e4
	s.Below[2] = e5
	s.Ahead[0] = err - e4 - e5
	return s
}

// SpreadFloat implements Kernel.
func (FloydSteinberg) SpreadFloat(err float32, _ int) Spread[float32] {
	var s Spread[float32]
	e4 := err * (4.0 / 16)
	e5 := err * (5.0 / 16)
	s.Below[1] = e4
	s.Below[2] = e5
	s.Ahead[0] = err - e4 - e5
	return s
}

// Stucki spreads the error over the current and the next two rows:
//
//	      X 8 4
//	2 4 8 4 2
//	1 2 4 2 1   (/42)
type Stucki struct{}

var (
	stuckiBelow  = [5]int64{2, 4, 8, 4, 2}
	stuckiBelow2 = [5]int64{1, 2, 4, 2, 1}
)

// Mode implements Kernel.
func (Stucki) Mode() Mode { return ModeStucki }

// Rows implements Kernel.
func (Stucki) Rows() int { return 2 }

// SpreadInt implements Kernel.
func (Stucki) SpreadInt(err int32, _ int) Spread[int32] {
	var s Spread[int32]
	e := int64(err)
	rest := err

	s.Ahead[1] = divRound(e*4, 42)
	rest -= s.Ahead[1]
	for k := range 5 {
		s.Below[k] = divRound(e*stuckiBelow[k], 42)
		s.Below2[k] = divRound(e*stuckiBelow2[k], 42)
		rest -= s.Below[k] + s.Below2[k]
	}
	s.Ahead[0] = rest

	return s
}

// SpreadFloat implements Kernel.
func (Stucki) SpreadFloat(err float32, _ int) Spread[float32] {
	var s Spread[float32]
	const k = 1.0 / 42
	rest := err

	s.Ahead[1] = err * (4 * k)
	rest -= s.Ahead[1]
	for i := range 5 {
		s.Below[i] = err * float32(stuckiBelow[i]) * k
		s.Below2[i] = err * float32(stuckiBelow2[i]) * k
		rest -= s.Below[i] + s.Below2[i]
	}
	s.Ahead[0] = rest

	return s
}

// Atkinson gives 1/8 of the error to each of six neighbours. The remaining
// 2/8 are dropped, which is how the algorithm is defined.
type Atkinson struct{}

// Mode implements Kernel.
func (Atkinson) Mode() Mode { return ModeAtkinson }

// Rows implements Kernel.
func (Atkinson) Rows() int { return 2 }

// SpreadInt implements Kernel.
func (Atkinson) SpreadInt(err int32, _ int) Spread[int32] {
	return atkinsonSpread((err + 4) >> 3)
}

// SpreadFloat implements Kernel.
func (Atkinson) SpreadFloat(err float32, _ int) Spread[float32] {
	return atkinsonSpread(err * 0.125)
}

func atkinsonSpread[E int32 | float32](q E) Spread[E] {
	var s Spread[E]
	s.Ahead[0] = q
	s.Ahead[1] = q
	s.Below[1] = q
	s.Below[2] = q
	s.Below[3] = q
	s.Below2[2] = q
	return s
}

// Ostromoukhov picks ahead, down-back and down weights from a 256-entry
// table indexed by the source intensity. The ahead term absorbs the
// rounding remainder.
//
// The floating-point path has no intensity table and uses the FilterLite
// weights instead.
type Ostromoukhov struct{}

// Mode implements Kernel.
func (Ostromoukhov) Mode() Mode { return ModeOstromoukhov }

// Rows implements Kernel.
func (Ostromoukhov) Rows() int { return 1 }

// SpreadInt implements Kernel.
func (Ostromoukhov) SpreadInt(err int32, level int) Spread[int32] {
	var s Spread[int32]
	c := &ostromoukhovTable[level&0xff]
	e := int64(err)
	s.Below[1] = divRound(e*int64(c.downBack), int64(c.sum))
	s.Below[2] = divRound(e*int64(c.down), int64(c.sum))
	s.Ahead[0] = err - s.Below[1] - s.Below[2]
	return s
}

// SpreadFloat implements Kernel.
func (Ostromoukhov) SpreadFloat(err float32, level int) Spread[float32] {
	return FilterLite{}.SpreadFloat(err, level)
}
