package dither

import "fmt"

const (
	// PatternPeriod is the number of patterns cycled across frames.
	PatternPeriod = 4
	// MinPatternSize is the smallest pattern side length.
	MinPatternSize = 4
	// MaxPatternSize is the largest pattern side length.
	MaxPatternSize = 64
	// DefaultPatternSize is the side length used when none is configured.
	DefaultPatternSize = 32
)

// bayerOffsets are the quadrant thresholds of the 2x2 Bayer matrix, indexed
// by [y&1][x&1], on a 0..255 scale.
var bayerOffsets = [2][2]int{
	{0, 128},
	{192, 64},
}

// Pattern is a square ordered-dither threshold grid. Values are signed and
// expressed in 1/256 of a destination quantisation step, in [-128, 127].
// A Pattern is immutable once built.
type Pattern struct {
	size int
	mask int
	data []int16
}

func newPattern(size int) *Pattern {
	return &Pattern{
		size: size,
		mask: size - 1,
		data: make([]int16, size*size),
	}
}

// Size returns the side length.
func (p *Pattern) Size() int { return p.size }

// At returns the threshold at (x, y); coordinates wrap around.
func (p *Pattern) At(x, y int) int {
	return int(p.data[(y&p.mask)*p.size+(x&p.mask)])
}

// Row returns the thresholds of row y (wrapped). The slice must not be
// modified.
func (p *Pattern) Row(y int) []int16 {
	start := (y & p.mask) * p.size
	return p.data[start : start+p.size]
}

// Mask returns Size()-1, the column index mask.
func (p *Pattern) Mask() int { return p.mask }

// ZeroPattern returns an all-zero pattern of the given size.
func ZeroPattern(size int) *Pattern {
	return newPattern(size)
}

// BayerPattern builds a size x size Bayer matrix. Starting from a 1x1 seed,
// every doubling splits each cell into four whose values are the parent
// scaled down by four plus the quadrant offsets {0, 128, 192, 64}.
// size must be a power of two.
func BayerPattern(size int) *Pattern {
	cur := []int{0}
	side := 1

	for side < size {
		next := make([]int, 4*side*side)
		nside := 2 * side

		for y := range side {
			for x := range side {
				base := (cur[y*side+x] + 128) >> 2
				for j := range 2 {
					for i := range 2 {
						next[(2*y+j)*nside+2*x+i] = base + bayerOffsets[j][i] - 128
					}
				}
			}
		}

		cur, side = next, nside
	}

	p := newPattern(size)
	for i, v := range cur {
		p.data[i] = int16(v)
	}

	return p
}

// Rotate returns a copy of p rotated by angle quarter turns. The index
// remap is integer exact: (x*cos - y*sin, x*sin + y*cos) modulo the size.
func (p *Pattern) Rotate(angle int) *Pattern {
	var c, s int
	switch angle & 3 {
	case 0:
		c, s = 1, 0
	case 1:
		c, s = 0, 1
	case 2:
		c, s = -1, 0
	default:
		c, s = 0, -1
	}

	r := newPattern(p.size)
	for y := range p.size {
		for x := range p.size {
			xs := (x*c - y*s) & p.mask
			ys := (x*s + y*c) & p.mask
			r.data[y*p.size+x] = p.data[ys*p.size+xs]
		}
	}

	return r
}

// PatternBank is the cycle of PatternPeriod patterns used for ordered
// dithering. Slot k holds the base pattern rotated by k quarter turns when
// the bank is dynamic, the unrotated base pattern otherwise.
type PatternBank struct {
	pats [PatternPeriod]*Pattern
}

// NewPatternBank builds the bank for an ordered mode. ModeBayer uses a
// Bayer matrix, every other mode an all-zero pattern.
func NewPatternBank(mode Mode, size int, dynamic bool) (*PatternBank, error) {
	if !ValidPatternSize(size) {
		return nil, fmt.Errorf("dither: pattern size must be a power of two in [%d, %d]: %d",
			MinPatternSize, MaxPatternSize, size)
	}

	var base *Pattern
	if mode.Canonical() == ModeBayer {
		base = BayerPattern(size)
	} else {
		base = ZeroPattern(size)
	}

	bank := &PatternBank{}
	for k := range PatternPeriod {
		angle := 0
		if dynamic {
			angle = k & 3
		}
		if angle == 0 {
			bank.pats[k] = base
		} else {
			bank.pats[k] = base.Rotate(angle)
		}
	}

	return bank, nil
}

// Select returns the pattern for a frame and plane.
func (b *PatternBank) Select(frame, plane int) *Pattern {
	return b.pats[(frame+plane)&(PatternPeriod-1)]
}

// ValidPatternSize reports whether size is a power of two in
// [MinPatternSize, MaxPatternSize]. Such sizes always divide MaxPatternSize.
func ValidPatternSize(size int) bool {
	return size >= MinPatternSize && size <= MaxPatternSize && size&(size-1) == 0
}
