// Package testutil builds deterministic test planes and checks results.
package testutil

import (
	"math/rand"

	"github.com/cwbudde/algo-bitdepth/dsp/pixel"
)

// PlaneFunc returns a plane of format f whose sample at (x, y) is fn(x, y).
// Integer formats receive the value rounded toward zero and clamped to the
// code range.
func PlaneFunc(f pixel.Format, w, h int, fn func(x, y int) float64) pixel.Plane {
	p := pixel.NewPlane(f, w, h)

	if f.IsInt() {
		row := make([]int32, w)
		hi := int32(f.MaxValue())
		for y := range h {
			for x := range row {
				row[x] = min(max(int32(fn(x, y)), 0), hi)
			}
			pixel.EncodeIntRow(p.Row(y), row, f)
		}
		return p
	}

	row := make([]float64, w)
	for y := range h {
		for x := range row {
			row[x] = fn(x, y)
		}
		pixel.EncodeFloatRow(p.Row(y), row, f)
	}
	return p
}

// ConstPlane returns a plane filled with v.
func ConstPlane(f pixel.Format, w, h int, v float64) pixel.Plane {
	return PlaneFunc(f, w, h, func(int, int) float64 { return v })
}

// RampPlane returns a horizontal ramp from lo to hi, identical on every row.
func RampPlane(f pixel.Format, w, h int, lo, hi float64) pixel.Plane {
	step := 0.0
	if w > 1 {
		step = (hi - lo) / float64(w-1)
	}
	return PlaneFunc(f, w, h, func(x, _ int) float64 { return lo + step*float64(x) })
}

// NoisePlane returns uniformly distributed values in [lo, hi) from a fixed
// seed.
func NoisePlane(seed int64, f pixel.Format, w, h int, lo, hi float64) pixel.Plane {
	rng := rand.New(rand.NewSource(seed))
	return PlaneFunc(f, w, h, func(int, int) float64 { return lo + rng.Float64()*(hi-lo) })
}

// IntSamples decodes an integer plane into a row-major slice.
func IntSamples(p pixel.Plane, f pixel.Format) []int32 {
	out := make([]int32, p.Width*p.Height)
	for y := range p.Height {
		pixel.DecodeIntRow(out[y*p.Width:(y+1)*p.Width], p.Row(y), f)
	}
	return out
}

// FloatSamples decodes a plane of any format into a row-major slice.
func FloatSamples(p pixel.Plane, f pixel.Format) []float64 {
	out := make([]float64, p.Width*p.Height)
	for y := range p.Height {
		pixel.DecodeFloatRow(out[y*p.Width:(y+1)*p.Width], p.Row(y), f)
	}
	return out
}
