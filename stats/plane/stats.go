// Package plane computes sample statistics over image planes.
//
// The statistics are used to check that a bit-depth conversion stays
// unbiased (the mean of the output tracks the scaled mean of the input) and
// to report the quantisation error of a converted plane.
package plane

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-bitdepth/dsp/pixel"
)

// Stats holds sample statistics of a plane or sample slice. Positions are
// row-major sample indices.
type Stats struct {
	Count    int
	Mean     float64
	RMS      float64
	Max      float64
	MaxPos   int
	Min      float64
	MinPos   int
	Peak     float64 // max(|max|, |min|)
	Range    float64 // max - min
	Energy   float64 // sum of squares
	Power    float64 // energy / count
	Variance float64
	StdDev   float64
	Skewness float64
	Kurtosis float64 // excess
}

// Calculate computes all statistics of samples in a single pass.
func Calculate(samples []float64) Stats {
	var acc Accumulator
	acc.Update(samples)

	return acc.Result()
}

// Accumulator gathers statistics incrementally, one block of samples at a
// time. Feeding the same samples in any block split yields the same result
// as [Calculate]. The zero value is ready to use.
type Accumulator struct {
	n      int
	mean   float64
	m2     float64
	m3     float64
	m4     float64
	sumSq  float64
	maxVal float64
	maxPos int
	minVal float64
	minPos int
}

// NewAccumulator returns an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Reset discards all accumulated samples.
func (a *Accumulator) Reset() {
	*a = Accumulator{}
}

// Count returns the number of samples seen so far.
func (a *Accumulator) Count() int { return a.n }

// Update adds a block of samples.
func (a *Accumulator) Update(samples []float64) {
	for _, x := range samples {
		if a.n == 0 || x > a.maxVal {
			a.maxVal = x
			a.maxPos = a.n
		}
		if a.n == 0 || x < a.minVal {
			a.minVal = x
			a.minPos = a.n
		}

		a.n++
		ni := float64(a.n)

		// Welford update. M4 before M3 before M2.
		delta := x - a.mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(a.n-1)

		a.m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*a.m2 - 4*deltaN*a.m3
		a.m3 += term1*deltaN*(float64(a.n-1)-1) - 3*deltaN*a.m2
		a.m2 += term1
		a.mean += deltaN

		a.sumSq += x * x
	}
}

// Result returns the statistics of all samples seen so far.
func (a *Accumulator) Result() Stats {
	if a.n == 0 {
		return Stats{}
	}

	nf := float64(a.n)
	variance := a.m2 / nf

	var skewness, kurtosis float64
	if variance > 0 {
		skewness = (a.m3 / nf) / (variance * math.Sqrt(variance))
		kurtosis = (a.m4/nf)/(variance*variance) - 3
	}

	return Stats{
		Count:    a.n,
		Mean:     a.mean,
		RMS:      math.Sqrt(a.sumSq / nf),
		Max:      a.maxVal,
		MaxPos:   a.maxPos,
		Min:      a.minVal,
		MinPos:   a.minPos,
		Peak:     math.Max(math.Abs(a.maxVal), math.Abs(a.minVal)),
		Range:    a.maxVal - a.minVal,
		Energy:   a.sumSq,
		Power:    a.sumSq / nf,
		Variance: variance,
		StdDev:   math.Sqrt(variance),
		Skewness: skewness,
		Kurtosis: kurtosis,
	}
}

// FromPlane computes the statistics of every sample of p, decoded as format
// f into its own numeric range (integer codes or float values).
func FromPlane(p pixel.Plane, f pixel.Format) (Stats, error) {
	if err := f.Validate(); err != nil {
		return Stats{}, err
	}
	if err := p.Check(f); err != nil {
		return Stats{}, err
	}

	var acc Accumulator

	row := make([]float64, p.Width)
	for y := range p.Height {
		pixel.DecodeFloatRow(row, p.Row(y), f)
		acc.Update(row)
	}

	return acc.Result(), nil
}

// Difference computes the statistics of got − scale(ref) per sample: the
// error a conversion from refFmt to gotFmt introduced, measured in
// destination units. Both planes must have the same size.
func Difference(ref pixel.Plane, refFmt pixel.Format, got pixel.Plane, gotFmt pixel.Format, scale pixel.ScaleInfo) (Stats, error) {
	if ref.Width != got.Width || ref.Height != got.Height {
		return Stats{}, fmt.Errorf("plane: size mismatch %dx%d vs %dx%d",
			ref.Width, ref.Height, got.Width, got.Height)
	}
	for _, f := range []pixel.Format{refFmt, gotFmt} {
		if err := f.Validate(); err != nil {
			return Stats{}, err
		}
	}
	if err := ref.Check(refFmt); err != nil {
		return Stats{}, err
	}
	if err := got.Check(gotFmt); err != nil {
		return Stats{}, err
	}

	var acc Accumulator

	a := make([]float64, ref.Width)
	b := make([]float64, got.Width)

	for y := range ref.Height {
		pixel.DecodeFloatRow(a, ref.Row(y), refFmt)
		pixel.DecodeFloatRow(b, got.Row(y), gotFmt)

		for x := range b {
			b[x] -= scale.Apply(a[x])
		}

		acc.Update(b)
	}

	return acc.Result(), nil
}

// PSNR returns the peak signal-to-noise ratio in dB of an error whose
// statistics are s, relative to peak. Returns +Inf for a zero error.
func PSNR(s Stats, peak float64) float64 {
	if s.RMS == 0 {
		return math.Inf(1)
	}

	return 20 * math.Log10(peak/s.RMS)
}
