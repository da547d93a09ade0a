package noise

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-bitdepth/dsp/pixel"
	"github.com/cwbudde/algo-bitdepth/dsp/window"
)

var (
	errEmpty    = errors.New("noise: empty input")
	errGeometry = errors.New("noise: sample count does not match geometry")
)

// Spectrum is a radially averaged 2-D power spectrum.
type Spectrum struct {
	// Width and Height are the transform size (input padded to powers of two).
	Width  int
	Height int
	// Energy holds the summed power of each radial bin. Bin i covers radial
	// frequencies [i, i+1)/len(Energy) of Nyquist; the corners beyond
	// Nyquist fall into the last bin.
	Energy []float64
	// Radial holds the mean power per frequency sample of each bin.
	Radial []float64
	// Counts is the number of frequency samples in each bin.
	Counts []int
	// Total is the power of all non-DC frequencies. Without a window it
	// equals the variance of the input.
	Total float64
}

// BandEnergy returns the summed power of the bins covering radial
// frequencies [lo, hi), both in units of Nyquist.
func (s Spectrum) BandEnergy(lo, hi float64) float64 {
	n := len(s.Energy)
	if n == 0 || hi <= lo {
		return 0
	}

	first := max(0, int(lo*float64(n)))
	last := n
	if hi <= 1 {
		last = int(hi * float64(n))
	}

	var sum float64
	for i := first; i < last; i++ {
		sum += s.Energy[i]
	}

	return sum
}

// HighFrequencyRatio returns the share of the total power at radial
// frequencies at or above cutoff (in units of Nyquist). It returns 0 for a
// spectrum without power.
func (s Spectrum) HighFrequencyRatio(cutoff float64) float64 {
	if s.Total == 0 {
		return 0
	}

	return s.BandEnergy(cutoff, math.Inf(1)) / s.Total
}

// Analyzer computes noise spectra. FFT plans are cached per size, so an
// Analyzer is not safe for concurrent use.
type Analyzer struct {
	cfg   Config
	plans map[int]*algofft.Plan[complex128]
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(opts ...Option) *Analyzer {
	return &Analyzer{
		cfg:   ApplyOptions(opts...),
		plans: make(map[int]*algofft.Plan[complex128]),
	}
}

// Config returns the analyzer configuration.
func (a *Analyzer) Config() Config { return a.cfg }

// AnalyzePlane decodes p as format f and analyses its samples.
func (a *Analyzer) AnalyzePlane(p pixel.Plane, f pixel.Format) (Spectrum, error) {
	if err := f.Validate(); err != nil {
		return Spectrum{}, err
	}
	if err := p.Check(f); err != nil {
		return Spectrum{}, err
	}

	samples := make([]float64, p.Width*p.Height)
	for y := range p.Height {
		pixel.DecodeFloatRow(samples[y*p.Width:(y+1)*p.Width], p.Row(y), f)
	}

	return a.Analyze(samples, p.Width, p.Height)
}

// AnalyzeError analyses the conversion error got − scale(ref), in
// destination units. Both planes must have the same size.
func (a *Analyzer) AnalyzeError(ref pixel.Plane, refFmt pixel.Format, got pixel.Plane, gotFmt pixel.Format, scale pixel.ScaleInfo) (Spectrum, error) {
	if ref.Width != got.Width || ref.Height != got.Height {
		return Spectrum{}, fmt.Errorf("noise: size mismatch %dx%d vs %dx%d",
			ref.Width, ref.Height, got.Width, got.Height)
	}
	for _, f := range []pixel.Format{refFmt, gotFmt} {
		if err := f.Validate(); err != nil {
			return Spectrum{}, err
		}
	}
	if err := ref.Check(refFmt); err != nil {
		return Spectrum{}, err
	}
	if err := got.Check(gotFmt); err != nil {
		return Spectrum{}, err
	}

	w := ref.Width
	samples := make([]float64, w*ref.Height)
	src := make([]float64, w)

	for y := range ref.Height {
		row := samples[y*w : (y+1)*w]
		pixel.DecodeFloatRow(src, ref.Row(y), refFmt)
		pixel.DecodeFloatRow(row, got.Row(y), gotFmt)

		for x := range row {
			row[x] -= scale.Apply(src[x])
		}
	}

	return a.Analyze(samples, w, ref.Height)
}

// Analyze computes the spectrum of w×h row-major samples.
//
//nolint:funlen
func (a *Analyzer) Analyze(samples []float64, w, h int) (Spectrum, error) {
	if w <= 0 || h <= 0 {
		return Spectrum{}, errEmpty
	}
	if len(samples) != w*h {
		return Spectrum{}, errGeometry
	}

	n := nextPow2(w)
	m := nextPow2(h)

	rowPlan, err := a.plan(n)
	if err != nil {
		return Spectrum{}, err
	}
	colPlan, err := a.plan(m)
	if err != nil {
		return Spectrum{}, err
	}

	var mean float64
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))

	winX := a.window(w)
	winY := a.window(h)

	centred := make([]float64, len(samples))
	for i, v := range samples {
		centred[i] = v - mean
	}

	if err := window.ApplySeparable(centred, w, h, winX, winY); err != nil {
		return Spectrum{}, fmt.Errorf("noise: window: %w", err)
	}

	// Row pass. Padding rows and columns stay zero.
	grid := make([]complex128, n*m)
	in := make([]complex128, n)

	for y := range h {
		row := centred[y*w : (y+1)*w]

		clear(in)
		for x, v := range row {
			in[x] = complex(v, 0)
		}

		if err := rowPlan.Forward(grid[y*n:(y+1)*n], in); err != nil {
			return Spectrum{}, fmt.Errorf("noise: row transform: %w", err)
		}
	}

	// Column pass.
	col := make([]complex128, m)
	out := make([]complex128, m)

	for x := range n {
		for y := range m {
			col[y] = grid[y*n+x]
		}

		if err := colPlan.Forward(out, col); err != nil {
			return Spectrum{}, fmt.Errorf("noise: column transform: %w", err)
		}

		for y := range m {
			grid[y*n+x] = out[y]
		}
	}

	return a.binPower(grid, n, m, window.Energy(winX)*window.Energy(winY)), nil
}

// binPower accumulates |X|² into radial bins, normalised so that the total
// equals the windowed mean square of the input.
func (a *Analyzer) binPower(grid []complex128, n, m int, winEnergy float64) Spectrum {
	bins := a.cfg.Bins
	spec := Spectrum{
		Width:  n,
		Height: m,
		Energy: make([]float64, bins),
		Radial: make([]float64, bins),
		Counts: make([]int, bins),
	}

	if winEnergy == 0 {
		return spec
	}

	norm := 1 / (float64(n*m) * winEnergy)

	re := make([]float64, n)
	im := make([]float64, n)
	pow := make([]float64, n)

	for ky := range m {
		for kx, c := range grid[ky*n : (ky+1)*n] {
			re[kx] = real(c)
			im[kx] = imag(c)
		}
		vecmath.Power(pow, re, im)

		fy := float64(min(ky, m-ky)) / float64(m)

		for kx, p := range pow {
			if kx == 0 && ky == 0 {
				continue
			}

			fx := float64(min(kx, n-kx)) / float64(n)
			r := math.Hypot(fx, fy) * 2

			b := min(int(r*float64(bins)), bins-1)
			spec.Energy[b] += p * norm
			spec.Counts[b]++
		}
	}

	for i, e := range spec.Energy {
		spec.Total += e
		if spec.Counts[i] > 0 {
			spec.Radial[i] = e / float64(spec.Counts[i])
		}
	}

	return spec
}

func (a *Analyzer) plan(n int) (*algofft.Plan[complex128], error) {
	if p, ok := a.plans[n]; ok {
		return p, nil
	}

	p, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("noise: fft plan of size %d: %w", n, err)
	}

	a.plans[n] = p
	return p, nil
}

// window returns periodic Hann coefficients, or ones when windowing is off
// or the axis has a single sample.
func (a *Analyzer) window(size int) []float64 {
	if a.cfg.Window && size > 1 {
		if w, err := window.Hann(size, window.WithPeriodic()); err == nil {
			return w
		}
	}

	return window.Generate(window.TypeRectangular, size)
}

// nextPow2 returns the smallest power of two >= n, at least 2.
func nextPow2(n int) int {
	if n <= 2 {
		return 2
	}

	return 1 << bits.Len(uint(n-1))
}
