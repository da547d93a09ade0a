package dither

import (
	"math"

	"github.com/cwbudde/algo-bitdepth/dsp/dither/internal/arch/registry"
)

const (
	// ampBits is the fixed-point precision of the integer amplitudes.
	ampBits = 5
	ampOne  = 1 << ampBits

	// errRes is the minimum number of fractional bits carried by integer
	// error diffusion.
	errRes = 12

	// noiseBits is the scale of pattern and noise values: 1/256 of a step.
	noiseBits = 8
)

// amplitude holds the ordered/error amplitude (ampo) and the noise
// amplitude (ampn) in both float and fixed-point form.
type amplitude struct {
	ampo, ampn float64
	oi, ni     int32
	simple     bool
}

func newAmplitude(ampo, ampn float64) amplitude {
	return amplitude{
		ampo:   ampo,
		ampn:   ampn,
		oi:     int32(math.Round(ampo * ampOne)),
		ni:     int32(math.Round(ampn * ampOne)),
		simple: ampo == 1 && ampn == 0,
	}
}

var neutralAmplitude = newAmplitude(1, 0)

// dither combines a pattern value and a noise sample, both in 1/256 step.
func (a *amplitude) dither(pat, noise int32) int32 {
	return (pat*a.oi + noise*a.ni) >> ampBits
}

// ditherFloat is the float counterpart of dither, in destination steps.
func (a *amplitude) ditherFloat(pat, noise int32) float64 {
	return (float64(pat)*a.ampo + float64(noise)*a.ampn) * (1.0 / (1 << noiseBits))
}

func clampInt(v, hi int32) int32 {
	return min(max(v, 0), hi)
}

// shiftQuant quantises integer samples when the format mapping is a pure
// right shift by dif bits.
type shiftQuant struct {
	srcBits int
	dif     uint
	rcst    int32
	ditShl  uint
	ditShr  uint
	max     int32

	// Error diffusion works with frac fractional bits of a destination
	// step; samples are widened by widen bits to get there.
	frac  uint
	widen uint
	half  int32
}

func newShiftQuant(srcBits, dstBits int) shiftQuant {
	dif := uint(srcBits - dstBits)
	q := shiftQuant{
		srcBits: srcBits,
		dif:     dif,
		max:     int32(1)<<dstBits - 1,
	}
	if dif > 0 {
		q.rcst = 1 << (dif - 1)
	}
	if dif >= noiseBits {
		q.ditShl = dif - noiseBits
	} else {
		q.ditShr = noiseBits - dif
	}

	q.frac = max(dif, errRes)
	q.widen = q.frac - dif
	q.half = 1 << (q.frac - 1)

	return q
}

func (q *shiftQuant) orderedParams() registry.OrderedParams {
	return registry.OrderedParams{
		Dif:       q.dif,
		Rcst:      q.rcst,
		DitherShl: q.ditShl,
		DitherShr: q.ditShr,
		Max:       q.max,
	}
}

// fast rounds to the destination depth.
func (q *shiftQuant) fast(s int32) int32 {
	return clampInt((s+q.rcst)>>q.dif, q.max)
}

// ordered rounds after adding d (1/256 step) to the sample.
func (q *shiftQuant) ordered(s, d int32) int32 {
	return clampInt((s+q.rcst+(d<<q.ditShl)>>q.ditShr)>>q.dif, q.max)
}

// diffuse quantises s plus the carried error e (in 2^-frac steps) and
// returns the clamped output and the residual to spread. The residual is
// taken against the unclamped rounded value, so |residual| <= half a step.
func (q *shiftQuant) diffuse(s, e int32) (out, residual int32) {
	sum := s<<q.widen + e
	r := (sum + q.half) >> q.frac
	return clampInt(r, q.max), sum - r<<q.frac
}

// noise converts noise*ampn (2^-(noiseBits+ampBits) step) to 2^-frac step.
func (q *shiftQuant) noise(n int32, a *amplitude) int32 {
	const sh = noiseBits + ampBits
	v := n * a.ni
	if q.frac >= sh {
		return v << (q.frac - sh)
	}
	return v >> (sh - q.frac)
}

// level maps a source sample to 0..255 for intensity-dependent kernels.
func (q *shiftQuant) level(s int32) int {
	if q.srcBits >= 8 {
		return int(s >> (q.srcBits - 8))
	}
	return int(s << (8 - q.srcBits))
}

// floatQuant maps samples with the plane's affine scale and rounds to an
// integer destination.
type floatQuant struct {
	gain, add float64
	max       int32
}

func (q *floatQuant) scale(v float64) float64 {
	return v*q.gain + q.add
}

// quantize rounds half up and clamps. NaN maps to 0.
func (q *floatQuant) quantize(v float64) int32 {
	switch {
	case v != v || v < 0:
		return 0
	case v >= float64(q.max):
		return q.max
	default:
		return int32(math.Floor(v + 0.5))
	}
}

// diffuse rounds v like quantize and returns the rounding residual of the
// unclamped value. Non-finite input leaves no residual.
func (q *floatQuant) diffuse(v float64) (int32, float32) {
	return q.quantize(v), finite32(v - math.Floor(v+0.5))
}

// finite32 returns v, or 0 if it is NaN or infinite.
func finite32(v float64) float32 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return float32(v)
}
