package dither

import (
	"github.com/cwbudde/algo-bitdepth/dsp/buffer"
	"github.com/cwbudde/algo-bitdepth/dsp/dither/internal/arch/registry"
	"github.com/cwbudde/algo-bitdepth/dsp/pixel"
)

var (
	intRows   = buffer.NewPool[int32]()
	floatRows = buffer.NewPool[float64]()
)

// planeParams are the read-only per-plane settings a row processor needs.
type planeParams struct {
	src, dst pixel.Format
	sq       shiftQuant
	fq       floatQuant
	scale    pixel.ScaleInfo
	amp      amplitude
	kernel   Kernel
	ordered  registry.OrderedRowFn
}

// planeJob is the mutable state of one ProcessPlane call.
type planeJob struct {
	dst       []byte
	dstStride int
	src       []byte
	srcStride int
	w, h      int

	rnd Random
	pat *Pattern
	eb  *ErrorBuffer
}

func (j *planeJob) srcRow(y int) []byte { return j.src[y*j.srcStride:] }
func (j *planeJob) dstRow(y int) []byte { return j.dst[y*j.dstStride:] }

// planeFunc processes every row of a plane.
type planeFunc func(p *planeParams, j *planeJob)

func processFastShift(p *planeParams, j *planeJob) {
	in, out := intRows.Get(j.w), intRows.Get(j.w)
	defer intRows.Put(in)
	defer intRows.Put(out)
	s, d := in.Samples(), out.Samples()

	for y := range j.h {
		pixel.DecodeIntRow(s, j.srcRow(y), p.src)
		for x, v := range s {
			d[x] = p.sq.fast(v)
		}
		pixel.EncodeIntRow(j.dstRow(y), d, p.dst)
		j.rnd = j.rnd.NextLine()
	}
}

func processOrderedShift(p *planeParams, j *planeJob) {
	in, out := intRows.Get(j.w), intRows.Get(j.w)
	defer intRows.Put(in)
	defer intRows.Put(out)
	s, d := in.Samples(), out.Samples()
	params := p.sq.orderedParams()

	for y := range j.h {
		pixel.DecodeIntRow(s, j.srcRow(y), p.src)
		pat := j.pat.Row(y)

		if p.amp.simple {
			p.ordered(d, s, pat, params)
		} else {
			mask := len(pat) - 1
			for x, v := range s {
				j.rnd = j.rnd.Next()
				d[x] = p.sq.ordered(v, p.amp.dither(int32(pat[x&mask]), j.rnd.Noise()))
			}
		}

		pixel.EncodeIntRow(j.dstRow(y), d, p.dst)
		j.rnd = j.rnd.NextLine()
	}
}

// processOrderedFloat covers Fast, Round and Bayer when the mapping is not a
// plain shift. Fast runs with a zero pattern and neutral amplitudes.
func processOrderedFloat(p *planeParams, j *planeJob) {
	in, out := floatRows.Get(j.w), intRows.Get(j.w)
	defer floatRows.Put(in)
	defer intRows.Put(out)
	s, d := in.Samples(), out.Samples()
	const step = 1.0 / (1 << noiseBits)

	for y := range j.h {
		pixel.DecodeFloatRow(s, j.srcRow(y), p.src)
		pat := j.pat.Row(y)
		mask := len(pat) - 1

		if p.amp.simple {
			for x, v := range s {
				d[x] = p.fq.quantize(p.fq.scale(v) + float64(pat[x&mask])*step)
			}
		} else {
			for x, v := range s {
				j.rnd = j.rnd.Next()
				d[x] = p.fq.quantize(p.fq.scale(v) + p.amp.ditherFloat(int32(pat[x&mask]), j.rnd.Noise()))
			}
		}

		pixel.EncodeIntRow(j.dstRow(y), d, p.dst)
		j.rnd = j.rnd.NextLine()
	}
}

// processConvertFloat handles floating-point destinations: the samples are
// only rescaled, there is nothing to dither.
func processConvertFloat(p *planeParams, j *planeJob) {
	buf := floatRows.Get(j.w)
	defer floatRows.Put(buf)
	s := buf.Samples()

	for y := range j.h {
		pixel.DecodeFloatRow(s, j.srcRow(y), p.src)
		for x, v := range s {
			s[x] = p.scale.Apply(v)
		}
		pixel.EncodeFloatRow(j.dstRow(y), s, p.dst)
		j.rnd = j.rnd.NextLine()
	}
}
