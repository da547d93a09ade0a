package dither

import "github.com/cwbudde/algo-bitdepth/dsp/pixel"

// Error diffusion scans even rows left to right and odd rows right to left.
//
// The error of the pixel being quantised, and for two-row kernels the error
// of the next pixel too, is held in pend; the row cells at and just ahead of
// the scan position are moved into pend before they are overwritten with
// contributions for a later row. One-row kernels use a single row buffer in
// place. Two-row kernels keep row y+1 in nxt and reuse cur for row y+2.

func scanStart(y, w int) (m, dir int) {
	if y&1 == 0 {
		return errMargin, 1
	}
	return w - 1 + errMargin, -1
}

func processErrDifShift(p *planeParams, j *planeJob) {
	in, out := intRows.Get(j.w), intRows.Get(j.w)
	defer intRows.Put(in)
	defer intRows.Put(out)
	s, d := in.Samples(), out.Samples()

	eb := j.eb
	two := p.kernel.Rows() == 2
	q := &p.sq
	a := &p.amp

	for y := range j.h {
		pixel.DecodeIntRow(s, j.srcRow(y), p.src)

		m, dir := scanStart(y, j.w)
		var cur, nxt []int16
		if two {
			cur, nxt = eb.IntRow(y&1), eb.IntRow((y+1)&1)
		} else {
			cur = eb.IntRow(0)
		}
		clearAhead(cur, dir)

		pend0 := eb.pendInt[0] + int32(cur[m])
		pend1 := eb.pendInt[1]
		if two {
			pend1 += int32(cur[m+dir])
			cur[m], cur[m+dir] = 0, 0
		}

		for range j.w {
			x := m - errMargin
			v := s[x]
			e := pend0
			if !a.simple {
				j.rnd = j.rnd.Next()
				e = sat32(int64(e)*int64(a.oi)>>ampBits, 1<<24) + q.noise(j.rnd.Noise(), a)
			}

			var r int32
			d[x], r = q.diffuse(v, e)
			sp := p.kernel.SpreadInt(r, q.level(v))

			if two {
				pend0 = pend1 + sp.Ahead[0]
				pend1 = int32(cur[m+2*dir]) + sp.Ahead[1]
				cur[m+2*dir] = sat16(sp.Below2[4])
				for k := 3; k >= 0; k-- {
					c := m + (k-2)*dir
					cur[c] = sat16(int32(cur[c]) + sp.Below2[k])
				}
				for k := range 5 {
					c := m + (k-2)*dir
					nxt[c] = sat16(int32(nxt[c]) + sp.Below[k])
				}
			} else {
				pend0 = int32(cur[m+dir]) + sp.Ahead[0]
				cur[m] = sat16(sp.Below[2])
				cur[m-dir] = sat16(int32(cur[m-dir]) + sp.Below[1])
				cur[m-2*dir] = sat16(int32(cur[m-2*dir]) + sp.Below[0])
			}

			m += dir
		}

		eb.pendInt[0], eb.pendInt[1] = pend0, pend1
		if !two {
			eb.pendInt[1] = 0
		}

		pixel.EncodeIntRow(j.dstRow(y), d, p.dst)
		j.rnd = j.rnd.NextLine()
	}
}

func processErrDifFloat(p *planeParams, j *planeJob) {
	in, out := floatRows.Get(j.w), intRows.Get(j.w)
	defer floatRows.Put(in)
	defer intRows.Put(out)
	s, d := in.Samples(), out.Samples()

	eb := j.eb
	two := p.kernel.Rows() == 2
	fq := &p.fq
	a := &p.amp

	for y := range j.h {
		pixel.DecodeFloatRow(s, j.srcRow(y), p.src)

		m, dir := scanStart(y, j.w)
		var cur, nxt []float32
		if two {
			cur, nxt = eb.FloatRow(y&1), eb.FloatRow((y+1)&1)
		} else {
			cur = eb.FloatRow(0)
		}
		clearAhead(cur, dir)

		pend0 := eb.pendFloat[0] + cur[m]
		pend1 := eb.pendFloat[1]
		if two {
			pend1 += cur[m+dir]
			cur[m], cur[m+dir] = 0, 0
		}

		for range j.w {
			x := m - errMargin
			v := fq.scale(s[x])
			if a.simple {
				v += float64(pend0)
			} else {
				j.rnd = j.rnd.Next()
				v += float64(pend0)*a.ampo + a.ditherFloat(0, j.rnd.Noise())
			}

			var r float32
			d[x], r = fq.diffuse(v)
			sp := p.kernel.SpreadFloat(r, 0)

			if two {
				pend0 = pend1 + sp.Ahead[0]
				pend1 = cur[m+2*dir] + sp.Ahead[1]
				cur[m+2*dir] = sp.Below2[4]
				for k := 3; k >= 0; k-- {
					cur[m+(k-2)*dir] += sp.Below2[k]
				}
				for k := range 5 {
					nxt[m+(k-2)*dir] += sp.Below[k]
				}
			} else {
				pend0 = cur[m+dir] + sp.Ahead[0]
				cur[m] = sp.Below[2]
				cur[m-dir] += sp.Below[1]
				cur[m-2*dir] += sp.Below[0]
			}

			m += dir
		}

		eb.pendFloat[0], eb.pendFloat[1] = pend0, pend1
		if !two {
			eb.pendFloat[1] = 0
		}

		pixel.EncodeIntRow(j.dstRow(y), d, p.dst)
		j.rnd = j.rnd.NextLine()
	}
}

func sat32(v int64, lim int32) int32 {
	return int32(min(max(v, -int64(lim)), int64(lim)))
}
