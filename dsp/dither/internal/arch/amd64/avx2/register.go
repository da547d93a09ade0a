//go:build amd64 && !purego

// Package avx2 registers a 4x-unrolled scalar Go variant of the ordered row
// kernel for AVX2-capable CPUs. It carries no assembly; the unrolled loop
// leaves vectorisation to the compiler.
package avx2

import (
	"github.com/cwbudde/algo-bitdepth/dsp/dither/internal/arch/registry"
	"github.com/cwbudde/algo-bitdepth/internal/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:       "avx2",
		SIMDLevel:  cpu.SIMDAVX2,
		Priority:   20,
		OrderedRow: orderedRow,
	})
}

// orderedRow is a 4x-unrolled scalar kernel selected for AVX2-capable CPUs.
// Pattern lengths are powers of two >= 4, so a group of four never wraps.
func orderedRow(dst, src []int32, pat []int16, p registry.OrderedParams) {
	mask := len(pat) - 1
	src = src[:len(dst)]
	rcst, shl, shr, dif, hi := p.Rcst, p.DitherShl, p.DitherShr, p.Dif, p.Max

	x := 0
	n := len(dst)
	for ; x+3 < n; x += 4 {
		base := x & mask
		d := pat[base : base+4 : base+4]
		s := src[x : x+4 : x+4]

		v0 := (s[0] + rcst + (int32(d[0])<<shl)>>shr) >> dif
		v1 := (s[1] + rcst + (int32(d[1])<<shl)>>shr) >> dif
		v2 := (s[2] + rcst + (int32(d[2])<<shl)>>shr) >> dif
		v3 := (s[3] + rcst + (int32(d[3])<<shl)>>shr) >> dif

		dst[x] = min(max(v0, 0), hi)
		dst[x+1] = min(max(v1, 0), hi)
		dst[x+2] = min(max(v2, 0), hi)
		dst[x+3] = min(max(v3, 0), hi)
	}

	for ; x < n; x++ {
		d := int32(pat[x&mask])
		v := (src[x] + rcst + (d<<shl)>>shr) >> dif
		dst[x] = min(max(v, 0), hi)
	}
}
