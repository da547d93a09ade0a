//go:build amd64 && !purego

// Package sse2 registers a 2x-unrolled scalar Go variant of the ordered row
// kernel for SSE2-capable CPUs. It carries no assembly.
package sse2

import (
	"github.com/cwbudde/algo-bitdepth/dsp/dither/internal/arch/registry"
	"github.com/cwbudde/algo-bitdepth/internal/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:       "sse2",
		SIMDLevel:  cpu.SIMDSSE2,
		Priority:   10,
		OrderedRow: orderedRow,
	})
}

// orderedRow is a 2x-unrolled scalar kernel selected for SSE2-capable CPUs.
func orderedRow(dst, src []int32, pat []int16, p registry.OrderedParams) {
	mask := len(pat) - 1
	src = src[:len(dst)]
	rcst, shl, shr, dif, hi := p.Rcst, p.DitherShl, p.DitherShr, p.Dif, p.Max

	x := 0
	n := len(dst)
	for ; x+1 < n; x += 2 {
		d0 := int32(pat[x&mask])
		d1 := int32(pat[(x+1)&mask])
		v0 := (src[x] + rcst + (d0<<shl)>>shr) >> dif
		v1 := (src[x+1] + rcst + (d1<<shl)>>shr) >> dif
		dst[x] = min(max(v0, 0), hi)
		dst[x+1] = min(max(v1, 0), hi)
	}

	if x < n {
		d := int32(pat[x&mask])
		v := (src[x] + rcst + (d<<shl)>>shr) >> dif
		dst[x] = min(max(v, 0), hi)
	}
}
