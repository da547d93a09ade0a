// Package generic registers the portable ordered row kernel.
package generic

import (
	"github.com/cwbudde/algo-bitdepth/dsp/dither/internal/arch/registry"
	"github.com/cwbudde/algo-bitdepth/internal/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:       "generic",
		SIMDLevel:  cpu.SIMDNone,
		Priority:   0,
		OrderedRow: OrderedRow,
	})
}

// OrderedRow is the reference implementation of registry.OrderedRowFn.
func OrderedRow(dst, src []int32, pat []int16, p registry.OrderedParams) {
	mask := len(pat) - 1
	src = src[:len(dst)]

	for x, s := range src {
		d := int32(pat[x&mask])
		v := (s + p.Rcst + (d<<p.DitherShl)>>p.DitherShr) >> p.Dif
		dst[x] = min(max(v, 0), p.Max)
	}
}
