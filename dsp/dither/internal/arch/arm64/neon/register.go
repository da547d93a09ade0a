//go:build arm64 && !purego

// Package neon registers the portable Go ordered row kernel under the NEON
// SIMD level on arm64. It carries no assembly.
package neon

import (
	"github.com/cwbudde/algo-bitdepth/dsp/dither/internal/arch/generic"
	"github.com/cwbudde/algo-bitdepth/dsp/dither/internal/arch/registry"
	"github.com/cwbudde/algo-bitdepth/internal/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:       "neon",
		SIMDLevel:  cpu.SIMDNEON,
		Priority:   15,
		OrderedRow: generic.OrderedRow,
	})
}
