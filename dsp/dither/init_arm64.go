//go:build arm64 && !purego

package dither

import (
	_ "github.com/cwbudde/algo-bitdepth/dsp/dither/internal/arch/arm64/neon"
	_ "github.com/cwbudde/algo-bitdepth/dsp/dither/internal/arch/generic"
)
