//go:build amd64 && !purego

package dither

import (
	_ "github.com/cwbudde/algo-bitdepth/dsp/dither/internal/arch/amd64/avx2" // register AVX2 backend
	_ "github.com/cwbudde/algo-bitdepth/dsp/dither/internal/arch/amd64/sse2" // register SSE2 backend
	_ "github.com/cwbudde/algo-bitdepth/dsp/dither/internal/arch/generic"    // register generic backend
)
