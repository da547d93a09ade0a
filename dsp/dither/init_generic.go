//go:build (!amd64 && !arm64) || purego

package dither

import (
	_ "github.com/cwbudde/algo-bitdepth/dsp/dither/internal/arch/generic"
)
