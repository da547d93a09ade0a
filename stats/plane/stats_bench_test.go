package plane

import (
	"strconv"
	"testing"

	"github.com/cwbudde/algo-bitdepth/dsp/pixel"
)

func BenchmarkCalculate(b *testing.B) {
	for _, n := range []int{256, 4096, 65536} {
		samples := make([]float64, n)
		for i := range samples {
			samples[i] = float64(i % 256)
		}

		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(n * 8))

			for b.Loop() {
				Calculate(samples)
			}
		})
	}
}

func BenchmarkFromPlane(b *testing.B) {
	p := constPlane(pixel.Int16, 1920, 64, 25600)

	b.ReportAllocs()
	b.SetBytes(int64(len(p.Data)))

	for b.Loop() {
		_, _ = FromPlane(p, pixel.Int16)
	}
}
