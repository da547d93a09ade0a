package plane_test

import (
	"fmt"

	"github.com/cwbudde/algo-bitdepth/dsp/pixel"
	"github.com/cwbudde/algo-bitdepth/stats/plane"
)

func ExampleCalculate() {
	s := plane.Calculate([]float64{99, 100, 101, 100})
	fmt.Printf("mean=%.1f var=%.2f\n", s.Mean, s.Variance)

	// Output:
	// mean=100.0 var=0.50
}

func ExampleFromPlane() {
	p := pixel.Plane{Data: []byte{10, 20, 30, 40}, Stride: 2, Width: 2, Height: 2}

	s, err := plane.FromPlane(p, pixel.Int8)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("n=%d mean=%.1f max=%.0f@%d\n", s.Count, s.Mean, s.Max, s.MaxPos)

	// Output:
	// n=4 mean=25.0 max=40@3
}
