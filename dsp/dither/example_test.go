package dither_test

import (
	"encoding/binary"
	"fmt"

	"github.com/cwbudde/algo-bitdepth/dsp/dither"
	"github.com/cwbudde/algo-bitdepth/dsp/pixel"
)

func ExampleNewEngine() {
	eng, err := dither.NewEngine(pixel.Int16, pixel.Int8,
		dither.WithMode(dither.ModeRound),
	)
	if err != nil {
		panic(err)
	}

	// One row of four 16-bit samples.
	src := make([]byte, 8)
	for i, v := range []uint16{0, 32768, 32767, 65535} {
		binary.LittleEndian.PutUint16(src[2*i:], v)
	}
	dst := make([]byte, 4)

	if err := eng.ProcessPlane(dst, 4, src, 8, 4, 1, 0, 0); err != nil {
		panic(err)
	}

	fmt.Println(dst)
	// Output: [0 128 128 255]
}

func ExampleEngine_ProcessPlane_floydSteinberg() {
	eng, err := dither.NewEngine(pixel.Int16, pixel.Int8,
		dither.WithMode(dither.ModeFloydSteinberg),
	)
	if err != nil {
		panic(err)
	}

	// 16x16 plane at 100/256 of an 8-bit step.
	const w, h = 16, 16
	src := make([]byte, 2*w*h)
	for i := range w * h {
		binary.LittleEndian.PutUint16(src[2*i:], 100)
	}
	dst := make([]byte, w*h)

	if err := eng.ProcessPlane(dst, w, src, 2*w, w, h, 0, 0); err != nil {
		panic(err)
	}

	ones := 0
	for _, v := range dst {
		ones += int(v)
	}
	fmt.Printf("%d of %d samples set\n", ones, w*h)
	// Output: 100 of 256 samples set
}

func ExampleParseMode() {
	for _, name := range []string{"fs", "ordered", "-1", "stucki"} {
		m, err := dither.ParseMode(name)
		if err != nil {
			panic(err)
		}
		fmt.Println(int(m), m.Canonical())
	}
	// Output:
	// 6 floyd-steinberg
	// 0 bayer
	// -1 round
	// 4 stucki
}
