package dither

import (
	"fmt"

	"github.com/cwbudde/algo-bitdepth/dsp/pixel"
)

// path is the arithmetic a plane is processed with.
type path uint8

const (
	// pathShift: integer to integer, the mapping is a right shift.
	pathShift path = iota
	// pathScaled: integer destination, any other mapping.
	pathScaled
	// pathConvert: floating-point destination.
	pathConvert
)

var pathNames = [...]string{
	pathShift:   "shift",
	pathScaled:  "scaled",
	pathConvert: "convert",
}

func (p path) String() string {
	if int(p) < len(pathNames) {
		return pathNames[p]
	}
	return "unknown"
}

// sampleClass is the storage type of a sample.
type sampleClass uint8

const (
	classU8 sampleClass = iota
	classU16
	classF16
	classF32
)

func classOf(f pixel.Format) sampleClass {
	switch {
	case f.IsInt() && f.Bits <= 8:
		return classU8
	case f.IsInt():
		return classU16
	case f.Bits == 16:
		return classF16
	default:
		return classF32
	}
}

func (c sampleClass) isInt() bool { return c <= classU16 }

// dispatchKey selects a row processor.
type dispatchKey struct {
	path   path
	src    sampleClass
	dst    sampleClass
	mode   Mode
	simple bool
}

var planeFuncs = map[dispatchKey]planeFunc{}

func registerPlaneFunc(k dispatchKey, fn planeFunc) {
	planeFuncs[k] = fn
}

func init() {
	classes := []sampleClass{classU8, classU16, classF16, classF32}

	for _, sc := range classes {
		for _, dc := range classes {
			for m := ModeBayer; m < modeCount; m++ {
				for _, simple := range []bool{true, false} {
					if !dc.isInt() {
						registerPlaneFunc(dispatchKey{pathConvert, sc, dc, m, simple}, processConvertFloat)
						continue
					}

					if sc.isInt() {
						registerPlaneFunc(dispatchKey{pathShift, sc, dc, m, simple}, shiftFunc(m))
					}
					registerPlaneFunc(dispatchKey{pathScaled, sc, dc, m, simple}, scaledFunc(m))
				}
			}
		}
	}
}

func shiftFunc(m Mode) planeFunc {
	switch {
	case m == ModeFast:
		return processFastShift
	case m.IsErrorDiffusion():
		return processErrDifShift
	default:
		return processOrderedShift
	}
}

func scaledFunc(m Mode) planeFunc {
	if m.IsErrorDiffusion() {
		return processErrDifFloat
	}
	return processOrderedFloat
}

// lookupPlaneFunc returns the processor for a plane, or ErrUnsupported.
func lookupPlaneFunc(k dispatchKey) (planeFunc, error) {
	fn, ok := planeFuncs[k]
	if !ok {
		return nil, fmt.Errorf("dither: %w: %s path, mode %s", ErrUnsupported, k.path, k.mode)
	}
	return fn, nil
}
