package pixel

import "math"

// Range is the pair of numeric values a plane uses for its reference black
// and white (for chroma: the lower and upper excursion).
type Range struct {
	Black float64
	White float64
}

// Span returns White - Black.
func (r Range) Span() float64 { return r.White - r.Black }

// PlaneRange returns the numeric range of a plane stored in format f.
//
// Integer limited range follows the 8-bit broadcast levels scaled by
// 2^(bits-8): 16-235 for luma, 16-240 for chroma. Integer full range uses
// 0..2^bits-1 for luma and RGB. Full-range chroma is centred on 2^(bits-1)
// with an excursion of (2^bits-1)/2 so that the neutral value maps exactly
// between bit depths. Floating-point planes ignore the range flag: luma and
// RGB span 0..1, chroma -0.5..+0.5.
func PlaneRange(f Format, family ColorFamily, plane int, full bool) Range {
	chroma := family.IsChroma(plane)

	if f.Kind == KindFloat {
		if chroma {
			return Range{Black: -0.5, White: 0.5}
		}
		return Range{Black: 0, White: 1}
	}

	if !full {
		mul := math.Ldexp(1, f.Bits-8)
		if chroma {
			return Range{Black: 16 * mul, White: 240 * mul}
		}
		return Range{Black: 16 * mul, White: 235 * mul}
	}

	maxCode := float64(f.MaxValue())
	if chroma {
		mid := math.Ldexp(1, f.Bits-1)
		return Range{Black: mid - maxCode/2, White: mid + maxCode/2}
	}

	return Range{Black: 0, White: maxCode}
}

// ScaleInfo is the affine mapping dst = src*Gain + Add between the numeric
// ranges of two formats. It is computed once per plane and read-only during
// processing.
type ScaleInfo struct {
	Gain float64
	Add  float64
}

// Identity is the neutral mapping.
var Identity = ScaleInfo{Gain: 1}

// ComputeScale returns the mapping that sends src.Black to dst.Black and
// src.White to dst.White. Both spans are non-zero for validated formats.
func ComputeScale(src, dst Range) ScaleInfo {
	gain := dst.Span() / src.Span()
	return ScaleInfo{
		Gain: gain,
		Add:  dst.Black - src.Black*gain,
	}
}

// NewScaleInfo computes the mapping for one plane of a format conversion.
func NewScaleInfo(src, dst Format, family ColorFamily, plane int, srcFull, dstFull bool) ScaleInfo {
	return ComputeScale(
		PlaneRange(src, family, plane, srcFull),
		PlaneRange(dst, family, plane, dstFull),
	)
}

// Apply maps one value.
func (s ScaleInfo) Apply(v float64) float64 {
	return v*s.Gain + s.Add
}

// IsShift reports whether the mapping between two integer bit depths is a
// pure power-of-two scaling, i.e. Gain == 2^(dstBits-srcBits) and Add == 0.
func (s ScaleInfo) IsShift(srcBits, dstBits int) bool {
	return s.Add == 0 && s.Gain == math.Ldexp(1, dstBits-srcBits)
}
