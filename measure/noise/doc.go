// Package noise measures the spatial spectrum of quantisation noise.
//
// An [Analyzer] takes a plane (or the difference between a converted plane
// and its scaled source), removes the mean, applies a separable Hann window
// and computes the 2-D power spectrum with row and column FFTs. The power is
// then averaged over rings of equal radial frequency, normalised so that 1.0
// is the Nyquist frequency along either axis.
//
// Ordered dithering and error diffusion push their noise towards high
// spatial frequencies; plain rounding of smooth content leaves it at low
// frequencies. [Spectrum.HighFrequencyRatio] condenses that into one number.
//
// # Usage
//
//	a := noise.NewAnalyzer(noise.WithBins(32))
//	spec, err := a.AnalyzeError(src, pixel.Int16, dst, pixel.Int8, scale)
//	fmt.Printf("high band: %.1f%%\n", 100*spec.HighFrequencyRatio(0.5))
package noise
