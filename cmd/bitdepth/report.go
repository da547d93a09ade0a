package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/algo-bitdepth/dsp/pixel"
	"github.com/cwbudde/algo-bitdepth/measure/noise"
	planestats "github.com/cwbudde/algo-bitdepth/stats/plane"
)

type reportInput struct {
	src, dst         [][]pixel.Plane
	srcFmt, dstFmt   pixel.Format
	family           pixel.ColorFamily
	srcFull, dstFull bool
	spectrum         bool
}

// printReport writes one line per frame and plane: output statistics in
// destination codes, and the conversion error against the scaled source.
func printReport(w io.Writer, r reportInput) error {
	peak := 1.0
	if r.dstFmt.IsInt() {
		peak = float64(r.dstFmt.MaxValue())
	}

	var analyzer *noise.Analyzer
	if r.spectrum {
		analyzer = noise.NewAnalyzer()
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := "Frame\tPlane\tMean\tStdDev\tMin\tMax\tErr Mean\tErr RMS\tPSNR [dB]"
	if r.spectrum {
		header += "\tHF Noise [%]"
	}
	if _, err := fmt.Fprintln(tw, header); err != nil {
		return err
	}

	for n := range r.dst {
		for i, out := range r.dst[n] {
			s, err := planestats.FromPlane(out, r.dstFmt)
			if err != nil {
				return err
			}

			scale := pixel.NewScaleInfo(r.srcFmt, r.dstFmt, r.family, i, r.srcFull, r.dstFull)
			e, err := planestats.Difference(r.src[n][i], r.srcFmt, out, r.dstFmt, scale)
			if err != nil {
				return err
			}

			line := fmt.Sprintf("%d\t%d\t%.4f\t%.4f\t%g\t%g\t%+.4f\t%.4f\t%.2f",
				n, i, s.Mean, s.StdDev, s.Min, s.Max, e.Mean, e.RMS, planestats.PSNR(e, peak))

			if analyzer != nil {
				spec, err := analyzer.AnalyzeError(r.src[n][i], r.srcFmt, out, r.dstFmt, scale)
				if err != nil {
					return err
				}
				line += fmt.Sprintf("\t%.1f", 100*spec.HighFrequencyRatio(0.5))
			}

			if _, err := fmt.Fprintln(tw, line); err != nil {
				return err
			}
		}
	}

	return tw.Flush()
}
