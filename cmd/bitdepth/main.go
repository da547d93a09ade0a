// Command bitdepth converts image planes between pixel formats with
// dithering.
//
// Usage:
//
//	bitdepth [flags] input output
//
// Raw inputs hold planar frames: every plane of frame 0, then frame 1 and so
// on, each plane height rows of width little-endian samples. A ".zst" suffix
// marks zstd-compressed raw data. PNG, TIFF and WebP inputs are decoded into
// gray or RGB planes of 8 or 16 bits; PNG and TIFF outputs need an int8 or
// int16 destination.
//
// Examples:
//
//	bitdepth -src int16 -dst int8 -w 1920 -h 1080 in.yuv out.yuv
//	bitdepth -dst int8 -mode floyd -stats photo16.tif photo8.png
//	bitdepth -src int10 -dst int8 -w 64 -h 64 -family gray -spectrum in.raw.zst out.raw.zst
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-bitdepth/dsp/dither"
	"github.com/cwbudde/algo-bitdepth/dsp/pixel"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	input, output string

	src, dst      pixel.Format
	width, height int
	family        pixel.ColorFamily
	srcRange      string
	dstRange      string

	mode       dither.Mode
	patSize    int
	ampo, ampn float64
	dynamic    bool
	static     bool
	correlated bool

	stats    bool
	spectrum bool
	verbose  bool
}

//nolint:funlen
func parseFlags(args []string, stderr io.Writer) (options, error) {
	var (
		opts    options
		srcName string
		dstName string
		family  string
		mode    string
	)

	fs := flag.NewFlagSet("bitdepth", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&srcName, "src", "int16", "source sample format of raw input (int1..int16, half, float)")
	fs.StringVar(&dstName, "dst", "int8", "destination sample format")
	fs.IntVar(&opts.width, "w", 0, "plane width of raw input")
	fs.IntVar(&opts.height, "h", 0, "plane height of raw input")
	fs.StringVar(&family, "family", "yuv", "colour family of raw input (gray, yuv, rgb)")
	fs.StringVar(&opts.srcRange, "src-range", "", "source range: full or limited (default from family)")
	fs.StringVar(&opts.dstRange, "dst-range", "", "destination range: full or limited (default from family)")
	fs.StringVar(&mode, "mode", "bayer", "dithering mode (bayer, round, fast, filterlite, stucki, atkinson, floyd, ostromoukhov)")
	fs.IntVar(&opts.patSize, "pattern", dither.DefaultPatternSize,
		fmt.Sprintf("ordered pattern size (%d..%d, power of two)", dither.MinPatternSize, dither.MaxPatternSize))
	fs.Float64Var(&opts.ampo, "ampo", 1, "ordered / error diffusion amplitude")
	fs.Float64Var(&opts.ampn, "ampn", 0, "random noise amplitude")
	fs.BoolVar(&opts.dynamic, "dynamic", false, "rotate the ordered pattern from frame to frame")
	fs.BoolVar(&opts.static, "static", false, "use the same noise on every frame")
	fs.BoolVar(&opts.correlated, "correlated", false, "use the same pattern and noise on every plane")
	fs.BoolVar(&opts.stats, "stats", false, "print per-plane statistics")
	fs.BoolVar(&opts.spectrum, "spectrum", false, "print the high-frequency share of the quantisation noise (implies -stats)")
	fs.BoolVar(&opts.verbose, "v", false, "verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: bitdepth [flags] input output\n\n")
		fmt.Fprintf(stderr, "Converts image planes between pixel formats with dithering.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return options{}, errors.New("expected input and output paths")
	}
	opts.input, opts.output = fs.Arg(0), fs.Arg(1)

	var err error
	if opts.src, err = pixel.ParseFormat(srcName); err != nil {
		return options{}, err
	}
	if opts.dst, err = pixel.ParseFormat(dstName); err != nil {
		return options{}, err
	}
	if opts.family, err = pixel.ParseColorFamily(family); err != nil {
		return options{}, err
	}
	if opts.mode, err = dither.ParseMode(mode); err != nil {
		return options{}, err
	}
	for _, r := range []string{opts.srcRange, opts.dstRange} {
		if r != "" && r != "full" && r != "limited" {
			return options{}, fmt.Errorf("range must be full or limited: %q", r)
		}
	}
	if opts.spectrum {
		opts.stats = true
	}

	return opts, nil
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.InfoLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}

func resolveRange(flagValue string, family pixel.ColorFamily) bool {
	if flagValue == "" {
		return family.DefaultFullRange()
	}

	return flagValue == "full"
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	log := newLogger(stderr, opts.verbose)

	in, err := readInput(opts.input, rawLayout{
		format: opts.src,
		family: opts.family,
		width:  opts.width,
		height: opts.height,
	})
	if err != nil {
		return err
	}

	srcFull := in.fullRange
	if opts.srcRange != "" || !in.fromImage {
		srcFull = resolveRange(opts.srcRange, in.family)
	}
	dstFull := resolveRange(opts.dstRange, in.family)
	if in.fromImage && opts.dstRange == "" {
		dstFull = true
	}

	engine, err := dither.NewEngine(in.format, opts.dst,
		dither.WithMode(opts.mode),
		dither.WithPatternSize(opts.patSize),
		dither.WithOrderedAmplitude(opts.ampo),
		dither.WithNoiseAmplitude(opts.ampn),
		dither.WithDynamicPattern(opts.dynamic),
		dither.WithStaticNoise(opts.static),
		dither.WithCorrelatedPlanes(opts.correlated),
		dither.WithColorFamily(in.family),
		dither.WithRange(srcFull, dstFull),
		dither.WithLogger(log),
	)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"input":   opts.input,
		"frames":  len(in.frames),
		"planes":  len(in.frames[0]),
		"width":   in.frames[0][0].Width,
		"height":  in.frames[0][0].Height,
		"src":     in.format,
		"dst":     opts.dst,
		"mode":    engine.Mode(),
		"backend": engine.Backend(),
	}).Info("converting")

	out := make([][]pixel.Plane, len(in.frames))
	for n, frame := range in.frames {
		out[n] = make([]pixel.Plane, len(frame))
		for i, p := range frame {
			out[n][i] = pixel.NewPlane(opts.dst, p.Width, p.Height)
		}

		if err := engine.ProcessFrame(out[n], frame, n); err != nil {
			return fmt.Errorf("frame %d: %w", n, err)
		}
	}

	if err := writeOutput(opts.output, out, opts.dst, in.family); err != nil {
		return err
	}

	log.WithField("output", opts.output).Info("done")

	if !opts.stats {
		return nil
	}

	return printReport(stdout, reportInput{
		src:      in.frames,
		dst:      out,
		srcFmt:   in.format,
		dstFmt:   opts.dst,
		family:   in.family,
		srcFull:  srcFull,
		dstFull:  dstFull,
		spectrum: opts.spectrum,
	})
}
