package dither_test

import (
	"bytes"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/cwbudde/algo-bitdepth/dsp/dither"
	"github.com/cwbudde/algo-bitdepth/dsp/pixel"
	"github.com/cwbudde/algo-bitdepth/internal/cpu"
	"github.com/cwbudde/algo-bitdepth/internal/testutil"
)

var allModes = []dither.Mode{
	dither.ModeRoundAlias, dither.ModeBayer, dither.ModeRound, dither.ModeFast,
	dither.ModeFilterLite, dither.ModeStucki, dither.ModeAtkinson,
	dither.ModeFloydSteinberg, dither.ModeOstromoukhov,
}

func newEngine(t testing.TB, src, dst pixel.Format, opts ...dither.Option) *dither.Engine {
	t.Helper()

	e, err := dither.NewEngine(src, dst, opts...)
	if err != nil {
		t.Fatalf("NewEngine(%v, %v) error = %v", src, dst, err)
	}

	return e
}

func process(t testing.TB, e *dither.Engine, in pixel.Plane, frame, plane int) pixel.Plane {
	t.Helper()

	out := pixel.NewPlane(e.Destination(), in.Width, in.Height)
	if err := e.ProcessPlane(out.Data, out.Stride, in.Data, in.Stride, in.Width, in.Height, frame, plane); err != nil {
		t.Fatalf("ProcessPlane(frame=%d, plane=%d) error = %v", frame, plane, err)
	}

	return out
}

func TestRoundScenario(t *testing.T) {
	e := newEngine(t, pixel.Int16, pixel.Int8, dither.WithMode(dither.ModeRound))

	in := testutil.ConstPlane(pixel.Int16, 8, 1, 32768)
	want := []int32{128, 128, 128, 128, 128, 128, 128, 128}

	for _, frame := range []int{0, 1, 7, 1000} {
		if got := testutil.IntSamples(process(t, e, in, frame, 0), pixel.Int8); !slices.Equal(got, want) {
			t.Errorf("frame %d: got %v, want %v", frame, got, want)
		}
	}
}

func TestFloydSteinbergScenario(t *testing.T) {
	e := newEngine(t, pixel.Int16, pixel.Int8, dither.WithMode(dither.ModeFloydSteinberg))

	const target = 100.0 / 256

	small := testutil.IntSamples(process(t, e, testutil.ConstPlane(pixel.Int16, 4, 4, 100), 0, 0), pixel.Int8)
	testutil.RequireCodesInRange(t, small, 0, 1)
	// Every output stays within one step of the source value.
	for i, v := range small {
		if d := math.Abs(float64(v) - target); d >= 1 {
			t.Errorf("sample %d: |%d - %.4f| = %.4f, want < 1", i, v, target, d)
		}
	}

	prevErr := math.Inf(1)
	for _, n := range []int{16, 64} {
		out := testutil.IntSamples(process(t, e, testutil.ConstPlane(pixel.Int16, n, n, 100), 0, 0), pixel.Int8)
		testutil.RequireCodesInRange(t, out, 0, 1)

		dev := math.Abs(testutil.Mean(out) - target)
		if dev > prevErr {
			t.Errorf("n=%d: deviation %.5f grew from %.5f", n, dev, prevErr)
		}
		if dev >= 0.01 {
			t.Errorf("n=%d: deviation %.5f, want < 0.01", n, dev)
		}
		prevErr = dev
	}
}

func TestErrorDiffusionMeans(t *testing.T) {
	const target = 100.0 / 256
	tests := []struct {
		mode dither.Mode
		tol  float64
	}{
		{dither.ModeFilterLite, 0.01},
		{dither.ModeFloydSteinberg, 0.01},
		{dither.ModeStucki, 0.01},
		{dither.ModeOstromoukhov, 0.01},
		// Atkinson drops a quarter of the error.
		{dither.ModeAtkinson, 0.05},
	}
	in := testutil.ConstPlane(pixel.Int16, 64, 64, 100)

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			e := newEngine(t, pixel.Int16, pixel.Int8, dither.WithMode(tt.mode))
			out := testutil.IntSamples(process(t, e, in, 0, 0), pixel.Int8)
			testutil.RequireCodesInRange(t, out, 0, 1)

			if m := testutil.Mean(out); math.Abs(m-target) > tt.tol {
				t.Errorf("mean = %.5f, want %.5f ± %g", m, target, tt.tol)
			}
		})
	}
}

func TestBayerMeanIsExact(t *testing.T) {
	e := newEngine(t, pixel.Int16, pixel.Int8, dither.WithMode(dither.ModeBayer), dither.WithPatternSize(32))

	out := testutil.IntSamples(process(t, e, testutil.ConstPlane(pixel.Int16, 32, 32, 100), 0, 0), pixel.Int8)
	testutil.RequireCodesInRange(t, out, 0, 1)

	if m := testutil.Mean(out); m != 100.0/256 {
		t.Errorf("mean = %v, want %v", m, 100.0/256)
	}
}

func TestScaledErrorDiffusionMean(t *testing.T) {
	// Full range 16 -> 8 is not a shift; the float path must stay unbiased.
	e := newEngine(t, pixel.Int16, pixel.Int8,
		dither.WithMode(dither.ModeFloydSteinberg), dither.WithRange(true, true))

	src := 100.5 * 257
	out := testutil.IntSamples(process(t, e, testutil.ConstPlane(pixel.Int16, 64, 64, src), 0, 0), pixel.Int8)
	testutil.RequireCodesInRange(t, out, 100, 101)

	want := float64(int32(src)) / 257
	if m := testutil.Mean(out); math.Abs(m-want) > 0.01 {
		t.Errorf("mean = %.5f, want %.5f", m, want)
	}
}

func TestSaturatedBandDoesNotBleed(t *testing.T) {
	t.Run("scaled", func(t *testing.T) {
		e := newEngine(t, pixel.Float32, pixel.Int8,
			dither.WithMode(dither.ModeFloydSteinberg), dither.WithColorFamily(pixel.FamilyRGB))

		in := testutil.PlaneFunc(pixel.Float32, 64, 64, func(_, y int) float64 {
			if y < 32 {
				return 4
			}
			return 0.5
		})
		out := testutil.IntSamples(process(t, e, in, 0, 0), pixel.Int8)

		testutil.RequireCodesInRange(t, out[:32*64], 255, 255)
		bottom := out[32*64:]
		testutil.RequireCodesInRange(t, bottom, 127, 128)

		if m := testutil.Mean(bottom); math.Abs(m-127.5) > 0.05 {
			t.Errorf("mean below band = %.4f, want 127.5", m)
		}
	})

	t.Run("shift", func(t *testing.T) {
		e := newEngine(t, pixel.Int16, pixel.Int8,
			dither.WithMode(dither.ModeFloydSteinberg), dither.WithColorFamily(pixel.FamilyGray))

		in := testutil.PlaneFunc(pixel.Int16, 64, 16, func(_, y int) float64 {
			if y < 8 {
				return 65535
			}
			return 32768
		})
		out := testutil.IntSamples(process(t, e, in, 0, 0), pixel.Int8)

		testutil.RequireCodesInRange(t, out[:8*64], 255, 255)
		testutil.RequireCodesInRange(t, out[8*64:], 128, 128)
	})
}

func TestOutputRangeAllModes(t *testing.T) {
	formats := []struct {
		name     string
		src, dst pixel.Format
		opts     []dither.Option
	}{
		{"16-8", pixel.Int16, pixel.Int8, nil},
		{"16-8-full", pixel.Int16, pixel.Int8, []dither.Option{dither.WithRange(true, true)}},
		{"12-1", pixel.Int12, pixel.Format{Kind: pixel.KindInt, Bits: 1}, nil},
		{"float-10", pixel.Float32, pixel.Int10, nil},
		{"half-8", pixel.Float16, pixel.Int8, []dither.Option{dither.WithColorFamily(pixel.FamilyRGB)}},
	}

	for _, f := range formats {
		for _, mode := range allModes {
			t.Run(f.name+"/"+mode.String(), func(t *testing.T) {
				opts := append([]dither.Option{
					dither.WithMode(mode),
					dither.WithOrderedAmplitude(3),
					dither.WithNoiseAmplitude(2),
				}, f.opts...)
				e := newEngine(t, f.src, f.dst, opts...)

				lo, hi := -0.2, 1.2
				if f.src.IsInt() {
					lo, hi = 0, float64(f.src.MaxValue()+1)
				}
				in := testutil.NoisePlane(11, f.src, 33, 9, lo, hi)

				for plane := range 3 {
					out := testutil.IntSamples(process(t, e, in, 2, plane), f.dst)
					testutil.RequireCodesInRange(t, out, 0, int32(f.dst.MaxValue()))
				}
			})
		}
	}
}

func TestFloatDestination(t *testing.T) {
	e := newEngine(t, pixel.Int8, pixel.Float32, dither.WithMode(dither.ModeStucki))

	in := testutil.PlaneFunc(pixel.Int8, 3, 1, func(x, _ int) float64 { return []float64{16, 125, 235}[x] })
	out := testutil.FloatSamples(process(t, e, in, 0, 0), pixel.Float32)
	testutil.RequireSliceNearlyEqual(t, out, []float64{0, 109.0 / 219, 1}, 1e-6)

	chroma := testutil.FloatSamples(process(t, e, testutil.ConstPlane(pixel.Int8, 2, 1, 128), 0, 1), pixel.Float32)
	testutil.RequireSliceNearlyEqual(t, chroma, []float64{0, 0}, 1e-7)
}

func TestHalfFloatRoundTrip(t *testing.T) {
	down := newEngine(t, pixel.Float32, pixel.Float16)
	up := newEngine(t, pixel.Float16, pixel.Float32)

	in := testutil.RampPlane(pixel.Float32, 17, 2, 0, 1)
	half := process(t, down, in, 0, 0)
	back := testutil.FloatSamples(process(t, up, half, 0, 0), pixel.Float32)

	want := testutil.FloatSamples(in, pixel.Float32)
	testutil.RequireFinite(t, back)
	testutil.RequireSliceNearlyEqual(t, back, want, 1.0/2048)
}

func TestUpconversionIsExact(t *testing.T) {
	e := newEngine(t, pixel.Int8, pixel.Int16, dither.WithRange(true, true))

	in := testutil.PlaneFunc(pixel.Int8, 4, 1, func(x, _ int) float64 { return []float64{0, 1, 128, 255}[x] })
	out := testutil.IntSamples(process(t, e, in, 0, 0), pixel.Int16)

	if want := []int32{0, 257, 128 * 257, 65535}; !slices.Equal(out, want) {
		t.Errorf("got %v, want %v", out, want)
	}
}

func TestOrderedStaysWithinOneCodeOfRounding(t *testing.T) {
	fast := newEngine(t, pixel.Int16, pixel.Int8, dither.WithMode(dither.ModeFast))
	bayer := newEngine(t, pixel.Int16, pixel.Int8, dither.WithMode(dither.ModeBayer))

	in := testutil.RampPlane(pixel.Int16, 256, 4, 0, 65535)
	want := testutil.FloatSamples(process(t, fast, in, 0, 0), pixel.Int8)
	got := testutil.FloatSamples(process(t, bayer, in, 0, 0), pixel.Int8)

	d, err := testutil.MaxAbsDiff(got, want)
	if err != nil {
		t.Fatalf("MaxAbsDiff() error = %v", err)
	}
	if d != 1 {
		t.Errorf("max difference = %v, want 1", d)
	}
}

func TestSameDepthIsIdentity(t *testing.T) {
	for _, mode := range allModes {
		e := newEngine(t, pixel.Int10, pixel.Int10, dither.WithMode(mode), dither.WithNoiseAmplitude(1))

		in := testutil.NoisePlane(5, pixel.Int10, 21, 5, 0, 1024)
		if out := process(t, e, in, 3, 1); !bytes.Equal(in.Data, out.Data) {
			t.Errorf("%s: output differs from input", mode)
		}
	}
}

func TestDeterminismAndStaticNoise(t *testing.T) {
	in := testutil.ConstPlane(pixel.Int16, 64, 4, 128.5*256)

	e := newEngine(t, pixel.Int16, pixel.Int8,
		dither.WithMode(dither.ModeRound), dither.WithNoiseAmplitude(1))

	a := process(t, e, in, 5, 0)
	if b := process(t, e, in, 5, 0); !bytes.Equal(a.Data, b.Data) {
		t.Error("same frame must reproduce")
	}
	if c := process(t, e, in, 6, 0); bytes.Equal(a.Data, c.Data) {
		t.Error("noise should change with the frame")
	}
	if d := process(t, e, in, 5, 1); bytes.Equal(a.Data, d.Data) {
		t.Error("noise should change with the plane")
	}

	static := newEngine(t, pixel.Int16, pixel.Int8,
		dither.WithMode(dither.ModeRound), dither.WithNoiseAmplitude(1), dither.WithStaticNoise(true))
	if !bytes.Equal(process(t, static, in, 1, 0).Data, process(t, static, in, 9, 0).Data) {
		t.Error("static noise should not change with the frame")
	}

	corr := newEngine(t, pixel.Int16, pixel.Int8,
		dither.WithMode(dither.ModeRound), dither.WithNoiseAmplitude(1), dither.WithCorrelatedPlanes(true))
	if !bytes.Equal(process(t, corr, in, 4, 0).Data, process(t, corr, in, 4, 2).Data) {
		t.Error("correlated planes should share noise")
	}
}

func TestDynamicPatternChangesWithFrame(t *testing.T) {
	in := testutil.ConstPlane(pixel.Int16, 16, 16, 100)

	e := newEngine(t, pixel.Int16, pixel.Int8, dither.WithPatternSize(8), dither.WithDynamicPattern(true))
	if bytes.Equal(process(t, e, in, 0, 0).Data, process(t, e, in, 1, 0).Data) {
		t.Error("dynamic pattern should change between frames 0 and 1")
	}
	if !bytes.Equal(process(t, e, in, 0, 0).Data, process(t, e, in, 4, 0).Data) {
		t.Error("dynamic pattern should repeat every four frames")
	}

	fixed := newEngine(t, pixel.Int16, pixel.Int8, dither.WithPatternSize(8))
	if !bytes.Equal(process(t, fixed, in, 0, 0).Data, process(t, fixed, in, 1, 0).Data) {
		t.Error("fixed pattern should not change with the frame")
	}
}

func TestConfigurationErrors(t *testing.T) {
	tests := []struct {
		name     string
		src, dst pixel.Format
		opts     []dither.Option
	}{
		{"negative ampo", pixel.Int16, pixel.Int8, []dither.Option{dither.WithOrderedAmplitude(-0.5)}},
		{"negative ampn", pixel.Int16, pixel.Int8, []dither.Option{dither.WithNoiseAmplitude(-1)}},
		{"NaN ampo", pixel.Int16, pixel.Int8, []dither.Option{dither.WithOrderedAmplitude(math.NaN())}},
		{"Inf ampn", pixel.Int16, pixel.Int8, []dither.Option{dither.WithNoiseAmplitude(math.Inf(1))}},
		{"pattern 3", pixel.Int16, pixel.Int8, []dither.Option{dither.WithPatternSize(3)}},
		{"pattern 128", pixel.Int16, pixel.Int8, []dither.Option{dither.WithPatternSize(128)}},
		{"pattern 2", pixel.Int16, pixel.Int8, []dither.Option{dither.WithPatternSize(2)}},
		{"unknown mode", pixel.Int16, pixel.Int8, []dither.Option{dither.WithMode(dither.Mode(17))}},
		{"family", pixel.Int16, pixel.Int8, []dither.Option{dither.WithColorFamily(pixel.ColorFamily(9))}},
		{"nil pool", pixel.Int16, pixel.Int8, []dither.Option{dither.WithBufferPool(nil)}},
		{"nil logger", pixel.Int16, pixel.Int8, []dither.Option{dither.WithLogger(nil)}},
		{"int 17", pixel.Format{Kind: pixel.KindInt, Bits: 17}, pixel.Int8, nil},
		{"float 24", pixel.Int16, pixel.Format{Kind: pixel.KindFloat, Bits: 24}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := dither.NewEngine(tt.src, tt.dst, tt.opts...)
			if err == nil {
				t.Fatal("expected configuration error")
			}
			if e != nil {
				t.Errorf("engine = %v, want nil", e)
			}
		})
	}
}

func TestNilOptionIgnored(t *testing.T) {
	e := newEngine(t, pixel.Int16, pixel.Int8, nil, dither.WithMode(dither.ModeRoundAlias))
	if e.Mode() != dither.ModeRound {
		t.Errorf("Mode() = %v, want %v", e.Mode(), dither.ModeRound)
	}
}

func TestProcessPlaneGeometryErrors(t *testing.T) {
	e := newEngine(t, pixel.Int16, pixel.Int8)

	src := make([]byte, 2*8*4)
	dst := make([]byte, 8*4)

	tests := []struct {
		name                 string
		dst                  []byte
		dstStride, srcStride int
		w, h, plane          int
	}{
		{"short src stride", dst, 8, 8, 8, 4, 0},
		{"short dst stride", dst, 4, 16, 8, 4, 0},
		{"short dst buffer", dst[:20], 8, 16, 8, 4, 0},
		{"negative width", dst, 8, 16, -1, 4, 0},
		{"plane index", dst, 8, 16, 8, 4, dither.MaxPlanes},
		{"negative plane", dst, 8, 16, 8, 4, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.ProcessPlane(tt.dst, tt.dstStride, src, tt.srcStride, tt.w, tt.h, 0, tt.plane)
			if !errors.Is(err, dither.ErrInvalidPlane) {
				t.Errorf("error = %v, want %v", err, dither.ErrInvalidPlane)
			}
		})
	}

	if err := e.ProcessPlane(nil, 0, nil, 0, 0, 0, 0, 0); err != nil {
		t.Errorf("empty plane: error = %v", err)
	}
}

func TestPoolExhaustionLeavesDestinationUntouched(t *testing.T) {
	pool := dither.NewErrorBufferPool(1)
	logger, hook := test.NewNullLogger()

	e := newEngine(t, pixel.Int16, pixel.Int8,
		dither.WithMode(dither.ModeFloydSteinberg), dither.WithBufferPool(pool), dither.WithLogger(logger))

	held, err := pool.Acquire(8, 1, false)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	in := testutil.ConstPlane(pixel.Int16, 8, 2, 30000)
	out := pixel.NewPlane(pixel.Int8, 8, 2)
	for i := range out.Data {
		out.Data[i] = 0xaa
	}

	err = e.ProcessPlane(out.Data, out.Stride, in.Data, in.Stride, 8, 2, 0, 0)
	if !errors.Is(err, dither.ErrAllocFailed) {
		t.Fatalf("error = %v, want %v", err, dither.ErrAllocFailed)
	}
	for i, b := range out.Data {
		if b != 0xaa {
			t.Fatalf("byte %d modified: %#x", i, b)
		}
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a log entry")
	}
	if entry.Level != logrus.WarnLevel {
		t.Errorf("level = %v, want %v", entry.Level, logrus.WarnLevel)
	}

	pool.Release(held)
	if err := e.ProcessPlane(out.Data, out.Stride, in.Data, in.Stride, 8, 2, 0, 0); err != nil {
		t.Fatalf("after release: error = %v", err)
	}
	if n := pool.InUse(); n != 0 {
		t.Errorf("InUse() = %d, want 0", n)
	}
}

func TestConfigurationIsLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	newEngine(t, pixel.Int16, pixel.Int8, dither.WithLogger(logger), dither.WithMode(dither.ModeStucki))

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a log entry")
	}
	if entry.Level != logrus.DebugLevel {
		t.Errorf("level = %v, want %v", entry.Level, logrus.DebugLevel)
	}
	if got := entry.Data["mode"]; got != "stucki" {
		t.Errorf("mode = %v, want stucki", got)
	}
	if got := entry.Data["path"]; got != "shift" {
		t.Errorf("path = %v, want shift", got)
	}
}

func TestProcessFrameMatchesPlanes(t *testing.T) {
	pool := dither.NewErrorBufferPool(3)
	e := newEngine(t, pixel.Int16, pixel.Int8, dither.WithMode(dither.ModeStucki), dither.WithBufferPool(pool))

	src := []pixel.Plane{
		testutil.NoisePlane(1, pixel.Int16, 40, 20, 0, 65536),
		testutil.NoisePlane(2, pixel.Int16, 20, 10, 0, 65536),
		testutil.NoisePlane(3, pixel.Int16, 20, 10, 0, 65536),
	}
	dst := make([]pixel.Plane, len(src))
	for i, p := range src {
		dst[i] = pixel.NewPlane(pixel.Int8, p.Width, p.Height)
	}

	for frame := range 4 {
		if err := e.ProcessFrame(dst, src, frame); err != nil {
			t.Fatalf("ProcessFrame(%d) error = %v", frame, err)
		}
		for i, p := range src {
			if want := process(t, e, p, frame, i); !bytes.Equal(want.Data, dst[i].Data) {
				t.Errorf("frame %d plane %d differs from ProcessPlane", frame, i)
			}
		}
	}

	if n := pool.InUse(); n != 0 {
		t.Errorf("InUse() = %d, want 0", n)
	}
}

func TestProcessFrameErrors(t *testing.T) {
	e := newEngine(t, pixel.Int16, pixel.Int8, dither.WithMode(dither.ModeFilterLite),
		dither.WithBufferPool(dither.NewErrorBufferPool(1)))

	src := []pixel.Plane{pixel.NewPlane(pixel.Int16, 4, 4)}
	if err := e.ProcessFrame(nil, src, 0); !errors.Is(err, dither.ErrInvalidPlane) {
		t.Errorf("missing destination: error = %v", err)
	}
	if err := e.ProcessFrame([]pixel.Plane{pixel.NewPlane(pixel.Int8, 3, 4)}, src, 0); !errors.Is(err, dither.ErrInvalidPlane) {
		t.Errorf("size mismatch: error = %v", err)
	}

	// Two planes compete for a single buffer; at most one can fail.
	src = append(src, pixel.NewPlane(pixel.Int16, 4, 4))
	dst := []pixel.Plane{pixel.NewPlane(pixel.Int8, 4, 4), pixel.NewPlane(pixel.Int8, 4, 4)}
	if err := e.ProcessFrame(dst, src, 0); err != nil && !errors.Is(err, dither.ErrAllocFailed) {
		t.Errorf("error = %v, want nil or %v", err, dither.ErrAllocFailed)
	}
}

func TestBackendParity(t *testing.T) {
	in := testutil.NoisePlane(9, pixel.Int16, 67, 13, 0, 65536)

	ref := newEngine(t, pixel.Int16, pixel.Int10, dither.WithFeatures(cpu.Features{ForceGeneric: true}))
	if ref.Backend() != "generic" {
		t.Fatalf("Backend() = %q, want generic", ref.Backend())
	}
	want := process(t, ref, in, 1, 0)

	for _, f := range []cpu.Features{
		{HasSSE2: true, Architecture: "amd64"},
		{HasSSE2: true, HasAVX2: true, Architecture: "amd64"},
		{HasNEON: true, Architecture: "arm64"},
		cpu.DetectFeatures(),
	} {
		e := newEngine(t, pixel.Int16, pixel.Int10, dither.WithFeatures(f))
		if got := process(t, e, in, 1, 0); !bytes.Equal(want.Data, got.Data) {
			t.Errorf("backend %s differs from generic", e.Backend())
		}
	}
}
