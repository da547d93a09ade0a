package dither

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-bitdepth/dsp/dither/internal/arch/registry"
	"github.com/cwbudde/algo-bitdepth/dsp/pixel"
	"github.com/cwbudde/algo-bitdepth/internal/cpu"
)

// MaxPlanes is the number of planes an Engine is configured for. Planes
// beyond the colour family's count (alpha) use the luma range.
const MaxPlanes = 4

// Engine converts planes from one pixel format to another, reducing bit
// depth with the configured dithering. It is configured once and is then
// safe for concurrent use: every ProcessPlane call owns its own state and
// only the error buffer pool is shared.
type Engine struct {
	src, dst pixel.Format
	mode     Mode

	staticNoise bool
	correlated  bool

	bank    *PatternBank
	planes  [MaxPlanes]planeParams
	procs   [MaxPlanes]planeFunc
	paths   [MaxPlanes]path
	errRows [MaxPlanes]int
	backend string

	pool   *ErrorBufferPool
	logger logrus.FieldLogger
}

// NewEngine validates the formats and options and binds a row processor to
// every plane. Any unsupported combination is reported here; processing
// itself only fails on buffer exhaustion or bad plane geometry.
func NewEngine(src, dst pixel.Format, opts ...Option) (*Engine, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("dither: source format: %w", err)
	}
	if err := dst.Validate(); err != nil {
		return nil, fmt.Errorf("dither: destination format: %w", err)
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	if !cfg.rangeSet {
		cfg.srcFull = cfg.family.DefaultFullRange()
		cfg.dstFull = cfg.srcFull
	}
	if cfg.pool == nil {
		cfg.pool = NewErrorBufferPool(0)
	}
	if cfg.logger == nil {
		cfg.logger = logrus.StandardLogger()
	}

	features := cpu.DetectFeatures()
	if cfg.features != nil {
		features = *cfg.features
	}
	entry := registry.Global.Lookup(features)
	if entry == nil || entry.OrderedRow == nil {
		return nil, fmt.Errorf("dither: %w: no ordered row kernel registered", ErrUnsupported)
	}

	mode := cfg.mode.Canonical()
	amp := newAmplitude(cfg.ampo, cfg.ampn)
	if mode == ModeFast {
		amp = neutralAmplitude
	}

	bank, err := NewPatternBank(mode, cfg.patSize, cfg.dynamic)
	if err != nil {
		return nil, err
	}

	eng := &Engine{
		src:         src,
		dst:         dst,
		mode:        mode,
		staticNoise: cfg.staticNoise,
		correlated:  cfg.correlated,
		bank:        bank,
		backend:     entry.Name,
		pool:        cfg.pool,
		logger:      cfg.logger,
	}

	for plane := range MaxPlanes {
		scale := pixel.NewScaleInfo(src, dst, cfg.family, plane, cfg.srcFull, cfg.dstFull)

		p := planeParams{
			src:     src,
			dst:     dst,
			scale:   scale,
			amp:     amp,
			kernel:  NewKernel(mode),
			ordered: entry.OrderedRow,
			fq: floatQuant{
				gain: scale.Gain,
				add:  scale.Add,
				max:  int32(dst.MaxValue()),
			},
		}

		pth := pathScaled
		planeMode := mode
		switch {
		case dst.IsFloat():
			pth = pathConvert
		case src.IsInt() && src.Bits >= dst.Bits && scale.IsShift(src.Bits, dst.Bits):
			pth = pathShift
			p.sq = newShiftQuant(src.Bits, dst.Bits)
			if src.Bits == dst.Bits {
				// Nothing is lost, so nothing is dithered.
				planeMode = ModeFast
			}
		}

		key := dispatchKey{
			path:   pth,
			src:    classOf(src),
			dst:    classOf(dst),
			mode:   planeMode,
			simple: p.amp.simple,
		}
		fn, err := lookupPlaneFunc(key)
		if err != nil {
			return nil, err
		}

		eng.planes[plane] = p
		eng.procs[plane] = fn
		eng.paths[plane] = pth
		if pth != pathConvert && planeMode.IsErrorDiffusion() {
			eng.errRows[plane] = p.kernel.Rows()
		}
	}

	eng.logger.WithFields(logrus.Fields{
		"src":      src.String(),
		"dst":      dst.String(),
		"mode":     mode.String(),
		"path":     eng.paths[0].String(),
		"backend":  eng.backend,
		"pattern":  cfg.patSize,
		"ampo":     cfg.ampo,
		"ampn":     cfg.ampn,
		"family":   cfg.family.String(),
		"src_full": cfg.srcFull,
		"dst_full": cfg.dstFull,
	}).Debug("dither: engine configured")

	return eng, nil
}

// Source returns the source format.
func (e *Engine) Source() pixel.Format { return e.src }

// Destination returns the destination format.
func (e *Engine) Destination() pixel.Format { return e.dst }

// Mode returns the resolved dithering mode.
func (e *Engine) Mode() Mode { return e.mode }

// Backend returns the name of the selected ordered row kernel.
func (e *Engine) Backend() string { return e.backend }

// ProcessPlane converts one plane of one frame. src holds h rows of w
// samples srcStride bytes apart in the source format; dst receives the
// result in the destination format. Nothing is written to dst when an
// error is returned.
func (e *Engine) ProcessPlane(dst []byte, dstStride int, src []byte, srcStride int, w, h, frame, plane int) error {
	if plane < 0 || plane >= MaxPlanes {
		return fmt.Errorf("dither: %w: plane index %d out of range [0, %d)", ErrInvalidPlane, plane, MaxPlanes)
	}
	srcPlane := pixel.Plane{Data: src, Stride: srcStride, Width: w, Height: h}
	if err := srcPlane.Check(e.src); err != nil {
		return fmt.Errorf("dither: %w: source: %w", ErrInvalidPlane, err)
	}
	dstPlane := pixel.Plane{Data: dst, Stride: dstStride, Width: w, Height: h}
	if err := dstPlane.Check(e.dst); err != nil {
		return fmt.Errorf("dither: %w: destination: %w", ErrInvalidPlane, err)
	}
	if w == 0 || h == 0 {
		return nil
	}

	seedPlane := plane
	if e.correlated {
		seedPlane = 0
	}

	job := planeJob{
		dst:       dst,
		dstStride: dstStride,
		src:       src,
		srcStride: srcStride,
		w:         w,
		h:         h,
		rnd:       Seed(seedPlane, frame, e.staticNoise),
		pat:       e.bank.Select(frame, seedPlane),
	}

	p := &e.planes[plane]
	if rows := e.errRows[plane]; rows > 0 {
		eb, err := e.pool.Acquire(w, rows, e.paths[plane] == pathScaled)
		if err != nil {
			e.logger.WithFields(logrus.Fields{
				"frame":  frame,
				"plane":  plane,
				"width":  w,
				"in_use": e.pool.InUse(),
			}).Warn("dither: error buffer unavailable")
			return err
		}
		defer e.pool.Release(eb)
		job.eb = eb
	}

	e.procs[plane](p, &job)

	return nil
}

// ProcessFrame converts every plane of a frame concurrently. dst and src
// must have the same number of planes (at most MaxPlanes) with matching
// sizes. On error the destination frame must be discarded.
func (e *Engine) ProcessFrame(dst, src []pixel.Plane, frame int) error {
	if len(src) > MaxPlanes || len(dst) != len(src) {
		return fmt.Errorf("dither: %w: %d source and %d destination planes", ErrInvalidPlane, len(src), len(dst))
	}
	for i := range src {
		if src[i].Width != dst[i].Width || src[i].Height != dst[i].Height {
			return fmt.Errorf("dither: %w: plane %d size %dx%d -> %dx%d", ErrInvalidPlane,
				i, src[i].Width, src[i].Height, dst[i].Width, dst[i].Height)
		}
	}

	errs := make([]error, len(src))
	var wg sync.WaitGroup
	for i := range src {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = e.ProcessPlane(dst[i].Data, dst[i].Stride, src[i].Data, src[i].Stride,
				src[i].Width, src[i].Height, frame, i)
		}(i)
	}
	wg.Wait()

	return errors.Join(errs...)
}
