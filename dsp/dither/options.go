package dither

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-bitdepth/dsp/pixel"
	"github.com/cwbudde/algo-bitdepth/internal/cpu"
)

// Features are the CPU capabilities used to pick accelerated row kernels.
type Features = cpu.Features

const (
	defaultMode     = ModeBayer
	defaultAmpOrd   = 1.0
	defaultAmpNoise = 0.0

	// maxAmplitude bounds both amplitudes so fixed-point products stay in
	// 32-bit range.
	maxAmplitude = 2048.0
)

type config struct {
	mode        Mode
	patSize     int
	ampo        float64
	ampn        float64
	dynamic     bool
	staticNoise bool
	correlated  bool

	family   pixel.ColorFamily
	rangeSet bool
	srcFull  bool
	dstFull  bool

	features *Features
	pool     *ErrorBufferPool
	logger   logrus.FieldLogger
}

func defaultConfig() config {
	return config{
		mode:    defaultMode,
		patSize: DefaultPatternSize,
		ampo:    defaultAmpOrd,
		ampn:    defaultAmpNoise,
		family:  pixel.FamilyYUV,
	}
}

// Option configures an [Engine].
type Option func(*config) error

// WithMode sets the dithering algorithm (default [ModeBayer]).
func WithMode(m Mode) Option {
	return func(cfg *config) error {
		if !m.Valid() {
			return fmt.Errorf("dither: invalid mode: %d", m)
		}

		cfg.mode = m

		return nil
	}
}

// WithPatternSize sets the ordered-dither pattern side length: a power of
// two in [4, 64] (default 32).
func WithPatternSize(size int) Option {
	return func(cfg *config) error {
		if !ValidPatternSize(size) {
			return fmt.Errorf("dither: pattern size must be a power of two in [%d, %d]: %d",
				MinPatternSize, MaxPatternSize, size)
		}

		cfg.patSize = size

		return nil
	}
}

// WithOrderedAmplitude sets ampo, the multiplier applied to the pattern
// (ordered modes) or to the carried error (error diffusion). Default 1.
func WithOrderedAmplitude(amp float64) Option {
	return func(cfg *config) error {
		if err := checkAmplitude("ordered", amp); err != nil {
			return err
		}

		cfg.ampo = amp

		return nil
	}
}

// WithNoiseAmplitude sets ampn, the amplitude of the added random noise.
// Default 0.
func WithNoiseAmplitude(amp float64) Option {
	return func(cfg *config) error {
		if err := checkAmplitude("noise", amp); err != nil {
			return err
		}

		cfg.ampn = amp

		return nil
	}
}

func checkAmplitude(name string, amp float64) error {
	if amp < 0 || amp > maxAmplitude || math.IsNaN(amp) {
		return fmt.Errorf("dither: %s amplitude must be in [0, %g]: %g", name, maxAmplitude, amp)
	}
	return nil
}

// WithDynamicPattern rotates the ordered pattern from frame to frame.
func WithDynamicPattern(enabled bool) Option {
	return func(cfg *config) error {
		cfg.dynamic = enabled
		return nil
	}
}

// WithStaticNoise seeds the noise generator independently of the frame
// number, so every frame gets the same noise.
func WithStaticNoise(enabled bool) Option {
	return func(cfg *config) error {
		cfg.staticNoise = enabled
		return nil
	}
}

// WithCorrelatedPlanes uses the same noise and pattern for every plane.
func WithCorrelatedPlanes(enabled bool) Option {
	return func(cfg *config) error {
		cfg.correlated = enabled
		return nil
	}
}

// WithColorFamily sets the colour family, which decides the numeric range
// of each plane (default YUV).
func WithColorFamily(c pixel.ColorFamily) Option {
	return func(cfg *config) error {
		if !c.Valid() {
			return fmt.Errorf("dither: invalid color family: %d", c)
		}

		cfg.family = c

		return nil
	}
}

// WithRange sets the full/limited range flags of source and destination.
// Without it both follow the colour family default.
func WithRange(srcFull, dstFull bool) Option {
	return func(cfg *config) error {
		cfg.rangeSet = true
		cfg.srcFull = srcFull
		cfg.dstFull = dstFull
		return nil
	}
}

// WithFeatures overrides CPU feature detection for kernel selection.
func WithFeatures(f Features) Option {
	return func(cfg *config) error {
		cfg.features = &f
		return nil
	}
}

// WithBufferPool shares an error buffer pool between engines.
func WithBufferPool(p *ErrorBufferPool) Option {
	return func(cfg *config) error {
		if p == nil {
			return errors.New("dither: buffer pool must not be nil")
		}

		cfg.pool = p

		return nil
	}
}

// WithLogger sets the logger (default logrus.StandardLogger()).
func WithLogger(l logrus.FieldLogger) Option {
	return func(cfg *config) error {
		if l == nil {
			return errors.New("dither: logger must not be nil")
		}

		cfg.logger = l

		return nil
	}
}
