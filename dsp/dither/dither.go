// Package dither reduces the bit depth of image planes. It converts samples
// between integer and floating-point formats and hides the quantisation
// with ordered dithering, random noise or error diffusion (Floyd-Steinberg,
// Stucki, Atkinson, Sierra Filter Lite, Ostromoukhov).
//
// An [Engine] is configured once for a format pair and then converts planes
// row by row; see [NewEngine].
package dither

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects the dithering algorithm. The numeric values are stable
// identifiers shared with host-layer argument parsing.
type Mode int

// ModeRoundAlias is accepted for compatibility and behaves as ModeRound.
const ModeRoundAlias Mode = -1

const (
	// ModeBayer is ordered dithering with a Bayer threshold matrix.
	ModeBayer Mode = iota
	// ModeRound rounds to the nearest code; noise can still be added.
	ModeRound
	// ModeFast is a plain shift or rescale with rounding. Amplitudes are ignored.
	ModeFast
	// ModeFilterLite is Sierra-2-4A error diffusion.
	ModeFilterLite
	// ModeStucki is Stucki error diffusion over two rows.
	ModeStucki
	// ModeAtkinson is Atkinson error diffusion (6/8 of the error is kept).
	ModeAtkinson
	// ModeFloydSteinberg is Floyd-Steinberg error diffusion with
	// serpentine-optimised coefficients.
	ModeFloydSteinberg
	// ModeOstromoukhov is variable-coefficient error diffusion.
	ModeOstromoukhov

	modeCount // sentinel for validation
)

var modeNames = [modeCount]string{
	"bayer", "round", "fast", "filterlite", "stucki", "atkinson",
	"floyd-steinberg", "ostromoukhov",
}

// String returns the name of the mode.
func (m Mode) String() string {
	if m == ModeRoundAlias {
		return "round-alias"
	}
	if m >= 0 && m < modeCount {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m >= ModeRoundAlias && m < modeCount
}

// Canonical resolves aliases.
func (m Mode) Canonical() Mode {
	if m == ModeRoundAlias {
		return ModeRound
	}
	return m
}

// IsErrorDiffusion reports whether the mode carries quantisation error to
// neighbouring samples.
func (m Mode) IsErrorDiffusion() bool {
	return m >= ModeFilterLite && m < modeCount
}

// IsOrdered reports whether the mode adds a spatial threshold pattern.
func (m Mode) IsOrdered() bool {
	m = m.Canonical()
	return m == ModeBayer || m == ModeRound
}

// ParseMode parses a mode name or numeric identifier. "ordered" is an
// alias for "bayer" and "floyd" for "floyd-steinberg".
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))

	switch name {
	case "ordered":
		return ModeBayer, nil
	case "floyd", "fs":
		return ModeFloydSteinberg, nil
	case "round-alias":
		return ModeRoundAlias, nil
	}

	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}

	if id, err := strconv.Atoi(name); err == nil && Mode(id).Valid() {
		return Mode(id), nil
	}

	return 0, fmt.Errorf("dither: unknown mode %q", s)
}
