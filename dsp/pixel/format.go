package pixel

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the numeric representation of a sample.
type Kind int

const (
	// KindInt stores unsigned integer samples.
	KindInt Kind = iota
	// KindFloat stores IEEE 754 floating-point samples.
	KindFloat

	kindCount // sentinel for validation
)

var kindNames = [kindCount]string{"int", "float"}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

const (
	// MinIntBits is the smallest supported integer bit depth.
	MinIntBits = 1
	// MaxIntBits is the largest supported integer bit depth.
	MaxIntBits = 16
)

// Format is the storage format of one sample. It is immutable once an
// engine has been built from it.
type Format struct {
	Kind Kind
	Bits int
}

// Common formats.
var (
	Int8    = Format{Kind: KindInt, Bits: 8}
	Int10   = Format{Kind: KindInt, Bits: 10}
	Int12   = Format{Kind: KindInt, Bits: 12}
	Int16   = Format{Kind: KindInt, Bits: 16}
	Float16 = Format{Kind: KindFloat, Bits: 16}
	Float32 = Format{Kind: KindFloat, Bits: 32}
)

// Validate reports whether the format can be stored and processed.
func (f Format) Validate() error {
	switch f.Kind {
	case KindInt:
		if f.Bits < MinIntBits || f.Bits > MaxIntBits {
			return fmt.Errorf("pixel: integer bit depth must be in [%d, %d]: %d", MinIntBits, MaxIntBits, f.Bits)
		}
	case KindFloat:
		if f.Bits != 16 && f.Bits != 32 {
			return fmt.Errorf("pixel: float bit depth must be 16 or 32: %d", f.Bits)
		}
	default:
		return fmt.Errorf("pixel: invalid sample kind: %d", f.Kind)
	}

	return nil
}

// IsInt reports whether samples are integers.
func (f Format) IsInt() bool { return f.Kind == KindInt }

// IsFloat reports whether samples are floating point.
func (f Format) IsFloat() bool { return f.Kind == KindFloat }

// BytesPerSample returns the storage size of one sample.
func (f Format) BytesPerSample() int {
	if f.Kind == KindFloat {
		return f.Bits / 8
	}
	if f.Bits <= 8 {
		return 1
	}
	return 2
}

// RowBytes returns the number of bytes occupied by w samples.
func (f Format) RowBytes(w int) int {
	return w * f.BytesPerSample()
}

// MaxValue returns the largest integer code, 2^Bits - 1. It returns 0 for
// floating-point formats.
func (f Format) MaxValue() int {
	if f.Kind != KindInt {
		return 0
	}
	return 1<<f.Bits - 1
}

// String returns a name such as "int10" or "float32".
func (f Format) String() string {
	return f.Kind.String() + strconv.Itoa(f.Bits)
}

// ParseFormat parses the names produced by [Format.String]. "half" and
// "float" are accepted as aliases for float16 and float32.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))

	switch name {
	case "half":
		return Float16, nil
	case "float", "single":
		return Float32, nil
	}

	var (
		f      Format
		digits string
	)

	switch {
	case strings.HasPrefix(name, "int"):
		f.Kind = KindInt
		digits = name[len("int"):]
	case strings.HasPrefix(name, "float"):
		f.Kind = KindFloat
		digits = name[len("float"):]
	default:
		return Format{}, fmt.Errorf("pixel: unknown format %q", s)
	}

	bits, err := strconv.Atoi(digits)
	if err != nil {
		return Format{}, fmt.Errorf("pixel: bad bit depth in %q: %w", s, err)
	}

	f.Bits = bits
	if err := f.Validate(); err != nil {
		return Format{}, err
	}

	return f, nil
}

// ColorFamily is the colour model of a frame. It decides which planes carry
// chroma and which numeric range each plane uses.
type ColorFamily int

const (
	// FamilyGray is a single luma plane.
	FamilyGray ColorFamily = iota
	// FamilyYUV is luma followed by two chroma planes.
	FamilyYUV
	// FamilyRGB is three colour planes sharing the luma range.
	FamilyRGB

	familyCount // sentinel for validation
)

var familyNames = [familyCount]string{"Gray", "YUV", "RGB"}

// String returns the name of the family.
func (c ColorFamily) String() string {
	if c >= 0 && c < familyCount {
		return familyNames[c]
	}
	return fmt.Sprintf("ColorFamily(%d)", c)
}

// Valid reports whether c is a known family.
func (c ColorFamily) Valid() bool {
	return c >= 0 && c < familyCount
}

// PlaneCount returns the number of planes of a frame in this family.
func (c ColorFamily) PlaneCount() int {
	if c == FamilyGray {
		return 1
	}
	return 3
}

// IsChroma reports whether the given plane holds colour difference samples.
func (c ColorFamily) IsChroma(plane int) bool {
	return c == FamilyYUV && (plane == 1 || plane == 2)
}

// DefaultFullRange returns the conventional range flag for the family:
// full range for RGB, limited range otherwise.
func (c ColorFamily) DefaultFullRange() bool {
	return c == FamilyRGB
}

// ParseColorFamily parses a family name case-insensitively. "grey" and "y"
// are accepted for FamilyGray.
func ParseColorFamily(s string) (ColorFamily, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gray", "grey", "y":
		return FamilyGray, nil
	case "yuv":
		return FamilyYUV, nil
	case "rgb":
		return FamilyRGB, nil
	}

	return 0, fmt.Errorf("pixel: unknown color family %q", s)
}
