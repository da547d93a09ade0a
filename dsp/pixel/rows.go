package pixel

import (
	"encoding/binary"
	"math"

	"github.com/mrjoshuak/go-openexr/half"
)

// DecodeIntRow reads len(dst) integer samples of format f from row.
// f must be an integer format.
func DecodeIntRow(dst []int32, row []byte, f Format) {
	if f.BytesPerSample() == 1 {
		row = row[:len(dst)]
		for x := range dst {
			dst[x] = int32(row[x])
		}
		return
	}

	row = row[:2*len(dst)]
	for x := range dst {
		dst[x] = int32(binary.LittleEndian.Uint16(row[2*x:]))
	}
}

// EncodeIntRow writes len(src) integer samples of format f to row. Values
// must already be clamped to [0, f.MaxValue()].
func EncodeIntRow(row []byte, src []int32, f Format) {
	if f.BytesPerSample() == 1 {
		row = row[:len(src)]
		for x, v := range src {
			row[x] = uint8(v)
		}
		return
	}

	row = row[:2*len(src)]
	for x, v := range src {
		binary.LittleEndian.PutUint16(row[2*x:], uint16(v))
	}
}

// DecodeFloatRow reads len(dst) samples of any format from row as float64
// values in the format's own numeric range.
func DecodeFloatRow(dst []float64, row []byte, f Format) {
	switch {
	case f.Kind == KindInt && f.Bits <= 8:
		row = row[:len(dst)]
		for x := range dst {
			dst[x] = float64(row[x])
		}
	case f.Kind == KindInt:
		row = row[:2*len(dst)]
		for x := range dst {
			dst[x] = float64(binary.LittleEndian.Uint16(row[2*x:]))
		}
	case f.Bits == 16:
		row = row[:2*len(dst)]
		for x := range dst {
			dst[x] = float64(half.FromBits(binary.LittleEndian.Uint16(row[2*x:])).Float32())
		}
	default:
		row = row[:4*len(dst)]
		for x := range dst {
			dst[x] = float64(math.Float32frombits(binary.LittleEndian.Uint32(row[4*x:])))
		}
	}
}

// EncodeFloatRow writes len(src) floating-point samples to row. f must be
// Float16 or Float32.
func EncodeFloatRow(row []byte, src []float64, f Format) {
	if f.Bits == 16 {
		row = row[:2*len(src)]
		for x, v := range src {
			binary.LittleEndian.PutUint16(row[2*x:], half.FromFloat32(float32(v)).Bits())
		}
		return
	}

	row = row[:4*len(src)]
	for x, v := range src {
		binary.LittleEndian.PutUint32(row[4*x:], math.Float32bits(float32(v)))
	}
}
