// Package pixel describes sample storage formats for planar video frames and
// the affine mapping between the numeric ranges of two formats.
//
// A [Format] is a sample kind (integer or floating point) plus a bit count.
// Integer samples with up to 8 bits occupy one byte, wider integers two
// little-endian bytes. Floating-point samples are IEEE 754 binary16 or
// binary32, little-endian. Rows are converted to and from int32 or float64
// working slices with the Decode*/Encode* helpers so that processing code
// never deals with byte layout.
package pixel
