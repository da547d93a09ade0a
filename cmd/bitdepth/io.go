package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/cwbudde/algo-bitdepth/dsp/pixel"
)

type container int

const (
	containerRaw container = iota
	containerZstd
	containerPNG
	containerTIFF
	containerWebP
)

func containerOf(path string) container {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst":
		return containerZstd
	case ".png":
		return containerPNG
	case ".tif", ".tiff":
		return containerTIFF
	case ".webp":
		return containerWebP
	default:
		return containerRaw
	}
}

// rawLayout describes headerless planar input.
type rawLayout struct {
	format pixel.Format
	family pixel.ColorFamily
	width  int
	height int
}

func (l rawLayout) planeBytes() int {
	return l.format.RowBytes(l.width) * l.height
}

func (l rawLayout) frameBytes() int {
	return l.planeBytes() * l.family.PlaneCount()
}

type input struct {
	frames    [][]pixel.Plane
	format    pixel.Format
	family    pixel.ColorFamily
	fullRange bool
	fromImage bool
}

func readInput(path string, layout rawLayout) (input, error) {
	f, err := os.Open(path)
	if err != nil {
		return input{}, err
	}
	defer f.Close()

	switch containerOf(path) {
	case containerPNG:
		return decodeImage(f, png.Decode)
	case containerTIFF:
		return decodeImage(f, tiff.Decode)
	case containerWebP:
		return decodeImage(f, webp.Decode)
	case containerZstd:
		data, err := decodeZstd(f)
		if err != nil {
			return input{}, fmt.Errorf("%s: %w", path, err)
		}
		return splitRaw(data, layout)
	default:
		data, err := io.ReadAll(f)
		if err != nil {
			return input{}, err
		}
		return splitRaw(data, layout)
	}
}

// splitRaw cuts planar frames out of data without copying.
func splitRaw(data []byte, l rawLayout) (input, error) {
	if l.width <= 0 || l.height <= 0 {
		return input{}, errors.New("raw input needs -w and -h")
	}
	if err := l.format.Validate(); err != nil {
		return input{}, err
	}

	frameBytes := l.frameBytes()
	if len(data) == 0 || len(data)%frameBytes != 0 {
		return input{}, fmt.Errorf("raw input of %d bytes is not a whole number of %d-byte frames", len(data), frameBytes)
	}

	in := input{format: l.format, family: l.family}
	planeBytes := l.planeBytes()
	stride := l.format.RowBytes(l.width)

	for off := 0; off < len(data); off += frameBytes {
		frame := make([]pixel.Plane, l.family.PlaneCount())
		for i := range frame {
			start := off + i*planeBytes
			frame[i] = pixel.Plane{
				Data:   data[start : start+planeBytes],
				Stride: stride,
				Width:  l.width,
				Height: l.height,
			}
		}
		in.frames = append(in.frames, frame)
	}

	return in, nil
}

func decodeZstd(r io.Reader) ([]byte, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return io.ReadAll(dec)
}

func encodeZstd(w io.Writer, data []byte) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return err
	}

	return enc.Close()
}

// decodeImage turns a decoded image into one frame of full-range gray or
// RGB planes. Sixteen-bit images keep their depth; everything else is read
// as 8 bits. Alpha is dropped.
func decodeImage(r io.Reader, decode func(io.Reader) (image.Image, error)) (input, error) {
	img, err := decode(r)
	if err != nil {
		return input{}, err
	}

	format := pixel.Int8
	switch img.(type) {
	case *image.Gray16, *image.RGBA64, *image.NRGBA64:
		format = pixel.Int16
	}

	family := pixel.FamilyRGB
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		family = pixel.FamilyGray
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	planes := make([]pixel.Plane, family.PlaneCount())
	for i := range planes {
		planes[i] = pixel.NewPlane(format, w, h)
	}

	shift := uint(16 - format.Bits)
	rows := make([][]int32, len(planes))
	for i := range rows {
		rows[i] = make([]int32, w)
	}

	for y := range h {
		for x := range w {
			c := img.At(b.Min.X+x, b.Min.Y+y)
			if family == pixel.FamilyGray {
				rows[0][x] = int32(color.Gray16Model.Convert(c).(color.Gray16).Y >> shift)
				continue
			}
			r, g, bl, _ := c.RGBA()
			rows[0][x] = int32(r >> shift)
			rows[1][x] = int32(g >> shift)
			rows[2][x] = int32(bl >> shift)
		}
		for i, p := range planes {
			pixel.EncodeIntRow(p.Row(y), rows[i], format)
		}
	}

	return input{
		frames:    [][]pixel.Plane{planes},
		format:    format,
		family:    family,
		fullRange: true,
		fromImage: true,
	}, nil
}

func writeOutput(path string, frames [][]pixel.Plane, format pixel.Format, family pixel.ColorFamily) error {
	kind := containerOf(path)

	var buf bytes.Buffer
	switch kind {
	case containerPNG, containerTIFF:
		if len(frames) != 1 {
			return fmt.Errorf("%s: image output holds one frame, got %d", path, len(frames))
		}
		img, err := encodeImage(frames[0], format, family)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if kind == containerPNG {
			err = png.Encode(&buf, img)
		} else {
			err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
		}
		if err != nil {
			return err
		}
	case containerWebP:
		return fmt.Errorf("%s: webp output is not supported", path)
	case containerZstd:
		if err := encodeZstd(&buf, joinRaw(frames)); err != nil {
			return err
		}
	default:
		buf.Write(joinRaw(frames))
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// joinRaw serialises frames as tightly packed planar data.
func joinRaw(frames [][]pixel.Plane) []byte {
	var out []byte
	for _, frame := range frames {
		for _, p := range frame {
			out = append(out, p.Data[:p.Stride*p.Height]...)
		}
	}

	return out
}

func encodeImage(planes []pixel.Plane, format pixel.Format, family pixel.ColorFamily) (image.Image, error) {
	if format != pixel.Int8 && format != pixel.Int16 {
		return nil, fmt.Errorf("image output needs int8 or int16 samples, got %v", format)
	}
	if family == pixel.FamilyYUV {
		return nil, errors.New("image output needs gray or rgb planes")
	}

	w, h := planes[0].Width, planes[0].Height
	rect := image.Rect(0, 0, w, h)
	deep := format == pixel.Int16

	var img interface {
		image.Image
		Set(x, y int, c color.Color)
	}
	switch {
	case family == pixel.FamilyGray && deep:
		img = image.NewGray16(rect)
	case family == pixel.FamilyGray:
		img = image.NewGray(rect)
	case deep:
		img = image.NewRGBA64(rect)
	default:
		img = image.NewRGBA(rect)
	}

	rows := make([][]int32, len(planes))
	for i := range rows {
		rows[i] = make([]int32, w)
	}

	for y := range h {
		for i, p := range planes {
			pixel.DecodeIntRow(rows[i], p.Row(y), format)
		}
		for x := range w {
			switch {
			case family == pixel.FamilyGray && deep:
				img.Set(x, y, color.Gray16{Y: uint16(rows[0][x])})
			case family == pixel.FamilyGray:
				img.Set(x, y, color.Gray{Y: uint8(rows[0][x])})
			case deep:
				img.Set(x, y, color.RGBA64{R: uint16(rows[0][x]), G: uint16(rows[1][x]), B: uint16(rows[2][x]), A: 0xffff})
			default:
				img.Set(x, y, color.RGBA{R: uint8(rows[0][x]), G: uint8(rows[1][x]), B: uint8(rows[2][x]), A: 0xff})
			}
		}
	}

	return img, nil
}
