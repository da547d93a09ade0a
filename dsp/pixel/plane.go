package pixel

import "fmt"

// Plane is one image plane: Height rows of Width samples, Stride bytes apart.
type Plane struct {
	Data   []byte
	Stride int
	Width  int
	Height int
}

// NewPlane allocates a tightly packed plane for format f.
func NewPlane(f Format, w, h int) Plane {
	stride := f.RowBytes(w)
	return Plane{
		Data:   make([]byte, stride*h),
		Stride: stride,
		Width:  w,
		Height: h,
	}
}

// Row returns the bytes of row y, starting at the first sample.
func (p Plane) Row(y int) []byte {
	return p.Data[y*p.Stride:]
}

// Check reports whether the plane's buffer can hold its geometry in
// format f.
func (p Plane) Check(f Format) error {
	if p.Width < 0 || p.Height < 0 {
		return fmt.Errorf("pixel: negative plane size %dx%d", p.Width, p.Height)
	}
	if p.Width == 0 || p.Height == 0 {
		return nil
	}

	rowBytes := f.RowBytes(p.Width)
	if p.Stride < rowBytes {
		return fmt.Errorf("pixel: stride %d shorter than row (%d bytes)", p.Stride, rowBytes)
	}
	if need := (p.Height-1)*p.Stride + rowBytes; len(p.Data) < need {
		return fmt.Errorf("pixel: plane buffer holds %d bytes, need %d", len(p.Data), need)
	}

	return nil
}
