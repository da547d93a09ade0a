package dither

import (
	"fmt"
	"math"
	"sync"

	"github.com/cwbudde/algo-bitdepth/dsp/buffer"
)

// errMargin is the number of guard cells on each side of an error row, so
// kernels can write two pixels beyond either edge without bounds checks.
const errMargin = 2

// ErrorBuffer holds the carried quantisation error of one plane: one or two
// rows of fixed-point (int16) or float32 cells plus the two pending values
// that run ahead of the scan position. Rows are width+2*errMargin long; cell
// x of the image lives at index x+errMargin.
//
// A buffer is checked out of an ErrorBufferPool for the duration of one plane.
type ErrorBuffer struct {
	width int
	rows  int
	float bool

	ints   [2]*buffer.Buffer[int16]
	floats [2]*buffer.Buffer[float32]

	pendInt   [2]int32
	pendFloat [2]float32
}

func newErrorBuffer() *ErrorBuffer {
	b := &ErrorBuffer{}
	for i := range b.ints {
		b.ints[i] = buffer.New[int16](0)
		b.floats[i] = buffer.New[float32](0)
	}
	return b
}

// reset sizes the buffer for a plane and clears every cell and pending value.
func (b *ErrorBuffer) reset(width, rows int, float bool) {
	b.width, b.rows, b.float = width, rows, float
	n := width + 2*errMargin

	for i := range 2 {
		if i >= rows {
			b.ints[i].Resize(0)
			b.floats[i].Resize(0)
			continue
		}
		if float {
			b.floats[i].Resize(n)
			b.floats[i].Zero()
			b.ints[i].Resize(0)
		} else {
			b.ints[i].Resize(n)
			b.ints[i].Zero()
			b.floats[i].Resize(0)
		}
	}

	b.pendInt = [2]int32{}
	b.pendFloat = [2]float32{}
}

// Width returns the image width the buffer was sized for.
func (b *ErrorBuffer) Width() int { return b.width }

// Rows returns the number of carry rows (1 or 2).
func (b *ErrorBuffer) Rows() int { return b.rows }

// IsFloat reports whether the cells are float32.
func (b *ErrorBuffer) IsFloat() bool { return b.float }

// IntRow returns fixed-point row i, including margins.
func (b *ErrorBuffer) IntRow(i int) []int16 { return b.ints[i].Samples() }

// FloatRow returns float row i, including margins.
func (b *ErrorBuffer) FloatRow(i int) []float32 { return b.floats[i].Samples() }

// clearAhead zeroes the guard cells past the end of a row scanned in
// direction dir.
func clearAhead[T int16 | float32](row []T, dir int) {
	if dir > 0 {
		clear(row[len(row)-errMargin:])
	} else {
		clear(row[:errMargin])
	}
}

func sat16(v int32) int16 {
	return int16(min(max(v, math.MinInt16), math.MaxInt16))
}

// ErrorBufferPool recycles ErrorBuffers across planes and frames. It is safe
// for concurrent use. A positive limit caps the number of buffers checked
// out at the same time.
type ErrorBufferPool struct {
	mu    sync.Mutex
	free  []*ErrorBuffer
	limit int
	inUse int
}

// NewErrorBufferPool returns a pool. limit <= 0 means unlimited.
func NewErrorBufferPool(limit int) *ErrorBufferPool {
	return &ErrorBufferPool{limit: max(limit, 0)}
}

// Acquire checks out a cleared buffer for a plane of the given width with
// rows carry rows (1 or 2). It returns ErrAllocFailed when the limit is
// reached or the geometry is unusable.
func (p *ErrorBufferPool) Acquire(width, rows int, float bool) (*ErrorBuffer, error) {
	if width <= 0 || rows < 1 || rows > 2 {
		return nil, fmt.Errorf("%w: error buffer %dx%d", ErrAllocFailed, width, rows)
	}

	p.mu.Lock()
	if p.limit > 0 && p.inUse >= p.limit {
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: %d error buffers in use", ErrAllocFailed, p.limit)
	}
	p.inUse++

	var b *ErrorBuffer
	if n := len(p.free); n > 0 {
		b = p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
	}
	p.mu.Unlock()

	if b == nil {
		b = newErrorBuffer()
	}
	b.reset(width, rows, float)

	return b, nil
}

// Release returns a buffer to the pool. Releasing nil is a no-op.
func (p *ErrorBufferPool) Release(b *ErrorBuffer) {
	if b == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.inUse--
	p.free = append(p.free, b)
}

// InUse returns the number of buffers currently checked out.
func (p *ErrorBufferPool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.inUse
}
