package buffer

// Number is the set of element types a Buffer can hold: integer error rows,
// integer sample rows and floating-point rows.
type Number interface {
	~int16 | ~int32 | ~float32 | ~float64
}

// Buffer wraps a slice with reuse-friendly semantics.
type Buffer[T Number] struct {
	samples []T
}

// New returns a zero-filled Buffer of the given length.
func New[T Number](length int) *Buffer[T] {
	if length < 0 {
		length = 0
	}
	return &Buffer[T]{samples: make([]T, length)}
}

// FromSlice wraps an existing slice without copying.
// Mutations to the slice are visible through the Buffer and vice versa.
func FromSlice[T Number](s []T) *Buffer[T] {
	return &Buffer[T]{samples: s}
}

// Samples returns the underlying slice.
func (b *Buffer[T]) Samples() []T {
	return b.samples
}

// Len returns the current number of elements.
func (b *Buffer[T]) Len() int {
	return len(b.samples)
}

// Cap returns the current capacity of the backing slice.
func (b *Buffer[T]) Cap() int {
	return cap(b.samples)
}

// Resize sets the length to n, reusing existing capacity when possible.
// New elements beyond the previous length are zeroed.
func (b *Buffer[T]) Resize(n int) {
	if n < 0 {
		n = 0
	}
	oldLen := len(b.samples)
	if n <= cap(b.samples) {
		b.samples = b.samples[:n]
	} else {
		s := make([]T, n)
		copy(s, b.samples)
		b.samples = s
	}
	// The backing array may hold stale data from a previous use.
	if n > oldLen {
		clear(b.samples[oldLen:])
	}
}

// Zero sets all elements to 0.
func (b *Buffer[T]) Zero() {
	clear(b.samples)
}

// ZeroRange sets elements in [start, end) to 0.
// Indices are clamped to valid bounds.
func (b *Buffer[T]) ZeroRange(start, end int) {
	start = max(start, 0)
	end = min(end, len(b.samples))
	if start >= end {
		return
	}
	clear(b.samples[start:end])
}
