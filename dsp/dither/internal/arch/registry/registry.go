// Package registry holds the CPU-keyed implementations of the ordered
// dither row kernel.
package registry

import (
	"sync"

	"github.com/cwbudde/algo-bitdepth/internal/cpu"
)

// OrderedParams are the per-plane constants of the integer ordered path.
// A pattern value d (1/256 of a destination step) contributes
// (d << DitherShl) >> DitherShr source units; at most one shift is non-zero.
type OrderedParams struct {
	Dif       uint
	Rcst      int32
	DitherShl uint
	DitherShr uint
	Max       int32
}

// OrderedRowFn quantises one row: for every x,
//
//	dst[x] = clamp((src[x] + Rcst + dither(pat[x & (len(pat)-1)])) >> Dif, 0, Max)
//
// len(pat) is a power of two. dst and src have the same length.
type OrderedRowFn func(dst, src []int32, pat []int16, p OrderedParams)

// OpEntry is one registered kernel implementation.
type OpEntry struct {
	Name       string
	SIMDLevel  cpu.SIMDLevel
	Priority   int
	OrderedRow OrderedRowFn
}

// OpRegistry stores available implementations.
type OpRegistry struct {
	mu      sync.RWMutex
	entries []OpEntry
	sorted  bool
}

// Global is the default registry.
var Global = &OpRegistry{}

// Register adds an implementation entry.
func (r *OpRegistry) Register(entry OpEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	r.sorted = false
}

// Lookup returns the highest-priority implementation supported by features.
func (r *OpRegistry) Lookup(features cpu.Features) *OpEntry {
	r.mu.Lock()
	if !r.sorted {
		r.sortByPriority()
		r.sorted = true
	}
	r.mu.Unlock()

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.entries {
		entry := &r.entries[i]
		if cpu.Supports(features, entry.SIMDLevel) {
			return entry
		}
	}

	return nil
}

func (r *OpRegistry) sortByPriority() {
	for i := 1; i < len(r.entries); i++ {
		key := r.entries[i]
		j := i - 1
		for j >= 0 && r.entries[j].Priority < key.Priority {
			r.entries[j+1] = r.entries[j]
			j--
		}
		r.entries[j+1] = key
	}
}

// ListEntries returns a copy of entries for tests/debugging.
func (r *OpRegistry) ListEntries() []OpEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]OpEntry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// Reset clears all entries. Intended for tests.
func (r *OpRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	r.sorted = false
}
