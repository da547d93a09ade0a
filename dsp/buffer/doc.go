// Package buffer provides a reusable, element-typed row buffer and a pool
// for allocation-free scanline processing. Processing code works on raw
// slices; Buffer is a convenience that lets callers keep row storage alive
// across frames and planes.
package buffer
