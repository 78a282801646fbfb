// Package grid implements the regular chunk grid: the partition of an
// N-dimensional array shape into fixed-shape chunks, chunk key encoding,
// and iteration over the chunks overlapping a region.
package grid

import (
	"fmt"
)

// Grid is a regular chunk grid over an array shape. Edge chunks may
// overhang the array; their stored extent is always the full chunk shape.
type Grid struct {
	shape      []int
	chunkShape []int
}

// New validates and constructs a regular grid. The shapes must have the
// same rank, array extents must be non-negative and chunk extents positive.
func New(shape, chunkShape []int) (Grid, error) {
	if len(shape) != len(chunkShape) {
		return Grid{}, fmt.Errorf("rank mismatch: array shape has rank %d, chunk shape has rank %d", len(shape), len(chunkShape))
	}
	for i, s := range shape {
		if s < 0 {
			return Grid{}, fmt.Errorf("array shape[%d] is negative: %d", i, s)
		}
	}
	for i, c := range chunkShape {
		if c <= 0 {
			return Grid{}, fmt.Errorf("chunk shape[%d] must be positive: %d", i, c)
		}
	}
	return Grid{
		shape:      append([]int(nil), shape...),
		chunkShape: append([]int(nil), chunkShape...),
	}, nil
}

// Rank returns the number of dimensions.
func (g Grid) Rank() int { return len(g.shape) }

// Shape returns the array shape.
func (g Grid) Shape() []int { return append([]int(nil), g.shape...) }

// ChunkShape returns the chunk shape. It is the same for every chunk of a
// regular grid.
func (g Grid) ChunkShape() []int { return append([]int(nil), g.chunkShape...) }

// GridShape returns the number of chunks along each dimension,
// ceil(shape[i] / chunkShape[i]) per axis.
func (g Grid) GridShape() []int {
	out := make([]int, g.Rank())
	for i := range g.shape {
		out[i] = (g.shape[i] + g.chunkShape[i] - 1) / g.chunkShape[i]
	}
	return out
}

// ChunkElems returns the number of elements in one chunk.
func (g Grid) ChunkElems() int { return NumElements(g.chunkShape) }

// InvalidIndexError reports a chunk index outside the grid.
type InvalidIndexError struct {
	Index     []int
	GridShape []int
}

func (e *InvalidIndexError) Error() string {
	return fmt.Sprintf("chunk index %v is invalid for grid shape %v", e.Index, e.GridShape)
}

// CheckIndex validates a chunk index against the grid shape.
func (g Grid) CheckIndex(idx []int) error {
	gs := g.GridShape()
	if len(idx) != len(gs) {
		return &InvalidIndexError{Index: append([]int(nil), idx...), GridShape: gs}
	}
	for i, c := range idx {
		if c < 0 || c >= gs[i] {
			return &InvalidIndexError{Index: append([]int(nil), idx...), GridShape: gs}
		}
	}
	return nil
}

// NumElements returns the product of a shape's extents. The empty shape
// has one element (a scalar).
func NumElements(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}
