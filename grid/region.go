package grid

import (
	"fmt"
	"iter"
)

// Region is a hyper-rectangle in array coordinates.
type Region struct {
	Offset []int
	Shape  []int
}

// Rank returns the region's dimensionality.
func (r Region) Rank() int { return len(r.Offset) }

// NumElements returns the number of elements the region covers.
func (r Region) NumElements() int { return NumElements(r.Shape) }

// CheckRegion validates that a region lies within the array shape.
func (g Grid) CheckRegion(r Region) error {
	if len(r.Offset) != g.Rank() || len(r.Shape) != g.Rank() {
		return fmt.Errorf("region rank mismatch: got offset rank %d, shape rank %d, want %d", len(r.Offset), len(r.Shape), g.Rank())
	}
	for i := range r.Offset {
		if r.Offset[i] < 0 || r.Shape[i] < 0 {
			return fmt.Errorf("region has negative offset or shape in dimension %d", i)
		}
		if r.Offset[i]+r.Shape[i] > g.shape[i] {
			return fmt.Errorf("region end %d exceeds array extent %d in dimension %d", r.Offset[i]+r.Shape[i], g.shape[i], i)
		}
	}
	return nil
}

// PartialChunk describes the intersection of one chunk with a region of
// interest, in both chunk-local and region-local coordinates.
type PartialChunk struct {
	// Index is the chunk's grid index.
	Index []int
	// ChunkRegion is the intersection relative to the chunk's origin.
	ChunkRegion Region
	// OutRegion is the intersection relative to the region's origin.
	OutRegion Region
}

// Whole reports whether the partial chunk covers its entire chunk.
func (p PartialChunk) Whole(chunkShape []int) bool {
	for i := range chunkShape {
		if p.ChunkRegion.Offset[i] != 0 || p.ChunkRegion.Shape[i] != chunkShape[i] {
			return false
		}
	}
	return true
}

// Chunks yields every chunk intersecting the region in row-major order.
// Generation is stateless: the sequence can be restarted and consumed
// concurrently. The region must have been validated with CheckRegion.
func (g Grid) Chunks(r Region) iter.Seq[PartialChunk] {
	return func(yield func(PartialChunk) bool) {
		rank := g.Rank()
		if r.NumElements() == 0 && rank > 0 {
			return
		}
		if rank == 0 {
			// Scalar array: a single chunk with a single element.
			yield(PartialChunk{Index: []int{}, ChunkRegion: Region{Offset: []int{}, Shape: []int{}}, OutRegion: Region{Offset: []int{}, Shape: []int{}}})
			return
		}

		first := make([]int, rank)
		last := make([]int, rank)
		for d := range first {
			first[d] = r.Offset[d] / g.chunkShape[d]
			last[d] = (r.Offset[d] + r.Shape[d] - 1) / g.chunkShape[d]
		}

		idx := append([]int(nil), first...)
		for {
			if !yield(g.partialChunk(idx, r)) {
				return
			}
			// Row-major increment: last dimension varies fastest.
			d := rank - 1
			for d >= 0 {
				idx[d]++
				if idx[d] <= last[d] {
					break
				}
				idx[d] = first[d]
				d--
			}
			if d < 0 {
				return
			}
		}
	}
}

func (g Grid) partialChunk(idx []int, r Region) PartialChunk {
	rank := g.Rank()
	pc := PartialChunk{
		Index:       append([]int(nil), idx...),
		ChunkRegion: Region{Offset: make([]int, rank), Shape: make([]int, rank)},
		OutRegion:   Region{Offset: make([]int, rank), Shape: make([]int, rank)},
	}
	for d := range idx {
		start := idx[d] * g.chunkShape[d]
		lo := max(start, r.Offset[d])
		hi := min(start+g.chunkShape[d], r.Offset[d]+r.Shape[d])
		pc.ChunkRegion.Offset[d] = lo - start
		pc.ChunkRegion.Shape[d] = hi - lo
		pc.OutRegion.Offset[d] = lo - r.Offset[d]
		pc.OutRegion.Shape[d] = hi - lo
	}
	return pc
}
