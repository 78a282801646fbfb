package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/zarrgo/dtype"
	"github.com/hupe1980/zarrgo/grid"
)

// Chunk is a dense, typed N-dimensional block: a contiguous buffer of
// elements in row-major order. Element bytes are held little-endian
// regardless of host architecture; the bytes codec converts at the
// array/bytes boundary when a big-endian encoding is configured.
type Chunk struct {
	Type  dtype.Type
	Shape []int
	Data  []byte
}

// NewFilled allocates a chunk with every element set to fill.
func NewFilled(t dtype.Type, shape []int, fill dtype.Value) *Chunk {
	n := grid.NumElements(shape)
	size := t.Size()
	data := make([]byte, n*size)
	pattern := fill.Encode(binary.LittleEndian)
	if !isZero(pattern) {
		for i := 0; i < len(data); i += size {
			copy(data[i:], pattern)
		}
	}
	return &Chunk{Type: t, Shape: append([]int(nil), shape...), Data: data}
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

// NumElements returns the chunk's element count.
func (c *Chunk) NumElements() int { return grid.NumElements(c.Shape) }

// Repr returns the chunk's representation with the given fill value.
func (c *Chunk) Repr(fill dtype.Value) Repr {
	return Repr{Type: c.Type, Shape: append([]int(nil), c.Shape...), Fill: fill}
}

// CheckIntegrity validates that the buffer length matches shape and type.
func (c *Chunk) CheckIntegrity() error {
	want := c.NumElements() * c.Type.Size()
	if len(c.Data) != want {
		return fmt.Errorf("chunk buffer is %d bytes, want %d for shape %v of %s", len(c.Data), want, c.Shape, c.Type)
	}
	return nil
}

// ScalarAt decodes the element at linear (row-major) index i.
func (c *Chunk) ScalarAt(i int) (dtype.Value, error) {
	size := c.Type.Size()
	off := i * size
	if i < 0 || off+size > len(c.Data) {
		return dtype.Value{}, fmt.Errorf("element index %d out of range", i)
	}
	return dtype.Decode(c.Type, c.Data[off:off+size], binary.LittleEndian)
}

// EqualsScalar reports whether every element equals v, compared by encoded
// bytes. NaN fills therefore compare equal to identically-encoded NaNs.
func (c *Chunk) EqualsScalar(v dtype.Value) bool {
	size := c.Type.Size()
	pattern := v.Encode(binary.LittleEndian)
	for i := 0; i < len(c.Data); i += size {
		if !bytes.Equal(c.Data[i:i+size], pattern) {
			return false
		}
	}
	return true
}

// Slice copies the hyper-rectangle r out of the chunk.
func (c *Chunk) Slice(r grid.Region) (*Chunk, error) {
	if err := c.checkRegion(r); err != nil {
		return nil, err
	}
	out := &Chunk{
		Type:  c.Type,
		Shape: append([]int(nil), r.Shape...),
		Data:  make([]byte, grid.NumElements(r.Shape)*c.Type.Size()),
	}
	copyND(out.Data, out.Shape, make([]int, len(r.Shape)), c.Data, c.Shape, r.Offset, r.Shape, c.Type.Size())
	return out, nil
}

// SetRegion copies src into the hyper-rectangle r of the chunk.
// src's shape must equal r's shape and its type must match.
func (c *Chunk) SetRegion(r grid.Region, src *Chunk) error {
	if err := c.checkRegion(r); err != nil {
		return err
	}
	if src.Type != c.Type {
		return fmt.Errorf("region type %s does not match chunk type %s", src.Type, c.Type)
	}
	if !shapeEqual(src.Shape, r.Shape) {
		return fmt.Errorf("region shape %v does not match source shape %v", r.Shape, src.Shape)
	}
	copyND(c.Data, c.Shape, r.Offset, src.Data, src.Shape, make([]int, len(r.Shape)), r.Shape, c.Type.Size())
	return nil
}

func (c *Chunk) checkRegion(r grid.Region) error {
	if len(r.Offset) != len(c.Shape) || len(r.Shape) != len(c.Shape) {
		return fmt.Errorf("region rank does not match chunk rank %d", len(c.Shape))
	}
	for d := range r.Offset {
		if r.Offset[d] < 0 || r.Shape[d] < 0 || r.Offset[d]+r.Shape[d] > c.Shape[d] {
			return fmt.Errorf("region %v+%v out of chunk bounds %v", r.Offset, r.Shape, c.Shape)
		}
	}
	return nil
}

func shapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// strides returns row-major strides in elements.
func strides(shape []int) []int {
	out := make([]int, len(shape))
	s := 1
	for d := len(shape) - 1; d >= 0; d-- {
		out[d] = s
		s *= shape[d]
	}
	return out
}

// copyND copies a hyper-rectangle between two row-major element buffers,
// one contiguous row (innermost dimension run) at a time.
func copyND(dst []byte, dstShape, dstOff []int, src []byte, srcShape, srcOff, copyShape []int, esize int) {
	rank := len(copyShape)
	if rank == 0 {
		copy(dst[:esize], src[:esize])
		return
	}
	if grid.NumElements(copyShape) == 0 {
		return
	}

	dstStride := strides(dstShape)
	srcStride := strides(srcShape)
	rowBytes := copyShape[rank-1] * esize

	dstBase := 0
	srcBase := 0
	for d := 0; d < rank; d++ {
		dstBase += dstOff[d] * dstStride[d]
		srcBase += srcOff[d] * srcStride[d]
	}

	// Odometer over all dimensions except the innermost.
	coord := make([]int, rank-1)
	for {
		dstIdx := dstBase
		srcIdx := srcBase
		for d := 0; d < rank-1; d++ {
			dstIdx += coord[d] * dstStride[d]
			srcIdx += coord[d] * srcStride[d]
		}
		copy(dst[dstIdx*esize:dstIdx*esize+rowBytes], src[srcIdx*esize:srcIdx*esize+rowBytes])

		d := rank - 2
		for d >= 0 {
			coord[d]++
			if coord[d] < copyShape[d] {
				break
			}
			coord[d] = 0
			d--
		}
		if d < 0 {
			return
		}
	}
}
