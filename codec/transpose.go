package codec

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/zarrgo/grid"
)

type orderKind uint8

const (
	orderC orderKind = iota
	orderF
	orderPerm
)

// Order is a transpose codec's axis order: "C" (row-major, a no-op),
// "F" (reversed axes), or an explicit permutation of dimension indices.
type Order struct {
	kind orderKind
	perm []int
}

// OrderC is the identity order.
func OrderC() Order { return Order{kind: orderC} }

// OrderF reverses the axes.
func OrderF() Order { return Order{kind: orderF} }

// NewPermutation validates an explicit axis permutation. A monotonically
// increasing permutation simplifies to C, a decreasing one to F.
func NewPermutation(perm []int) (Order, error) {
	if len(perm) == 0 {
		return Order{}, fmt.Errorf("empty permutation")
	}
	seen := make(map[int]bool, len(perm))
	increasing, decreasing := true, true
	last := perm[0]
	seen[last] = true
	for _, p := range perm[1:] {
		if p > last {
			decreasing = false
		}
		if p < last {
			increasing = false
		}
		if seen[p] {
			return Order{}, fmt.Errorf("repeated dimension index %d", p)
		}
		seen[p] = true
		last = p
	}
	for i := range perm {
		if !seen[i] {
			return Order{}, fmt.Errorf("permutation %v skips dimension index %d", perm, i)
		}
	}
	if increasing {
		return OrderC(), nil
	}
	if decreasing {
		return OrderF(), nil
	}
	return Order{kind: orderPerm, perm: append([]int(nil), perm...)}, nil
}

// MarshalJSON renders "C", "F", or the permutation array.
func (o Order) MarshalJSON() ([]byte, error) {
	switch o.kind {
	case orderC:
		return []byte(`"C"`), nil
	case orderF:
		return []byte(`"F"`), nil
	default:
		return json.Marshal(o.perm)
	}
}

// UnmarshalJSON parses and validates any of the three order forms.
func (o *Order) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch s {
		case "C":
			*o = OrderC()
		case "F":
			*o = OrderF()
		default:
			return fmt.Errorf("invalid transpose order %q", s)
		}
		return nil
	}
	var perm []int
	if err := json.Unmarshal(data, &perm); err != nil {
		return fmt.Errorf("invalid transpose order: %s", data)
	}
	ord, err := NewPermutation(perm)
	if err != nil {
		return err
	}
	*o = ord
	return nil
}

// permutation materializes the order for a given rank.
func (o Order) permutation(rank int) []int {
	switch o.kind {
	case orderF:
		p := make([]int, rank)
		for i := range p {
			p[i] = rank - 1 - i
		}
		return p
	case orderPerm:
		return o.perm
	default:
		return nil // identity
	}
}

// TransposeCodec is the array->array codec "transpose": it reorders a
// chunk's axes on encode and restores them on decode.
type TransposeCodec struct {
	Order Order
}

func init() {
	Register("transpose", func(config json.RawMessage) (any, error) {
		var doc struct {
			Order Order `json:"order"`
		}
		if len(config) > 0 {
			if err := json.Unmarshal(config, &doc); err != nil {
				return nil, err
			}
		}
		return &TransposeCodec{Order: doc.Order}, nil
	})
}

func (*TransposeCodec) Name() string { return "transpose" }

func (t *TransposeCodec) validate(r Repr) error {
	if t.Order.kind == orderPerm && len(t.Order.perm) != len(r.Shape) {
		return fmt.Errorf("permutation rank %d does not match chunk rank %d", len(t.Order.perm), len(r.Shape))
	}
	return nil
}

// EncodedRepr permutes the declared shape.
func (t *TransposeCodec) EncodedRepr(r Repr) Repr {
	perm := t.Order.permutation(len(r.Shape))
	if perm == nil {
		return r
	}
	shape := make([]int, len(r.Shape))
	for i, p := range perm {
		shape[i] = r.Shape[p]
	}
	return Repr{Type: r.Type, Shape: shape, Fill: r.Fill}
}

func (t *TransposeCodec) EncodeArray(c *Chunk) (*Chunk, error) {
	perm := t.Order.permutation(len(c.Shape))
	if perm == nil {
		return c, nil
	}
	if len(perm) != len(c.Shape) {
		return nil, encodeErr(t.Name(), fmt.Errorf("permutation rank %d does not match chunk rank %d", len(perm), len(c.Shape)))
	}
	return permuteChunk(c, perm), nil
}

func (t *TransposeCodec) DecodeArray(c *Chunk) (*Chunk, error) {
	perm := t.Order.permutation(len(c.Shape))
	if perm == nil {
		return c, nil
	}
	if len(perm) != len(c.Shape) {
		return nil, decodeErr(t.Name(), fmt.Errorf("permutation rank %d does not match chunk rank %d", len(perm), len(c.Shape)))
	}
	return permuteChunk(c, inversePermutation(perm)), nil
}

func inversePermutation(perm []int) []int {
	inv := make([]int, len(perm))
	for i, p := range perm {
		inv[p] = i
	}
	return inv
}

// permuteChunk produces a new chunk whose dimension i is the input's
// dimension perm[i], with the element data physically reordered to stay
// row-major contiguous.
func permuteChunk(c *Chunk, perm []int) *Chunk {
	rank := len(c.Shape)
	outShape := make([]int, rank)
	for i, p := range perm {
		outShape[i] = c.Shape[p]
	}

	esize := c.Type.Size()
	out := make([]byte, len(c.Data))
	if rank == 0 || len(c.Data) == 0 {
		copy(out, c.Data)
		return &Chunk{Type: c.Type, Shape: outShape, Data: out}
	}

	inStride := strides(c.Shape)
	coord := make([]int, rank) // output coordinate
	n := grid.NumElements(outShape)
	for lin := 0; lin < n; lin++ {
		src := 0
		for d := 0; d < rank; d++ {
			src += coord[d] * inStride[perm[d]]
		}
		copy(out[lin*esize:(lin+1)*esize], c.Data[src*esize:(src+1)*esize])

		d := rank - 1
		for d >= 0 {
			coord[d]++
			if coord[d] < outShape[d] {
				break
			}
			coord[d] = 0
			d--
		}
	}
	return &Chunk{Type: c.Type, Shape: outShape, Data: out}
}
