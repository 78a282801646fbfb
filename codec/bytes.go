package codec

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/zarrgo/dtype"
)

// Endianness values for the bytes codec configuration.
const (
	EndianLittle = "little"
	EndianBig    = "big"
)

// BytesCodec is the array->bytes codec "bytes": it serializes a chunk's
// elements in row-major order with a configured byte order. It is the
// implicit default when a codec list declares no array->bytes codec.
//
// An endianness must be configured for multi-byte data types; single-byte
// and raw types ignore it.
type BytesCodec struct {
	// Endian is "little", "big", or empty for single-byte types.
	Endian string
}

func init() {
	Register("bytes", func(config json.RawMessage) (any, error) {
		var doc struct {
			Endian string `json:"endian,omitempty"`
		}
		if len(config) > 0 {
			if err := json.Unmarshal(config, &doc); err != nil {
				return nil, err
			}
		}
		if doc.Endian != "" && doc.Endian != EndianLittle && doc.Endian != EndianBig {
			return nil, fmt.Errorf("invalid endian %q", doc.Endian)
		}
		return &BytesCodec{Endian: doc.Endian}, nil
	})
}

func (*BytesCodec) Name() string { return "bytes" }

func (b *BytesCodec) validate(r Repr) error {
	return b.validateType(r.Type)
}

func (b *BytesCodec) validateType(t dtype.Type) error {
	if b.Endian == "" && t.HasEndianness() {
		return fmt.Errorf("data type %s requires an endianness", t)
	}
	return nil
}

// EncodeBytes serializes the chunk buffer, byte-swapping each word when a
// big-endian encoding is configured. Chunk buffers are little-endian in
// memory, so the little-endian case is a plain copy.
func (b *BytesCodec) EncodeBytes(c *Chunk, _ Repr) ([]byte, error) {
	if err := b.validateType(c.Type); err != nil {
		return nil, encodeErr(b.Name(), err)
	}
	out := append([]byte(nil), c.Data...)
	if b.Endian == EndianBig {
		swapWords(out, c.Type.WordSize())
	}
	return out, nil
}

// DecodeBytes reconstructs a chunk from its serialized buffer, validating
// the byte length against the declared representation.
func (b *BytesCodec) DecodeBytes(data []byte, r Repr) (*Chunk, error) {
	if err := b.validate(r); err != nil {
		return nil, decodeErr(b.Name(), err)
	}
	if len(data) != r.NumBytes() {
		return nil, decodeErr(b.Name(), fmt.Errorf("buffer is %d bytes, want %d for shape %v of %s", len(data), r.NumBytes(), r.Shape, r.Type))
	}
	buf := append([]byte(nil), data...)
	if b.Endian == EndianBig {
		swapWords(buf, r.Type.WordSize())
	}
	return &Chunk{Type: r.Type, Shape: append([]int(nil), r.Shape...), Data: buf}, nil
}

func swapWords(b []byte, word int) {
	if word <= 1 {
		return
	}
	for i := 0; i < len(b); i += word {
		for l, r := i, i+word-1; l < r; l, r = l+1, r-1 {
			b[l], b[r] = b[r], b[l]
		}
	}
}
