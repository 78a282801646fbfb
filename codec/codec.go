// Package codec implements the chunk transform pipeline: a registry of
// named, configured codecs and their composition into a reversible chain.
//
// Three stage kinds exist, composed in a fixed order when encoding:
// array->array transforms, exactly one array->bytes codec, then zero or
// more bytes->bytes transforms. Decoding runs the chain in reverse.
// All codecs are stateless values, safe for concurrent use; each call is a
// pure function of (configuration, input).
package codec

import (
	"errors"
	"fmt"

	"github.com/hupe1980/zarrgo/dtype"
)

// ErrChecksum is wrapped by decode errors caused by a failed integrity
// check. Test with errors.Is.
var ErrChecksum = errors.New("checksum mismatch")

// ErrUnknownCodec is wrapped by errors for unregistered codec names.
var ErrUnknownCodec = errors.New("unknown codec")

// Error reports a failure inside one codec stage. The engine propagates it
// unchanged; a decode failure is never silently replaced by fill values.
type Error struct {
	Codec string
	Op    string // "encode" or "decode"
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("codec %s: %s: %v", e.Codec, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func encodeErr(codec string, err error) error {
	return &Error{Codec: codec, Op: "encode", Err: err}
}

func decodeErr(codec string, err error) error {
	return &Error{Codec: codec, Op: "decode", Err: err}
}

// Repr declares the shape, data type and fill value of a chunk at some
// point in the chain. Decoding needs it to reconstruct typed chunks from
// bytes.
type Repr struct {
	Type  dtype.Type
	Shape []int
	Fill  dtype.Value
}

// NumElements returns the element count of the declared shape.
func (r Repr) NumElements() int {
	n := 1
	for _, s := range r.Shape {
		n *= s
	}
	return n
}

// NumBytes returns the byte size of the declared shape.
func (r Repr) NumBytes() int { return r.NumElements() * r.Type.Size() }

// ArrayArrayCodec is a shape- or layout-transforming stage operating on
// typed chunks.
type ArrayArrayCodec interface {
	Name() string
	EncodeArray(c *Chunk) (*Chunk, error)
	DecodeArray(c *Chunk) (*Chunk, error)
	// EncodedRepr declares the chunk representation after EncodeArray.
	EncodedRepr(r Repr) Repr
}

// ArrayBytesCodec serializes a typed chunk to an opaque byte buffer. The
// representation carries the fill value; sharded encodings need it to
// recognize inner chunks that hold no data.
type ArrayBytesCodec interface {
	Name() string
	EncodeBytes(c *Chunk, r Repr) ([]byte, error)
	DecodeBytes(data []byte, r Repr) (*Chunk, error)
}

// BytesBytesCodec transforms byte buffers (compression, checksums).
type BytesBytesCodec interface {
	Name() string
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// validator is implemented by codecs that can check their configuration
// against the chunk representation they will be applied to.
type validator interface {
	validate(r Repr) error
}
