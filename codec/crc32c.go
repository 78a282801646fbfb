package codec

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
)

// CRC32CCodec is the bytes->bytes codec "crc32c": it frames the payload
// with a trailing 4-byte little-endian CRC-32C (Castagnoli) checksum.
//
// Decode recomputes the checksum and fails closed on mismatch. This is the
// pipeline's only integrity check; it is never skipped.
type CRC32CCodec struct{}

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

func init() {
	Register("crc32c", func(json.RawMessage) (any, error) {
		return &CRC32CCodec{}, nil
	})
}

func (*CRC32CCodec) Name() string { return "crc32c" }

func (c *CRC32CCodec) Encode(data []byte) ([]byte, error) {
	out := make([]byte, len(data)+4)
	copy(out, data)
	binary.LittleEndian.PutUint32(out[len(data):], crc32.Checksum(data, castagnoli))
	return out, nil
}

func (c *CRC32CCodec) Decode(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, decodeErr(c.Name(), fmt.Errorf("%w: buffer of %d bytes is too short to carry a checksum", ErrChecksum, len(data)))
	}
	payload := data[:len(data)-4]
	want := binary.LittleEndian.Uint32(data[len(data)-4:])
	got := crc32.Checksum(payload, castagnoli)
	if got != want {
		return nil, decodeErr(c.Name(), fmt.Errorf("%w: computed %08x, stored %08x", ErrChecksum, got, want))
	}
	return append([]byte(nil), payload...), nil
}
