package codec

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"math"

	"github.com/hupe1980/zarrgo/grid"
)

// ShardingCodec is the array->bytes codec "sharding_indexed". It splits a
// chunk into a regular grid of inner chunks, encodes each through a nested
// codec chain, and concatenates the results into one shard.
//
// The shard ends with an index of (offset, nbytes) uint64 little-endian
// pairs, one per inner chunk in row-major order, followed by a 4-byte
// little-endian CRC-32C over the index. Inner chunks holding only the fill
// value are not stored; their index entry has both fields set to all ones.
type ShardingCodec struct {
	ChunkShape []int

	chain *Chain
}

// shardAbsent marks an index entry whose inner chunk is not stored.
const shardAbsent = math.MaxUint64

func init() {
	Register("sharding_indexed", func(config json.RawMessage) (any, error) {
		var doc struct {
			ChunkShape    []int           `json:"chunk_shape"`
			Codecs        []Config        `json:"codecs"`
			IndexCodecs   json.RawMessage `json:"index_codecs"`
			IndexLocation string          `json:"index_location"`
		}
		if err := json.Unmarshal(config, &doc); err != nil {
			return nil, err
		}
		if len(doc.ChunkShape) == 0 {
			return nil, fmt.Errorf("sharding_indexed requires a chunk_shape")
		}
		for i, s := range doc.ChunkShape {
			if s <= 0 {
				return nil, fmt.Errorf("inner chunk shape[%d] must be positive: %d", i, s)
			}
		}
		if doc.IndexLocation != "" && doc.IndexLocation != "end" {
			return nil, fmt.Errorf("unsupported index_location %q", doc.IndexLocation)
		}
		chain, err := NewChain(doc.Codecs)
		if err != nil {
			return nil, err
		}
		return &ShardingCodec{ChunkShape: doc.ChunkShape, chain: chain}, nil
	})
}

func (*ShardingCodec) Name() string { return "sharding_indexed" }

func (s *ShardingCodec) validate(r Repr) error {
	if len(s.ChunkShape) != len(r.Shape) {
		return fmt.Errorf("inner chunk shape rank %d does not match chunk rank %d", len(s.ChunkShape), len(r.Shape))
	}
	for d := range r.Shape {
		if r.Shape[d]%s.ChunkShape[d] != 0 {
			return fmt.Errorf("chunk extent %d is not a multiple of inner chunk extent %d in dimension %d", r.Shape[d], s.ChunkShape[d], d)
		}
	}
	return s.chain.Validate(s.innerRepr(r))
}

func (s *ShardingCodec) innerRepr(r Repr) Repr {
	return Repr{Type: r.Type, Shape: append([]int(nil), s.ChunkShape...), Fill: r.Fill}
}

func (s *ShardingCodec) innerGrid(shape []int) (grid.Grid, error) {
	g, err := grid.New(shape, s.ChunkShape)
	if err != nil {
		return grid.Grid{}, err
	}
	for d := range shape {
		if shape[d]%s.ChunkShape[d] != 0 {
			return grid.Grid{}, fmt.Errorf("chunk extent %d is not a multiple of inner chunk extent %d in dimension %d", shape[d], s.ChunkShape[d], d)
		}
	}
	return g, nil
}

// EncodeBytes assembles a shard: encoded inner chunks back to back, then
// the index and its checksum.
func (s *ShardingCodec) EncodeBytes(c *Chunk, r Repr) ([]byte, error) {
	g, err := s.innerGrid(c.Shape)
	if err != nil {
		return nil, encodeErr(s.Name(), err)
	}
	n := grid.NumElements(g.GridShape())
	inner := s.innerRepr(r)

	var body bytes.Buffer
	index := make([]byte, 16*n+4)
	i := 0
	for pc := range g.Chunks(grid.Region{Offset: make([]int, len(c.Shape)), Shape: c.Shape}) {
		sub, err := c.Slice(pc.OutRegion)
		if err != nil {
			return nil, encodeErr(s.Name(), err)
		}
		if sub.EqualsScalar(r.Fill) {
			binary.LittleEndian.PutUint64(index[16*i:], shardAbsent)
			binary.LittleEndian.PutUint64(index[16*i+8:], shardAbsent)
			i++
			continue
		}
		encoded, err := s.chain.Encode(sub, inner)
		if err != nil {
			return nil, err
		}
		binary.LittleEndian.PutUint64(index[16*i:], uint64(body.Len()))
		binary.LittleEndian.PutUint64(index[16*i+8:], uint64(len(encoded)))
		body.Write(encoded)
		i++
	}
	binary.LittleEndian.PutUint32(index[16*n:], crc32.Checksum(index[:16*n], castagnoli))

	out := make([]byte, 0, body.Len()+len(index))
	out = append(out, body.Bytes()...)
	return append(out, index...), nil
}

// DecodeBytes reassembles a chunk from a shard. Inner chunks the index
// marks absent decode to the fill value.
func (s *ShardingCodec) DecodeBytes(data []byte, r Repr) (*Chunk, error) {
	g, err := s.innerGrid(r.Shape)
	if err != nil {
		return nil, decodeErr(s.Name(), err)
	}
	n := grid.NumElements(g.GridShape())
	indexSize := 16*n + 4
	if len(data) < indexSize {
		return nil, decodeErr(s.Name(), fmt.Errorf("%w: shard of %d bytes is too short for a %d-byte index", ErrChecksum, len(data), indexSize))
	}
	index := data[len(data)-indexSize:]
	body := data[:len(data)-indexSize]
	want := binary.LittleEndian.Uint32(index[16*n:])
	if got := crc32.Checksum(index[:16*n], castagnoli); got != want {
		return nil, decodeErr(s.Name(), fmt.Errorf("%w: shard index computed %08x, stored %08x", ErrChecksum, got, want))
	}

	out := NewFilled(r.Type, r.Shape, r.Fill)
	inner := s.innerRepr(r)
	i := 0
	for pc := range g.Chunks(grid.Region{Offset: make([]int, len(r.Shape)), Shape: r.Shape}) {
		off := binary.LittleEndian.Uint64(index[16*i:])
		nb := binary.LittleEndian.Uint64(index[16*i+8:])
		i++
		if off == shardAbsent && nb == shardAbsent {
			continue
		}
		if off > uint64(len(body)) || nb > uint64(len(body))-off {
			return nil, decodeErr(s.Name(), fmt.Errorf("index entry %d (offset %d, %d bytes) exceeds shard body of %d bytes", i-1, off, nb, len(body)))
		}
		sub, err := s.chain.Decode(body[off:off+nb], inner)
		if err != nil {
			return nil, err
		}
		if err := out.SetRegion(pc.OutRegion, sub); err != nil {
			return nil, decodeErr(s.Name(), err)
		}
	}
	return out, nil
}
