package codec

import (
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/zarrgo/dtype"
)

func buildSharding(t *testing.T, config string) *ShardingCodec {
	t.Helper()
	built, err := Build(cfg("sharding_indexed", config))
	require.NoError(t, err)
	sc, ok := built.(*ShardingCodec)
	require.True(t, ok)
	return sc
}

func TestShardingConfig(t *testing.T) {
	sc := buildSharding(t, `{"chunk_shape":[2,2],"codecs":[{"name":"bytes","configuration":{"endian":"little"}},{"name":"gzip"}]}`)
	require.Equal(t, []int{2, 2}, sc.ChunkShape)

	_, err := Build(cfg("sharding_indexed", `{"codecs":[]}`))
	require.ErrorContains(t, err, "chunk_shape")

	_, err = Build(cfg("sharding_indexed", `{"chunk_shape":[0,2],"codecs":[]}`))
	require.ErrorContains(t, err, "must be positive")

	_, err = Build(cfg("sharding_indexed", `{"chunk_shape":[2,2],"codecs":[],"index_location":"start"}`))
	require.ErrorContains(t, err, "index_location")
}

func TestShardingValidate(t *testing.T) {
	sc := buildSharding(t, `{"chunk_shape":[2,2],"codecs":[{"name":"bytes","configuration":{"endian":"little"}}]}`)
	fill := mustFill(t, dtype.Int32, "0")

	require.NoError(t, sc.validate(Repr{Type: dtype.Int32, Shape: []int{4, 6}, Fill: fill}))
	require.ErrorContains(t, sc.validate(Repr{Type: dtype.Int32, Shape: []int{4, 5}, Fill: fill}), "not a multiple")
	require.ErrorContains(t, sc.validate(Repr{Type: dtype.Int32, Shape: []int{4}, Fill: fill}), "rank")
}

func TestShardingRoundTrip(t *testing.T) {
	sc := buildSharding(t, `{"chunk_shape":[2,2],"codecs":[{"name":"bytes","configuration":{"endian":"little"}},{"name":"zstd"}]}`)

	src := int32Chunk(t, []int{4, 4}, seqInt32(16))
	r := src.Repr(mustFill(t, dtype.Int32, "0"))

	shard, err := sc.EncodeBytes(src, r)
	require.NoError(t, err)

	got, err := sc.DecodeBytes(shard, r)
	require.NoError(t, err)
	require.Equal(t, src.Shape, got.Shape)
	require.Equal(t, src.Data, got.Data)
}

func TestShardingOmitsFillChunks(t *testing.T) {
	sc := buildSharding(t, `{"chunk_shape":[2,2],"codecs":[{"name":"bytes","configuration":{"endian":"little"}}]}`)

	// Only the top-left 2x2 inner chunk holds data; the other three are
	// entirely fill.
	src := NewFilled(dtype.Int32, []int{4, 4}, mustFill(t, dtype.Int32, "0"))
	for i, v := range []int32{1, 2, 3, 4} {
		off := []int{0, 1, 4, 5}[i] * 4
		binary.LittleEndian.PutUint32(src.Data[off:], uint32(v))
	}
	r := src.Repr(mustFill(t, dtype.Int32, "0"))

	shard, err := sc.EncodeBytes(src, r)
	require.NoError(t, err)

	// One stored inner chunk of 16 bytes plus a 4-entry index and checksum.
	require.Len(t, shard, 16+4*16+4)

	index := shard[16:]
	require.Equal(t, uint64(0), binary.LittleEndian.Uint64(index[0:]))
	require.Equal(t, uint64(16), binary.LittleEndian.Uint64(index[8:]))
	for i := 1; i < 4; i++ {
		require.Equal(t, uint64(shardAbsent), binary.LittleEndian.Uint64(index[16*i:]), "entry %d offset", i)
		require.Equal(t, uint64(shardAbsent), binary.LittleEndian.Uint64(index[16*i+8:]), "entry %d nbytes", i)
	}

	got, err := sc.DecodeBytes(shard, r)
	require.NoError(t, err)
	require.Equal(t, src.Data, got.Data)
}

func TestShardingIndexCorruption(t *testing.T) {
	sc := buildSharding(t, `{"chunk_shape":[2,2],"codecs":[{"name":"bytes","configuration":{"endian":"little"}}]}`)

	src := int32Chunk(t, []int{4, 4}, seqInt32(16))
	r := src.Repr(mustFill(t, dtype.Int32, "0"))

	shard, err := sc.EncodeBytes(src, r)
	require.NoError(t, err)

	// Corrupt a byte inside the trailing index.
	shard[len(shard)-10] ^= 0xff
	_, err = sc.DecodeBytes(shard, r)
	require.ErrorIs(t, err, ErrChecksum)

	_, err = sc.DecodeBytes(shard[:10], r)
	require.ErrorIs(t, err, ErrChecksum)
}

func TestShardingBadIndexEntry(t *testing.T) {
	sc := buildSharding(t, `{"chunk_shape":[2,2],"codecs":[{"name":"bytes","configuration":{"endian":"little"}}]}`)

	src := int32Chunk(t, []int{4, 4}, seqInt32(16))
	r := src.Repr(mustFill(t, dtype.Int32, "0"))

	shard, err := sc.EncodeBytes(src, r)
	require.NoError(t, err)

	// Point the first entry past the shard body and re-seal the checksum.
	n := 4
	index := shard[len(shard)-(16*n+4):]
	binary.LittleEndian.PutUint64(index[0:], 1<<40)
	binary.LittleEndian.PutUint32(index[16*n:], crc32.Checksum(index[:16*n], castagnoli))

	_, err = sc.DecodeBytes(shard, r)
	require.ErrorContains(t, err, "exceeds shard body")
}

func TestShardingInChain(t *testing.T) {
	configs := []Config{cfg("sharding_indexed", `{"chunk_shape":[2,2],"codecs":[{"name":"bytes","configuration":{"endian":"little"}},{"name":"crc32c"}]}`)}
	ch, err := NewChain(configs)
	require.NoError(t, err)

	src := int32Chunk(t, []int{4, 6}, seqInt32(24))
	r := src.Repr(mustFill(t, dtype.Int32, "0"))
	require.NoError(t, ch.Validate(r))

	encoded, err := ch.Encode(src, r)
	require.NoError(t, err)

	got, err := ch.Decode(encoded, r)
	require.NoError(t, err)
	require.Equal(t, src.Data, got.Data)
}
