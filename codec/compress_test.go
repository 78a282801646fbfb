package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildBB(t *testing.T, name, config string) BytesBytesCodec {
	t.Helper()
	built, err := Build(cfg(name, config))
	require.NoError(t, err)
	bb, ok := built.(BytesBytesCodec)
	require.True(t, ok)
	return bb
}

func TestCompressionRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("chunked array data "), 200)

	tests := []struct {
		name   string
		config string
	}{
		{"gzip", ""},
		{"gzip", `{"level":9}`},
		{"zstd", ""},
		{"zstd", `{"level":19}`},
		{"lz4", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name+tt.config, func(t *testing.T) {
			c := buildBB(t, tt.name, tt.config)

			encoded, err := c.Encode(payload)
			require.NoError(t, err)
			require.Less(t, len(encoded), len(payload))

			decoded, err := c.Decode(encoded)
			require.NoError(t, err)
			require.Equal(t, payload, decoded)
		})
	}
}

func TestCompressionEmptyInput(t *testing.T) {
	for _, name := range []string{"gzip", "zstd", "lz4"} {
		t.Run(name, func(t *testing.T) {
			c := buildBB(t, name, "")

			encoded, err := c.Encode(nil)
			require.NoError(t, err)

			decoded, err := c.Decode(encoded)
			require.NoError(t, err)
			require.Empty(t, decoded)
		})
	}
}

func TestCompressionGarbageInput(t *testing.T) {
	for _, name := range []string{"gzip", "zstd", "lz4"} {
		t.Run(name, func(t *testing.T) {
			c := buildBB(t, name, "")
			_, err := c.Decode([]byte("definitely not a compressed frame"))
			require.Error(t, err)

			var cerr *Error
			require.ErrorAs(t, err, &cerr)
			require.Equal(t, "decode", cerr.Op)
		})
	}
}

func TestGzipInvalidLevel(t *testing.T) {
	_, err := Build(cfg("gzip", `{"level":42}`))
	require.ErrorContains(t, err, "invalid gzip level")
}
