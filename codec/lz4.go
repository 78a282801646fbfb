package codec

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pierrec/lz4/v4"
)

// LZ4Codec is the bytes->bytes codec "lz4", using the LZ4 frame format.
type LZ4Codec struct{}

func init() {
	Register("lz4", func(json.RawMessage) (any, error) {
		return &LZ4Codec{}, nil
	})
}

func (*LZ4Codec) Name() string { return "lz4" }

func (l *LZ4Codec) Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, encodeErr(l.Name(), err)
	}
	if err := w.Close(); err != nil {
		return nil, encodeErr(l.Name(), err)
	}
	return buf.Bytes(), nil
}

func (l *LZ4Codec) Decode(data []byte) ([]byte, error) {
	out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, decodeErr(l.Name(), err)
	}
	return out, nil
}
