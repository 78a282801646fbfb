package codec

import (
	"encoding/json"

	"github.com/klauspost/compress/zstd"
)

// ZstdCodec is the bytes->bytes codec "zstd". The encoder and decoder are
// built once at configuration time; EncodeAll/DecodeAll are safe for
// concurrent use.
type ZstdCodec struct {
	Level int

	enc *zstd.Encoder
	dec *zstd.Decoder
}

const zstdDefaultLevel = 3

func init() {
	Register("zstd", func(config json.RawMessage) (any, error) {
		level := zstdDefaultLevel
		if len(config) > 0 {
			var doc struct {
				Level *int `json:"level"`
			}
			if err := json.Unmarshal(config, &doc); err != nil {
				return nil, err
			}
			if doc.Level != nil {
				level = *doc.Level
			}
		}
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
		if err != nil {
			return nil, err
		}
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		return &ZstdCodec{Level: level, enc: enc, dec: dec}, nil
	})
}

func (*ZstdCodec) Name() string { return "zstd" }

func (z *ZstdCodec) Encode(data []byte) ([]byte, error) {
	return z.enc.EncodeAll(data, nil), nil
}

func (z *ZstdCodec) Decode(data []byte) ([]byte, error) {
	out, err := z.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, decodeErr(z.Name(), err)
	}
	return out, nil
}
