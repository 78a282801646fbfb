package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// GzipCodec is the bytes->bytes codec "gzip".
type GzipCodec struct {
	Level int
}

const gzipDefaultLevel = 6

func init() {
	Register("gzip", func(config json.RawMessage) (any, error) {
		level := gzipDefaultLevel
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
		if level < gzip.NoCompression || level > gzip.BestCompression {
			return nil, fmt.Errorf("invalid gzip level %d", level)
		}
		return &GzipCodec{Level: level}, nil
	})
}

func (*GzipCodec) Name() string { return "gzip" }

func (g *GzipCodec) Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, g.Level)
	if err != nil {
		return nil, encodeErr(g.Name(), err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, encodeErr(g.Name(), err)
	}
	if err := w.Close(); err != nil {
		return nil, encodeErr(g.Name(), err)
	}
	return buf.Bytes(), nil
}

func (g *GzipCodec) Decode(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, decodeErr(g.Name(), err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, decodeErr(g.Name(), err)
	}
	if err := r.Close(); err != nil {
		return nil, decodeErr(g.Name(), err)
	}
	return out, nil
}
