package meta

import (
	"encoding/json"

	"github.com/hupe1980/zarrgo/codec"
	"github.com/hupe1980/zarrgo/dtype"
	"github.com/hupe1980/zarrgo/grid"
)

// ArrayOption customizes an array document under construction.
type ArrayOption func(*Array)

// WithFillValue sets the fill value as a JSON literal, e.g. []byte("0"),
// []byte(`"NaN"`). The default is the data type's zero value.
func WithFillValue(lit json.RawMessage) ArrayOption {
	return func(a *Array) {
		a.FillRaw = lit
	}
}

// WithCodecs sets the codec list. The default is a little-endian "bytes"
// codec only.
func WithCodecs(configs ...codec.Config) ArrayOption {
	return func(a *Array) {
		a.Codecs = configs
	}
}

// WithKeyEncoding sets the chunk key encoding.
func WithKeyEncoding(e grid.KeyEncoding) ArrayOption {
	return func(a *Array) {
		a.KeyEncoding = e
	}
}

// WithDimensionNames names the array's dimensions. An empty string leaves a
// dimension unnamed.
func WithDimensionNames(names ...string) ArrayOption {
	return func(a *Array) {
		out := make([]*string, len(names))
		for i := range names {
			if names[i] != "" {
				n := names[i]
				out[i] = &n
			}
		}
		a.DimensionNames = out
	}
}

// WithAttributes sets the user attributes.
func WithAttributes(attrs map[string]json.RawMessage) ArrayOption {
	return func(a *Array) {
		a.Attributes = attrs
	}
}

// NewArray builds and validates an array document programmatically. It runs
// the same validation as Parse; the result is ready for serialization or
// for opening a storage engine on it.
func NewArray(shape []int, t dtype.Type, chunkShape []int, optFns ...ArrayOption) (*Array, error) {
	a := &Array{
		Shape:       append([]int(nil), shape...),
		DataType:    t,
		ChunkShape:  append([]int(nil), chunkShape...),
		KeyEncoding: grid.DefaultKeyEncoding(),
	}

	for _, fn := range optFns {
		fn(a)
	}

	if len(a.FillRaw) == 0 {
		raw, err := json.Marshal(dtype.DefaultFill(t))
		if err != nil {
			return nil, metaErr("invalid fill_value", err)
		}
		a.FillRaw = raw
	}
	if a.Codecs == nil {
		cfg := codec.Config{Name: "bytes", Configuration: json.RawMessage(`{"endian":"little"}`)}
		if t.IsRaw() {
			cfg.Configuration = nil
		}
		a.Codecs = []codec.Config{cfg}
	}

	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}
