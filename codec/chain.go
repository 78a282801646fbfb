package codec

import (
	"fmt"
)

// Chain is a validated codec pipeline: array->array stages, exactly one
// array->bytes stage, then bytes->bytes stages. When a codec list declares
// no array->bytes codec, a little-endian "bytes" codec is assumed.
type Chain struct {
	configs []Config
	aa      []ArrayArrayCodec
	ab      ArrayBytesCodec
	bb      []BytesBytesCodec
}

// NewChain builds and type-checks a pipeline from a codec list. The order
// constraint is structural: all array->array codecs precede the
// array->bytes codec, which precedes all bytes->bytes codecs, and at most
// one array->bytes codec may appear.
func NewChain(configs []Config) (*Chain, error) {
	ch := &Chain{configs: append([]Config(nil), configs...)}
	for _, cfg := range configs {
		built, err := Build(cfg)
		if err != nil {
			return nil, err
		}
		switch c := built.(type) {
		case ArrayArrayCodec:
			if ch.ab != nil {
				return nil, fmt.Errorf("codec %q: array->array codec after array->bytes codec", cfg.Name)
			}
			if len(ch.bb) > 0 {
				return nil, fmt.Errorf("codec %q: array->array codec after bytes->bytes codec", cfg.Name)
			}
			ch.aa = append(ch.aa, c)
		case ArrayBytesCodec:
			if ch.ab != nil {
				return nil, fmt.Errorf("codec %q: more than one array->bytes codec", cfg.Name)
			}
			if len(ch.bb) > 0 {
				return nil, fmt.Errorf("codec %q: array->bytes codec after bytes->bytes codec", cfg.Name)
			}
			ch.ab = c
		case BytesBytesCodec:
			ch.bb = append(ch.bb, c)
		default:
			return nil, fmt.Errorf("codec %q has unsupported kind %T", cfg.Name, built)
		}
	}
	if ch.ab == nil {
		ch.ab = &BytesCodec{Endian: EndianLittle}
	}
	return ch, nil
}

// Configs returns the codec list the chain was built from, for
// re-serialization into metadata documents.
func (ch *Chain) Configs() []Config {
	return append([]Config(nil), ch.configs...)
}

// Validate checks every stage's configuration against the chunk
// representation it will receive, threading shape changes through the
// array->array stages.
func (ch *Chain) Validate(r Repr) error {
	for _, c := range ch.aa {
		if v, ok := c.(validator); ok {
			if err := v.validate(r); err != nil {
				return fmt.Errorf("codec %q: %w", c.Name(), err)
			}
		}
		r = c.EncodedRepr(r)
	}
	if v, ok := ch.ab.(validator); ok {
		if err := v.validate(r); err != nil {
			return fmt.Errorf("codec %q: %w", ch.ab.Name(), err)
		}
	}
	for _, c := range ch.bb {
		if v, ok := c.(validator); ok {
			if err := v.validate(r); err != nil {
				return fmt.Errorf("codec %q: %w", c.Name(), err)
			}
		}
	}
	return nil
}

// Encode runs the chunk forward through the pipeline to its stored bytes.
// r is the chunk's representation before any stage runs, the same one a
// later Decode of the result will receive.
func (ch *Chain) Encode(c *Chunk, r Repr) ([]byte, error) {
	if err := c.CheckIntegrity(); err != nil {
		return nil, encodeErr("chain", err)
	}
	cur := c
	for _, aa := range ch.aa {
		next, err := aa.EncodeArray(cur)
		if err != nil {
			return nil, err
		}
		cur = next
		r = aa.EncodedRepr(r)
	}
	data, err := ch.ab.EncodeBytes(cur, r)
	if err != nil {
		return nil, err
	}
	for _, bb := range ch.bb {
		data, err = bb.Encode(data)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

// Decode runs stored bytes backward through the pipeline, reconstructing a
// chunk of the declared representation. Any stage failure, including a
// checksum mismatch, is returned as-is; corrupted data is never replaced
// with fill values.
func (ch *Chain) Decode(data []byte, r Repr) (*Chunk, error) {
	var err error
	for i := len(ch.bb) - 1; i >= 0; i-- {
		data, err = ch.bb[i].Decode(data)
		if err != nil {
			return nil, err
		}
	}

	// The array->bytes codec sees the representation as transformed by the
	// array->array stages.
	encoded := r
	for _, aa := range ch.aa {
		encoded = aa.EncodedRepr(encoded)
	}
	cur, err := ch.ab.DecodeBytes(data, encoded)
	if err != nil {
		return nil, err
	}

	for i := len(ch.aa) - 1; i >= 0; i-- {
		cur, err = ch.aa[i].DecodeArray(cur)
		if err != nil {
			return nil, err
		}
	}

	if !shapeEqual(cur.Shape, r.Shape) || cur.Type != r.Type {
		return nil, decodeErr("chain", fmt.Errorf("decoded chunk is %v of %s, want %v of %s", cur.Shape, cur.Type, r.Shape, r.Type))
	}
	return cur, nil
}
