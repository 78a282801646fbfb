package zarrgo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hupe1980/zarrgo/codec"
	"github.com/hupe1980/zarrgo/meta"
	"github.com/hupe1980/zarrgo/store"
)

// Array is the chunk storage engine for one array node: a validated
// metadata document paired with a store. It is stateless per call and safe
// for concurrent use; writers to the same chunk race at the store layer.
type Array struct {
	meta  *meta.Array
	store store.Store
	path  string
	opts  options
}

// CreateArray writes the array's metadata document at the node path and
// returns an engine for it. The metadata must already be validated, which
// meta.NewArray and meta.Parse guarantee.
func CreateArray(ctx context.Context, s store.Store, path string, md *meta.Array, optFns ...Option) (*Array, error) {
	if err := meta.ValidatePath(path); err != nil {
		return nil, err
	}
	doc, err := json.Marshal(md)
	if err != nil {
		return nil, err
	}
	if err := s.Put(ctx, meta.DocumentKey(path), doc); err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}
	return newArray(s, path, md, optFns), nil
}

// OpenArray reads and validates the metadata document at the node path.
func OpenArray(ctx context.Context, s store.Store, path string, optFns ...Option) (*Array, error) {
	if err := meta.ValidatePath(path); err != nil {
		return nil, err
	}
	doc, err := s.Get(ctx, meta.DocumentKey(path))
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	node, err := meta.Parse(doc)
	if err != nil {
		return nil, err
	}
	md, ok := node.(*meta.Array)
	if !ok {
		return nil, fmt.Errorf("%w: %q is a %s, not an array", ErrNodeType, path, node.NodeType())
	}
	return newArray(s, path, md, optFns), nil
}

func newArray(s store.Store, path string, md *meta.Array, optFns []Option) *Array {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Array{
		meta:  md,
		store: s,
		path:  path,
		opts:  opts,
	}
}

// Meta returns the array's metadata. Callers must not mutate it.
func (a *Array) Meta() *meta.Array { return a.meta }

// Path returns the array's node path.
func (a *Array) Path() string { return a.path }

// ChunkKey returns the store key for a chunk index.
func (a *Array) ChunkKey(idx []int) string {
	return a.meta.KeyEncoding.ChunkKey(a.path, idx)
}

// NewChunk allocates a chunk of the array's chunk shape and data type,
// filled with the fill value.
func (a *Array) NewChunk() *codec.Chunk {
	return codec.NewFilled(a.meta.DataType, a.meta.ChunkShape, a.meta.Fill)
}

// ReadChunk reads and decodes the chunk at the given grid index.
//
// An absent key is not an error: the result is a chunk filled with the
// array's fill value. Codec failures, including checksum mismatches, and
// store IO failures propagate unchanged; corruption is never masked by
// fill values.
func (a *Array) ReadChunk(ctx context.Context, idx []int) (*codec.Chunk, error) {
	if err := a.meta.Grid().CheckIndex(idx); err != nil {
		return nil, err
	}
	key := a.ChunkKey(idx)

	data, err := a.store.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		a.opts.logger.LogChunkRead(ctx, key, true, nil)
		return a.NewChunk(), nil
	}
	if err != nil {
		a.opts.logger.LogChunkRead(ctx, key, false, err)
		return nil, err
	}

	c, err := a.meta.Chain().Decode(data, a.meta.ChunkRepr())
	a.opts.logger.LogChunkRead(ctx, key, false, err)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// WriteChunk encodes and stores the chunk at the given grid index.
//
// The chunk's shape and element type are validated against the metadata
// before any IO. With sparse writes enabled, a chunk holding only the fill
// value deletes the key instead; a read of that index still reproduces the
// same fill-valued chunk.
func (a *Array) WriteChunk(ctx context.Context, idx []int, c *codec.Chunk) error {
	if err := a.meta.Grid().CheckIndex(idx); err != nil {
		return err
	}
	if err := a.checkChunk(c); err != nil {
		return err
	}
	key := a.ChunkKey(idx)

	if a.opts.sparseWrites && c.EqualsScalar(a.meta.Fill) {
		err := a.store.Delete(ctx, key)
		if errors.Is(err, store.ErrNotFound) {
			err = nil
		}
		a.opts.logger.LogChunkWrite(ctx, key, true, err)
		return err
	}

	data, err := a.meta.Chain().Encode(c, a.meta.ChunkRepr())
	if err != nil {
		return err
	}
	err = a.store.Put(ctx, key, data)
	a.opts.logger.LogChunkWrite(ctx, key, false, err)
	return err
}

// DeleteChunk removes the chunk's key. A missing key is not an error; the
// chunk already reads as fill values.
func (a *Array) DeleteChunk(ctx context.Context, idx []int) error {
	if err := a.meta.Grid().CheckIndex(idx); err != nil {
		return err
	}
	err := a.store.Delete(ctx, a.ChunkKey(idx))
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// checkChunk validates a chunk against the array's chunk shape and data
// type before any IO is attempted.
func (a *Array) checkChunk(c *codec.Chunk) error {
	if c.Type != a.meta.DataType {
		return &TypeMismatchError{Want: a.meta.DataType, Got: c.Type}
	}
	if len(c.Shape) != len(a.meta.ChunkShape) {
		return &ShapeMismatchError{Want: a.meta.ChunkShape, Got: c.Shape}
	}
	for i := range c.Shape {
		if c.Shape[i] != a.meta.ChunkShape[i] {
			return &ShapeMismatchError{Want: a.meta.ChunkShape, Got: c.Shape}
		}
	}
	return c.CheckIntegrity()
}
