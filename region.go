package zarrgo

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/zarrgo/codec"
	"github.com/hupe1980/zarrgo/grid"
)

// ReadRegion reads a hyper-rectangle of the array, assembling it from
// every overlapping chunk. Elements never written read as the fill value.
// Chunks are read in parallel, bounded by the concurrency option; each
// writes into a disjoint part of the result buffer.
func (a *Array) ReadRegion(ctx context.Context, r grid.Region) (*codec.Chunk, error) {
	g := a.meta.Grid()
	if err := g.CheckRegion(r); err != nil {
		return nil, err
	}

	out := codec.NewFilled(a.meta.DataType, r.Shape, a.meta.Fill)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(a.opts.concurrency)
	for pc := range g.Chunks(r) {
		eg.Go(func() error {
			c, err := a.ReadChunk(ctx, pc.Index)
			if err != nil {
				return err
			}
			sub, err := c.Slice(pc.ChunkRegion)
			if err != nil {
				return err
			}
			return out.SetRegion(pc.OutRegion, sub)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteRegion scatters src across the chunks overlapping the region that
// starts at offset and has src's shape. Chunks only partially covered are
// read, modified and written back; fully covered chunks are written
// directly. Chunks are processed in parallel, bounded by the concurrency
// option.
//
// Concurrent WriteRegion calls over intersecting regions race per chunk at
// the store layer; callers that need stronger guarantees serialize above
// the engine.
func (a *Array) WriteRegion(ctx context.Context, offset []int, src *codec.Chunk) error {
	if src.Type != a.meta.DataType {
		return &TypeMismatchError{Want: a.meta.DataType, Got: src.Type}
	}
	if err := src.CheckIntegrity(); err != nil {
		return err
	}
	g := a.meta.Grid()
	r := grid.Region{Offset: offset, Shape: src.Shape}
	if err := g.CheckRegion(r); err != nil {
		return err
	}
	chunkShape := a.meta.ChunkShape

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(a.opts.concurrency)
	for pc := range g.Chunks(r) {
		eg.Go(func() error {
			sub, err := src.Slice(pc.OutRegion)
			if err != nil {
				return err
			}

			var c *codec.Chunk
			if pc.Whole(chunkShape) {
				c = sub
			} else {
				// Read-modify-write for partially covered chunks.
				c, err = a.ReadChunk(ctx, pc.Index)
				if err != nil {
					return err
				}
				if err := c.SetRegion(pc.ChunkRegion, sub); err != nil {
					return err
				}
			}
			return a.WriteChunk(ctx, pc.Index, c)
		})
	}
	return eg.Wait()
}
