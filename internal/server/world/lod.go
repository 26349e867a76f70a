package world

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/OCharnyshevich/worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

// GenerateLOD returns a reduced-resolution chunk in which every cell covers
// scale blocks per axis, so the chunk at pos spans pos*Size*scale. LOD
// chunks are neither cached nor stored and spawn no entities.
func (p *Provider) GenerateLOD(pos geom.Vec3i, scale int) (*chunk.Chunk, error) {
	if scale < 1 || scale&(scale-1) != 0 {
		return nil, fmt.Errorf("LOD scale must be a power of two, got %d", scale)
	}
	c := chunk.New(pos, nil)
	if scale == 1 {
		p.gen.RasterizeChunk(c, nil)
	} else {
		p.gen.RasterizeChunkScaled(c, float32(scale))
	}
	p.light.process(c)
	c.Deflate()
	c.SetDirty(false)
	c.MarkReady()
	return c, nil
}

// GenerateLODs builds the LOD chunks for positions on the worker pool.
// The result is ordered like positions.
func (p *Provider) GenerateLODs(ctx context.Context, positions []geom.Vec3i, scale int) ([]*chunk.Chunk, error) {
	out := make([]*chunk.Chunk, len(positions))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cap(p.sem))
	for i, pos := range positions {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := p.GenerateLOD(pos, scale)
			if err != nil {
				return err
			}
			out[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("generate LOD chunks: %w", err)
	}
	return out, nil
}
