package world

import (
	"context"
	"fmt"

	"github.com/OCharnyshevich/worldgen/pkg/world/block"
	"github.com/OCharnyshevich/worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/worldgen/pkg/world/gen"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

// World gives world-coordinate block access on top of a Provider.
type World struct {
	provider *Provider
}

// NewWorld wraps a provider.
func NewWorld(p *Provider) *World {
	return &World{provider: p}
}

// Provider returns the chunk provider.
func (w *World) Provider() *Provider { return w.provider }

// chunkAt loads the chunk holding the world position, or nil for
// positions below or above the provider's layers.
func (w *World) chunkAt(ctx context.Context, pos geom.Vec3i) (*chunk.Chunk, geom.Vec3i, error) {
	cp := chunk.ToChunkPos(pos)
	if cp.Y < 0 || cp.Y >= w.provider.Layers() {
		return nil, geom.Vec3i{}, nil
	}
	c, err := w.provider.Load(ctx, cp)
	if err != nil {
		return nil, geom.Vec3i{}, err
	}
	return c, chunk.ToRelative(pos), nil
}

// GetBlock returns the block at a world position, generating the chunk if
// needed. Positions outside the world's layers are air.
func (w *World) GetBlock(ctx context.Context, x, y, z int) (block.ID, error) {
	c, rel, err := w.chunkAt(ctx, geom.Vec3i{X: x, Y: y, Z: z})
	if err != nil || c == nil {
		return block.Air, err
	}
	return c.Block(rel.X, rel.Y, rel.Z), nil
}

// SetBlock replaces the block at a world position and returns the previous
// block. The chunk is marked dirty.
func (w *World) SetBlock(ctx context.Context, x, y, z int, id block.ID) (block.ID, error) {
	c, rel, err := w.chunkAt(ctx, geom.Vec3i{X: x, Y: y, Z: z})
	if err != nil {
		return block.Air, err
	}
	if c == nil {
		return block.Air, fmt.Errorf("set block (%d, %d, %d): outside the world", x, y, z)
	}
	return c.SetBlock(rel.X, rel.Y, rel.Z, id), nil
}

// SpawnPoint returns where a player should appear: the spawn data provider
// when the generator has one, otherwise the first air block above the
// ground at the origin.
func (w *World) SpawnPoint(ctx context.Context) (geom.Vec3i, error) {
	g := w.provider.Generator()
	if d, ok := g.DataProvider(gen.CapabilitySpawn); ok {
		if s, ok := d.(interface{ SpawnPoint() geom.Vec3i }); ok {
			return s.SpawnPoint(), nil
		}
	}
	h, err := w.SpawnHeight(ctx)
	if err != nil {
		return geom.Vec3i{}, err
	}
	return geom.Vec3i{Y: h}, nil
}

// SpawnHeight returns the height of the first air block above the highest
// solid block of the origin column.
func (w *World) SpawnHeight(ctx context.Context) (int, error) {
	return w.SurfaceAt(ctx, 0, 0)
}

// SurfaceAt returns one above the highest non-air block in column (x, z),
// using the height data provider when available.
func (w *World) SurfaceAt(ctx context.Context, x, z int) (int, error) {
	if d, ok := w.provider.Generator().DataProvider(gen.CapabilityHeight); ok {
		if h, ok := d.(gen.HeightSampler); ok {
			return h.HeightAt(x, z) + 1, nil
		}
	}
	for y := w.provider.Layers()*chunk.SizeY - 1; y >= 0; y-- {
		id, err := w.GetBlock(ctx, x, y, z)
		if err != nil {
			return 0, err
		}
		if id != block.Air {
			return y + 1, nil
		}
	}
	return 0, nil
}

// Spawns collects spawn requests into a slice; it suits Options.OnSpawn.
type Spawns struct {
	Items []generation.EntityStore
}

func (s *Spawns) Add(e generation.EntityStore) { s.Items = append(s.Items, e) }
