package gen

import (
	"github.com/OCharnyshevich/worldgen/pkg/world/block"
	"github.com/OCharnyshevich/worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation/facets"
)

type oreConfig struct {
	block    string
	minY     int
	maxY     int
	veinSize int // max blocks per vein
	attempts int // veins per chunk
}

var oreTable = []oreConfig{
	{block.CoalOre, 0, 128, 12, 20},
	{block.IronOre, 0, 64, 8, 20},
	{block.GoldOre, 0, 32, 8, 2},
	{block.DiamondOre, 0, 16, 6, 1},
	{block.RedstoneOre, 0, 16, 6, 8},
	{block.LapisOre, 0, 32, 6, 1},
}

// OreRasterizer places ore veins in stone using seeded per-chunk RNG. It
// runs after the solid rasterizer.
type OreRasterizer struct {
	blockSource
	seed int64
}

func NewOreRasterizer() *OreRasterizer { return &OreRasterizer{} }

func (r *OreRasterizer) Name() string { return "ores" }

func (r *OreRasterizer) Requires() []generation.FacetRequirement {
	return []generation.FacetRequirement{{Key: facets.SurfaceHeight}}
}

func (r *OreRasterizer) RequiresRasterizers() []string { return []string{"solid"} }

func (r *OreRasterizer) SetSeed(seed int64) { r.seed = seed }

func (r *OreRasterizer) Initialize() { r.resolve() }

func (r *OreRasterizer) Generate(c *chunk.Chunk, _ *generation.Region) {
	pos := c.Position()
	rng := newChunkRNG(r.seed, pos.X, pos.Y, pos.Z, 500)
	off := c.WorldOffset()

	for _, ore := range oreTable {
		lo := max(ore.minY, off.Y)
		hi := min(ore.maxY, off.Y+chunk.SizeY)
		for range ore.attempts {
			x := rng.nextN(chunk.SizeX)
			z := rng.nextN(chunk.SizeZ)
			// Draw y even when the chunk misses the band so the sequence
			// does not depend on the chunk height.
			y := rng.nextN(chunk.SizeY)
			if lo >= hi {
				continue
			}
			y = lo - off.Y + y%(hi-lo)
			r.placeVein(c, x, y, z, r.pal.ores[ore.block], ore.veinSize, rng)
		}
	}
}

func (r *OreRasterizer) placeVein(c *chunk.Chunk, x, y, z int, id block.ID, size int, rng *chunkRNG) {
	for range size {
		if c.Contains(x, y, z) && c.Block(x, y, z) == r.pal.stone {
			c.SetBlock(x, y, z, id)
		}

		// Random walk.
		switch rng.nextN(6) {
		case 0:
			x++
		case 1:
			x--
		case 2:
			y++
		case 3:
			y--
		case 4:
			z++
		case 5:
			z--
		}
	}
}
