package gen

import (
	"github.com/OCharnyshevich/worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation/facets"
)

const (
	// lavaLevel is the height below which carved caves fill with lava.
	lavaLevel = 10
	// bedrockTop is the highest height that may hold bedrock.
	bedrockTop = 3
)

// SolidRasterizer fills chunks with terrain: bedrock, stone, biome surface
// layers, water up to sea level, lava in deep caves and snow in cold biomes.
type SolidRasterizer struct {
	blockSource
	bedrock *NoiseGenerator
}

func NewSolidRasterizer() *SolidRasterizer { return &SolidRasterizer{} }

func (r *SolidRasterizer) Name() string { return "solid" }

func (r *SolidRasterizer) Requires() []generation.FacetRequirement {
	return []generation.FacetRequirement{
		{Key: facets.Density},
		{Key: facets.SurfaceHeight},
		{Key: facets.Biomes},
		{Key: facets.SeaLevel},
	}
}

func (r *SolidRasterizer) SetSeed(seed int64) { r.bedrock = NewNoiseGenerator(seed) }

func (r *SolidRasterizer) Initialize() { r.resolve() }

func (r *SolidRasterizer) Generate(c *chunk.Chunk, region *generation.Region) {
	r.GenerateScaled(c, region, 1)
}

func (r *SolidRasterizer) GenerateScaled(c *chunk.Chunk, region *generation.Region, scale float32) {
	density, ok := generation.FacetOf[facets.DensityFacet](region, facets.Density)
	if !ok {
		return
	}
	surface, _ := generation.FacetOf[facets.SurfaceHeightFacet](region, facets.SurfaceHeight)
	biomes, _ := generation.FacetOf[facets.BiomeFacet](region, facets.Biomes)
	sea := generation.DefaultSeaLevel
	if f, ok := generation.FacetOf[*facets.SeaLevelFacet](region, facets.SeaLevel); ok {
		sea = f.Level
	}

	p := r.pal
	off := c.WorldOffset()
	s := float64(scale)
	for z := range chunk.SizeZ {
		for x := range chunk.SizeX {
			cx, cz := off.X+x, off.Z+z
			h := int(surface.GetWorld(cx, cz))
			biome := biomes.GetWorld(cx, cz)
			for y := range chunk.SizeY {
				wy := int(float64(off.Y+y) * s)
				if wy < 0 {
					continue
				}
				d := density.GetWorld(cx, off.Y+y, cz)
				switch {
				case wy == 0:
					c.SetBlock(x, y, z, p.bedrock)
				case wy <= bedrockTop && d >= 0:
					if r.bedrock.Noise2D(float64(cx+wy*7)*s*0.5, float64(cz)*s*0.5) > 0 {
						c.SetBlock(x, y, z, p.bedrock)
					} else {
						c.SetBlock(x, y, z, p.stone)
					}
				case d >= 0:
					c.SetBlock(x, y, z, p.surfaceBlock(biome, h-wy, h, sea))
				case wy <= h:
					if wy < lavaLevel {
						c.SetBlock(x, y, z, p.lava)
					}
				case wy <= sea:
					c.SetBlock(x, y, z, p.water)
				case wy == h+1 && biome.Cold():
					c.SetBlock(x, y, z, p.snow)
				}
			}
		}
	}
}
