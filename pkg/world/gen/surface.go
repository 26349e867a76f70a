package gen

import (
	"math"

	"github.com/OCharnyshevich/worldgen/pkg/world/block"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation/facets"
)

// SurfaceProvider shapes elevation into a surface height per biome.
type SurfaceProvider struct {
	generation.BaseProvider
	detail *NoiseGenerator
}

func NewSurfaceProvider() *SurfaceProvider { return &SurfaceProvider{} }

func (p *SurfaceProvider) Name() string { return "surface" }

func (p *SurfaceProvider) Spec() generation.ProviderSpec {
	return generation.ProviderSpec{
		Produces: []generation.FacetKey{facets.SurfaceHeight},
		Requires: []generation.FacetRequirement{
			{Key: facets.Elevation},
			{Key: facets.Biomes},
			{Key: facets.SeaLevel},
		},
	}
}

func (p *SurfaceProvider) SetSeed(seed int64) { p.detail = NewNoiseGenerator(seed + 1) }

func (p *SurfaceProvider) Process(r generation.GeneratingRegion) {
	p.ProcessScaled(r, 1)
}

func (p *SurfaceProvider) ProcessScaled(r generation.GeneratingRegion, scale float32) {
	elev, _ := generation.RegionFacetOf[facets.ElevationFacet](r, facets.Elevation)
	biomes, _ := generation.RegionFacetOf[facets.BiomeFacet](r, facets.Biomes)
	sea := seaLevelOf(r)

	f := facets.NewSurfaceHeightFacet(r.Region(), r.Border(facets.SurfaceHeight))
	area := f.WorldArea()
	for z := area.Min.Y; z <= area.Max.Y; z++ {
		for x := area.Min.X; x <= area.Max.X; x++ {
			d := p.Detail(float64(x)*float64(scale), float64(z)*float64(scale))
			h := surfaceHeight(float64(elev.GetWorld(x, z)), d, biomes.GetWorld(x, z), sea)
			f.SetWorld(x, z, float32(h))
		}
	}
	r.SetRegionFacet(facets.SurfaceHeight, f)
}

// Detail is small-scale variation added on top of the biome shape.
func (p *SurfaceProvider) Detail(wx, wz float64) float64 {
	return p.detail.OctaveNoise2D(wx/32.0, wz/32.0, 3, 0.5)
}

// surfaceHeight is the height of the topmost solid block, floored to at
// least 1.
func surfaceHeight(elevation, detail float64, biome facets.Biome, seaLevel int) float64 {
	amplitude, base := biomeTerrainParams(biome, seaLevel)
	return math.Max(1, math.Floor(base+elevation*amplitude+detail*4.0))
}

// biomeTerrainParams returns (amplitude, baseHeight) for terrain noise scaling.
func biomeTerrainParams(biome facets.Biome, seaLevel int) (amplitude, baseHeight float64) {
	sea := float64(seaLevel)
	switch biome {
	case facets.Ocean:
		return 8.0, sea - 12
	case facets.Plains, facets.Savanna:
		return 12.0, sea
	case facets.Forest, facets.DarkForest:
		return 16.0, sea + 2
	case facets.Taiga, facets.SnowyTaiga:
		return 18.0, sea + 4
	case facets.Desert:
		return 10.0, sea + 2
	case facets.Jungle:
		return 18.0, sea + 4
	case facets.Mountains:
		return 40.0, sea + 10
	case facets.Beach:
		return 3.0, sea
	case facets.Tundra:
		return 10.0, sea
	default:
		return 14.0, sea
	}
}

// surfaceLayerDepth returns how many blocks of surface material cover stone.
func surfaceLayerDepth(biome facets.Biome) int {
	switch biome {
	case facets.Desert:
		return 6
	case facets.Beach, facets.Ocean:
		return 5
	}
	return 4
}

// surfaceBlock returns the block at depth blocks below the surface of a
// column, or stone once below the surface layers.
func (p *palette) surfaceBlock(biome facets.Biome, depth, height, seaLevel int) block.ID {
	if depth >= surfaceLayerDepth(biome) {
		return p.stone
	}
	switch biome {
	case facets.Desert:
		if depth < 4 {
			return p.sand
		}
		return p.sandstone
	case facets.Ocean:
		if depth < 3 {
			return p.gravel
		}
		return p.dirt
	case facets.Beach:
		if depth < 4 {
			return p.sand
		}
		return p.sandstone
	case facets.Mountains:
		if height > seaLevel+38 {
			return p.stone
		}
	}
	if depth == 0 && height > seaLevel {
		return p.grass
	}
	return p.dirt
}
