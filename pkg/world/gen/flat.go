package gen

import (
	"github.com/OCharnyshevich/worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation/facets"
)

// FlatConfig configures the superflat preset.
type FlatConfig struct {
	// Height is the height of the grass layer.
	Height int `yaml:"height" json:"height"`
}

// FlatSurfaceProvider produces a constant surface height and plains biome.
type FlatSurfaceProvider struct {
	generation.BaseProvider
	cfg FlatConfig
}

func NewFlatSurfaceProvider() *FlatSurfaceProvider {
	return &FlatSurfaceProvider{cfg: FlatConfig{Height: 4}}
}

func (p *FlatSurfaceProvider) Name() string { return "flat_surface" }

func (p *FlatSurfaceProvider) Spec() generation.ProviderSpec {
	return generation.ProviderSpec{Produces: []generation.FacetKey{facets.SurfaceHeight, facets.Biomes}}
}

func (p *FlatSurfaceProvider) ConfigurationName() string { return "flat" }
func (p *FlatSurfaceProvider) Configuration() any        { return &p.cfg }

func (p *FlatSurfaceProvider) Process(r generation.GeneratingRegion) {
	p.ProcessScaled(r, 1)
}

func (p *FlatSurfaceProvider) ProcessScaled(r generation.GeneratingRegion, _ float32) {
	surface := facets.NewSurfaceHeightFacet(r.Region(), r.Border(facets.SurfaceHeight))
	data := surface.InternalData()
	for i := range data {
		data[i] = float32(p.cfg.Height)
	}
	biomes := facets.NewBiomeFacet(r.Region(), r.Border(facets.Biomes))
	for i := range biomes.InternalData() {
		biomes.InternalData()[i] = facets.Plains
	}
	r.SetRegionFacet(facets.SurfaceHeight, surface)
	r.SetRegionFacet(facets.Biomes, biomes)
}

// FlatRasterizer generates a classic superflat world: bedrock at y=0,
// stone up to three below the surface, then dirt, then grass.
type FlatRasterizer struct {
	blockSource
}

func NewFlatRasterizer() *FlatRasterizer { return &FlatRasterizer{} }

func (r *FlatRasterizer) Name() string { return "flat" }

func (r *FlatRasterizer) Requires() []generation.FacetRequirement {
	return []generation.FacetRequirement{{Key: facets.SurfaceHeight}}
}

func (r *FlatRasterizer) Initialize() { r.resolve() }

func (r *FlatRasterizer) Generate(c *chunk.Chunk, region *generation.Region) {
	r.GenerateScaled(c, region, 1)
}

func (r *FlatRasterizer) GenerateScaled(c *chunk.Chunk, region *generation.Region, scale float32) {
	surface, ok := generation.FacetOf[facets.SurfaceHeightFacet](region, facets.SurfaceHeight)
	if !ok {
		return
	}
	p := r.pal
	off := c.WorldOffset()
	for z := range chunk.SizeZ {
		for x := range chunk.SizeX {
			h := int(surface.GetWorld(off.X+x, off.Z+z))
			for y := range chunk.SizeY {
				wy := int(float64(off.Y+y) * float64(scale))
				switch {
				case wy < 0 || wy > h:
				case wy == 0:
					c.SetBlock(x, y, z, p.bedrock)
				case wy == h:
					c.SetBlock(x, y, z, p.grass)
				case wy >= h-1:
					c.SetBlock(x, y, z, p.dirt)
				default:
					c.SetBlock(x, y, z, p.stone)
				}
			}
		}
	}
}
