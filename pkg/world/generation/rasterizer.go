package generation

import "github.com/OCharnyshevich/worldgen/pkg/world/chunk"

// WorldRasterizer writes blocks into a chunk from the facets of its region.
type WorldRasterizer interface {
	Name() string
	Requires() []FacetRequirement
	Initialize()
	Generate(c *chunk.Chunk, region *Region)
}

// ScalableRasterizer also rasterizes reduced-resolution chunks.
type ScalableRasterizer interface {
	WorldRasterizer
	GenerateScaled(c *chunk.Chunk, region *Region, scale float32)
}

// OrderedRasterizer names rasterizers that must run before it.
type OrderedRasterizer interface {
	RequiresRasterizers() []string
}

// EntityProvider turns facets into entity spawn requests.
type EntityProvider interface {
	Process(region *Region, buf EntityBuffer)
}
