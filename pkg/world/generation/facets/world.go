package facets

import (
	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

// Keys of the built-in facets.
const (
	SeaLevel      generation.FacetKey = "sea_level"
	Elevation     generation.FacetKey = "elevation"
	SurfaceHeight generation.FacetKey = "surface_height"
	Temperature   generation.FacetKey = "surface_temperature"
	Humidity      generation.FacetKey = "surface_humidity"
	Biomes        generation.FacetKey = "biome"
	Density       generation.FacetKey = "density"
	Trees         generation.FacetKey = "trees"
	Spawns        generation.FacetKey = "spawns"
)

// SeaLevelFacet carries the world sea level.
type SeaLevelFacet struct {
	Base
	Level int
}

func NewSeaLevelFacet(target geom.BlockRegion, border generation.Border3D, level int) *SeaLevelFacet {
	return &SeaLevelFacet{Base: NewBase(target, border), Level: level}
}

// ElevationFacet is the base terrain elevation before biome shaping.
type ElevationFacet struct{ *Field2D }

// SurfaceHeightFacet is the height of the topmost solid block per column.
type SurfaceHeightFacet struct{ *Field2D }

// TemperatureFacet holds temperature in roughly [0, 2].
type TemperatureFacet struct{ *Field2D }

// HumidityFacet holds humidity in [0, 1].
type HumidityFacet struct{ *Field2D }

// BiomeFacet holds the biome of each column.
type BiomeFacet struct{ *Grid2D[Biome] }

// DensityFacet is positive inside solid terrain and negative in air.
type DensityFacet struct{ *Field3D }

// TreeFacet places trees by the world position of the trunk base.
type TreeFacet struct{ *Sparse3D[TreeKind] }

// SpawnFacet places entity prefabs by world position.
type SpawnFacet struct{ *Sparse3D[string] }

func NewElevationFacet(r geom.BlockRegion, b generation.Border3D) ElevationFacet {
	return ElevationFacet{NewField2D(r, b)}
}

func NewSurfaceHeightFacet(r geom.BlockRegion, b generation.Border3D) SurfaceHeightFacet {
	return SurfaceHeightFacet{NewField2D(r, b)}
}

func NewTemperatureFacet(r geom.BlockRegion, b generation.Border3D) TemperatureFacet {
	return TemperatureFacet{NewField2D(r, b)}
}

func NewHumidityFacet(r geom.BlockRegion, b generation.Border3D) HumidityFacet {
	return HumidityFacet{NewField2D(r, b)}
}

func NewBiomeFacet(r geom.BlockRegion, b generation.Border3D) BiomeFacet {
	return BiomeFacet{NewGrid2D[Biome](r, b)}
}

func NewDensityFacet(r geom.BlockRegion, b generation.Border3D) DensityFacet {
	return DensityFacet{NewField3D(r, b)}
}

func NewTreeFacet(r geom.BlockRegion, b generation.Border3D) TreeFacet {
	return TreeFacet{NewSparse3D[TreeKind](r, b)}
}

func NewSpawnFacet(r geom.BlockRegion, b generation.Border3D) SpawnFacet {
	return SpawnFacet{NewSparse3D[string](r, b)}
}

// TreeKind selects a tree shape.
type TreeKind uint8

const (
	TreeOak TreeKind = iota
	TreeBirch
	TreeSpruce
	TreeCactus
)
