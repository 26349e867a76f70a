package gen

import (
	"slices"

	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation/facets"
	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

const spawnSalt = 800

// Prefabs spawned by the built-in generators.
const (
	PrefabDeer   = "core:deer"
	PrefabRabbit = "core:rabbit"
)

// SpawnProvider picks creature spawn points on dry land.
type SpawnProvider struct {
	generation.BaseProvider
	seed int64
}

func NewSpawnProvider() *SpawnProvider { return &SpawnProvider{} }

func (p *SpawnProvider) Name() string { return "spawns" }

func (p *SpawnProvider) Spec() generation.ProviderSpec {
	return generation.ProviderSpec{
		Produces: []generation.FacetKey{facets.Spawns},
		Requires: []generation.FacetRequirement{
			{Key: facets.SurfaceHeight},
			{Key: facets.Biomes},
			{Key: facets.SeaLevel},
		},
	}
}

func (p *SpawnProvider) SetSeed(seed int64) { p.seed = seed }

func (p *SpawnProvider) Process(r generation.GeneratingRegion) {
	surface, _ := generation.RegionFacetOf[facets.SurfaceHeightFacet](r, facets.SurfaceHeight)
	biomes, _ := generation.RegionFacetOf[facets.BiomeFacet](r, facets.Biomes)
	sea := seaLevelOf(r)

	f := facets.NewSpawnFacet(r.Region(), r.Border(facets.Spawns))
	wr := f.WorldRegion()
	for z := wr.Min.Z; z <= wr.Max.Z; z++ {
		for x := wr.Min.X; x <= wr.Max.X; x++ {
			h := int(surface.GetWorld(x, z))
			if h <= sea || !columnChance(p.seed, x, z, spawnSalt, 2048) {
				continue
			}
			if prefab := prefabFor(biomes.GetWorld(x, z)); prefab != "" {
				f.SetWorld(geom.Vec3i{X: x, Y: h + 1, Z: z}, prefab)
			}
		}
	}
	r.SetRegionFacet(facets.Spawns, f)
}

func prefabFor(b facets.Biome) string {
	switch b {
	case facets.Plains, facets.Forest, facets.Savanna:
		return PrefabDeer
	case facets.Taiga, facets.SnowyTaiga, facets.Tundra:
		return PrefabRabbit
	}
	return ""
}

// SpawnEntityProvider enqueues a spawn request for every spawn point in the
// region.
type SpawnEntityProvider struct{}

func NewSpawnEntityProvider() *SpawnEntityProvider { return &SpawnEntityProvider{} }

func (SpawnEntityProvider) Process(region *generation.Region, buf generation.EntityBuffer) {
	spawns, ok := generation.FacetOf[facets.SpawnFacet](region, facets.Spawns)
	if !ok {
		return
	}
	target := region.Region()
	entries := spawns.WorldEntries()
	var positions []geom.Vec3i
	for pos := range entries {
		if target.Contains(pos) {
			positions = append(positions, pos)
		}
	}
	slices.SortFunc(positions, comparePos)
	for _, pos := range positions {
		buf.Enqueue(generation.NewEntityStore(entries[pos], pos))
	}
}
