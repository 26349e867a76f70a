package gen

import (
	"cmp"
	"slices"

	"github.com/OCharnyshevich/worldgen/pkg/world/block"
	"github.com/OCharnyshevich/worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation/facets"
	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

const (
	treeSalt       = 600
	vegetationSalt = 700

	// treeReach is how far leaves extend from a trunk horizontally.
	treeReach = 3
	// treeHeight bounds the height of a tree above its base.
	treeHeight = 11
)

// TreeProvider places trees on grass and sand columns above sea level. A
// column's tree depends only on the seed and column, so neighbouring regions
// agree on every tree.
type TreeProvider struct {
	generation.BaseProvider
	seed int64
}

func NewTreeProvider() *TreeProvider { return &TreeProvider{} }

func (p *TreeProvider) Name() string { return "trees" }

func (p *TreeProvider) Spec() generation.ProviderSpec {
	return generation.ProviderSpec{
		Produces: []generation.FacetKey{facets.Trees},
		Requires: []generation.FacetRequirement{
			{Key: facets.SurfaceHeight},
			{Key: facets.Biomes},
			{Key: facets.SeaLevel},
		},
	}
}

func (p *TreeProvider) SetSeed(seed int64) { p.seed = seed }

func (p *TreeProvider) Process(r generation.GeneratingRegion) {
	surface, _ := generation.RegionFacetOf[facets.SurfaceHeightFacet](r, facets.SurfaceHeight)
	biomes, _ := generation.RegionFacetOf[facets.BiomeFacet](r, facets.Biomes)
	sea := seaLevelOf(r)

	f := facets.NewTreeFacet(r.Region(), r.Border(facets.Trees))
	wr := f.WorldRegion()
	for z := wr.Min.Z; z <= wr.Max.Z; z++ {
		for x := wr.Min.X; x <= wr.Max.X; x++ {
			h := int(surface.GetWorld(x, z))
			if h <= sea {
				continue
			}
			if kind, ok := p.treeAt(x, z, biomes.GetWorld(x, z)); ok {
				f.SetWorld(geom.Vec3i{X: x, Y: h + 1, Z: z}, kind)
			}
		}
	}
	r.SetRegionFacet(facets.Trees, f)
}

func (p *TreeProvider) treeAt(x, z int, biome facets.Biome) (facets.TreeKind, bool) {
	h := columnHash(p.seed, x, z, treeSalt)
	if biome == facets.Desert {
		return facets.TreeCactus, h%96 == 0
	}
	// Densities are per 256 columns.
	if int(h%256) >= treesForBiome(biome) {
		return 0, false
	}
	switch biome {
	case facets.Taiga, facets.SnowyTaiga, facets.Tundra:
		return facets.TreeSpruce, true
	case facets.Forest, facets.DarkForest:
		if (h>>8)%3 == 0 {
			return facets.TreeBirch, true
		}
	}
	return facets.TreeOak, true
}

func treesForBiome(biome facets.Biome) int {
	switch biome {
	case facets.Desert, facets.Ocean, facets.Beach:
		return 0
	case facets.Plains, facets.Savanna:
		return 1
	case facets.Tundra, facets.SnowyTaiga:
		return 4
	case facets.Taiga:
		return 6
	case facets.Forest:
		return 8
	case facets.DarkForest:
		return 10
	case facets.Jungle:
		return 12
	default:
		return 2
	}
}

// FloraRasterizer draws trees from the tree facet, including the parts of
// trees rooted in neighbouring chunks, then scatters grass, flowers and dead
// bushes. It runs after the solid rasterizer.
type FloraRasterizer struct {
	blockSource
	seed int64
}

func NewFloraRasterizer() *FloraRasterizer { return &FloraRasterizer{} }

func (r *FloraRasterizer) Name() string { return "flora" }

func (r *FloraRasterizer) Requires() []generation.FacetRequirement {
	return []generation.FacetRequirement{
		{Key: facets.Trees, Border: generation.NewBorder3D(0, treeHeight, treeReach)},
		{Key: facets.SurfaceHeight},
		{Key: facets.Biomes},
		{Key: facets.SeaLevel},
	}
}

func (r *FloraRasterizer) RequiresRasterizers() []string { return []string{"solid"} }

func (r *FloraRasterizer) SetSeed(seed int64) { r.seed = seed }

func (r *FloraRasterizer) Initialize() { r.resolve() }

func (r *FloraRasterizer) Generate(c *chunk.Chunk, region *generation.Region) {
	if trees, ok := generation.FacetOf[facets.TreeFacet](region, facets.Trees); ok {
		entries := trees.WorldEntries()
		positions := make([]geom.Vec3i, 0, len(entries))
		for pos := range entries {
			positions = append(positions, pos)
		}
		// Overlapping canopies resolve the same way in every chunk.
		slices.SortFunc(positions, comparePos)
		for _, pos := range positions {
			r.placeTree(c, pos, entries[pos])
		}
	}
	r.placeVegetation(c, region)
}

// treeWriter clips writes to one chunk. Logs replace anything penetrable;
// leaves only fill air.
type treeWriter struct {
	c   *chunk.Chunk
	off geom.Vec3i
	reg *block.Registry
}

func (w treeWriter) set(wx, wy, wz int, id block.ID, leaves bool) {
	x, y, z := wx-w.off.X, wy-w.off.Y, wz-w.off.Z
	if !w.c.Contains(x, y, z) {
		return
	}
	cur := w.c.Block(x, y, z)
	if leaves {
		if cur != block.Air {
			return
		}
	} else if cur != block.Air {
		if b, ok := w.reg.ByID(cur); !ok || !b.Penetrable {
			return
		}
	}
	w.c.SetBlock(x, y, z, id)
}

func (r *FloraRasterizer) placeTree(c *chunk.Chunk, base geom.Vec3i, kind facets.TreeKind) {
	w := treeWriter{c: c, off: c.WorldOffset(), reg: r.reg}
	rng := newChunkRNG(r.seed, base.X, base.Y, base.Z, treeSalt)
	switch kind {
	case facets.TreeSpruce:
		r.placeSpruce(w, base, rng)
	case facets.TreeBirch:
		r.placeRound(w, base, 5+rng.nextN(2), r.pal.birchLog, r.pal.birchLeaves, rng)
	case facets.TreeCactus:
		h := 1 + rng.nextN(3)
		for dy := range h {
			w.set(base.X, base.Y+dy, base.Z, r.pal.cactus, false)
		}
	default:
		r.placeRound(w, base, 4+rng.nextN(3), r.pal.oakLog, r.pal.oakLeaves, rng)
	}
}

// placeRound places a trunk with a rounded leaf canopy.
func (r *FloraRasterizer) placeRound(w treeWriter, base geom.Vec3i, trunkHeight int, log, leaves block.ID, rng *chunkRNG) {
	for dy := range trunkHeight {
		w.set(base.X, base.Y+dy, base.Z, log, false)
	}

	leafBase := base.Y + trunkHeight - 2
	for dy := range 4 {
		y := leafBase + dy
		radius := 2
		if dy >= 2 {
			radius = 1
		}
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				// Skip corners for round shape on wider layers.
				corner := radius == 2 && abs(dx) == 2 && abs(dz) == 2
				if corner && rng.nextN(2) == 0 {
					continue
				}
				w.set(base.X+dx, y, base.Z+dz, leaves, true)
			}
		}
	}
}

// placeSpruce places a conical spruce.
func (r *FloraRasterizer) placeSpruce(w treeWriter, base geom.Vec3i, rng *chunkRNG) {
	trunkHeight := 6 + rng.nextN(4)
	for dy := range trunkHeight {
		w.set(base.X, base.Y+dy, base.Z, r.pal.spruceLog, false)
	}

	for dy := 1; dy <= trunkHeight; dy++ {
		y := base.Y + dy
		radius := min((trunkHeight-dy)/2, treeReach)
		if radius <= 0 && dy < trunkHeight {
			continue
		}
		// Only every other row for the wider sections.
		if radius >= 2 && dy%2 == 0 {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				if dx == 0 && dz == 0 {
					continue
				}
				w.set(base.X+dx, y, base.Z+dz, r.pal.spruceLeaves, true)
			}
		}
	}
	w.set(base.X, base.Y+trunkHeight, base.Z, r.pal.spruceLeaves, true)
}

// placeVegetation scatters plants on top of the surface block of columns in
// the chunk.
func (r *FloraRasterizer) placeVegetation(c *chunk.Chunk, region *generation.Region) {
	surface, ok := generation.FacetOf[facets.SurfaceHeightFacet](region, facets.SurfaceHeight)
	if !ok {
		return
	}
	biomes, _ := generation.FacetOf[facets.BiomeFacet](region, facets.Biomes)
	sea := generation.DefaultSeaLevel
	if f, ok := generation.FacetOf[*facets.SeaLevelFacet](region, facets.SeaLevel); ok {
		sea = f.Level
	}

	off := c.WorldOffset()
	for z := range chunk.SizeZ {
		for x := range chunk.SizeX {
			wx, wz := off.X+x, off.Z+z
			h := int(surface.GetWorld(wx, wz))
			y := h + 1 - off.Y
			if h <= sea || y < 0 || y >= chunk.SizeY || c.Block(x, y, z) != block.Air {
				continue
			}
			biome := biomes.GetWorld(wx, wz)
			if id, ok := r.plantFor(biome, r.pal.surfaceBlock(biome, 0, h, sea), columnHash(r.seed, wx, wz, vegetationSalt)); ok {
				c.SetBlock(x, y, z, id)
			}
		}
	}
}

// plantFor picks the plant for a column from its hash. About one column in
// thirteen gets a plant on grass.
func (r *FloraRasterizer) plantFor(biome facets.Biome, top block.ID, h uint64) (block.ID, bool) {
	p := r.pal
	switch biome {
	case facets.Desert:
		if top == p.sand && h%64 == 0 {
			return p.shrub, true
		}
	case facets.Plains, facets.Forest, facets.DarkForest, facets.Savanna, facets.Jungle:
		if top != p.grass {
			return 0, false
		}
		switch {
		case h%13 == 0:
			return p.tallGrass, true
		case h%61 == 0:
			return p.flower, true
		}
	case facets.Taiga, facets.SnowyTaiga, facets.Tundra:
		if top == p.grass && h%40 == 0 {
			return p.tallGrass, true
		}
	}
	return 0, false
}

func comparePos(a, b geom.Vec3i) int {
	return cmp.Or(cmp.Compare(a.Z, b.Z), cmp.Compare(a.Y, b.Y), cmp.Compare(a.X, b.X))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
