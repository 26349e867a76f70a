package gen

import "github.com/OCharnyshevich/worldgen/pkg/world/block"

// palette holds the block IDs rasterizers write, resolved from a registry.
type palette struct {
	stone, grass, dirt, bedrock      block.ID
	water, lava                      block.ID
	sand, sandstone, gravel, snow    block.ID
	oakLog, spruceLog, birchLog      block.ID
	oakLeaves, spruceLeaves          block.ID
	birchLeaves                      block.ID
	tallGrass, flower, cactus, shrub block.ID
	ores                             map[string]block.ID
}

func newPalette(reg *block.Registry) *palette {
	p := &palette{
		stone:        reg.MustID(block.Stone),
		grass:        reg.MustID(block.Grass),
		dirt:         reg.MustID(block.Dirt),
		bedrock:      reg.MustID(block.Bedrock),
		water:        reg.MustID(block.Water),
		lava:         reg.MustID(block.Lava),
		sand:         reg.MustID(block.Sand),
		sandstone:    reg.MustID(block.Sandstone),
		gravel:       reg.MustID(block.Gravel),
		snow:         reg.MustID(block.Snow),
		oakLog:       reg.MustID(block.OakLog),
		spruceLog:    reg.MustID(block.SpruceLog),
		birchLog:     reg.MustID(block.BirchLog),
		oakLeaves:    reg.MustID(block.OakLeaves),
		spruceLeaves: reg.MustID(block.SpruceLeaves),
		birchLeaves:  reg.MustID(block.BirchLeaves),
		tallGrass:    reg.MustID(block.TallGrass),
		flower:       reg.MustID(block.Flower),
		cactus:       reg.MustID(block.Cactus),
		shrub:        reg.MustID(block.DeadBush),
		ores:         map[string]block.ID{},
	}
	for _, o := range oreTable {
		p.ores[o.block] = reg.MustID(o.block)
	}
	return p
}

// blockSource is embedded by rasterizers that resolve their blocks from a
// registry. The core registry is used unless SetRegistry is called before
// Initialize.
type blockSource struct {
	reg *block.Registry
	pal *palette
}

func (s *blockSource) SetRegistry(reg *block.Registry) { s.reg = reg }

func (s *blockSource) resolve() {
	if s.reg == nil {
		s.reg = block.DefaultRegistry()
	}
	s.pal = newPalette(s.reg)
}
