package block

// Names of the blocks used by the built-in generators.
const (
	Stone        = "core:stone"
	Grass        = "core:grass"
	Dirt         = "core:dirt"
	Bedrock      = "core:bedrock"
	Water        = "core:water"
	Lava         = "core:lava"
	Sand         = "core:sand"
	Sandstone    = "core:sandstone"
	Gravel       = "core:gravel"
	Snow         = "core:snow"
	OakLog       = "core:oak_log"
	SpruceLog    = "core:spruce_log"
	BirchLog     = "core:birch_log"
	OakLeaves    = "core:oak_leaves"
	SpruceLeaves = "core:spruce_leaves"
	BirchLeaves  = "core:birch_leaves"
	TallGrass    = "core:tallgrass"
	Flower       = "core:flower"
	Cactus       = "core:cactus"
	DeadBush     = "core:dead_bush"
	CoalOre      = "core:coal_ore"
	IronOre      = "core:iron_ore"
	GoldOre      = "core:gold_ore"
	DiamondOre   = "core:diamond_ore"
	RedstoneOre  = "core:redstone_ore"
	LapisOre     = "core:lapis_ore"
	Glowstone    = "core:glowstone"
)

var corePalette = []Block{
	{Name: Stone},
	{Name: Grass},
	{Name: Dirt},
	{Name: Bedrock},
	{Name: Water, Translucent: true, Liquid: true, Penetrable: true},
	{Name: Lava, Liquid: true, Penetrable: true, Luminance: 15},
	{Name: Sand},
	{Name: Sandstone},
	{Name: Gravel},
	{Name: Snow, Translucent: true, Penetrable: true},
	{Name: OakLog},
	{Name: SpruceLog},
	{Name: BirchLog},
	{Name: OakLeaves, Translucent: true},
	{Name: SpruceLeaves, Translucent: true},
	{Name: BirchLeaves, Translucent: true},
	{Name: TallGrass, Translucent: true, Penetrable: true},
	{Name: Flower, Translucent: true, Penetrable: true},
	{Name: Cactus, Translucent: true},
	{Name: DeadBush, Translucent: true, Penetrable: true},
	{Name: CoalOre},
	{Name: IronOre},
	{Name: GoldOre},
	{Name: DiamondOre},
	{Name: RedstoneOre, Luminance: 9},
	{Name: LapisOre},
	{Name: Glowstone, Luminance: 15},
}

// DefaultRegistry returns a registry holding air plus the core palette.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, b := range corePalette {
		if _, err := r.Register(b); err != nil {
			panic(err)
		}
	}
	return r
}
