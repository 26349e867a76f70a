package facets

// Biome identifies a biome.
type Biome uint8

const (
	Ocean Biome = iota
	Beach
	Plains
	Forest
	DarkForest
	Taiga
	SnowyTaiga
	Tundra
	Savanna
	Desert
	Jungle
	Mountains
)

var biomeNames = [...]string{
	Ocean:      "ocean",
	Beach:      "beach",
	Plains:     "plains",
	Forest:     "forest",
	DarkForest: "dark_forest",
	Taiga:      "taiga",
	SnowyTaiga: "snowy_taiga",
	Tundra:     "tundra",
	Savanna:    "savanna",
	Desert:     "desert",
	Jungle:     "jungle",
	Mountains:  "mountains",
}

func (b Biome) String() string {
	if int(b) < len(biomeNames) {
		return biomeNames[b]
	}
	return "unknown"
}

// Cold reports whether snow settles in the biome.
func (b Biome) Cold() bool {
	return b == Tundra || b == SnowyTaiga
}
