package gen

import (
	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation/facets"
)

// BiomeProvider selects the biome of each column from elevation and climate.
type BiomeProvider struct {
	generation.BaseProvider
}

func NewBiomeProvider() *BiomeProvider { return &BiomeProvider{} }

func (p *BiomeProvider) Name() string { return "biome" }

func (p *BiomeProvider) Spec() generation.ProviderSpec {
	return generation.ProviderSpec{
		Produces: []generation.FacetKey{facets.Biomes},
		Requires: []generation.FacetRequirement{
			{Key: facets.Elevation},
			{Key: facets.Temperature},
			{Key: facets.Humidity},
			{Key: facets.SeaLevel},
		},
	}
}

func (p *BiomeProvider) Process(r generation.GeneratingRegion) {
	p.ProcessScaled(r, 1)
}

func (p *BiomeProvider) ProcessScaled(r generation.GeneratingRegion, _ float32) {
	elev, _ := generation.RegionFacetOf[facets.ElevationFacet](r, facets.Elevation)
	temp, _ := generation.RegionFacetOf[facets.TemperatureFacet](r, facets.Temperature)
	rain, _ := generation.RegionFacetOf[facets.HumidityFacet](r, facets.Humidity)
	sea := seaLevelOf(r)

	f := facets.NewBiomeFacet(r.Region(), r.Border(facets.Biomes))
	area := f.WorldArea()
	for z := area.Min.Y; z <= area.Max.Y; z++ {
		for x := area.Min.X; x <= area.Max.X; x++ {
			f.SetWorld(x, z, biomeAt(
				float64(elev.GetWorld(x, z)),
				float64(temp.GetWorld(x, z)),
				float64(rain.GetWorld(x, z)),
				sea,
			))
		}
	}
	r.SetRegionFacet(facets.Biomes, f)
}

// biomeAt classifies a column. Low terrain becomes ocean or beach and high
// terrain mountains; the rest follows the climate table.
func biomeAt(elevation, temp, rain float64, seaLevel int) facets.Biome {
	base := float64(seaLevel) + elevation*16.0
	switch {
	case base < float64(seaLevel)-8:
		return facets.Ocean
	case base < float64(seaLevel)-2:
		return facets.Beach
	case elevation > 0.6:
		return facets.Mountains
	}
	return selectBiome(temp, rain)
}

// selectBiome maps temperature and rainfall to a biome.
//
//	Temp\Rain     | Dry (<0.3)    | Medium (0.3-0.6) | Wet (>0.6)
//	Cold <0.3     | Tundra        | Snowy Taiga      | Taiga
//	Mild 0.3-0.7  | Plains        | Forest           | Dark Forest
//	Warm 0.7-1.2  | Savanna       | Plains           | Jungle
//	Hot >1.2      | Desert        | Desert           | Jungle
func selectBiome(temp, rain float64) facets.Biome {
	switch {
	case temp < 0.3:
		switch {
		case rain < 0.3:
			return facets.Tundra
		case rain < 0.6:
			return facets.SnowyTaiga
		default:
			return facets.Taiga
		}
	case temp < 0.7:
		switch {
		case rain < 0.3:
			return facets.Plains
		case rain < 0.6:
			return facets.Forest
		default:
			return facets.DarkForest
		}
	case temp < 1.2:
		switch {
		case rain < 0.3:
			return facets.Savanna
		case rain < 0.6:
			return facets.Plains
		default:
			return facets.Jungle
		}
	default:
		if rain > 0.6 {
			return facets.Jungle
		}
		return facets.Desert
	}
}
