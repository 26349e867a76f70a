package gen

import (
	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation/facets"
)

// SeaLevelConfig configures SeaLevelProvider.
type SeaLevelConfig struct {
	Level int `yaml:"level" json:"level"`
}

// SeaLevelProvider publishes the sea level as a facet.
type SeaLevelProvider struct {
	generation.BaseProvider
	cfg SeaLevelConfig
}

func NewSeaLevelProvider() *SeaLevelProvider {
	return &SeaLevelProvider{cfg: SeaLevelConfig{Level: generation.DefaultSeaLevel}}
}

func (p *SeaLevelProvider) Name() string { return "sea_level" }

func (p *SeaLevelProvider) Spec() generation.ProviderSpec {
	return generation.ProviderSpec{Produces: []generation.FacetKey{facets.SeaLevel}}
}

func (p *SeaLevelProvider) ConfigurationName() string { return "sea_level" }
func (p *SeaLevelProvider) Configuration() any        { return &p.cfg }

func (p *SeaLevelProvider) Process(r generation.GeneratingRegion) {
	r.SetRegionFacet(facets.SeaLevel, facets.NewSeaLevelFacet(r.Region(), r.Border(facets.SeaLevel), p.cfg.Level))
}

func (p *SeaLevelProvider) ProcessScaled(r generation.GeneratingRegion, _ float32) {
	p.Process(r)
}

func seaLevelOf(r generation.GeneratingRegion) int {
	if f, ok := generation.RegionFacetOf[*facets.SeaLevelFacet](r, facets.SeaLevel); ok {
		return f.Level
	}
	return generation.DefaultSeaLevel
}
