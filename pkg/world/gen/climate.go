package gen

import (
	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation/facets"
)

// ClimateProvider produces surface temperature and humidity in one pass.
type ClimateProvider struct {
	generation.BaseProvider
	temp *OpenSimplex
	rain *OpenSimplex
}

func NewClimateProvider() *ClimateProvider { return &ClimateProvider{} }

func (p *ClimateProvider) Name() string { return "climate" }

func (p *ClimateProvider) Spec() generation.ProviderSpec {
	return generation.ProviderSpec{Produces: []generation.FacetKey{facets.Temperature, facets.Humidity}}
}

func (p *ClimateProvider) SetSeed(seed int64) {
	p.temp = NewOpenSimplex(seed + 100)
	p.rain = NewOpenSimplex(seed + 200)
}

func (p *ClimateProvider) Process(r generation.GeneratingRegion) {
	p.ProcessScaled(r, 1)
}

func (p *ClimateProvider) ProcessScaled(r generation.GeneratingRegion, scale float32) {
	temp := facets.NewTemperatureFacet(r.Region(), r.Border(facets.Temperature))
	rain := facets.NewHumidityFacet(r.Region(), r.Border(facets.Humidity))

	fillField(temp.Field2D, scale, p.Temperature)
	fillField(rain.Field2D, scale, p.Humidity)
	r.SetRegionFacet(facets.Temperature, temp)
	r.SetRegionFacet(facets.Humidity, rain)
}

// Temperature is centered around 0.75.
func (p *ClimateProvider) Temperature(wx, wz float64) float64 {
	return p.temp.OctaveNoise2D(wx/512.0, wz/512.0, 4, 0.5)*0.8 + 0.75
}

// Humidity is in [0, 1].
func (p *ClimateProvider) Humidity(wx, wz float64) float64 {
	return p.rain.OctaveNoise2D(wx/512.0+100, wz/512.0+100, 4, 0.5)*0.5 + 0.5
}
