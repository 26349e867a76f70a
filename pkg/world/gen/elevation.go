package gen

import (
	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation/facets"
)

// ElevationConfig shapes the base terrain noise.
type ElevationConfig struct {
	// Wavelength is the horizontal distance in blocks of the lowest octave.
	Wavelength  float64 `yaml:"wavelength" json:"wavelength"`
	Octaves     int     `yaml:"octaves" json:"octaves"`
	Persistence float64 `yaml:"persistence" json:"persistence"`
}

// ElevationProvider produces normalized terrain elevation in [-1, 1].
type ElevationProvider struct {
	generation.BaseProvider
	cfg   ElevationConfig
	noise *NoiseGenerator
}

func NewElevationProvider() *ElevationProvider {
	return &ElevationProvider{cfg: ElevationConfig{Wavelength: 128, Octaves: 6, Persistence: 0.5}}
}

func (p *ElevationProvider) Name() string { return "elevation" }

func (p *ElevationProvider) Spec() generation.ProviderSpec {
	return generation.ProviderSpec{Produces: []generation.FacetKey{facets.Elevation}}
}

func (p *ElevationProvider) SetSeed(seed int64) { p.noise = NewNoiseGenerator(seed) }

func (p *ElevationProvider) ConfigurationName() string { return "elevation" }
func (p *ElevationProvider) Configuration() any        { return &p.cfg }

func (p *ElevationProvider) Process(r generation.GeneratingRegion) {
	p.ProcessScaled(r, 1)
}

func (p *ElevationProvider) ProcessScaled(r generation.GeneratingRegion, scale float32) {
	f := facets.NewElevationFacet(r.Region(), r.Border(facets.Elevation))
	fillField(f.Field2D, scale, p.Sample)
	r.SetRegionFacet(facets.Elevation, f)
}

// Sample returns the elevation at a world column.
func (p *ElevationProvider) Sample(wx, wz float64) float64 {
	return p.noise.OctaveNoise2D(wx/p.cfg.Wavelength, wz/p.cfg.Wavelength, p.cfg.Octaves, p.cfg.Persistence)
}

// fillField sets every cell of f from a sampler of world coordinates.
func fillField(f *facets.Field2D, scale float32, sample func(wx, wz float64) float64) {
	area := f.WorldArea()
	s := float64(scale)
	for z := area.Min.Y; z <= area.Max.Y; z++ {
		for x := area.Min.X; x <= area.Max.X; x++ {
			f.SetWorld(x, z, float32(sample(float64(x)*s, float64(z)*s)))
		}
	}
}
