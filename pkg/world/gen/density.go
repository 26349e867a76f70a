package gen

import (
	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation/facets"
)

// DensityProvider turns the surface height into a density volume: the
// distance below the surface, negative above it.
type DensityProvider struct {
	generation.BaseProvider
}

func NewDensityProvider() *DensityProvider { return &DensityProvider{} }

func (p *DensityProvider) Name() string { return "density" }

func (p *DensityProvider) Spec() generation.ProviderSpec {
	return generation.ProviderSpec{
		Produces: []generation.FacetKey{facets.Density},
		Requires: []generation.FacetRequirement{{Key: facets.SurfaceHeight}},
	}
}

func (p *DensityProvider) Process(r generation.GeneratingRegion) {
	p.ProcessScaled(r, 1)
}

func (p *DensityProvider) ProcessScaled(r generation.GeneratingRegion, scale float32) {
	surface, _ := generation.RegionFacetOf[facets.SurfaceHeightFacet](r, facets.SurfaceHeight)
	f := facets.NewDensityFacet(r.Region(), r.Border(facets.Density))
	wr := f.WorldRegion()
	for z := wr.Min.Z; z <= wr.Max.Z; z++ {
		for x := wr.Min.X; x <= wr.Max.X; x++ {
			h := surface.GetWorld(x, z)
			for y := wr.Min.Y; y <= wr.Max.Y; y++ {
				f.SetWorld(x, y, z, h-float32(y)*scale)
			}
		}
	}
	r.SetRegionFacet(facets.Density, f)
}

// CaveConfig tunes CaveUpdater.
type CaveConfig struct {
	// Threshold is the combined noise value above which rock is carved.
	Threshold float64 `yaml:"threshold" json:"threshold"`
	// MinY is the lowest carved world height.
	MinY int `yaml:"min_y" json:"min_y"`
	// Cover is the rock left uncarved below the surface.
	Cover int `yaml:"cover" json:"cover"`
}

// CaveUpdater carves caves into the density volume using 3D simplex noise.
type CaveUpdater struct {
	generation.BaseProvider
	cfg    CaveConfig
	noise1 *NoiseGenerator
	noise2 *NoiseGenerator
}

func NewCaveUpdater() *CaveUpdater {
	return &CaveUpdater{cfg: CaveConfig{Threshold: 0.55, MinY: 4, Cover: 4}}
}

func (p *CaveUpdater) Name() string { return "caves" }

func (p *CaveUpdater) Spec() generation.ProviderSpec {
	return generation.ProviderSpec{
		Updates:  []generation.FacetUpdate{{Key: facets.Density, Priority: generation.PriorityNormal}},
		Requires: []generation.FacetRequirement{{Key: facets.SurfaceHeight}},
	}
}

func (p *CaveUpdater) SetSeed(seed int64) {
	p.noise1 = NewNoiseGenerator(seed + 300)
	p.noise2 = NewNoiseGenerator(seed + 400)
}

func (p *CaveUpdater) ConfigurationName() string { return "caves" }
func (p *CaveUpdater) Configuration() any        { return &p.cfg }

func (p *CaveUpdater) Process(r generation.GeneratingRegion) {
	p.ProcessScaled(r, 1)
}

func (p *CaveUpdater) ProcessScaled(r generation.GeneratingRegion, scale float32) {
	density, ok := generation.RegionFacetOf[facets.DensityFacet](r, facets.Density)
	if !ok {
		return
	}
	surface, _ := generation.RegionFacetOf[facets.SurfaceHeightFacet](r, facets.SurfaceHeight)
	wr := density.WorldRegion()
	s := float64(scale)
	for z := wr.Min.Z; z <= wr.Max.Z; z++ {
		for x := wr.Min.X; x <= wr.Max.X; x++ {
			top := float64(surface.GetWorld(x, z)) - float64(p.cfg.Cover)
			for y := wr.Min.Y; y <= wr.Max.Y; y++ {
				wy := float64(y) * s
				if wy < float64(p.cfg.MinY) || wy >= top {
					continue
				}
				if p.Carved(float64(x)*s, wy, float64(z)*s) {
					density.SetWorld(x, y, z, -1)
				}
			}
		}
	}
}

// Carved reports whether the world position is inside a cave.
func (p *CaveUpdater) Carved(wx, wy, wz float64) bool {
	n1 := p.noise1.Noise3D(wx/32.0, wy/24.0, wz/32.0)
	n2 := p.noise2.Noise3D(wx/48.0, wy/32.0, wz/48.0)
	return (n1+n2)/2.0 > p.cfg.Threshold
}
