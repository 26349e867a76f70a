package generation

import "github.com/OCharnyshevich/worldgen/pkg/world/geom"

// GeneratingRegion is the view of a region handed to providers while they
// run. Providers read required facets and store produced facets through it.
type GeneratingRegion interface {
	Region() geom.BlockRegion
	Scale() float32
	Border(key FacetKey) Border3D
	RegionFacet(key FacetKey) Facet
	SetRegionFacet(key FacetKey, f Facet)
}

// FacetListener is notified when a region finishes computing a facet. It runs
// on the generating goroutine and must not block.
type FacetListener interface {
	Notify(region geom.BlockRegion, key FacetKey, f Facet)
}

// Region computes facets on demand for one generation request. Each provider
// runs at most once per Region. A Region belongs to a single goroutine.
type Region struct {
	region    geom.BlockRegion
	scale     float32
	chains    map[FacetKey][]FacetProvider
	borders   map[FacetKey]Border3D
	listeners []FacetListener

	generating map[FacetKey]Facet
	generated  map[FacetKey]Facet
	processed  map[FacetProvider]bool
}

func newRegion(r geom.BlockRegion, scale float32, chains map[FacetKey][]FacetProvider, borders map[FacetKey]Border3D, listeners []FacetListener) *Region {
	return &Region{
		region:     r,
		scale:      scale,
		chains:     chains,
		borders:    borders,
		listeners:  listeners,
		generating: map[FacetKey]Facet{},
		generated:  map[FacetKey]Facet{},
		processed:  map[FacetProvider]bool{},
	}
}

// Facet returns the fully computed facet, running the providers of its chain
// that have not yet run in this region. It returns nil when no provider
// produces the facet.
func (r *Region) Facet(key FacetKey) Facet {
	if f, ok := r.generated[key]; ok {
		return f
	}
	for _, p := range r.chains[key] {
		if r.processed[p] {
			continue
		}
		if r.scale == 1 {
			p.Process(r)
		} else {
			p.(ScalableFacetProvider).ProcessScaled(r, r.scale)
		}
		r.processed[p] = true
	}
	f := r.generating[key]
	r.generated[key] = f
	if f != nil {
		for _, l := range r.listeners {
			l.Notify(r.region, key, f)
		}
	}
	return f
}

// FacetOf returns the facet stored under key as a T.
func FacetOf[T Facet](r *Region, key FacetKey) (T, bool) {
	f, ok := r.Facet(key).(T)
	return f, ok
}

// RegionFacetOf is FacetOf for providers reading a GeneratingRegion.
func RegionFacetOf[T Facet](r GeneratingRegion, key FacetKey) (T, bool) {
	f, ok := r.RegionFacet(key).(T)
	return f, ok
}

// Region returns the block region being generated.
func (r *Region) Region() geom.BlockRegion { return r.region }
func (r *Region) Scale() float32           { return r.scale }

// Border returns the border computed for key, zero if none.
func (r *Region) Border(key FacetKey) Border3D { return r.borders[key] }

// RegionFacet returns a facet already set in this region, without running
// providers.
func (r *Region) RegionFacet(key FacetKey) Facet { return r.generating[key] }

// SetRegionFacet stores the facet a provider produced.
func (r *Region) SetRegionFacet(key FacetKey, f Facet) { r.generating[key] = f }
