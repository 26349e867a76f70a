package generation

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/OCharnyshevich/worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

// World is a built generator. It is immutable after Build apart from its
// listeners and is safe to share between generation goroutines; every call
// creates its own Region.
type World struct {
	log      *slog.Logger
	seed     int64
	seaLevel int

	chains              map[FacetKey][]FacetProvider
	scalableChains      map[FacetKey][]FacetProvider
	rasterizers         []WorldRasterizer
	scalableRasterizers []WorldRasterizer
	entityProviders     []EntityProvider
	borders             map[FacetKey]Border3D
	dataProviders       map[string]DataProvider
	configurator        *Configurator

	initOnce  sync.Once
	mu        sync.RWMutex
	listeners []FacetListener
}

// Initialize runs Initialize on every provider and rasterizer once.
func (w *World) Initialize() {
	w.initOnce.Do(func() {
		seen := map[FacetProvider]bool{}
		keys := w.AllFacets()
		for _, k := range keys {
			for _, p := range w.chains[k] {
				if !seen[p] {
					seen[p] = true
					p.Initialize()
				}
			}
			for _, p := range w.scalableChains[k] {
				if !seen[p] {
					seen[p] = true
					p.Initialize()
				}
			}
		}
		done := map[string]bool{}
		for _, r := range append(append([]WorldRasterizer(nil), w.rasterizers...), w.scalableRasterizers...) {
			if !done[r.Name()] {
				done[r.Name()] = true
				r.Initialize()
			}
		}
		w.log.Info("world generator initialized", "seed", w.seed, "facets", len(keys), "rasterizers", len(w.rasterizers))
	})
}

// Seed returns the world seed.
func (w *World) Seed() int64   { return w.seed }
// SeaLevel returns the builder sea level in blocks.
func (w *World) SeaLevel() int { return w.seaLevel }

// AddListener registers a listener notified for every computed facet of
// regions created afterwards.
func (w *World) AddListener(l FacetListener) {
	w.mu.Lock()
	w.listeners = append(w.listeners, l)
	w.mu.Unlock()
}

// Region returns a fresh region over r. A scale other than 1 uses the
// scalable provider chains.
func (w *World) Region(r geom.BlockRegion, scale float32) *Region {
	if scale <= 0 {
		scale = 1
	}
	chains := w.chains
	if scale != 1 {
		chains = w.scalableChains
	}
	w.mu.RLock()
	listeners := append([]FacetListener(nil), w.listeners...)
	w.mu.RUnlock()
	return newRegion(r, scale, chains, w.borders, listeners)
}

// RasterizeChunk runs the rasterizers over the chunk in order, then the
// entity providers, which enqueue spawn requests into buf.
func (w *World) RasterizeChunk(c *chunk.Chunk, buf EntityBuffer) {
	region := w.Region(c.Region(), 1)
	for _, r := range w.rasterizers {
		r.Generate(c, region)
	}
	if buf == nil {
		return
	}
	for _, e := range w.entityProviders {
		e.Process(region, buf)
	}
}

// RasterizeChunkScaled fills a reduced-resolution chunk: each chunk cell
// covers scale world blocks per axis. Entity providers do not run.
func (w *World) RasterizeChunkScaled(c *chunk.Chunk, scale float32) {
	region := w.Region(c.Region(), scale)
	for _, r := range w.scalableRasterizers {
		r.(ScalableRasterizer).GenerateScaled(c, region, scale)
	}
}

// AllFacets returns the keys of every facet with a provider chain.
func (w *World) AllFacets() []FacetKey {
	keys := make([]FacetKey, 0, len(w.chains))
	for k := range w.chains {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Border returns the border computed for a facet.
func (w *World) Border(key FacetKey) Border3D { return w.borders[key] }

// Chain returns the provider chain of a facet.
func (w *World) Chain(key FacetKey, scalable bool) []FacetProvider {
	if scalable {
		return w.scalableChains[key]
	}
	return w.chains[key]
}

// Rasterizers returns the ordered rasterizers.
func (w *World) Rasterizers() []WorldRasterizer {
	return append([]WorldRasterizer(nil), w.rasterizers...)
}

// DataProvider returns the outermost layer registered for a capability.
func (w *World) DataProvider(capability string) (DataProvider, bool) {
	d, ok := w.dataProviders[capability]
	return d, ok
}

// Configurator lists the configurable providers of the world.
func (w *World) Configurator() *Configurator { return w.configurator }
